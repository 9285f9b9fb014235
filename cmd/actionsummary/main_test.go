package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `{"session_id":"s1","actor":"ops","timestamp":"2026-01-02T10:00:00Z","event":"session_started"}
{"session_id":"s1","actor":"ops","timestamp":"2026-01-02T10:01:00Z","event":"user_archived","target_id":"1","target_email":"a@x.com","target_status":"Archivé"}
not json
{"session_id":"s2","actor":"dev","timestamp":"2026-01-03T09:00:00Z","event":"user_unarchived","target_id":"1","target_email":"a@x.com","target_status":"Actif"}
{"session_id":"s2","actor":"dev","timestamp":"2026-01-03T09:05:00Z","event":"user_updated","target_id":"2"}
`

func TestSummarize(t *testing.T) {
	report, err := summarize(strings.NewReader(sampleLog), "")
	require.NoError(t, err)

	assert.Equal(t, 5, report.Lines)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, report.Sessions)
	assert.Equal(t, map[string]int{"session_started": 1, "user_archived": 1, "user_unarchived": 1, "user_updated": 1}, report.Events)
	assert.Equal(t, map[string]int{"ops": 2, "dev": 2}, report.Actors)
	require.NotNil(t, report.First)
	require.NotNil(t, report.Last)
	assert.Equal(t, "2026-01-02T10:00:00Z", report.First.Format("2006-01-02T15:04:05Z07:00"))
	assert.Equal(t, "2026-01-03T09:05:00Z", report.Last.Format("2006-01-02T15:04:05Z07:00"))

	require.Len(t, report.Targets, 2)
	assert.Equal(t, "1", report.Targets[0].TargetID)
	assert.Equal(t, "a@x.com", report.Targets[0].Email)
	assert.Equal(t, "Actif", report.Targets[0].Status)
	assert.Equal(t, map[string]int{"user_archived": 1, "user_unarchived": 1}, report.Targets[0].Events)
}

func TestSummarize_EventFilter(t *testing.T) {
	report, err := summarize(strings.NewReader(sampleLog), "user_archived")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"user_archived": 1}, report.Events)
	require.Len(t, report.Targets, 1)
}

func TestSummarize_EmptyLogOmitsTimestamps(t *testing.T) {
	report, err := summarize(strings.NewReader("\n"), "")
	require.NoError(t, err)
	assert.Nil(t, report.First)
	assert.Nil(t, report.Last)

	encoded, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), `"first"`)
	assert.NotContains(t, string(encoded), `"last"`)
	assert.NotContains(t, string(encoded), "0001-01-01")
}
