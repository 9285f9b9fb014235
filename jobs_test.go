package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usersadmin/console/internal/usertable"
)

func TestHookJob_NoCommand(t *testing.T) {
	_, ok := hookJob(hookConfig{}, "archive", usertable.User{ID: "1"})
	assert.False(t, ok)
}

func TestHookJob_ExposesUser(t *testing.T) {
	hooks := hookConfig{Archive: "  notify archived  "}
	u := usertable.User{
		ID:       "1",
		Name:     "Ann",
		Email:    "a@x.com",
		Archived: true,
		Roles:    []usertable.Role{{Name: "admin"}, {Name: "editor"}},
	}

	req, ok := hookJob(hooks, "archive", u)
	require.True(t, ok)
	assert.Equal(t, "notify archived", req.command)
	assert.Equal(t, "archive hook", req.title)
	assert.Contains(t, req.env, "USER_ACTION=archive")
	assert.Contains(t, req.env, "USER_ID=1")
	assert.Contains(t, req.env, "USER_EMAIL=a@x.com")
	assert.Contains(t, req.env, "USER_ROLES=admin,editor")
	assert.Contains(t, req.env, "USER_STATUS=Archivé")
}

func TestJobManager_QueuesWhileRunning(t *testing.T) {
	jm := newJobManager()
	jm.running = true

	assert.Nil(t, jm.Enqueue(jobRequest{title: "first", command: "true"}))
	assert.Nil(t, jm.Enqueue(jobRequest{title: "second", command: "true"}))
	assert.Equal(t, 3, jm.Pending())
	require.Len(t, jm.queue, 2)
	assert.Equal(t, "first", jm.queue[0].title)
}

func TestJobManager_FinishCallsCallback(t *testing.T) {
	var got []error
	jm := newJobManager()
	jm.running = true
	jm.current = &jobRequest{title: "edit hook", onFinish: func(err error) { got = append(got, err) }}

	ch := make(chan jobMsg)
	assert.NotNil(t, jm.Handle(jobFinishedMsg{Title: "edit hook"}, ch))
	assert.Equal(t, []error{nil}, got)

	assert.Nil(t, jm.Handle(jobChannelClosedMsg{}, ch))
	assert.Equal(t, 0, jm.Pending())
	assert.Nil(t, jm.current)
}
