package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

type actionEvent struct {
	SessionID    string    `json:"session_id"`
	Actor        string    `json:"actor"`
	Timestamp    time.Time `json:"timestamp"`
	Event        string    `json:"event"`
	TargetID     string    `json:"target_id"`
	TargetEmail  string    `json:"target_email"`
	TargetStatus string    `json:"target_status"`
}

type targetSummary struct {
	TargetID string         `json:"target_id"`
	Email    string         `json:"email,omitempty"`
	Status   string         `json:"status,omitempty"`
	Events   map[string]int `json:"events"`
	Last     time.Time      `json:"last"`
}

type actionReport struct {
	Source   string          `json:"source"`
	Lines    int             `json:"lines"`
	Skipped  int             `json:"skipped"`
	Sessions int             `json:"sessions"`
	First    *time.Time      `json:"first,omitempty"`
	Last     *time.Time      `json:"last,omitempty"`
	Events   map[string]int  `json:"events"`
	Actors   map[string]int  `json:"actors"`
	Targets  []targetSummary `json:"targets"`
}

func main() {
	var inputPath string
	var outputPath string
	var eventFilter string
	flag.StringVar(&inputPath, "in", "", "action log (JSON lines) written by the console (required)")
	flag.StringVar(&outputPath, "out", "", "output JSON path (optional, defaults to stdout)")
	flag.StringVar(&eventFilter, "event", "", "only count events with this name")
	flag.Parse()

	if inputPath == "" {
		exit(errors.New("missing --in path"))
	}

	file, err := os.Open(inputPath)
	if err != nil {
		exit(err)
	}
	defer file.Close()

	report, err := summarize(file, strings.TrimSpace(eventFilter))
	if err != nil {
		exit(fmt.Errorf("read action log: %w", err))
	}
	report.Source = inputPath

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exit(fmt.Errorf("encode report: %w", err))
	}
	if outputPath == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o644); err != nil {
		exit(fmt.Errorf("write output: %w", err))
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "actionsummary: %v\n", err)
	os.Exit(1)
}

// summarize aggregates the action log. Lines that are not valid events are
// counted as skipped.
func summarize(r io.Reader, eventFilter string) (actionReport, error) {
	report := actionReport{
		Events: make(map[string]int),
		Actors: make(map[string]int),
	}
	var first, last time.Time
	sessions := make(map[string]struct{})
	targets := make(map[string]*targetSummary)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		report.Lines++
		var ev actionEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil || ev.Event == "" {
			report.Skipped++
			continue
		}
		if eventFilter != "" && ev.Event != eventFilter {
			continue
		}
		report.Events[ev.Event]++
		if ev.Actor != "" {
			report.Actors[ev.Actor]++
		}
		if ev.SessionID != "" {
			sessions[ev.SessionID] = struct{}{}
		}
		if !ev.Timestamp.IsZero() {
			if first.IsZero() || ev.Timestamp.Before(first) {
				first = ev.Timestamp
			}
			if ev.Timestamp.After(last) {
				last = ev.Timestamp
			}
		}
		if ev.TargetID == "" {
			continue
		}
		target, ok := targets[ev.TargetID]
		if !ok {
			target = &targetSummary{TargetID: ev.TargetID, Events: make(map[string]int)}
			targets[ev.TargetID] = target
		}
		target.Events[ev.Event]++
		if ev.TargetEmail != "" {
			target.Email = ev.TargetEmail
		}
		if !ev.Timestamp.Before(target.Last) {
			target.Last = ev.Timestamp
			if ev.TargetStatus != "" {
				target.Status = ev.TargetStatus
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return actionReport{}, err
	}

	report.Sessions = len(sessions)
	if !first.IsZero() {
		report.First, report.Last = &first, &last
	}
	report.Targets = make([]targetSummary, 0, len(targets))
	for _, target := range targets {
		report.Targets = append(report.Targets, *target)
	}
	sort.Slice(report.Targets, func(i, j int) bool {
		return report.Targets[i].TargetID < report.Targets[j].TargetID
	})
	return report, nil
}
