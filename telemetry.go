package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/usersadmin/console/internal/usertable"
)

// actionEvent is one line of actions.jsonl. Session events carry no target.
type actionEvent struct {
	SessionID    string            `json:"session_id"`
	Actor        string            `json:"actor,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
	Event        string            `json:"event"`
	TargetID     string            `json:"target_id,omitempty"`
	TargetEmail  string            `json:"target_email,omitempty"`
	TargetStatus string            `json:"target_status,omitempty"`
	TargetRoles  []string          `json:"target_roles,omitempty"`
	Detail       map[string]string `json:"detail,omitempty"`
}

// actionLog records what the operator did to which user. The file is
// opened on the first write and kept open until Close.
type actionLog struct {
	path      string
	sessionID string
	actor     string
	now       func() time.Time

	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

func newActionLog(path, actor string) *actionLog {
	return &actionLog{
		path:      path,
		sessionID: uuid.NewString(),
		actor:     strings.TrimSpace(actor),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Session records a session_started or session_ended marker.
func (l *actionLog) Session(event string) error {
	return l.write(actionEvent{Event: event})
}

// Record logs event against u. The target's status and roles are captured
// as they were when the action completed.
func (l *actionLog) Record(event string, u usertable.User, detail map[string]string) error {
	if len(detail) == 0 {
		detail = nil
	}
	return l.write(actionEvent{
		Event:        event,
		TargetID:     u.ID,
		TargetEmail:  u.Email,
		TargetStatus: usertable.StatusLabel(u.Archived),
		TargetRoles:  usertable.RoleNames(u),
		Detail:       detail,
	})
}

func (l *actionLog) write(ev actionEvent) error {
	if l == nil {
		return nil
	}
	ev.SessionID = l.sessionID
	ev.Actor = l.actor
	ev.Timestamp = l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return fmt.Errorf("create action log dir: %w", err)
		}
		f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open action log: %w", err)
		}
		l.f = f
		l.enc = json.NewEncoder(f)
	}
	if err := l.enc.Encode(ev); err != nil {
		return fmt.Errorf("write %s event: %w", ev.Event, err)
	}
	return nil
}

func (l *actionLog) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f, l.enc = nil, nil
	return err
}

// operatorName picks the name stamped on every action, preferring the
// console-specific variable over the login name.
func operatorName(getenv func(string) string) string {
	for _, name := range []string{"USERS_CONSOLE_ACTOR", "USER", "USERNAME"} {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
