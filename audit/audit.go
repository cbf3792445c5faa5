// Package audit records destructive operations (delete, prune, restore,
// restart) as structured events so operators can reconstruct who touched
// which session and when.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Logger is the minimal logging interface used by the audit package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// actorKeyPrefixLen is how much of an API key survives into the audit
// trail. The rest is discarded for privacy.
const actorKeyPrefixLen = 8

// Event is one recorded operation.
type Event struct {
	ID        string         `json:"id"`
	Time      time.Time      `json:"time"`
	Action    string         `json:"action"`
	Agent     string         `json:"agent"`
	SessionID string         `json:"session_id,omitempty"`
	Actor     string         `json:"actor,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Trail emits audit events through a logger. The zero value is unusable;
// use NewTrail.
type Trail struct {
	logger Logger
	now    func() time.Time
}

// NewTrail creates an audit trail writing to the given logger.
func NewTrail(logger Logger) *Trail {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Trail{logger: logger, now: time.Now}
}

// Record logs one audit event and returns it. The actor (usually an API
// key) is truncated before it is stored.
func (t *Trail) Record(action, agent, sessionID, actor string, details map[string]any) Event {
	event := Event{
		ID:        uuid.NewString(),
		Time:      t.now().UTC(),
		Action:    action,
		Agent:     agent,
		SessionID: sessionID,
		Actor:     TruncateActor(actor),
		Details:   details,
	}

	args := []any{"audit_id", event.ID, "action", event.Action, "agent", event.Agent}
	if event.SessionID != "" {
		args = append(args, "session", event.SessionID)
	}
	if event.Actor != "" {
		args = append(args, "actor", event.Actor)
	}
	if len(event.Details) > 0 {
		if data, err := json.Marshal(event.Details); err == nil {
			args = append(args, "details", string(data))
		}
	}
	t.logger.Info("audit", args...)

	return event
}

// TruncateActor reduces an actor identifier to a short prefix.
func TruncateActor(actor string) string {
	if actor == "" {
		return ""
	}
	if len(actor) <= actorKeyPrefixLen {
		return actor
	}
	return actor[:actorKeyPrefixLen] + "..."
}
