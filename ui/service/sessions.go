package service

import (
	"os"
	"time"

	"github.com/openclaw/brainsurgeon/prune"
	"github.com/openclaw/brainsurgeon/record"
	"github.com/openclaw/brainsurgeon/store"
	"github.com/openclaw/brainsurgeon/summary"
)

// SessionSummary is the summary endpoint payload.
type SessionSummary struct {
	SessionID   string           `json:"session_id"`
	Agent       string           `json:"agent"`
	Summary     *summary.Summary `json:"summary"`
	GeneratedAt string           `json:"generated_at"`
}

// EditResult reports an entry edit.
type EditResult struct {
	Updated bool `json:"updated"`
	Index   int  `json:"index"`
}

// ListSessions lists sessions for one agent, or all agents when agent
// is empty.
func (s *Service) ListSessions(agent string) (*store.SessionList, error) {
	return s.store.ListSessions(agent, s.now())
}

// GetSession returns the full detail of one session.
func (s *Service) GetSession(agent, sessionID string) (*store.SessionDetail, error) {
	return s.store.GetSessionDetail(agent, sessionID, s.now())
}

// Summarize generates the pre-deletion digest of a session.
func (s *Service) Summarize(agent, sessionID string) (*SessionSummary, error) {
	path := s.store.SessionPath(agent, sessionID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	records := record.ParseString(string(data))
	return &SessionSummary{
		SessionID:   sessionID,
		Agent:       agent,
		Summary:     s.summaries.Generate(records),
		GeneratedAt: s.now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// PruneSession redacts tool content in place.
func (s *Service) PruneSession(agent, sessionID, actor string, keepRecent int) (*prune.Result, error) {
	s.audit.Record("prune", agent, sessionID, actor, map[string]any{"keep_recent": keepRecent})
	return s.pruner.Prune(s.store.SessionPath(agent, sessionID), keepRecent)
}

// EditEntry replaces the record at the given index.
func (s *Service) EditEntry(agent, sessionID, actor string, index int, entry map[string]any) (*EditResult, error) {
	s.audit.Record("edit_entry", agent, sessionID, actor, map[string]any{"index": index})
	if err := s.pruner.EditEntry(s.store.SessionPath(agent, sessionID), index, entry); err != nil {
		return nil, err
	}
	return &EditResult{Updated: true, Index: index}, nil
}
