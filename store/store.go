// Package store resolves the on-disk layout of OpenClaw agent sessions: one
// JSONL log per session under the agent's sessions directory, plus a
// sessions.json index per agent. The layout is a compatibility contract;
// other tooling reads these paths directly.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/openclaw/brainsurgeon/analysis"
	"github.com/openclaw/brainsurgeon/record"
)

// Logger interface for store logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a no-op implementation of Logger.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// IndexFileName is the per-agent session index file.
const IndexFileName = "sessions.json"

// Store reads and writes the agents directory tree under one OpenClaw root.
type Store struct {
	root   string
	logger Logger
}

// New creates a Store rooted at the OpenClaw directory (the parent of
// agents/ and trash/). A nil logger disables logging.
func New(root string, logger Logger) *Store {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Store{root: root, logger: logger}
}

// Root returns the OpenClaw root directory.
func (s *Store) Root() string {
	return s.root
}

// AgentsDir returns the directory holding one subdirectory per agent.
func (s *Store) AgentsDir() string {
	return filepath.Join(s.root, "agents")
}

// SessionsDir returns an agent's sessions directory.
func (s *Store) SessionsDir(agent string) string {
	return filepath.Join(s.AgentsDir(), agent, "sessions")
}

// SessionPath returns the log file path for a session.
func (s *Store) SessionPath(agent, sessionID string) string {
	return filepath.Join(s.SessionsDir(agent), sessionID+".jsonl")
}

// IndexPath returns the path of an agent's sessions.json.
func (s *Store) IndexPath(agent string) string {
	return filepath.Join(s.SessionsDir(agent), IndexFileName)
}

// Agents lists agent directories, sorted. A missing agents directory yields
// an empty list.
func (s *Store) Agents() []string {
	entries, err := os.ReadDir(s.AgentsDir())
	if err != nil {
		return []string{}
	}
	agents := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			agents = append(agents, entry.Name())
		}
	}
	sort.Strings(agents)
	return agents
}

// ReadIndex reads an agent's session index and reports read or parse
// failures to the caller. Most readers want LoadIndex instead; ReadIndex
// exists for writers that must not clobber an index they could not parse.
func (s *Store) ReadIndex(agent string) (Index, error) {
	data, err := os.ReadFile(s.IndexPath(agent))
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	if idx == nil {
		idx = Index{}
	}
	return idx, nil
}

// LoadIndex reads an agent's session index. A missing or malformed index
// degrades to an empty one; callers treat index data as advisory.
func (s *Store) LoadIndex(agent string) Index {
	idx, err := s.ReadIndex(agent)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("malformed session index, treating as empty", "agent", agent, "error", err)
		}
		return Index{}
	}
	return idx
}

// SaveIndex rewrites an agent's session index. Last writer wins; the index
// is shared advisory metadata, not a lock-protected store.
func (s *Store) SaveIndex(agent string, idx Index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.IndexPath(agent), data, 0o644)
}

// ChildSession is a parent/child linkage row shown on session detail.
type ChildSession struct {
	SessionID string `json:"sessionId"`
	Label     string `json:"label"`
}

// SessionInfo is one row of a session listing.
type SessionInfo struct {
	ID              string   `json:"id"`
	Agent           string   `json:"agent"`
	Label           string   `json:"label"`
	Path            string   `json:"path"`
	Size            int64    `json:"size"`
	Messages        int      `json:"messages"`
	ToolCalls       int      `json:"tool_calls"`
	ToolOutputs     int      `json:"tool_outputs"`
	Created         string   `json:"created,omitempty"`
	Updated         string   `json:"updated,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes"`
	Model           string   `json:"model,omitempty"`
	Models          []string `json:"models"`
	IsStale         bool     `json:"is_stale"`
	Status          string   `json:"status"`
}

// SessionList is the result of a listing across one or all agents.
type SessionList struct {
	Sessions  []SessionInfo `json:"sessions"`
	Agents    []string      `json:"agents"`
	TotalSize int64         `json:"total_size"`
}

// ListSessions assembles session rows from the index plus log analysis for
// the given agent, or for every agent when agent is empty. Rows are sorted
// by updated timestamp, most recent first.
func (s *Store) ListSessions(agent string, now time.Time) (*SessionList, error) {
	agents := []string{agent}
	if agent == "" {
		agents = s.Agents()
	}

	list := &SessionList{
		Sessions: []SessionInfo{},
		Agents:   s.Agents(),
	}
	for _, ag := range agents {
		for _, entry := range s.LoadIndex(ag) {
			sessionID := entry.SessionID()
			if sessionID == "" {
				sessionID = "unknown"
			}
			path := s.SessionPath(ag, sessionID)

			a, err := analysis.AnalyzeFile(path)
			if err != nil {
				return nil, err
			}
			ts := analysis.SessionTimestamps(a.Records)

			info := SessionInfo{
				ID:              sessionID,
				Agent:           ag,
				Label:           entry.Label(),
				Path:            path,
				Size:            a.Size,
				Messages:        a.Messages,
				ToolCalls:       a.ToolCalls,
				ToolOutputs:     a.ToolOutputs,
				Created:         ts.Created,
				Updated:         ts.Updated,
				DurationMinutes: ts.DurationMinutes,
				Model:           a.Model,
				Models:          a.Models,
				Status:          "active",
			}
			if info.Label == "" {
				info.Label = shortID(sessionID)
			}
			if info.Models == nil {
				info.Models = []string{}
			}
			if analysis.IsStale(ts.Updated, now) {
				info.IsStale = true
				info.Status = "stale"
			}
			list.Sessions = append(list.Sessions, info)
			list.TotalSize += a.Size
		}
	}

	sort.SliceStable(list.Sessions, func(i, j int) bool {
		return list.Sessions[i].Updated > list.Sessions[j].Updated
	})
	return list, nil
}

// SessionDetail is the full view of one session.
type SessionDetail struct {
	ID                 string           `json:"id"`
	Agent              string           `json:"agent"`
	Label              string           `json:"label"`
	Path               string           `json:"path"`
	Size               int64            `json:"size"`
	RawContent         string           `json:"raw_content"`
	Entries            []map[string]any `json:"entries"`
	Messages           int              `json:"messages"`
	ToolCalls          int              `json:"tool_calls"`
	DurationMinutes    *float64         `json:"duration_minutes"`
	IsStale            bool             `json:"is_stale"`
	Created            string           `json:"created,omitempty"`
	Updated            string           `json:"updated,omitempty"`
	Models             []string         `json:"models"`
	ParentID           string           `json:"parentId,omitempty"`
	Children           []ChildSession   `json:"children"`
	Channel            string           `json:"channel,omitempty"`
	SystemPromptReport string           `json:"systemPromptReport,omitempty"`
	ResolvedSkills     []string         `json:"resolvedSkills"`
	Tokens             *int             `json:"tokens"`
	ContextTokens      *int             `json:"contextTokens"`
	InputTokens        *int             `json:"inputTokens"`
	OutputTokens       *int             `json:"outputTokens"`
}

// GetSessionDetail returns the full session view: raw content, decoded
// entries, analysis counters, index metadata and parent/child linkage.
// A missing log file is ErrSessionNotFound.
func (s *Store) GetSessionDetail(agent, sessionID string, now time.Time) (*SessionDetail, error) {
	path := s.SessionPath(agent, sessionID)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	records := record.ParseString(string(raw))
	a := analysis.Analyze(records)
	ts := analysis.SessionTimestamps(records)

	detail := &SessionDetail{
		ID:              sessionID,
		Agent:           agent,
		Label:           sessionID,
		Path:            path,
		Size:            int64(len(raw)),
		RawContent:      string(raw),
		Entries:         decodedEntries(records),
		Messages:        a.Messages,
		ToolCalls:       a.ToolCalls,
		DurationMinutes: ts.DurationMinutes,
		IsStale:         analysis.IsStale(ts.Updated, now),
		Created:         ts.Created,
		Updated:         ts.Updated,
		Models:          sessionModels(records),
		Children:        []ChildSession{},
		ResolvedSkills:  []string{},
	}

	idx := s.LoadIndex(agent)
	for _, entry := range idx {
		switch {
		case entry.SessionID() == sessionID:
			if label := entry.Label(); label != "" {
				detail.Label = label
			}
			detail.ParentID = entry.ParentSessionID()
			detail.Channel = entry.Channel()
			detail.SystemPromptReport = entry.SystemPromptReport()
			if skills := entry.ResolvedSkills(); skills != nil {
				detail.ResolvedSkills = skills
			}
			detail.Tokens = entry.TotalTokens()
			detail.ContextTokens = entry.ContextTokens()
			detail.InputTokens = entry.InputTokens()
			detail.OutputTokens = entry.OutputTokens()
		case entry.ParentSessionID() == sessionID:
			child := ChildSession{SessionID: entry.SessionID(), Label: entry.Label()}
			if child.Label == "" {
				child.Label = shortID(child.SessionID)
			}
			detail.Children = append(detail.Children, child)
		}
	}
	sort.Slice(detail.Children, func(i, j int) bool {
		return detail.Children[i].SessionID < detail.Children[j].SessionID
	})
	return detail, nil
}

// decodedEntries converts records to plain objects for transport. Unparsed
// lines appear as {"_raw": ...} placeholders.
func decodedEntries(records []record.Record) []map[string]any {
	entries := make([]map[string]any, 0, len(records))
	for i := range records {
		if records[i].Unparsed() {
			entries = append(entries, map[string]any{"_raw": records[i].Raw})
			continue
		}
		entries = append(entries, records[i].Fields)
	}
	return entries
}

// sessionModels merges message models with custom model-snapshot records,
// sorted for stable output.
func sessionModels(records []record.Record) []string {
	set := make(map[string]bool)
	for i := range records {
		rec := &records[i]
		switch rec.Type {
		case record.TypeMessage:
			if rec.Message != nil && rec.Message.Model != "" {
				set[rec.Message.Model] = true
			}
		case record.TypeCustom:
			if rec.CustomType != record.CustomModelSnapshot {
				continue
			}
			data := rec.Data()
			if id, ok := data["modelId"].(string); ok && id != "" {
				set[id] = true
			} else if id, ok := data["model"].(string); ok && id != "" {
				set[id] = true
			}
		}
	}
	models := make([]string, 0, len(set))
	for m := range set {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// shortID truncates a session ID for display labels.
func shortID(sessionID string) string {
	if len(sessionID) > 8 {
		return sessionID[:8]
	}
	return sessionID
}
