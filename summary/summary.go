// Package summary builds a lossy, human-readable digest of a session log,
// intended for review before a destructive operation. Extraction is
// heuristic keyword and shape matching; automated noise (heartbeats,
// rate-limit notices, compaction chatter) is filtered out of every list.
package summary

import (
	"math"
	"sort"
	"strings"

	"github.com/openclaw/brainsurgeon/analysis"
	"github.com/openclaw/brainsurgeon/record"
)

// Session type classifications, mutually exclusive, first match wins.
const (
	TypeDevelopment = "development"
	TypeToolHeavy   = "tool_heavy"
	TypeLongChat    = "long_chat"
	TypeChat        = "chat"
)

// Bounds for the digest lists and extracted fragments.
const (
	MaxTools    = 15
	MaxFiles    = 8
	MaxInsights = 5
	MaxRequests = 5
	MaxActions  = 5
	MaxErrors   = 3

	minThinkingLen    = 30
	maxInsightLines   = 3
	minInsightLineLen = 20
	maxInsightLineLen = 200
	maxActionLen      = 120
	minActionLen      = 20
	maxRequestLen     = 150
	minRequestSrcLen  = 10
	maxRequestSrcLen  = 300
	maxErrorLen       = 200

	toolHeavyThreshold = 5
	longChatThreshold  = 30
)

// Summary is the digest shown to a human before data loss. Every set-valued
// field is a sorted, capped list; list fields truncate deterministically
// (first N after de-duplication by exact text).
type Summary struct {
	SessionType        string   `json:"session_type"`
	Topics             []string `json:"topics"`
	ToolsUsed          []string `json:"tools_used"`
	ModelsUsed         []string `json:"models_used"`
	KeyActions         []string `json:"key_actions"`
	UserRequests       []string `json:"user_requests"`
	ThinkingInsights   []string `json:"thinking_insights"`
	Errors             []string `json:"errors"`
	DurationEstimate   *float64 `json:"duration_estimate"`
	MessageCount       int      `json:"message_count"`
	UserMessages       int      `json:"user_messages"`
	MeaningfulMessages int      `json:"meaningful_messages"`
	ToolCalls          int      `json:"tool_calls"`
	HasGitCommits      bool     `json:"has_git_commits"`
	FilesCreated       []string `json:"files_created"`
	FilesModified      []string `json:"files_modified"`
}

// Generator turns parsed records into a Summary using a heuristic Policy.
type Generator struct {
	policy *Policy
}

// NewGenerator creates a Generator. A nil policy selects DefaultPolicy.
func NewGenerator(policy *Policy) *Generator {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Generator{policy: policy}
}

// state accumulates digest material during the record pass.
type state struct {
	summary  *Summary
	seen     map[string]bool
	tools    map[string]bool
	models   map[string]bool
	files    map[string]bool
	modified map[string]bool
}

// Generate builds a Summary over records in one forward pass.
func (g *Generator) Generate(records []record.Record) *Summary {
	st := &state{
		summary: &Summary{
			SessionType:      TypeChat,
			Topics:           []string{},
			ToolsUsed:        []string{},
			ModelsUsed:       []string{},
			KeyActions:       []string{},
			UserRequests:     []string{},
			ThinkingInsights: []string{},
			Errors:           []string{},
			FilesCreated:     []string{},
			FilesModified:    []string{},
		},
		seen:     make(map[string]bool),
		tools:    make(map[string]bool),
		models:   make(map[string]bool),
		files:    make(map[string]bool),
		modified: make(map[string]bool),
	}

	for i := range records {
		rec := &records[i]
		switch rec.Type {
		case record.TypeCustom:
			// Model snapshots contribute regardless of noise filtering;
			// custom records are never counted as messages.
			if rec.CustomType == record.CustomModelSnapshot {
				if id, ok := rec.Data()["modelId"].(string); ok && id != "" {
					st.models[id] = true
				}
			}
		case record.TypeMessage:
			g.summarizeMessage(st, rec.Message)
		case record.TypeToolResult:
			g.detectGitCommits(st, rec.Content)
		}
	}

	g.finalize(st, records)
	return st.summary
}

// summarizeMessage folds one message record into the digest.
func (g *Generator) summarizeMessage(st *state, msg *record.Message) {
	st.summary.MessageCount++
	if msg == nil {
		return
	}
	switch msg.Role {
	case record.RoleAssistant:
		g.summarizeAssistant(st, msg)
	case record.RoleUser:
		g.summarizeUser(st, msg)
	}
}

func (g *Generator) summarizeAssistant(st *state, msg *record.Message) {
	s := st.summary

	for _, tc := range msg.ToolCalls {
		s.ToolCalls++
		if name := tc.ToolName(); name != "" {
			st.tools[name] = true
		}
	}

	meaningful := false
	if msg.Content.Kind == record.ContentItems {
		for _, item := range msg.Content.Items {
			switch item.Type {
			case record.ItemToolCall:
				s.ToolCalls++
				if name := item.ToolName(); name != "" {
					st.tools[name] = true
				}
			case record.ItemThinking:
				if g.policy.IsNoise(item.Thinking) || len(item.Thinking) <= minThinkingLen {
					continue
				}
				meaningful = true
				g.extractInsights(st, item.Thinking)
			case record.ItemText:
				if g.policy.IsNoise(item.Text) {
					continue
				}
				meaningful = true
				g.extractAction(st, item.Text)
			}
		}
	}
	if meaningful {
		s.MeaningfulMessages++
	}

	if msg.ErrorMessage != "" || msg.StopReason == "error" {
		errText := msg.ErrorMessage
		if errText == "" {
			errText = "Unknown error"
		}
		if !g.policy.IsNoise(errText) {
			s.Errors = append(s.Errors, truncate(errText, maxErrorLen))
		}
	}
}

// extractInsights takes up to the first three non-empty thinking lines of
// plausible length as digest material.
func (g *Generator) extractInsights(st *state, thinking string) {
	taken := 0
	for _, line := range strings.Split(thinking, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if taken >= maxInsightLines {
			break
		}
		taken++
		if len(line) > minInsightLineLen && len(line) < maxInsightLineLen && !st.seen[line] {
			st.seen[line] = true
			st.summary.ThinkingInsights = append(st.summary.ThinkingInsights, line)
		}
	}
}

// extractAction records the first sentence of an assistant text that
// mentions an action keyword.
func (g *Generator) extractAction(st *state, text string) {
	if !g.policy.hasActionKeyword(text) {
		return
	}
	sentence := truncate(firstSentence(text), maxActionLen)
	if len(sentence) > minActionLen && !st.seen[sentence] {
		st.seen[sentence] = true
		st.summary.KeyActions = append(st.summary.KeyActions, sentence)
	}
}

func (g *Generator) summarizeUser(st *state, msg *record.Message) {
	s := st.summary
	s.UserMessages++

	if msg.Content.Kind != record.ContentItems {
		return
	}
	for _, item := range msg.Content.Items {
		if item.Type != record.ItemText {
			continue
		}
		if g.policy.IsNoise(item.Text) {
			continue
		}
		s.MeaningfulMessages++

		if n := len(item.Text); n > minRequestSrcLen && n < maxRequestSrcLen {
			request := truncate(firstSentence(item.Text), maxRequestLen)
			if !st.seen[request] {
				st.seen[request] = true
				s.UserRequests = append(s.UserRequests, request)
			}
		}

		if g.policy.hasFileKeyword(item.Text) {
			g.extractFiles(st, item.Text)
		}
	}
}

// extractFiles scans whitespace-delimited tokens for source-file paths:
// tokens containing both a dot and a slash with a known extension.
func (g *Generator) extractFiles(st *state, text string) {
	for _, token := range strings.Fields(text) {
		if !strings.Contains(token, ".") || !strings.Contains(token, "/") {
			continue
		}
		if g.policy.hasFileExtension(token) {
			st.files[strings.Trim(token, ".,;:!?()[]{}")] = true
		}
	}
}

// detectGitCommits flags the session as development work when a tool result
// mentions a commit alongside created/modified/deleted files.
func (g *Generator) detectGitCommits(st *state, content record.Content) {
	if content.Kind != record.ContentItems {
		return
	}
	for _, item := range content.Items {
		if item.Type != record.ItemText {
			continue
		}
		if !strings.Contains(strings.ToLower(item.Text), "commit") {
			continue
		}
		for _, kw := range []string{"created", "modified", "deleted"} {
			if strings.Contains(item.Text, kw) {
				st.summary.HasGitCommits = true
				return
			}
		}
	}
}

// finalize converts sets into sorted capped lists, truncates the list
// fields, computes the duration estimate and classifies the session.
func (g *Generator) finalize(st *state, records []record.Record) {
	s := st.summary

	s.ToolsUsed = sortedCapped(st.tools, MaxTools)
	s.ModelsUsed = sortedCapped(st.models, len(st.models))
	s.FilesCreated = sortedCapped(st.files, MaxFiles)
	s.FilesModified = sortedCapped(st.modified, MaxFiles)

	s.ThinkingInsights = capped(s.ThinkingInsights, MaxInsights)
	s.UserRequests = capped(s.UserRequests, MaxRequests)
	s.KeyActions = capped(s.KeyActions, MaxActions)
	s.Errors = capped(s.Errors, MaxErrors)

	if ts := analysis.SessionTimestamps(records); ts.DurationMinutes != nil {
		rounded := math.Round(*ts.DurationMinutes*10) / 10
		s.DurationEstimate = &rounded
	}

	switch {
	case s.HasGitCommits:
		s.SessionType = TypeDevelopment
	case s.ToolCalls > toolHeavyThreshold:
		s.SessionType = TypeToolHeavy
	case s.MeaningfulMessages > longChatThreshold:
		s.SessionType = TypeLongChat
	default:
		s.SessionType = TypeChat
	}
}

// firstSentence returns text up to the first period.
func firstSentence(text string) string {
	if i := strings.Index(text, "."); i >= 0 {
		return text[:i]
	}
	return text
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func sortedCapped(set map[string]bool, limit int) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return capped(out, limit)
}

func capped(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
