// Package analysis derives per-session statistics from parsed log records:
// message and tool counters, the set of models seen, the session time range
// and staleness. All passes are read-only and single-forward.
package analysis

import (
	"os"
	"time"

	"github.com/openclaw/brainsurgeon/record"
)

// StaleAfter is how long a session can be inactive before it counts as stale.
const StaleAfter = 24 * time.Hour

// Analysis holds derived statistics for one session log.
type Analysis struct {
	// Size is the session file size in bytes. Zero when the analysis was
	// produced from records alone.
	Size int64

	// Messages counts message records with role user or assistant.
	Messages int

	// ToolCalls counts toolCall content items, tool_calls list entries and
	// top-level tool_call records.
	ToolCalls int

	// ToolOutputs counts toolResult-role messages and top-level tool and
	// tool_result records.
	ToolOutputs int

	// Records is the ordered record list the analysis was computed from.
	Records []record.Record

	// Models is every model seen on a message, in first-seen order.
	Models []string

	// Model is the current model: the one most recently seen in file order.
	Model string
}

// Analyze computes statistics over records in a single forward pass. A
// record increments at most one top-level bucket; the toolCall-item and
// tool_calls-list rules on a message are additive with each other but never
// overlap the message counter itself.
func Analyze(records []record.Record) *Analysis {
	a := &Analysis{Records: records}
	seen := make(map[string]bool)

	for i := range records {
		rec := &records[i]
		switch rec.Type {
		case record.TypeMessage:
			msg := rec.Message
			if msg == nil {
				continue
			}
			switch msg.Role {
			case record.RoleUser, record.RoleAssistant:
				a.Messages++
			case record.RoleToolResult:
				a.ToolOutputs++
			}
			if msg.Model != "" {
				if !seen[msg.Model] {
					seen[msg.Model] = true
					a.Models = append(a.Models, msg.Model)
				}
				a.Model = msg.Model
			}
			if msg.Content.Kind == record.ContentItems {
				for _, item := range msg.Content.Items {
					if item.Type == record.ItemToolCall {
						a.ToolCalls++
					}
				}
			}
			a.ToolCalls += len(msg.ToolCalls)
		case record.TypeToolCall:
			a.ToolCalls++
		case record.TypeToolResult, record.TypeTool:
			a.ToolOutputs++
		}
	}
	return a
}

// AnalyzeFile reads and analyzes the session log at path. A missing file
// yields an empty analysis rather than an error; only read failures on an
// existing file are reported.
func AnalyzeFile(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Analysis{}, nil
		}
		return nil, err
	}
	a := Analyze(record.ParseString(string(data)))
	a.Size = int64(len(data))
	return a, nil
}
