// Package prune redacts verbose tool content from session logs in place,
// shrinking files while preserving record count and ordering so the
// conversation stays replayable.
package prune

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/openclaw/brainsurgeon/record"
)

// Logger interface for prune logging.
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

// Mode identifies which redaction pass ran.
type Mode string

const (
	// ModeLight truncates oversized plain-text assistant responses.
	ModeLight Mode = "light"

	// ModeFull redacts tool-related records outside the retained window.
	ModeFull Mode = "full"
)

// LightKeepRecent is the retention parameter that selects light mode.
const LightKeepRecent = -1

const (
	// Marker replaces redacted content, names and tool call payloads.
	Marker = "[pruned]"

	// lightThreshold is the plain-text length past which an assistant
	// response is truncated in light mode.
	lightThreshold = 5000

	// lightKeep is how much of a truncated response survives.
	lightKeep = 500
)

// Result reports the outcome of a prune.
type Result struct {
	// Pruned is true once the rewrite completed.
	Pruned bool `json:"pruned"`

	// EntriesPruned is how many records this pass redacted. Records already
	// bearing a redaction flag are not re-counted, so a repeated run with
	// the same retention reports zero.
	EntriesPruned int `json:"entries_pruned"`

	// OriginalSize and NewSize are file byte lengths before and after.
	OriginalSize int64 `json:"original_size"`
	NewSize      int64 `json:"new_size"`
	SavedBytes   int64 `json:"saved_bytes"`

	// Mode is the redaction pass that ran.
	Mode Mode `json:"mode"`
}

// Engine rewrites session files. Each call reads, redacts and rewrites one
// file; no state persists between calls.
type Engine struct {
	logger Logger
}

// NewEngine creates an Engine. A nil logger disables logging.
func NewEngine(logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{logger: logger}
}

// Prune rewrites the session file at path, redacting tool content according
// to keepRecent: -1 selects light mode, 0 redacts every tool-related record,
// N > 0 keeps the last N tool interactions verbatim. Record count and
// ordering are invariant across the rewrite.
func (e *Engine) Prune(path string, keepRecent int) (*Result, error) {
	if keepRecent < LightKeepRecent {
		return nil, WrapError("Prune", path, ErrInvalidKeepRecent)
	}

	records, info, err := readSession(path)
	if err != nil {
		return nil, WrapError("Prune", path, err)
	}

	mode := ModeFull
	var pruned int
	if keepRecent == LightKeepRecent {
		mode = ModeLight
		pruned = e.lightPrune(records)
	} else {
		pruned = e.fullPrune(records, keepRecent)
	}

	newSize, err := writeSession(path, records, info.Mode())
	if err != nil {
		return nil, WrapError("Prune", path, err)
	}

	result := &Result{
		Pruned:        true,
		EntriesPruned: pruned,
		OriginalSize:  info.Size(),
		NewSize:       newSize,
		SavedBytes:    info.Size() - newSize,
		Mode:          mode,
	}
	e.logger.Info("prune complete",
		"path", path,
		"mode", mode,
		"entries_pruned", pruned,
		"saved_bytes", result.SavedBytes,
	)
	return result, nil
}

// lightPrune truncates assistant messages whose content is a single plain
// string longer than the threshold. Structured content is untouched.
func (e *Engine) lightPrune(records []record.Record) int {
	pruned := 0
	for i := range records {
		rec := &records[i]
		if rec.Type != record.TypeMessage || rec.Message == nil {
			continue
		}
		if rec.Message.Role != record.RoleAssistant {
			continue
		}
		content := rec.Message.Content
		if content.Kind != record.ContentText {
			continue
		}
		runes := []rune(content.Text)
		if len(runes) <= lightThreshold {
			continue
		}

		removed := len(runes) - lightKeep
		truncated := fmt.Sprintf("%s\n\n[... %d chars pruned ...]", string(runes[:lightKeep]), removed)
		setMessageField(rec, "content", truncated)
		markPruned(rec, ModeLight)
		pruned++
	}
	return pruned
}

// fullPrune keeps the last keepRecent tool-related records verbatim and
// redacts the rest. The kept index set is shared between record-level and
// role-level redaction.
func (e *Engine) fullPrune(records []record.Record, keepRecent int) int {
	toolIndices := toolRelatedIndices(records)

	kept := make(map[int]bool, keepRecent)
	if keepRecent > 0 {
		start := len(toolIndices) - keepRecent
		if start < 0 {
			start = 0
		}
		for _, idx := range toolIndices[start:] {
			kept[idx] = true
		}
	}

	pruned := 0
	for i := range records {
		rec := &records[i]
		if kept[i] || alreadyPruned(rec) {
			continue
		}
		switch rec.Type {
		case record.TypeTool:
			rec.Fields["content"] = Marker
			rec.Fields["name"] = Marker
			markPruned(rec, ModeFull)
			pruned++
		case record.TypeToolResult:
			rec.Fields["content"] = Marker
			markPruned(rec, ModeFull)
			pruned++
		case record.TypeMessage:
			if rec.Message == nil {
				continue
			}
			switch {
			case rec.Message.Role == record.RoleAssistant && len(rec.Message.ToolCalls) > 0:
				setMessageField(rec, "tool_calls", []any{map[string]any{
					"_pruned": true,
					"type":    record.ItemToolCall,
					"id":      Marker,
					"name":    Marker,
				}})
				markPruned(rec, ModeFull)
				pruned++
			case rec.Message.Role == record.RoleToolResult:
				setMessageField(rec, "content", Marker)
				markPruned(rec, ModeFull)
				pruned++
			}
		}
	}
	return pruned
}

// toolRelatedIndices returns, in file order, the indices of records that
// carry tool interactions: top-level tool/tool_result records and messages
// with a tool or toolResult role.
func toolRelatedIndices(records []record.Record) []int {
	var indices []int
	for i := range records {
		rec := &records[i]
		switch rec.Type {
		case record.TypeTool, record.TypeToolResult:
			indices = append(indices, i)
		case record.TypeMessage:
			if rec.Message == nil {
				continue
			}
			if rec.Message.Role == record.RoleTool || rec.Message.Role == record.RoleToolResult {
				indices = append(indices, i)
			}
		}
	}
	return indices
}

// EditEntry replaces the record at index with the caller-supplied object and
// rewrites the file. An out-of-range index is a user-visible failure.
func (e *Engine) EditEntry(path string, index int, entry map[string]any) error {
	records, info, err := readSession(path)
	if err != nil {
		return WrapError("EditEntry", path, err)
	}
	if index < 0 || index >= len(records) {
		return WrapError("EditEntry", path, ErrInvalidIndex)
	}

	records[index] = record.Record{Fields: entry}
	if _, err := writeSession(path, records, info.Mode()); err != nil {
		return WrapError("EditEntry", path, err)
	}
	e.logger.Info("entry edited", "path", path, "index", index)
	return nil
}

// readSession loads and parses a session file, mapping a missing file to
// ErrSessionNotFound.
func readSession(path string) ([]record.Record, fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	// A parse-level read error means records may be missing; rewriting the
	// file from a partial parse would drop them.
	records, err := record.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	return records, info, nil
}

// writeSession serializes records and replaces path via a same-directory
// temp file and rename, so a crash mid-write cannot truncate the session.
func writeSession(path string, records []record.Record, perm fs.FileMode) (int64, error) {
	var buf bytes.Buffer
	if err := record.WriteAll(&buf, records); err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".rewrite-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	return int64(buf.Len()), nil
}

// setMessageField writes a key inside the record's nested message object.
func setMessageField(rec *record.Record, key string, value any) {
	msg, ok := rec.Fields["message"].(map[string]any)
	if !ok {
		return
	}
	msg[key] = value
}

// markPruned flags a record as redacted so repeated runs skip it.
func markPruned(rec *record.Record, mode Mode) {
	rec.Fields["_pruned"] = true
	rec.Fields["_pruned_type"] = string(mode)
}

// alreadyPruned reports whether a previous pass redacted this record.
func alreadyPruned(rec *record.Record) bool {
	if rec.Fields == nil {
		return true
	}
	flagged, _ := rec.Fields["_pruned"].(bool)
	return flagged
}
