package store

import "encoding/json"

// Entry is one record of a per-agent sessions.json index. The agent runtime
// writes many fields this service does not interpret; keeping the raw object
// means a rewrite preserves them verbatim.
type Entry map[string]any

// Index maps index keys to entries. The key is runtime-internal and not
// necessarily the session ID; match entries through their fields instead.
type Index map[string]Entry

// SessionID returns the entry's session ID, empty if absent.
func (e Entry) SessionID() string {
	return e.str("sessionId")
}

// Label returns the entry's label, empty if absent.
func (e Entry) Label() string {
	return e.str("label")
}

// ParentSessionID returns the recorded parent session, empty for roots.
func (e Entry) ParentSessionID() string {
	return e.str("parent_session_id")
}

// Channel returns the session's delivery channel, preferring the flat
// lastChannel field over the nested deliveryContext shape.
func (e Entry) Channel() string {
	if ch := e.str("lastChannel"); ch != "" {
		return ch
	}
	if dc, ok := e["deliveryContext"].(map[string]any); ok {
		if ch, ok := dc["channel"].(string); ok {
			return ch
		}
	}
	return ""
}

// SystemPromptReport returns the report as a string; a structured report is
// re-serialized as indented JSON for display.
func (e Entry) SystemPromptReport() string {
	switch report := e["systemPromptReport"].(type) {
	case string:
		return report
	case map[string]any:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// ResolvedSkills returns skill names from the skills snapshot. Entries may
// record skills as bare strings or as objects with a name field.
func (e Entry) ResolvedSkills() []string {
	snapshot, ok := e["skillsSnapshot"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := snapshot["resolvedSkills"].([]any)
	if !ok {
		return nil
	}
	skills := make([]string, 0, len(raw))
	for _, item := range raw {
		switch skill := item.(type) {
		case string:
			skills = append(skills, skill)
		case map[string]any:
			if name, ok := skill["name"].(string); ok {
				skills = append(skills, name)
			} else {
				skills = append(skills, "unknown")
			}
		}
	}
	return skills
}

// TotalTokens returns the session's total token count, nil if unrecorded.
func (e Entry) TotalTokens() *int { return e.intField("totalTokens") }

// ContextTokens returns the current context token count, nil if unrecorded.
func (e Entry) ContextTokens() *int { return e.intField("contextTokens") }

// InputTokens returns cumulative input tokens, nil if unrecorded.
func (e Entry) InputTokens() *int { return e.intField("inputTokens") }

// OutputTokens returns cumulative output tokens, nil if unrecorded.
func (e Entry) OutputTokens() *int { return e.intField("outputTokens") }

func (e Entry) str(key string) string {
	s, _ := e[key].(string)
	return s
}

// intField reads a numeric field. JSON numbers decode as float64.
func (e Entry) intField(key string) *int {
	f, ok := e[key].(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}
