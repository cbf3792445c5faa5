// Package record parses OpenClaw session logs: newline-delimited JSON, one
// record per line, with loosely-structured shapes that vary across runtime
// versions. Parsing never fails a whole file; malformed lines degrade to
// placeholder records that retain the raw text.
package record

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse reads newline-delimited JSON from r and returns one Record per
// non-empty line, in file order. Lines that fail structural decoding yield
// placeholder records with Raw set; they are never dropped. The only error
// returned is a read error from r itself.
func Parse(r io.Reader) ([]Record, error) {
	// Tool outputs can carry multi-megabyte payloads on a single line, so
	// lines are read unbounded rather than through a capped scanner.
	br := bufio.NewReader(r)

	var records []Record
	for {
		line, err := br.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			records = append(records, parseLine(trimmed))
		}
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
	}
}

// ParseString parses raw session text already held in memory.
func ParseString(text string) []Record {
	records, _ := Parse(strings.NewReader(text))
	return records
}

// parseLine decodes one line into a Record. The type/timestamp/customType
// tags are sniffed with gjson before the full decode; the decoded object is
// kept whole so unknown fields survive a rewrite.
func parseLine(line string) Record {
	if !gjson.Valid(line) {
		return Record{Raw: line}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil || fields == nil {
		// Valid JSON but not an object (bare string, number, array).
		return Record{Raw: line}
	}

	rec := Record{
		Fields:     fields,
		Type:       gjson.Get(line, "type").String(),
		Timestamp:  gjson.Get(line, "timestamp").String(),
		CustomType: gjson.Get(line, "customType").String(),
	}

	switch rec.Type {
	case TypeMessage:
		rec.Message = resolveMessage(fields)
	case TypeTool, TypeToolResult:
		rec.Content = resolveContent(fields["content"])
	}
	return rec
}

// resolveMessage builds the typed message view from a decoded record object.
// Missing or oddly-typed fields resolve to zero values rather than errors.
func resolveMessage(fields map[string]any) *Message {
	raw, _ := fields["message"].(map[string]any)
	if raw == nil {
		return &Message{}
	}

	msg := &Message{
		Role:         stringField(raw, "role"),
		Model:        stringField(raw, "model"),
		ErrorMessage: stringField(raw, "errorMessage"),
		StopReason:   stringField(raw, "stopReason"),
		Content:      resolveContent(raw["content"]),
	}

	if calls, ok := raw["tool_calls"].([]any); ok {
		for _, c := range calls {
			call, ok := c.(map[string]any)
			if !ok {
				continue
			}
			tc := ToolCall{
				ID:   stringField(call, "id"),
				Name: stringField(call, "name"),
			}
			if fn, ok := call["function"].(map[string]any); ok {
				tc.FunctionName = stringField(fn, "name")
			}
			msg.ToolCalls = append(msg.ToolCalls, tc)
		}
	}
	return msg
}

// resolveContent maps the two wire shapes of message content onto the
// Content union. Anything else resolves to ContentNone.
func resolveContent(v any) Content {
	switch content := v.(type) {
	case string:
		return Content{Kind: ContentText, Text: content}
	case []any:
		items := make([]Item, 0, len(content))
		for _, e := range content {
			obj, ok := e.(map[string]any)
			if !ok {
				continue
			}
			item := Item{
				Type:     stringField(obj, "type"),
				Text:     stringField(obj, "text"),
				Thinking: stringField(obj, "thinking"),
				Name:     stringField(obj, "name"),
			}
			if params, ok := obj["params"].(map[string]any); ok {
				item.Params = params
			}
			items = append(items, item)
		}
		return Content{Kind: ContentItems, Items: items}
	default:
		return Content{Kind: ContentNone}
	}
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// Data returns the "data" payload of a custom record, nil when absent.
func (r *Record) Data() map[string]any {
	if r.Fields == nil {
		return nil
	}
	data, _ := r.Fields["data"].(map[string]any)
	return data
}
