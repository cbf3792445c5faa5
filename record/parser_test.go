package record

import (
	"strings"
	"testing"
)

func TestParse_MixedRecords(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"message","timestamp":"2026-01-02T10:00:00Z","message":{"role":"user","content":"hello"}}`,
		``,
		`{"type":"message","message":{"role":"assistant","model":"claude-sonnet-4","content":[{"type":"text","text":"hi"},{"type":"toolCall","name":"exec"}]}}`,
		`{"type":"custom","customType":"model-snapshot","data":{"modelId":"gpt-5"}}`,
		`not json at all`,
		`{"type":"tool_result","content":[{"type":"text","text":"ok"}]}`,
	}, "\n")

	records, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records (blank line skipped), got %d", len(records))
	}

	first := records[0]
	if first.Type != TypeMessage {
		t.Errorf("first record type = %q, want %q", first.Type, TypeMessage)
	}
	if first.Timestamp != "2026-01-02T10:00:00Z" {
		t.Errorf("first record timestamp = %q", first.Timestamp)
	}
	if first.Message == nil || first.Message.Role != RoleUser {
		t.Fatalf("first record message not resolved: %+v", first.Message)
	}
	if first.Message.Content.Kind != ContentText || first.Message.Content.Text != "hello" {
		t.Errorf("plain string content not resolved: %+v", first.Message.Content)
	}

	second := records[1]
	if second.Message == nil || second.Message.Model != "claude-sonnet-4" {
		t.Fatalf("model not extracted: %+v", second.Message)
	}
	if second.Message.Content.Kind != ContentItems || len(second.Message.Content.Items) != 2 {
		t.Fatalf("item content not resolved: %+v", second.Message.Content)
	}
	if got := second.Message.Content.Items[1].ToolName(); got != "exec" {
		t.Errorf("tool name = %q, want %q", got, "exec")
	}

	custom := records[2]
	if custom.CustomType != CustomModelSnapshot {
		t.Errorf("customType = %q", custom.CustomType)
	}
	if data := custom.Data(); data["modelId"] != "gpt-5" {
		t.Errorf("custom data not preserved: %v", data)
	}

	bad := records[3]
	if !bad.Unparsed() {
		t.Fatal("malformed line should yield an unparsed record")
	}
	if bad.Raw != "not json at all" {
		t.Errorf("raw text not retained: %q", bad.Raw)
	}
}

func TestParse_UnboundedLineLength(t *testing.T) {
	huge := strings.Repeat("y", 9*1024*1024)
	input := `{"type":"message","message":{"role":"user","content":"before"}}` + "\n" +
		`{"type":"tool_result","content":"` + huge + `"}` + "\n" +
		`{"type":"message","message":{"role":"user","content":"after"}}` + "\n"

	records, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1].Raw != "" {
		t.Error("oversized line should still decode as a structured record")
	}
	if content, _ := records[1].Fields["content"].(string); len(content) != len(huge) {
		t.Errorf("oversized content length = %d, want %d", len(content), len(huge))
	}
	if records[2].Fields["message"].(map[string]any)["content"] != "after" {
		t.Error("record after the oversized line was lost")
	}
}

func TestParse_NonObjectJSONIsUnparsed(t *testing.T) {
	records := ParseString(`"just a string"` + "\n" + `[1,2,3]`)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for i, rec := range records {
		if !rec.Unparsed() {
			t.Errorf("record %d: non-object JSON should be unparsed", i)
		}
	}
}

func TestToolCall_ToolName(t *testing.T) {
	tests := []struct {
		name string
		call ToolCall
		want string
	}{
		{"flat name", ToolCall{Name: "bash"}, "bash"},
		{"function name fallback", ToolCall{FunctionName: "read_file"}, "read_file"},
		{"flat name wins", ToolCall{Name: "bash", FunctionName: "other"}, "bash"},
		{"neither", ToolCall{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.call.ToolName(); got != tt.want {
				t.Errorf("ToolName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItem_ToolNameFromParams(t *testing.T) {
	item := Item{Type: ItemToolCall, Params: map[string]any{"tool": "grep"}}
	if got := item.ToolName(); got != "grep" {
		t.Errorf("ToolName() = %q, want %q", got, "grep")
	}
}

func TestMarshalLine_RoundTripsUnknownFields(t *testing.T) {
	records := ParseString(`{"type":"tool","name":"exec","content":"out","vendor_extension":{"x":1}}`)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	line, err := records[0].MarshalLine()
	if err != nil {
		t.Fatalf("MarshalLine: %v", err)
	}
	if !strings.Contains(string(line), "vendor_extension") {
		t.Errorf("unknown field dropped on rewrite: %s", line)
	}
}

func TestMarshalLine_WrapsUnparsed(t *testing.T) {
	records := ParseString("garbage line")
	line, err := records[0].MarshalLine()
	if err != nil {
		t.Fatalf("MarshalLine: %v", err)
	}
	if string(line) != `{"_raw":"garbage line"}` {
		t.Errorf("unexpected unparsed encoding: %s", line)
	}
}
