package record

// Record types as they appear in the "type" field of a session log line.
const (
	TypeMessage    = "message"
	TypeTool       = "tool"
	TypeToolResult = "tool_result"
	TypeToolCall   = "tool_call"
	TypeCustom     = "custom"
)

// Message roles.
const (
	RoleUser       = "user"
	RoleAssistant  = "assistant"
	RoleTool       = "tool"
	RoleToolResult = "toolResult"
)

// Content item types inside a message content array.
const (
	ItemText       = "text"
	ItemThinking   = "thinking"
	ItemToolCall   = "toolCall"
	ItemToolResult = "toolResult"
)

// CustomModelSnapshot is the customType emitted when the runtime switches models.
const CustomModelSnapshot = "model-snapshot"

// Record is one parsed line of a session log.
//
// Fields holds the full decoded JSON object so that unknown keys survive a
// read-modify-write cycle. For lines that fail structural decoding, Fields
// is nil and Raw retains the original text; such records are never dropped.
type Record struct {
	// Fields is the decoded JSON object, nil for unparsed lines.
	Fields map[string]any

	// Raw is the original line text, set only for unparsed lines.
	Raw string

	// Type is the value of the top-level "type" field, empty if absent.
	Type string

	// Timestamp is the record's ISO-8601 timestamp string, empty if absent.
	Timestamp string

	// Message is the resolved message view, non-nil only when Type is "message".
	Message *Message

	// Content is the resolved top-level content of tool and tool_result
	// records. Message content lives on Message instead.
	Content Content

	// CustomType is the value of "customType" for custom records.
	CustomType string
}

// Unparsed reports whether the record is a placeholder for a malformed line.
func (r *Record) Unparsed() bool {
	return r.Fields == nil
}

// ContentKind identifies how a message's content field was shaped on the wire.
type ContentKind int

const (
	// ContentNone means the content field was absent or of an unexpected type.
	ContentNone ContentKind = iota

	// ContentText means content was a plain string.
	ContentText

	// ContentItems means content was an ordered array of typed items.
	ContentItems
)

// Content is the tagged union over the two wire shapes of message content.
// It is resolved once at parse time; readers switch on Kind instead of
// re-inspecting raw JSON.
type Content struct {
	Kind  ContentKind
	Text  string
	Items []Item
}

// Item is one element of a structured content array.
type Item struct {
	// Type is "text", "thinking", "toolCall" or "toolResult".
	Type string

	// Text is set for "text" items.
	Text string

	// Thinking is set for "thinking" items.
	Thinking string

	// Name is the tool name for "toolCall" items, if present.
	Name string

	// Params holds the raw toolCall parameters, if present.
	Params map[string]any
}

// ToolName returns the tool a "toolCall" item refers to, preferring the
// item's own name over a "tool" key inside its params.
func (it Item) ToolName() string {
	if it.Name != "" {
		return it.Name
	}
	if it.Params != nil {
		if name, ok := it.Params["tool"].(string); ok {
			return name
		}
	}
	return ""
}

// ToolCall is one entry of a message's top-level "tool_calls" list.
type ToolCall struct {
	ID   string
	Name string

	// FunctionName is the nested function.name used by the OpenAI shape.
	FunctionName string
}

// ToolName returns the referenced tool name, preferring the flat name over
// the nested function name.
func (tc ToolCall) ToolName() string {
	if tc.Name != "" {
		return tc.Name
	}
	return tc.FunctionName
}

// Message is the resolved view of a message record's nested "message" object.
type Message struct {
	Role         string
	Model        string
	Content      Content
	ToolCalls    []ToolCall
	ErrorMessage string
	StopReason   string
}
