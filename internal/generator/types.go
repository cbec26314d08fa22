// Package generator talks to the model backend over the Ollama chat API
// and exposes generation as an incremental event stream.
package generator

// Message is a chat message in the backend's wire format.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	ToolName  string     `json:"tool_name,omitempty"`
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction names the tool and carries its arguments. The backend
// returns arguments as an object, not a string.
type ToolCallFunction struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Tool describes one callable function offered to the model for a turn.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction is the declared name, description and parameter schema.
type ToolFunction struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Schema is a JSON-schema fragment describing tool parameters.
type Schema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// SchemaProperty describes a single field within a Schema.
type SchemaProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Request is one generation call: system prompt, reconciled history in
// wire shape, the tools admitted for this turn (possibly none), and an
// output token cap.
type Request struct {
	System    string
	Messages  []Message
	Tools     []Tool
	MaxTokens int
}

// EventKind identifies a stream event.
type EventKind int

const (
	// EventTextDelta is an incremental chunk of assistant text.
	EventTextDelta EventKind = iota
	// EventToolCall fires when the model requests a tool invocation.
	EventToolCall
	// EventToolResult fires after the orchestrator executes a tool and
	// feeds its output back.
	EventToolResult
	// EventFinish terminates the stream and carries usage metadata.
	EventFinish
)

// Event is a single item in a generation stream. Consumers switch on
// Kind to see which fields are set.
type Event struct {
	Kind EventKind

	// Text is set for EventTextDelta.
	Text string

	// ToolCall is set for EventToolCall.
	ToolCall *ToolCall

	// ToolName and ToolResult are set for EventToolResult.
	ToolName   string
	ToolResult string

	// Finish is set for EventFinish.
	Finish *Finish
}

// Finish carries end-of-generation metadata.
type Finish struct {
	Reason       string `json:"reason"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
}

// Result is the assembled outcome of one Stream call.
type Result struct {
	Content   string
	ToolCalls []ToolCall
	Finish    Finish
}
