package loom

import "encoding/json"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single message in a generation prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response represents a complete generation result.
type Response struct {
	// Content is the generated text. When a response schema was requested,
	// Content is a JSON document conforming to that schema.
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
}

// Object unmarshals the response content into target. Use after a request
// made with WithResponseSchema.
func (r *Response) Object(target any) error {
	return json.Unmarshal([]byte(r.Content), target)
}

// Usage contains token usage information for a request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Add accumulates usage from another request.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// StreamEvent represents a single event in a streaming generation.
type StreamEvent struct {
	// Delta contains the incremental content for this event.
	Delta string
	// Done indicates if this is the final event in the stream.
	Done bool
	// Response contains the complete response. Only set when Done is true.
	Response *Response
	// Err contains any error that terminated the stream.
	Err error
}

// ResponseSchema requests structured JSON output conforming to a schema.
type ResponseSchema struct {
	// Name identifies the schema to the provider.
	Name string
	// Description explains the expected output (optional).
	Description string
	// Schema is the JSON Schema the output must conform to.
	Schema json.RawMessage
}
