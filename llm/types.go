package llm

import "strings"

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// NewTextMessage creates a message with the given role and text content.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{Role: role, Content: text}
}

// Request represents a completion request as handed to a provider.
// Model carries the bare model identifier; the "<provider>/" prefix is
// stripped by the host before dispatch.
type Request struct {
	Model       string
	Messages    []Message
	APIBase     string         // Optional API base URL override
	APIKey      string         // Optional per-request credential
	MaxTokens   int
	Temperature *float64       // Optional temperature override
	Extra       map[string]any // Provider-specific parameters
}

// LastUserMessage returns the content of the most recent user message,
// or the empty string if the request contains none.
func (r *Request) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// SystemPrompt concatenates all system messages in order.
// Providers that take the system prompt out-of-band (Anthropic) use this to
// separate it from the conversation turns.
func (r *Request) SystemPrompt() string {
	var parts []string
	for _, m := range r.Messages {
		if m.Role == RoleSystem {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n")
}

// Choice is a single completion alternative within a Response.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Response represents a complete (non-streaming) provider response.
type Response struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Created int64    `json:"created"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Text returns the content of the first choice, or the empty string when the
// response carries no choices.
func (r *Response) Text() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Usage represents token accounting for a single call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamChunk is a single delta in a streaming response.
type StreamChunk struct {
	Text         string
	Index        int
	FinishReason string
	Usage        *Usage // Populated on the final chunk when the backend reports it
	Done         bool
}

// Stream represents a streaming response from a provider.
type Stream interface {
	// Next advances to the next chunk in the stream.
	// Returns false when the stream is complete or an error occurs.
	Next() bool

	// Chunk returns the current chunk.
	// Should only be called after Next() returns true.
	Chunk() *StreamChunk

	// Err returns any error that occurred during streaming.
	Err() error

	// Close closes the stream and releases resources.
	Close() error
}

// EmbeddingRequest represents a text embedding request.
type EmbeddingRequest struct {
	Model  string
	Input  []string
	APIKey string
}

// Embedding is a single embedding vector within an EmbeddingResponse.
type Embedding struct {
	Index  int       `json:"index"`
	Vector []float32 `json:"embedding"`
}

// EmbeddingResponse represents the result of an embedding call.
type EmbeddingResponse struct {
	Model string      `json:"model"`
	Data  []Embedding `json:"data"`
	Usage *Usage      `json:"usage,omitempty"`
}

// ImageRequest represents an image generation request.
type ImageRequest struct {
	Model  string
	Prompt string
	N      int
	Size   string
	APIKey string
}

// ImageData is a single generated image, delivered by URL or inline base64.
type ImageData struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// ImageResponse represents the result of an image generation call.
type ImageResponse struct {
	Created int64       `json:"created"`
	Images  []ImageData `json:"data"`
}
