package llm

// Message represents a chat message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response represents a complete response from an LLM provider.
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Usage tracks token consumption for a request/response pair.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Config holds common configuration for LLM providers.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Options tunes a single completion call. A nil Options uses the provider's
// configured defaults.
type Options struct {
	// Temperature overrides the configured temperature when non-nil.
	Temperature *float32
	// JSONOnly asks the provider to emit exactly one JSON object.
	JSONOnly bool
}

// Temp is a convenience for building a per-call temperature override.
func Temp(t float32) *float32 {
	return &t
}
