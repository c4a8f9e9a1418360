package llmlab

// Sampling defaults applied by NewChatRequest.
const (
	DefaultTemperature = 0.7
	DefaultTopP        = 1.0
)

// ChatRequest is one unified chat turn. It is constructed per turn and
// consumed once.
type ChatRequest struct {
	UserText   string
	ImagePaths []string
	VideoPaths []string

	// SystemPrompt overrides the service default when non-empty.
	SystemPrompt string
	History      []HistoryEntry

	Stream      bool
	Temperature float64
	TopP        float64
	// MaxTokens is nil when the provider default applies.
	MaxTokens *int
}

// NewChatRequest returns a request for text with the default sampling parameters.
func NewChatRequest(text string) ChatRequest {
	return ChatRequest{
		UserText:    text,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}
}

// HasMedia reports whether the request carries image or video inputs.
func (r ChatRequest) HasMedia() bool {
	return len(r.ImagePaths) > 0 || len(r.VideoPaths) > 0
}

// Usage holds provider-reported token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the normalized result of one chat turn.
type ChatResponse struct {
	// RequestID correlates the response with its log lines.
	RequestID string `json:"request_id,omitempty"`

	// AssistantText is the visible answer with reasoning removed. It is empty
	// whenever ErrorMessage is set.
	AssistantText string `json:"assistant_text"`

	// Usage is nil when the provider reported no usage. A non-nil value with
	// zero counts means the provider reported zeros.
	Usage *Usage `json:"usage,omitempty"`

	ReasoningText string   `json:"reasoning_text,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`

	// ErrorMessage signals failure when non-empty.
	ErrorMessage string `json:"error_message,omitempty"`

	// Raw is the provider payload, kept for debugging.
	Raw any `json:"-"`
}

// Failed reports whether the response carries an error message.
func (r *ChatResponse) Failed() bool {
	return r.ErrorMessage != ""
}
