package llmlab

import "encoding/json"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ContentPartType is the type of one block in a multimodal message.
type ContentPartType string

const (
	ContentPartTypeText     ContentPartType = "text"
	ContentPartTypeImageURL ContentPartType = "image_url"
)

// ContentPart represents a single block of multimodal content.
type ContentPart struct {
	Type ContentPartType
	// Text is set for text blocks.
	Text string
	// ImageURL is set for image blocks. The chat pipeline always uses a
	// fully-encoded data URL here.
	ImageURL string
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartTypeText, Text: text}
}

// NewImageURLPart creates an image content part from a URL or data URL.
func NewImageURLPart(url string) ContentPart {
	return ContentPart{Type: ContentPartTypeImageURL, ImageURL: url}
}

// MarshalJSON encodes the part as an OpenAI content block.
func (p ContentPart) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case ContentPartTypeImageURL:
		return json.Marshal(map[string]any{
			"type":      p.Type,
			"image_url": map[string]string{"url": p.ImageURL},
		})
	default:
		return json.Marshal(map[string]any{"type": p.Type, "text": p.Text})
	}
}

// Message is one provider message: {role, content} where content is either
// plain text or a list of typed blocks.
type Message struct {
	Role    Role
	Content string
	// Parts holds multimodal blocks. When non-empty, Content is ignored.
	Parts []ContentPart
}

// HasParts returns true if the message carries content blocks.
func (m Message) HasParts() bool {
	return len(m.Parts) > 0
}

// MarshalJSON encodes the message in the OpenAI chat format.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.HasParts() {
		return json.Marshal(map[string]any{"role": m.Role, "content": m.Parts})
	}
	return json.Marshal(map[string]any{"role": m.Role, "content": m.Content})
}

// HistoryEntry is one prior conversation turn supplied by a front-end.
// Content is untyped because histories are often decoded from loose JSON;
// only string content survives message construction.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}
