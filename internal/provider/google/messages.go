package google

import (
	"encoding/base64"
	"strings"

	"google.golang.org/genai"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/media"
)

// convertMessages maps chat turns onto GenAI contents. System messages are
// joined into the system instruction; assistant turns use the "model" role.
func convertMessages(messages []lab.Message) ([]*genai.Content, string, error) {
	var contents []*genai.Content
	var system []string

	for _, msg := range messages {
		if msg.Role == lab.RoleSystem {
			if msg.Content != "" {
				system = append(system, msg.Content)
			}
			continue
		}

		role := "user"
		if msg.Role == lab.RoleAssistant {
			role = "model"
		}

		var parts []*genai.Part
		if msg.HasParts() {
			converted, err := convertParts(msg.Parts)
			if err != nil {
				return nil, "", err
			}
			parts = converted
		} else if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}
	return contents, strings.Join(system, "\n\n"), nil
}

func convertParts(parts []lab.ContentPart) ([]*genai.Part, error) {
	var result []*genai.Part
	for _, part := range parts {
		switch part.Type {
		case lab.ContentPartTypeText:
			if part.Text != "" {
				result = append(result, &genai.Part{Text: part.Text})
			}
		case lab.ContentPartTypeImageURL:
			mimeType, encoded, err := media.DecodeDataURL(part.ImageURL)
			if err != nil {
				return nil, &lab.MediaError{Op: "decode", Path: "inline image", Err: err}
			}
			data, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, &lab.MediaError{Op: "decode", Path: "inline image", Err: err}
			}
			result = append(result, &genai.Part{
				InlineData: &genai.Blob{Data: data, MIMEType: mimeType},
			})
		}
	}
	return result, nil
}
