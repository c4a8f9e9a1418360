package anthropic

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/media"
)

// convertMessages splits system prompts out and converts the rest. Empty
// text is skipped because the API rejects empty text blocks.
func convertMessages(messages []lab.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam, error) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		switch msg.Role {
		case lab.RoleSystem:
			if msg.Content != "" {
				system = append(system, anthropic.TextBlockParam{Text: msg.Content})
			}
		case lab.RoleAssistant:
			if msg.Content != "" {
				result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
			}
		default:
			if msg.HasParts() {
				blocks, err := convertParts(msg.Parts)
				if err != nil {
					return nil, nil, err
				}
				if len(blocks) > 0 {
					result = append(result, anthropic.NewUserMessage(blocks...))
				}
			} else if msg.Content != "" {
				result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
			}
		}
	}
	return result, system, nil
}

func convertParts(parts []lab.ContentPart) ([]anthropic.ContentBlockParamUnion, error) {
	var blocks []anthropic.ContentBlockParamUnion
	for _, part := range parts {
		switch part.Type {
		case lab.ContentPartTypeText:
			if part.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(part.Text))
			}
		case lab.ContentPartTypeImageURL:
			if strings.HasPrefix(part.ImageURL, "http://") || strings.HasPrefix(part.ImageURL, "https://") {
				blocks = append(blocks, anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: part.ImageURL}))
				continue
			}
			mimeType, data, err := media.DecodeDataURL(part.ImageURL)
			if err != nil {
				return nil, &lab.MediaError{Op: "decode", Path: "inline image", Err: err}
			}
			blocks = append(blocks, anthropic.NewImageBlockBase64(mimeType, data))
		}
	}
	return blocks, nil
}
