package openai

import (
	"github.com/openai/openai-go"

	lab "github.com/BrenchCC/LLM-Lab"
)

func convertMessages(messages []lab.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case lab.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case lab.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			if msg.HasParts() {
				result = append(result, openai.ChatCompletionMessageParamUnion{
					OfUser: &openai.ChatCompletionUserMessageParam{
						Content: openai.ChatCompletionUserMessageParamContentUnion{
							OfArrayOfContentParts: convertParts(msg.Parts),
						},
					},
				})
			} else {
				result = append(result, openai.UserMessage(msg.Content))
			}
		}
	}
	return result
}

func convertParts(parts []lab.ContentPart) []openai.ChatCompletionContentPartUnionParam {
	result := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, part := range parts {
		switch part.Type {
		case lab.ContentPartTypeText:
			result = append(result, openai.TextContentPart(part.Text))
		case lab.ContentPartTypeImageURL:
			result = append(result, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: part.ImageURL,
			}))
		}
	}
	return result
}
