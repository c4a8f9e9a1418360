package chat

import (
	"strings"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/internal/payload"
	"github.com/BrenchCC/LLM-Lab/reasoning"
)

// ParseUsage reads token counts from a completion or chunk body. It returns
// nil when the provider reported no usage, which is distinct from zeros.
func ParseUsage(body any) *lab.Usage {
	usage := payload.Of(body).Get("usage")
	if !usage.IsObject() || usage.IsEmptyObject() {
		return nil
	}
	return &lab.Usage{
		PromptTokens:     usage.Get("prompt_tokens").Int(),
		CompletionTokens: usage.Get("completion_tokens").Int(),
		TotalTokens:      usage.Get("total_tokens").Int(),
	}
}

// MessageText returns the answer text of message content. String content
// is returned as is. For a list of blocks, the non-empty text of every
// non-reasoning block is joined with newlines.
func MessageText(content any) string {
	v := payload.Of(content)
	switch {
	case v.IsNull():
		return ""
	case v.IsString():
		return v.Str()
	case v.IsArray():
		var parts []string
		for _, block := range v.Array() {
			if !block.IsObject() || reasoning.IsReasoningBlock(block.Get("type").String()) {
				continue
			}
			if text := block.Get("text").String(); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	}
	return v.String()
}

// parsedCompletion is the normalized content of one blocking completion.
type parsedCompletion struct {
	answer    string
	reasoning string
	usage     *lab.Usage
}

func parseCompletion(c *lab.Completion) (parsedCompletion, error) {
	if c == nil {
		return parsedCompletion{}, lab.ErrNoChoices
	}
	body := payload.Of(c.Body)
	choices := body.Get("choices")
	if !choices.IsArray() || len(choices.Array()) == 0 {
		return parsedCompletion{}, lab.ErrNoChoices
	}

	message := body.Get("choices.0.message")
	answer, thoughts := reasoning.Separate(
		MessageText(message.Get("content")),
		reasoning.ExtractFromMessage(message),
	)
	return parsedCompletion{
		answer:    answer,
		reasoning: thoughts,
		usage:     ParseUsage(c.Body),
	}, nil
}
