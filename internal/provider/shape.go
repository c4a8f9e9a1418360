package provider

import (
	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/thinking"
)

// Backends for non-OpenAI APIs translate their responses into Chat
// Completions shaped bodies so one parser serves every provider. Reasoning
// travels in reasoning_content.

// CompletionBody builds a chat.completion body with one choice.
func CompletionBody(id, model, text, reasoning, finishReason string, usage *lab.Usage) map[string]any {
	message := map[string]any{"role": "assistant", "content": text}
	if reasoning != "" {
		message["reasoning_content"] = reasoning
	}
	body := map[string]any{
		"id":     id,
		"object": "chat.completion",
		"model":  model,
		"choices": []any{map[string]any{
			"index":         0,
			"message":       message,
			"finish_reason": finishReason,
		}},
	}
	if usage != nil {
		body["usage"] = usage
	}
	return body
}

// DeltaChunk builds a chat.completion.chunk body carrying answer text and
// reasoning text. Either may be empty. A nil usage is left out.
func DeltaChunk(model, text, reasoning string, usage *lab.Usage) lab.Chunk {
	delta := map[string]any{}
	if text != "" {
		delta["content"] = text
	}
	if reasoning != "" {
		delta["reasoning_content"] = reasoning
	}
	body := map[string]any{
		"object":  "chat.completion.chunk",
		"model":   model,
		"choices": []any{map[string]any{"index": 0, "delta": delta}},
	}
	if usage != nil {
		body["usage"] = usage
	}
	return lab.Chunk{Body: body}
}

// UsageChunk builds the final chunk of a stream: no choices, only usage.
func UsageChunk(model string, usage lab.Usage) lab.Chunk {
	return lab.Chunk{Body: map[string]any{
		"object":  "chat.completion.chunk",
		"model":   model,
		"choices": []any{},
		"usage":   usage,
	}}
}

// NewUsage fills TotalTokens from the prompt and completion counts.
func NewUsage(prompt, completion int) lab.Usage {
	return lab.Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion}
}

// ThinkingRequested reports whether params ask for deep thinking.
func ThinkingRequested(p lab.CompletionParams) bool {
	enabled, _ := p.Extra[thinking.ExtraKey].(bool)
	return enabled
}
