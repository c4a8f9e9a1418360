package backendtest

import (
	lab "github.com/BrenchCC/LLM-Lab"
)

// TextCompletion builds an OpenAI-shaped completion with string content.
// A nil usage leaves the usage field out.
func TextCompletion(text string, usage *lab.Usage) *lab.Completion {
	return MessageCompletion(map[string]any{"role": "assistant", "content": text}, usage)
}

// MessageCompletion builds an OpenAI-shaped completion around message.
func MessageCompletion(message map[string]any, usage *lab.Usage) *lab.Completion {
	body := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"choices": []any{map[string]any{"index": 0, "message": message}},
	}
	if usage != nil {
		body["usage"] = usage
	}
	return &lab.Completion{Body: body}
}

// DeltaChunk builds a stream chunk whose delta carries content.
func DeltaChunk(content string) lab.Chunk {
	return DeltaChunkWith(map[string]any{"content": content})
}

// DeltaChunkWith builds a stream chunk with an arbitrary delta object.
func DeltaChunkWith(delta map[string]any) lab.Chunk {
	return lab.Chunk{Body: map[string]any{
		"object":  "chat.completion.chunk",
		"choices": []any{map[string]any{"index": 0, "delta": delta}},
	}}
}

// UsageChunk builds a final stream chunk with no choices and a usage object.
func UsageChunk(usage lab.Usage) lab.Chunk {
	return lab.Chunk{Body: map[string]any{
		"object":  "chat.completion.chunk",
		"choices": []any{},
		"usage":   usage,
	}}
}
