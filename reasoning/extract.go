package reasoning

import (
	"slices"
	"strings"

	"github.com/BrenchCC/LLM-Lab/internal/payload"
)

// Fields of a provider message that may carry reasoning, in read order.
var messageFields = []string{"reasoning_content", "reasoning", "thinking", "analysis"}

// BlockTypes are the content block types that carry reasoning rather than answer text.
var BlockTypes = []string{"analysis", "reasoning", "reasoning_content", "reasoning_text", "thinking"}

// IsReasoningBlock reports whether a content block type carries reasoning.
func IsReasoningBlock(blockType string) bool {
	return slices.Contains(BlockTypes, blockType)
}

// ExtractFromMessage collects reasoning from a provider message: the known
// reasoning fields first, then any reasoning-typed content blocks. Identical
// fragments are kept once, in first-seen order, joined with blank lines.
func ExtractFromMessage(message any) string {
	msg := payload.Of(message)

	var parts []string
	add := func(v payload.Value) {
		text := Normalize(v)
		if text != "" && !slices.Contains(parts, text) {
			parts = append(parts, text)
		}
	}

	for _, field := range messageFields {
		add(msg.Get(field))
	}
	if content := msg.Get("content"); content.IsArray() {
		for _, block := range content.Array() {
			if block.IsObject() && IsReasoningBlock(block.Get("type").String()) {
				add(block)
			}
		}
	}
	return strings.Join(parts, separator)
}

// Normalize flattens a reasoning payload into one string. Strings are
// trimmed; lists are flattened recursively and joined with blank lines;
// objects yield their first non-empty text, content or summary field.
// Other shapes fall back to their string form.
func Normalize(v any) string {
	return normalize(payload.Of(v))
}

var objectFields = []string{"text", "content", "summary"}

func normalize(v payload.Value) string {
	switch {
	case v.IsNull():
		return ""
	case v.IsString():
		return strings.TrimSpace(v.Str())
	case v.IsArray():
		var parts []string
		for _, item := range v.Array() {
			if text := normalize(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, separator)
	case v.IsObject():
		found := false
		for _, field := range objectFields {
			f := v.Get(field)
			if !f.Exists() {
				continue
			}
			found = true
			if text := normalize(f); text != "" {
				return text
			}
		}
		if found {
			return ""
		}
		return strings.TrimSpace(v.Raw())
	}
	return strings.TrimSpace(v.String())
}
