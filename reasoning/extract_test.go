package reasoning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected string
	}{
		{name: "nil", in: nil, expected: ""},
		{name: "string is trimmed", in: "  thought \n", expected: "thought"},
		{name: "list of strings", in: []any{"a", " ", "b"}, expected: "a\n\nb"},
		{name: "object text", in: map[string]any{"type": "reasoning", "text": "t"}, expected: "t"},
		{name: "object content", in: map[string]any{"content": "c"}, expected: "c"},
		{name: "object summary list", in: map[string]any{"text": "", "summary": []any{map[string]any{"text": "s1"}, "s2"}}, expected: "s1\n\ns2"},
		{name: "nested lists", in: []any{[]any{"x", map[string]any{"text": "y"}}, "z"}, expected: "x\n\ny\n\nz"},
		{name: "object with empty fields", in: map[string]any{"text": ""}, expected: ""},
		{name: "unknown object falls back to json", in: map[string]any{"steps": 2}, expected: `{"steps":2}`},
		{name: "number", in: 42, expected: "42"},
		{name: "raw json", in: json.RawMessage(`["p", {"summary": "q"}]`), expected: "p\n\nq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.in))
		})
	}
}

func TestExtractFromMessage(t *testing.T) {
	tests := []struct {
		name     string
		message  any
		expected string
	}{
		{
			name: "structured field duplicated in a content block",
			message: map[string]any{
				"content": []any{
					map[string]any{"type": "reasoning", "text": "step one"},
					map[string]any{"type": "text", "text": "final answer"},
				},
				"reasoning_content": "step one",
			},
			expected: "step one",
		},
		{
			name: "fields in order then blocks",
			message: map[string]any{
				"thinking":          "second",
				"reasoning_content": "first",
				"analysis":          map[string]any{"summary": "third"},
				"content": []any{
					map[string]any{"type": "thinking", "text": "fourth"},
					map[string]any{"type": "analysis", "content": "first"},
				},
			},
			expected: "first\n\nsecond\n\nthird\n\nfourth",
		},
		{
			name:     "plain string content has no reasoning",
			message:  map[string]any{"role": "assistant", "content": "<think>x</think>y"},
			expected: "",
		},
		{
			name:     "raw provider json",
			message:  json.RawMessage(`{"content":"a","reasoning":[{"text":"r1"},{"text":"r2"}]}`),
			expected: "r1\n\nr2",
		},
		{
			name:     "nil message",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractFromMessage(tt.message))
		})
	}
}

func TestIsReasoningBlock(t *testing.T) {
	for _, typ := range []string{"analysis", "reasoning", "reasoning_content", "reasoning_text", "thinking"} {
		assert.True(t, IsReasoningBlock(typ), typ)
	}
	assert.False(t, IsReasoningBlock("text"))
	assert.False(t, IsReasoningBlock("image_url"))
}
