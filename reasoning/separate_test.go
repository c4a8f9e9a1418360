package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeparate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		explicit  string
		answer    string
		reasoning string
	}{
		{
			name:      "single tag",
			text:      "<think>A</think>B",
			answer:    "B",
			reasoning: "A",
		},
		{
			name:      "multiple tags",
			text:      "<think>A</think><think>C</think>B",
			answer:    "B",
			reasoning: "A\n\nC",
		},
		{
			name:      "explicit only",
			text:      "plain text",
			explicit:  "explicit reasoning",
			answer:    "plain text",
			reasoning: "explicit reasoning",
		},
		{
			name:      "case insensitive and multiline",
			text:      "<THINK>\n  line one\nline two\n</Think>\nvisible answer",
			answer:    "visible answer",
			reasoning: "line one\nline two",
		},
		{
			name:      "tag with trailing newline",
			text:      "<think>draft plan</think>\nvisible answer",
			answer:    "visible answer",
			reasoning: "draft plan",
		},
		{
			name:      "explicit and tag differ",
			text:      "<think>tagged</think>answer",
			explicit:  "structured",
			answer:    "answer",
			reasoning: "structured\n\ntagged",
		},
		{
			name:      "explicit and tag identical",
			text:      "<think>same</think>answer",
			explicit:  " same ",
			answer:    "answer",
			reasoning: "same",
		},
		{
			name:      "partial overlap is concatenated",
			text:      "<think>step one and two</think>answer",
			explicit:  "step one",
			answer:    "answer",
			reasoning: "step one\n\nstep one and two",
		},
		{
			name:   "empty tag bodies are skipped",
			text:   "<think>  </think>answer<think></think>",
			answer: "answer",
		},
		{
			name:   "unclosed tag is left alone",
			text:   "<think>never closed",
			answer: "<think>never closed",
		},
		{
			name: "empty input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, reasoning := Separate(tt.text, tt.explicit)
			assert.Equal(t, tt.answer, answer)
			assert.Equal(t, tt.reasoning, reasoning)
		})
	}
}
