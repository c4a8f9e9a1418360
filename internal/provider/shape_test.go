package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/internal/payload"
)

func TestCompletionBody(t *testing.T) {
	usage := NewUsage(3, 4)
	body := payload.Of(CompletionBody("msg_1", "claude", "answer", "thought", "end_turn", &usage))

	assert.Equal(t, "answer", body.Get("choices.0.message.content").String())
	assert.Equal(t, "thought", body.Get("choices.0.message.reasoning_content").String())
	assert.Equal(t, 7, body.Get("usage.total_tokens").Int())

	bare := payload.Of(CompletionBody("msg_2", "claude", "answer", "", "end_turn", nil))
	assert.False(t, bare.Get("choices.0.message.reasoning_content").Exists())
	assert.False(t, bare.Get("usage").Exists())
}

func TestChunks(t *testing.T) {
	delta := payload.Of(DeltaChunk("m", "", "hmm", nil).Body)
	assert.False(t, delta.Get("choices.0.delta.content").Exists())
	assert.Equal(t, "hmm", delta.Get("choices.0.delta.reasoning_content").String())
	assert.False(t, delta.Get("usage").Exists())

	counted := NewUsage(1, 1)
	withUsage := payload.Of(DeltaChunk("m", "hi", "", &counted).Body)
	assert.Equal(t, "hi", withUsage.Get("choices.0.delta.content").String())
	assert.Equal(t, 2, withUsage.Get("usage.total_tokens").Int())

	usage := payload.Of(UsageChunk("m", NewUsage(1, 2)).Body)
	assert.Empty(t, usage.Get("choices").Array())
	assert.Equal(t, 3, usage.Get("usage.total_tokens").Int())
}

func TestThinkingRequested(t *testing.T) {
	assert.False(t, ThinkingRequested(lab.CompletionParams{}))
	assert.False(t, ThinkingRequested(lab.CompletionParams{Extra: map[string]any{"enable_thinking": "yes"}}))
	assert.True(t, ThinkingRequested(lab.CompletionParams{Extra: map[string]any{"enable_thinking": true}}))
}
