package llmlab

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveRequestModel(t *testing.T) {
	profile := ProviderProfile{
		ID:           "ark",
		DefaultModel: "doubao-seed",
		ModelAliases: map[string]string{
			"doubao-seed": "endpoint-001",
			"empty":       "",
		},
	}

	tests := []struct {
		name     string
		model    string
		expected string
	}{
		{name: "maps alias to endpoint id", model: "doubao-seed", expected: "endpoint-001"},
		{name: "passes unknown names through", model: "gpt-4o-mini", expected: "gpt-4o-mini"},
		{name: "passes endpoint ids through", model: "endpoint-001", expected: "endpoint-001"},
		{name: "ignores empty alias targets", model: "empty", expected: "empty"},
		{name: "empty name", model: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, profile.ResolveRequestModel(tt.model))
		})
	}
}

func TestProfileModels(t *testing.T) {
	t.Run("default first then sorted aliases", func(t *testing.T) {
		profile := ProviderProfile{
			DefaultModel: " qwen-plus ",
			ModelAliases: map[string]string{
				"qwen-vl":   "qwen-vl-max",
				"qwen-plus": "qwen-plus-latest",
				"  ":        "blank",
			},
		}
		assert.Equal(t, []string{"qwen-plus", "qwen-vl"}, profile.Models())
	})

	t.Run("no models", func(t *testing.T) {
		assert.Empty(t, ProviderProfile{}.Models())
	})
}

func TestProfileDefaults(t *testing.T) {
	assert.Equal(t, DefaultTimeout, ProviderProfile{}.EffectiveTimeout())
	assert.Equal(t, 5*time.Second, ProviderProfile{Timeout: 5 * time.Second}.EffectiveTimeout())
	assert.Equal(t, APIOpenAI, ProviderProfile{}.EffectiveAPI())
	assert.Equal(t, APIGoogle, ProviderProfile{API: APIGoogle}.EffectiveAPI())
	assert.True(t, APIAnthropic.Valid())
	assert.False(t, API("cohere").Valid())
}
