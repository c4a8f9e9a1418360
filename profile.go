package llmlab

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// DefaultTimeout is used when a profile does not set a timeout.
const DefaultTimeout = 60 * time.Second

// ProviderProfile is a named provider configuration. Profiles are loaded once
// at startup and treated as read-only afterwards.
type ProviderProfile struct {
	ID        string
	API       API
	BaseURL   string
	APIKeyEnv string

	DefaultModel string
	// ModelAliases maps display model names to provider request model ids.
	ModelAliases map[string]string

	Timeout time.Duration
	// Capabilities is the explicit declaration; unknown flags are detected.
	Capabilities ModelCapabilities

	EnableDeepThinking bool
	// MaxRetries bounds retries of transient provider errors; 0 disables retry.
	MaxRetries int
}

// ResolveRequestModel maps a display model name to the id the provider API
// expects. Names without an alias pass through unchanged.
func (p ProviderProfile) ResolveRequestModel(name string) string {
	if id, ok := p.ModelAliases[name]; ok && id != "" {
		return id
	}
	return name
}

// Models lists the selectable display models: the default model first, then
// the alias keys in sorted order. Blank and duplicate names are skipped.
func (p ProviderProfile) Models() []string {
	seen := make(map[string]struct{}, len(p.ModelAliases)+1)
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	add(p.DefaultModel)
	for _, name := range slices.Sorted(maps.Keys(p.ModelAliases)) {
		add(name)
	}
	return out
}

// EffectiveTimeout returns Timeout, or DefaultTimeout when unset.
func (p ProviderProfile) EffectiveTimeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

// EffectiveAPI returns API, or APIOpenAI when unset.
func (p ProviderProfile) EffectiveAPI() API {
	if p.API == "" {
		return APIOpenAI
	}
	return p.API
}
