package llmlab

import "maps"

// CompletionParams are the arguments of one provider chat completion call.
type CompletionParams struct {
	// Model is the provider request model id (after alias resolution).
	Model    string
	Messages []Message
	Stream   bool

	// Temperature and TopP are nil only for internal calls such as the
	// capability probe; request-built params always carry both.
	Temperature *float64
	TopP        *float64

	// MaxTokens is nil when the provider default applies.
	MaxTokens *int

	// Extra holds provider-specific body parameters merged into the request
	// (the "extra body" slot), for example enable_thinking.
	Extra map[string]any
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Clone returns a copy of p whose Extra map can be modified independently.
// Messages are shared; they are never mutated after construction.
func (p CompletionParams) Clone() CompletionParams {
	out := p
	if p.Extra != nil {
		out.Extra = maps.Clone(p.Extra)
	}
	return out
}

// WithExtra returns a copy of p with key set in the extra parameters.
func (p CompletionParams) WithExtra(key string, value any) CompletionParams {
	out := p.Clone()
	if out.Extra == nil {
		out.Extra = make(map[string]any, 1)
	}
	out.Extra[key] = value
	return out
}

// WithoutExtra returns a copy of p without key. An emptied Extra becomes nil
// so the retried call carries no extra body at all.
func (p CompletionParams) WithoutExtra(key string) CompletionParams {
	out := p.Clone()
	delete(out.Extra, key)
	if len(out.Extra) == 0 {
		out.Extra = nil
	}
	return out
}

// HasExtra reports whether key is present in the extra parameters.
func (p CompletionParams) HasExtra(key string) bool {
	_, ok := p.Extra[key]
	return ok
}
