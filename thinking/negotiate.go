package thinking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	lab "github.com/BrenchCC/LLM-Lab"
)

// ExtraKey is the extra request parameter that asks for deep thinking.
const ExtraKey = "enable_thinking"

// Enabled returns the effective thinking flag: the override when given,
// including an explicit false, otherwise the profile's static opt-in.
func Enabled(profile lab.ProviderProfile, override *bool) bool {
	if override != nil {
		return *override
	}
	return profile.EnableDeepThinking
}

// FallbackWarning is the warning returned after a successful retry without the flag.
func FallbackWarning(profileID, model string) string {
	return fmt.Sprintf("Deep thinking is not supported by profile %q model %q; retried without it.", profileID, model)
}

// Option configures a negotiation.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	onFallback func(profileID, model string, cause error)
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFallbackHook registers fn to run each time a call falls back.
func WithFallbackHook(fn func(profileID, model string, cause error)) Option {
	return func(o *options) {
		o.onFallback = fn
	}
}

func applyOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CreateCompletion issues a blocking completion with thinking negotiation.
// model is used for the warning text; params.Model is what the provider sees.
func CreateCompletion(
	ctx context.Context,
	backend lab.Backend,
	profile lab.ProviderProfile,
	model string,
	params lab.CompletionParams,
	override *bool,
	opts ...Option,
) (*lab.Completion, []string, error) {
	return negotiate(ctx, profile, model, params, override, applyOptions(opts), backend.CreateCompletion)
}

// OpenStream establishes a stream with thinking negotiation. The first chunk
// is pulled before returning so establishment errors that a provider only
// reports on first read are classified too; the returned stream replays it.
func OpenStream(
	ctx context.Context,
	backend lab.Backend,
	profile lab.ProviderProfile,
	model string,
	params lab.CompletionParams,
	override *bool,
	opts ...Option,
) (lab.ChunkStream, []string, error) {
	open := func(ctx context.Context, p lab.CompletionParams) (lab.ChunkStream, error) {
		stream, err := backend.StreamCompletion(ctx, p)
		if err != nil {
			return nil, err
		}
		return prime(stream)
	}
	return negotiate(ctx, profile, model, params, override, applyOptions(opts), open)
}

func negotiate[T any](
	ctx context.Context,
	profile lab.ProviderProfile,
	model string,
	params lab.CompletionParams,
	override *bool,
	o *options,
	call func(context.Context, lab.CompletionParams) (T, error),
) (T, []string, error) {
	if !Enabled(profile, override) {
		result, err := call(ctx, params)
		return result, nil, err
	}

	result, err := call(ctx, params.WithExtra(ExtraKey, true))
	if err == nil {
		return result, nil, nil
	}
	if Classify(err) != KindUnsupportedParameter {
		var zero T
		return zero, nil, err
	}

	o.logger.Warn("deep thinking rejected, retrying without it",
		zap.String("profile", profile.ID),
		zap.String("model", model),
		zap.Error(err),
	)
	if o.onFallback != nil {
		o.onFallback(profile.ID, model, err)
	}

	result, err = call(ctx, params.WithoutExtra(ExtraKey))
	if err != nil {
		var zero T
		return zero, nil, err
	}
	return result, []string{FallbackWarning(profile.ID, model)}, nil
}
