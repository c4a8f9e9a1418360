package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/capability"
	"github.com/BrenchCC/LLM-Lab/media"
	"github.com/BrenchCC/LLM-Lab/metrics"
	"github.com/BrenchCC/LLM-Lab/thinking"
)

// CapabilityResolver resolves capabilities for a request model.
// *capability.Resolver implements it.
type CapabilityResolver interface {
	Resolve(ctx context.Context, profile lab.ProviderProfile, model string, backend lab.Backend, opts ...capability.ResolveOption) (lab.ModelCapabilities, error)
}

// ResolverFunc adapts a function to CapabilityResolver.
type ResolverFunc func(ctx context.Context, profile lab.ProviderProfile, model string, backend lab.Backend) (lab.ModelCapabilities, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, profile lab.ProviderProfile, model string, backend lab.Backend, _ ...capability.ResolveOption) (lab.ModelCapabilities, error) {
	return f(ctx, profile, model, backend)
}

// Config holds service-wide defaults.
type Config struct {
	// DefaultSystemPrompt is used when a request has none. Empty uses
	// the package DefaultSystemPrompt.
	DefaultSystemPrompt string

	// CachePath locates the capability cache file when no resolver is
	// supplied. Empty uses capability.DefaultCachePath.
	CachePath string

	// Frames controls video frame sampling. The zero value uses
	// media.DefaultFrameOptions.
	Frames media.FrameOptions
}

// Service runs chat turns. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	cfg       Config
	logger    *zap.Logger
	metrics   *metrics.Recorder
	resolver  CapabilityResolver
	factory   lab.BackendFactory
	extractor media.FrameExtractor
	encode    media.ImageEncoder
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithResolver replaces the capability resolver.
func WithResolver(r CapabilityResolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithBackendFactory sets how a backend is built for each turn.
func WithBackendFactory(f lab.BackendFactory) Option {
	return func(s *Service) {
		s.factory = f
	}
}

// WithFrameExtractor replaces the video frame extractor.
func WithFrameExtractor(e media.FrameExtractor) Option {
	return func(s *Service) {
		s.extractor = e
	}
}

// WithImageEncoder replaces the image data-URL encoder.
func WithImageEncoder(e media.ImageEncoder) Option {
	return func(s *Service) {
		s.encode = e
	}
}

// NewService creates a chat service.
func NewService(cfg Config, opts ...Option) *Service {
	if cfg.DefaultSystemPrompt == "" {
		cfg.DefaultSystemPrompt = DefaultSystemPrompt
	}
	if cfg.Frames == (media.FrameOptions{}) {
		cfg.Frames = media.DefaultFrameOptions
	}
	s := &Service{
		cfg:       cfg,
		logger:    zap.NewNop(),
		extractor: media.FFmpegExtractor{},
		encode:    media.EncodeImageToDataURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = capability.NewResolver(
			capability.NewFileStore(cfg.CachePath),
			capability.WithLogger(s.logger),
			capability.WithMetrics(s.metrics),
		)
	}
	return s
}

// CallOption configures one turn.
type CallOption func(*callOptions)

type callOptions struct {
	deepThinking *bool
	backend      lab.Backend
	forceRefresh bool
}

// WithDeepThinking overrides the profile's deep-thinking opt-in for one turn.
// false disables thinking even when the profile enables it.
func WithDeepThinking(enabled bool) CallOption {
	return func(o *callOptions) {
		o.deepThinking = &enabled
	}
}

// WithForceRefresh re-detects capabilities for this turn, ignoring cached
// values, and overwrites the cache entry.
func WithForceRefresh(force bool) CallOption {
	return func(o *callOptions) {
		o.forceRefresh = force
	}
}

// WithBackend uses b for this turn instead of building one.
func WithBackend(b lab.Backend) CallOption {
	return func(o *callOptions) {
		o.backend = b
	}
}

// prepared is everything needed to issue the provider call of one turn.
type prepared struct {
	backend      lab.Backend
	requestModel string
	params       lab.CompletionParams
}

func (s *Service) prepare(
	ctx context.Context,
	profile lab.ProviderProfile,
	model string,
	req lab.ChatRequest,
	co *callOptions,
	stream bool,
) (*prepared, error) {
	backend := co.backend
	if backend == nil {
		if s.factory == nil {
			return nil, capability.ErrNoBackend
		}
		b, err := s.factory(profile)
		if err != nil {
			return nil, err
		}
		backend = b
	}

	requestModel := profile.ResolveRequestModel(model)
	caps, err := s.resolver.Resolve(ctx, profile, requestModel, backend, capability.ForceRefresh(co.forceRefresh))
	if err != nil {
		return nil, err
	}
	if err := ValidateModalities(req, caps); err != nil {
		return nil, err
	}

	images, err := MergeImageInputs(ctx, s.extractor, req.ImagePaths, req.VideoPaths, s.cfg.Frames)
	if err != nil {
		return nil, err
	}
	messages, err := BuildMessages(req, s.cfg.DefaultSystemPrompt, images, s.encode)
	if err != nil {
		return nil, err
	}

	return &prepared{
		backend:      backend,
		requestModel: requestModel,
		params:       BuildCompletionParams(req, requestModel, messages, stream),
	}, nil
}

func (s *Service) thinkingOptions(log *zap.Logger) []thinking.Option {
	return []thinking.Option{
		thinking.WithLogger(log),
		thinking.WithFallbackHook(func(profileID, _ string, _ error) {
			s.metrics.ThinkingFallback(profileID)
		}),
	}
}

func applyCallOptions(opts []CallOption) *callOptions {
	co := &callOptions{}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// Send runs one blocking turn. Failures are reported in the response's
// ErrorMessage with empty assistant text and nil usage; Send never panics
// on provider errors and never returns an error value.
func (s *Service) Send(
	ctx context.Context,
	profile lab.ProviderProfile,
	model string,
	req lab.ChatRequest,
	opts ...CallOption,
) *lab.ChatResponse {
	start := time.Now()
	co := applyCallOptions(opts)
	resp := &lab.ChatResponse{RequestID: uuid.NewString()}
	log := s.logger.With(
		zap.String("request_id", resp.RequestID),
		zap.String("profile", profile.ID),
		zap.String("model", model),
	)

	fail := func(outcome string, err error) *lab.ChatResponse {
		log.Warn("chat request failed", zap.String("outcome", outcome), zap.Error(err))
		s.metrics.ChatRequest(metrics.ModeBlocking, outcome, time.Since(start))
		resp.AssistantText = ""
		resp.Usage = nil
		resp.ErrorMessage = err.Error()
		return resp
	}

	p, err := s.prepare(ctx, profile, model, req, co, false)
	if err != nil {
		return fail(outcomeOf(err), err)
	}

	completion, warnings, err := thinking.CreateCompletion(ctx, p.backend, profile, model, p.params, co.deepThinking, s.thinkingOptions(log)...)
	if err != nil {
		return fail(metrics.OutcomeProvider, err)
	}
	resp.Warnings = warnings

	parsed, err := parseCompletion(completion)
	if err != nil {
		return fail(metrics.OutcomeProvider, err)
	}
	resp.AssistantText = parsed.answer
	resp.ReasoningText = parsed.reasoning
	resp.Usage = parsed.usage
	resp.Raw = completion.Body

	if parsed.usage != nil {
		s.metrics.Tokens(profile.ID, parsed.usage.PromptTokens, parsed.usage.CompletionTokens)
	}
	s.metrics.ChatRequest(metrics.ModeBlocking, metrics.OutcomeSuccess, time.Since(start))
	log.Debug("chat request completed",
		zap.String("request_model", p.requestModel),
		zap.Int("answer_chars", len(resp.AssistantText)),
		zap.Int("reasoning_chars", len(resp.ReasoningText)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp
}

// Stream starts one streaming turn. Setup failures, including unsupported
// media and provider errors while establishing the stream, are returned.
// The caller must Close the stream.
func (s *Service) Stream(
	ctx context.Context,
	profile lab.ProviderProfile,
	model string,
	req lab.ChatRequest,
	opts ...CallOption,
) (*Stream, error) {
	start := time.Now()
	co := applyCallOptions(opts)
	requestID := uuid.NewString()
	log := s.logger.With(
		zap.String("request_id", requestID),
		zap.String("profile", profile.ID),
		zap.String("model", model),
	)

	p, err := s.prepare(ctx, profile, model, req, co, true)
	if err != nil {
		s.metrics.ChatRequest(metrics.ModeStream, outcomeOf(err), time.Since(start))
		return nil, err
	}

	src, warnings, err := thinking.OpenStream(ctx, p.backend, profile, model, p.params, co.deepThinking, s.thinkingOptions(log)...)
	if err != nil {
		log.Warn("chat stream failed to start", zap.Error(err))
		s.metrics.ChatRequest(metrics.ModeStream, metrics.OutcomeProvider, time.Since(start))
		return nil, err
	}

	return newStream(src, requestID, warnings, func(st *Stream) {
		outcome := metrics.OutcomeSuccess
		if st.Err() != nil {
			outcome = metrics.OutcomeProvider
			log.Warn("chat stream failed", zap.Error(st.Err()))
		}
		if st.usage != nil {
			s.metrics.Tokens(profile.ID, st.usage.PromptTokens, st.usage.CompletionTokens)
		}
		s.metrics.ChatRequest(metrics.ModeStream, outcome, time.Since(start))
		log.Debug("chat stream finished", zap.Duration("elapsed", time.Since(start)))
	}), nil
}

func outcomeOf(err error) string {
	if lab.IsUserInput(err) {
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeProvider
}
