package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/config"
	"github.com/BrenchCC/LLM-Lab/internal/provider/anthropic"
	"github.com/BrenchCC/LLM-Lab/internal/provider/google"
	"github.com/BrenchCC/LLM-Lab/internal/provider/openai"
	"github.com/BrenchCC/LLM-Lab/internal/retry"
)

type options struct {
	apiKey      string
	httpClient  *http.Client
	logger      *zap.Logger
	retryConfig *RetryConfig
}

// Option configures New and Factory.
type Option func(*options)

// WithAPIKey overrides the key read from the profile's api_key_env.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithHTTPClient sets the HTTP client used by every backend.
// The profile timeout still applies per request.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithLogger sets the logger for retry diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRetryConfig replaces the retry policy derived from the profile's
// max_retries.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(o *options) {
		o.retryConfig = &cfg
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds the backend for a profile.
func New(profile lab.ProviderProfile, opts ...Option) (lab.Backend, error) {
	return newBackend(profile, buildOptions(opts))
}

func newBackend(profile lab.ProviderProfile, o options) (lab.Backend, error) {
	key, err := config.ResolveAPIKey(profile, o.apiKey)
	if err != nil {
		return nil, err
	}

	var backend lab.Backend
	switch api := profile.EffectiveAPI(); api {
	case lab.APIOpenAI:
		clientOpts := []openai.ClientOption{openai.WithTimeout(profile.EffectiveTimeout())}
		if profile.BaseURL != "" {
			clientOpts = append(clientOpts, openai.WithBaseURL(profile.BaseURL))
		}
		if o.httpClient != nil {
			clientOpts = append(clientOpts, openai.WithHTTPClient(o.httpClient))
		}
		backend = openai.New(key, clientOpts...)
	case lab.APIAnthropic:
		clientOpts := []anthropic.ClientOption{anthropic.WithTimeout(profile.EffectiveTimeout())}
		if profile.BaseURL != "" {
			clientOpts = append(clientOpts, anthropic.WithBaseURL(profile.BaseURL))
		}
		if o.httpClient != nil {
			clientOpts = append(clientOpts, anthropic.WithHTTPClient(o.httpClient))
		}
		backend = anthropic.New(key, clientOpts...)
	case lab.APIGoogle:
		clientOpts := []google.ClientOption{google.WithTimeout(profile.EffectiveTimeout())}
		if profile.BaseURL != "" {
			clientOpts = append(clientOpts, google.WithBaseURL(profile.BaseURL))
		}
		if o.httpClient != nil {
			clientOpts = append(clientOpts, google.WithHTTPClient(o.httpClient))
		}
		g, err := google.New(context.Background(), key, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("profile `%s`: %w", profile.ID, err)
		}
		backend = g
	default:
		return nil, fmt.Errorf("profile `%s`: unsupported api %q", profile.ID, api)
	}

	cfg := retry.WithRetries(profile.MaxRetries)
	if o.retryConfig != nil {
		cfg = *o.retryConfig
	}
	if cfg.MaxAttempts <= 1 {
		return backend, nil
	}
	return newRetryBackend(backend, cfg, o.logger.With(zap.String("profile", profile.ID))), nil
}

// Factory returns a lab.BackendFactory that builds each profile's backend
// once and reuses it. Backends are keyed by profile id, api and base URL.
func Factory(opts ...Option) lab.BackendFactory {
	f := &factory{
		opts:     buildOptions(opts),
		backends: make(map[string]lab.Backend),
	}
	return f.get
}

type factory struct {
	opts options

	mu       sync.RWMutex
	backends map[string]lab.Backend
}

func (f *factory) get(profile lab.ProviderProfile) (lab.Backend, error) {
	key := profile.ID + "|" + string(profile.EffectiveAPI()) + "|" + profile.BaseURL

	f.mu.RLock()
	if b, ok := f.backends[key]; ok {
		f.mu.RUnlock()
		return b, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if b, ok := f.backends[key]; ok {
		return b, nil
	}
	b, err := newBackend(profile, f.opts)
	if err != nil {
		return nil, err
	}
	f.backends[key] = b
	return b, nil
}
