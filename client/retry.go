package client

import (
	"context"

	"go.uber.org/zap"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/internal/retry"
)

// RetryConfig is an alias for retry.Config.
type RetryConfig = retry.Config

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return retry.DefaultConfig()
}

// IsTransientError reports whether err is worth retrying.
func IsTransientError(err error) bool {
	return retry.IsTransient(err)
}

// retryBackend retries blocking calls. Stream establishment is passed through
// because a partially consumed stream cannot be replayed.
type retryBackend struct {
	lab.Backend
	cfg retry.Config
}

func newRetryBackend(b lab.Backend, cfg retry.Config, logger *zap.Logger) *retryBackend {
	notify := cfg.Notify
	cfg.Notify = func(e retry.Event) {
		if e.Type == retry.EventRetrying {
			logger.Warn("retrying provider call",
				zap.Int("attempt", e.Attempt),
				zap.Int("max_attempts", e.MaxAttempts),
				zap.Duration("delay", e.Delay),
				zap.Error(e.Error))
		}
		if notify != nil {
			notify(e)
		}
	}
	return &retryBackend{Backend: b, cfg: cfg}
}

func (r *retryBackend) CreateCompletion(ctx context.Context, p lab.CompletionParams) (*lab.Completion, error) {
	return retry.Do(ctx, r.cfg, func() (*lab.Completion, error) {
		return r.Backend.CreateCompletion(ctx, p)
	})
}

func (r *retryBackend) RetrieveModel(ctx context.Context, model string) (*lab.ModelMetadata, error) {
	return retry.Do(ctx, r.cfg, func() (*lab.ModelMetadata, error) {
		return r.Backend.RetrieveModel(ctx, model)
	})
}
