package capability

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/metrics"
)

// ErrNoBackend is returned when detection is needed but neither a backend
// nor a backend factory is available.
var ErrNoBackend = errors.New("capability detection needs a backend")

// Resolver resolves capabilities against a Store. Concurrent resolutions of
// the same key inside one process share a single detection.
type Resolver struct {
	store   Store
	logger  *zap.Logger
	metrics *metrics.Recorder
	factory lab.BackendFactory
	group   singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithBackendFactory sets how a backend is built when Resolve gets none.
func WithBackendFactory(f lab.BackendFactory) Option {
	return func(r *Resolver) {
		r.factory = f
	}
}

// NewResolver creates a resolver over store. A nil store uses a FileStore
// at DefaultCachePath.
func NewResolver(store Store, opts ...Option) *Resolver {
	if store == nil {
		store = NewFileStore(DefaultCachePath)
	}
	r := &Resolver{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the resolver's store.
func (r *Resolver) Store() Store { return r.store }

// ResolveOption configures a single resolution.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	forceRefresh bool
}

// ForceRefresh ignores cached records and re-runs detection. An explicit
// profile declaration still wins, and the fresh result replaces the cache entry.
func ForceRefresh(force bool) ResolveOption {
	return func(o *resolveOptions) {
		o.forceRefresh = force
	}
}

// Resolve returns fully known capabilities for (profile, model). backend may
// be nil, in which case one is built with the factory only if detection is
// needed. Detection and cache failures are logged, never returned; the only
// error is the inability to obtain a backend.
func (r *Resolver) Resolve(
	ctx context.Context,
	profile lab.ProviderProfile,
	model string,
	backend lab.Backend,
	opts ...ResolveOption,
) (lab.ModelCapabilities, error) {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}

	explicit := profile.Capabilities
	if explicit.Complete() {
		r.metrics.CapabilityResolved(metrics.SourceExplicit)
		return explicit.WithDefaults(), nil
	}

	key := Key(profile.ID, model)
	flight := key
	if o.forceRefresh {
		flight += "#refresh"
	}
	v, err, _ := r.group.Do(flight, func() (any, error) {
		return r.resolve(ctx, profile, model, backend, key, o.forceRefresh)
	})
	if err != nil {
		return lab.ModelCapabilities{}, err
	}
	return v.(lab.ModelCapabilities), nil
}

func (r *Resolver) resolve(
	ctx context.Context,
	profile lab.ProviderProfile,
	model string,
	backend lab.Backend,
	key string,
	forceRefresh bool,
) (lab.ModelCapabilities, error) {
	log := r.logger.With(zap.String("profile", profile.ID), zap.String("model", model))

	merged := profile.Capabilities
	if !forceRefresh {
		cached, ok, err := r.store.Get(ctx, key)
		if err != nil {
			log.Warn("failed to read capability cache", zap.Error(err))
		}
		if ok {
			merged = merged.Merge(cached)
		}
		if merged.Complete() {
			r.metrics.CapabilityResolved(metrics.SourceCache)
			return merged.WithDefaults(), nil
		}
	}

	if backend == nil {
		if r.factory == nil {
			return lab.ModelCapabilities{}, ErrNoBackend
		}
		b, err := r.factory(profile)
		if err != nil {
			return lab.ModelCapabilities{}, err
		}
		backend = b
	}

	detected, err := DetectFromMetadata(ctx, backend, model)
	if err != nil {
		log.Info("metadata detection failed", zap.Error(err))
	} else {
		merged = merged.Merge(detected)
	}

	if !merged.Image.Known() {
		supported := ProbeImageSupport(ctx, backend, model)
		r.metrics.ImageProbed(supported)
		log.Debug("image probe finished", zap.Bool("supported", supported))
		merged.Image = lab.FromBool(supported)
	}

	resolved := merged.WithDefaults()
	if err := r.store.Set(ctx, key, resolved); err != nil {
		log.Warn("failed to write capability cache", zap.Error(err))
	}
	r.metrics.CapabilityResolved(metrics.SourceDetected)
	log.Debug("capabilities resolved",
		zap.Stringer("text", resolved.Text),
		zap.Stringer("image", resolved.Image),
		zap.Stringer("video", resolved.Video),
		zap.Stringer("audio", resolved.Audio),
	)
	return resolved, nil
}

// ResolveCapabilities resolves against a FileStore at cachePath (empty uses
// DefaultCachePath). backend must be non-nil when detection is needed.
func ResolveCapabilities(
	ctx context.Context,
	profile lab.ProviderProfile,
	model string,
	backend lab.Backend,
	cachePath string,
	forceRefresh bool,
) (lab.ModelCapabilities, error) {
	return NewResolver(NewFileStore(cachePath)).Resolve(ctx, profile, model, backend, ForceRefresh(forceRefresh))
}
