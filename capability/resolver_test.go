package capability

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/internal/backendtest"
	"github.com/BrenchCC/LLM-Lab/metrics"
)

func testProfile(caps lab.ModelCapabilities) lab.ProviderProfile {
	return lab.ProviderProfile{
		ID:           "p1",
		BaseURL:      "https://api.example.com/v1",
		APIKeyEnv:    "TEST_API_KEY",
		DefaultModel: "vision-model",
		Capabilities: caps,
	}
}

func metadataBackend(description string) *backendtest.Backend {
	return &backendtest.Backend{
		Metadata: func(model string) (*lab.ModelMetadata, error) {
			return &lab.ModelMetadata{Body: map[string]any{"id": model, "description": description}}, nil
		},
	}
}

func TestResolveFromMetadata(t *testing.T) {
	ctx := context.Background()
	cachePath := filepath.Join(t.TempDir(), "cap_cache.json")
	backend := metadataBackend("multimodal image vision model")

	caps, err := ResolveCapabilities(ctx, testProfile(lab.ModelCapabilities{}), "vision-model", backend, cachePath, false)
	require.NoError(t, err)

	assert.Equal(t, lab.CapabilitySupported, caps.Text)
	assert.Equal(t, lab.CapabilitySupported, caps.Image)
	assert.Equal(t, lab.CapabilityUnsupported, caps.Video)
	assert.Equal(t, lab.CapabilityUnsupported, caps.Audio)
	assert.Empty(t, backend.CompletionCalls(), "metadata settled image support, no probe")

	cached, ok, err := NewFileStore(cachePath).Get(ctx, "p1::vision-model")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, caps, cached)
}

func TestExplicitCapabilityHasPriority(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "p1::vision-model", lab.ModelCapabilities{Image: lab.CapabilitySupported}))

	explicit := lab.ModelCapabilities{
		Text:  lab.CapabilitySupported,
		Image: lab.CapabilityUnsupported,
		Video: lab.CapabilityUnsupported,
		Audio: lab.CapabilityUnsupported,
	}
	backend := metadataBackend("multimodal image vision model")

	caps, err := NewResolver(store).Resolve(ctx, testProfile(explicit), "vision-model", backend, ForceRefresh(true))
	require.NoError(t, err)

	assert.Equal(t, lab.CapabilityUnsupported, caps.Image)
	assert.Zero(t, backend.TotalCalls())
}

func TestResolveNoNetworkWhenCached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "p1::m", visionCaps))

	factoryCalls := 0
	resolver := NewResolver(store, WithBackendFactory(func(lab.ProviderProfile) (lab.Backend, error) {
		factoryCalls++
		return &backendtest.Backend{}, nil
	}))
	backend := &backendtest.Backend{}

	caps, err := resolver.Resolve(ctx, testProfile(lab.ModelCapabilities{}), "m", backend)
	require.NoError(t, err)
	assert.Equal(t, visionCaps, caps)
	assert.Zero(t, backend.TotalCalls())

	caps, err = resolver.Resolve(ctx, testProfile(lab.ModelCapabilities{}), "m", nil)
	require.NoError(t, err)
	assert.Equal(t, visionCaps, caps)
	assert.Zero(t, factoryCalls, "no backend is built when nothing needs detection")
}

func TestResolveMergesExplicitOverCache(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "p1::m", visionCaps))

	explicit := lab.ModelCapabilities{Image: lab.CapabilityUnsupported, Audio: lab.CapabilitySupported}
	caps, err := NewResolver(store).Resolve(ctx, testProfile(explicit), "m", &backendtest.Backend{})
	require.NoError(t, err)

	assert.Equal(t, lab.CapabilityUnsupported, caps.Image)
	assert.Equal(t, lab.CapabilitySupported, caps.Audio)
	assert.Equal(t, lab.CapabilitySupported, caps.Text)
}

func TestResolveProbe(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		probeErr error
		expected lab.Capability
	}{
		{name: "probe succeeds", expected: lab.CapabilitySupported},
		{name: "probe fails", probeErr: errors.New("image input not allowed"), expected: lab.CapabilityUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &backendtest.Backend{
				Complete: func(lab.CompletionParams) (*lab.Completion, error) {
					if tt.probeErr != nil {
						return nil, tt.probeErr
					}
					return backendtest.TextCompletion("p", nil), nil
				},
			}
			reg := prometheus.NewRegistry()
			store := NewMemoryStore()
			resolver := NewResolver(store, WithMetrics(metrics.NewRecorder(reg, "")))

			caps, err := resolver.Resolve(ctx, testProfile(lab.ModelCapabilities{}), "plain-model", backend)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, caps.Image)
			assert.Equal(t, lab.CapabilityUnsupported, caps.Video)
			assert.True(t, caps.Complete())
			assert.Equal(t, []string{"plain-model"}, backend.RetrieveCalls())

			calls := backend.CompletionCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, 1, *calls[0].MaxTokens)
			require.Len(t, calls[0].Messages, 1)
			parts := calls[0].Messages[0].Parts
			require.Len(t, parts, 2)
			assert.Equal(t, "ping", parts[0].Text)
			assert.Contains(t, parts[1].ImageURL, "data:image/png;base64,")

			cached, ok, err := store.Get(ctx, "p1::plain-model")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, caps, cached)
		})
	}
}

func TestResolveForceRefresh(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "p1::m", visionCaps))

	backend := metadataBackend("speech model")
	caps, err := NewResolver(store).Resolve(ctx, testProfile(lab.ModelCapabilities{}), "m", backend, ForceRefresh(true))
	require.NoError(t, err)

	assert.Equal(t, lab.CapabilityUnsupported, caps.Image, "cached image support is ignored")
	assert.Equal(t, lab.CapabilitySupported, caps.Audio)
	assert.Len(t, backend.RetrieveCalls(), 1)

	cached, _, err := store.Get(ctx, "p1::m")
	require.NoError(t, err)
	assert.Equal(t, caps, cached)
}

func TestResolveBackendFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("builds a backend when needed", func(t *testing.T) {
		backend := metadataBackend("omni")
		var built []string
		resolver := NewResolver(NewMemoryStore(), WithBackendFactory(func(p lab.ProviderProfile) (lab.Backend, error) {
			built = append(built, p.ID)
			return backend, nil
		}))

		caps, err := resolver.Resolve(ctx, testProfile(lab.ModelCapabilities{}), "m", nil)
		require.NoError(t, err)
		assert.Equal(t, lab.CapabilitySupported, caps.Image)
		assert.Equal(t, []string{"p1"}, built)
	})

	t.Run("factory errors propagate", func(t *testing.T) {
		missing := &lab.ErrMissingAPIKey{Profile: "p1", EnvVar: "TEST_API_KEY"}
		resolver := NewResolver(NewMemoryStore(), WithBackendFactory(func(lab.ProviderProfile) (lab.Backend, error) {
			return nil, missing
		}))

		_, err := resolver.Resolve(ctx, testProfile(lab.ModelCapabilities{}), "m", nil)
		assert.ErrorIs(t, err, missing)
	})

	t.Run("no backend and no factory", func(t *testing.T) {
		_, err := NewResolver(NewMemoryStore()).Resolve(ctx, testProfile(lab.ModelCapabilities{}), "m", nil)
		assert.ErrorIs(t, err, ErrNoBackend)
	})
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (lab.ModelCapabilities, bool, error) {
	return lab.ModelCapabilities{}, false, errors.New("disk on fire")
}

func (failingStore) Set(context.Context, string, lab.ModelCapabilities) error {
	return errors.New("disk on fire")
}

func (failingStore) Load(context.Context) (map[string]lab.ModelCapabilities, error) {
	return nil, errors.New("disk on fire")
}

func TestResolveStoreFailuresAreNotFatal(t *testing.T) {
	backend := metadataBackend("vl")
	caps, err := NewResolver(failingStore{}).Resolve(context.Background(), testProfile(lab.ModelCapabilities{}), "m", backend)
	require.NoError(t, err)
	assert.Equal(t, lab.CapabilitySupported, caps.Image)
}

func TestResolveSharesConcurrentDetection(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	var mu sync.Mutex
	retrievals := 0
	backend := &backendtest.Backend{
		Metadata: func(string) (*lab.ModelMetadata, error) {
			mu.Lock()
			retrievals++
			mu.Unlock()
			<-release
			return &lab.ModelMetadata{Body: `{"id":"m"}`}, nil
		},
	}
	resolver := NewResolver(NewMemoryStore())

	var wg sync.WaitGroup
	results := make([]lab.ModelCapabilities, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caps, err := resolver.Resolve(ctx, testProfile(lab.ModelCapabilities{}), "m", backend)
			assert.NoError(t, err)
			results[i] = caps
		}(i)
	}
	close(release)
	wg.Wait()

	for _, caps := range results {
		assert.True(t, caps.Complete())
	}
	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, retrievals, 1)
	assert.LessOrEqual(t, retrievals, 4)
}

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name  string
		model string
		meta  string
		image bool
		video bool
		audio bool
	}{
		{name: "vision keyword", model: "m", meta: "Vision capable", image: true},
		{name: "vl in model name", model: "qwen-VL-max", image: true},
		{name: "gpt-4o", model: "gpt-4o-mini", image: true},
		{name: "video", model: "m", meta: "videogen", video: true},
		{name: "audio", model: "m", meta: "voice assistant", audio: true},
		{name: "omni covers image only", model: "qwen-omni", image: true},
		{name: "plain", model: "deepseek-chat", meta: `{"id":"deepseek-chat"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := Heuristic(tt.model, tt.meta)
			assert.Equal(t, lab.CapabilitySupported, caps.Text)
			assert.Equal(t, lab.FromBool(tt.image), caps.Image)
			assert.Equal(t, lab.FromBool(tt.video), caps.Video)
			assert.Equal(t, lab.FromBool(tt.audio), caps.Audio)
		})
	}
}

func TestMetadataText(t *testing.T) {
	assert.Empty(t, MetadataText(nil))
	assert.Equal(t, "plain description", MetadataText(&lab.ModelMetadata{Body: "plain description"}))
	assert.JSONEq(t, `{"id":"m","owned_by":"me"}`, MetadataText(&lab.ModelMetadata{Body: map[string]any{"id": "m", "owned_by": "me"}}))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "ark::doubao", Key("ark", "doubao"))
}
