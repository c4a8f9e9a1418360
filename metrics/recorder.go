// Package metrics records Prometheus counters for the chat pipeline.
//
// A nil *Recorder is valid and records nothing, so components can hold one
// unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "llmlab"

// Capability resolution sources.
const (
	SourceExplicit = "explicit"
	SourceCache    = "cache"
	SourceDetected = "detected"
)

// Chat request modes and outcomes.
const (
	ModeBlocking = "blocking"
	ModeStream   = "stream"

	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeProvider = "provider_error"
)

// Recorder owns the pipeline counters.
type Recorder struct {
	capabilityResolutions *prometheus.CounterVec
	capabilityProbes      *prometheus.CounterVec
	thinkingFallbacks     *prometheus.CounterVec
	chatRequests          *prometheus.CounterVec
	chatDuration          *prometheus.HistogramVec
	tokens                *prometheus.CounterVec
}

// NewRecorder registers the counters on reg under namespace.
// An empty namespace uses DefaultNamespace.
func NewRecorder(reg prometheus.Registerer, namespace string) *Recorder {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Recorder{
		capabilityResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "capability_resolutions_total",
				Help:      "Capability resolutions by the step that settled them",
			},
			[]string{"source"},
		),
		capabilityProbes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "capability_probes_total",
				Help:      "Live image probes by result",
			},
			[]string{"result"},
		),
		thinkingFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "thinking_fallbacks_total",
				Help:      "Calls retried without the deep-thinking flag",
			},
			[]string{"profile"},
		),
		chatRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chat_requests_total",
				Help:      "Chat turns by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		chatDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "chat_request_duration_seconds",
				Help:      "Chat turn duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"mode"},
		),
		tokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Provider-reported tokens by kind",
			},
			[]string{"profile", "kind"},
		),
	}
}

// CapabilityResolved counts one resolution settled by source.
func (r *Recorder) CapabilityResolved(source string) {
	if r == nil {
		return
	}
	r.capabilityResolutions.WithLabelValues(source).Inc()
}

// ImageProbed counts one live probe.
func (r *Recorder) ImageProbed(supported bool) {
	if r == nil {
		return
	}
	result := "unsupported"
	if supported {
		result = "supported"
	}
	r.capabilityProbes.WithLabelValues(result).Inc()
}

// ThinkingFallback counts one retry without the thinking flag.
func (r *Recorder) ThinkingFallback(profileID string) {
	if r == nil {
		return
	}
	r.thinkingFallbacks.WithLabelValues(profileID).Inc()
}

// ChatRequest counts one finished chat turn and observes its duration.
func (r *Recorder) ChatRequest(mode, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.chatRequests.WithLabelValues(mode, outcome).Inc()
	r.chatDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// Tokens adds provider-reported token counts.
func (r *Recorder) Tokens(profileID string, prompt, completion int) {
	if r == nil {
		return
	}
	r.tokens.WithLabelValues(profileID, "prompt").Add(float64(prompt))
	r.tokens.WithLabelValues(profileID, "completion").Add(float64(completion))
}
