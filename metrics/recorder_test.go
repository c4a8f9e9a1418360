package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg, "")

	r.CapabilityResolved(SourceCache)
	r.CapabilityResolved(SourceCache)
	r.CapabilityResolved(SourceDetected)
	r.ImageProbed(true)
	r.ImageProbed(false)
	r.ThinkingFallback("p1")
	r.ChatRequest(ModeBlocking, OutcomeSuccess, 150*time.Millisecond)
	r.Tokens("p1", 3, 5)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.capabilityResolutions.WithLabelValues(SourceCache)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.capabilityResolutions.WithLabelValues(SourceDetected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.capabilityProbes.WithLabelValues("supported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.capabilityProbes.WithLabelValues("unsupported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.thinkingFallbacks.WithLabelValues("p1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.chatRequests.WithLabelValues(ModeBlocking, OutcomeSuccess)))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.tokens.WithLabelValues("p1", "completion")))

	count, err := testutil.GatherAndCount(reg, "llmlab_chat_request_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.CapabilityResolved(SourceExplicit)
		r.ImageProbed(true)
		r.ThinkingFallback("p1")
		r.ChatRequest(ModeStream, OutcomeProvider, time.Second)
		r.Tokens("p1", 1, 1)
	})
}
