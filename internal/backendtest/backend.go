// Package backendtest provides an in-memory llmlab.Backend for tests.
package backendtest

import (
	"context"
	"errors"
	"sync"

	lab "github.com/BrenchCC/LLM-Lab"
)

// ErrNoMetadata is returned by RetrieveModel when no Metadata func is set.
var ErrNoMetadata = errors.New("model metadata not available")

// ErrThinkingRejected mimics a provider rejecting the thinking flag.
var ErrThinkingRejected = errors.New("unsupported parameter: enable_thinking")

// Backend is a programmable fake that records every call it receives.
// Nil funcs fall back to a fixed text completion, an empty stream and
// ErrNoMetadata respectively.
type Backend struct {
	Complete func(lab.CompletionParams) (*lab.Completion, error)
	Stream   func(lab.CompletionParams) (lab.ChunkStream, error)
	Metadata func(model string) (*lab.ModelMetadata, error)

	mu          sync.Mutex
	completions []lab.CompletionParams
	streams     []lab.CompletionParams
	retrievals  []string
}

// CreateCompletion implements lab.Backend.
func (b *Backend) CreateCompletion(_ context.Context, params lab.CompletionParams) (*lab.Completion, error) {
	b.mu.Lock()
	b.completions = append(b.completions, params.Clone())
	b.mu.Unlock()
	if b.Complete == nil {
		return TextCompletion("ok", nil), nil
	}
	return b.Complete(params)
}

// StreamCompletion implements lab.Backend.
func (b *Backend) StreamCompletion(_ context.Context, params lab.CompletionParams) (lab.ChunkStream, error) {
	b.mu.Lock()
	b.streams = append(b.streams, params.Clone())
	b.mu.Unlock()
	if b.Stream == nil {
		return NewStream(), nil
	}
	return b.Stream(params)
}

// RetrieveModel implements lab.Backend.
func (b *Backend) RetrieveModel(_ context.Context, model string) (*lab.ModelMetadata, error) {
	b.mu.Lock()
	b.retrievals = append(b.retrievals, model)
	b.mu.Unlock()
	if b.Metadata == nil {
		return nil, ErrNoMetadata
	}
	return b.Metadata(model)
}

// CompletionCalls returns the params of every blocking call, in order.
func (b *Backend) CompletionCalls() []lab.CompletionParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]lab.CompletionParams(nil), b.completions...)
}

// StreamCalls returns the params of every stream call, in order.
func (b *Backend) StreamCalls() []lab.CompletionParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]lab.CompletionParams(nil), b.streams...)
}

// RetrieveCalls returns every model id passed to RetrieveModel.
func (b *Backend) RetrieveCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.retrievals...)
}

// TotalCalls counts every network-shaped call the fake received.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.completions) + len(b.streams) + len(b.retrievals)
}

// RejectThinking wraps next so calls carrying enable_thinking fail with
// ErrThinkingRejected.
func RejectThinking[T any](next func(lab.CompletionParams) (T, error)) func(lab.CompletionParams) (T, error) {
	return func(p lab.CompletionParams) (T, error) {
		if p.HasExtra("enable_thinking") {
			var zero T
			return zero, ErrThinkingRejected
		}
		return next(p)
	}
}
