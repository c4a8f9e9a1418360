package llmlab

import "context"

// Backend is the provider boundary: an OpenAI-compatible HTTP client
// abstraction. Implementations live under internal/provider; tests use fakes.
type Backend interface {
	// CreateCompletion issues a blocking chat completion call.
	CreateCompletion(ctx context.Context, params CompletionParams) (*Completion, error)

	// StreamCompletion opens a streaming chat completion. Transport errors may
	// surface either here or from the first call to Next on the returned stream.
	StreamCompletion(ctx context.Context, params CompletionParams) (ChunkStream, error)

	// RetrieveModel fetches free-form metadata for a model id.
	RetrieveModel(ctx context.Context, model string) (*ModelMetadata, error)
}

// ChunkStream is a pull-based sequence of streaming chunks.
// The caller drives iteration and should call Close when done.
type ChunkStream interface {
	Next() bool
	Current() Chunk
	Err() error
	Close() error
}

// Completion is a blocking chat completion result in the OpenAI response shape:
// choices[0].message.{content, reasoning_content, ...} plus usage.
//
// Body is either raw JSON (json.RawMessage or []byte) as returned by an SDK,
// or any JSON-marshalable value such as a map or struct.
type Completion struct {
	Body any
}

// Chunk is one streaming chunk in the OpenAI shape: choices[0].delta.content.
// Body follows the same rules as Completion.Body.
type Chunk struct {
	Body any
}

// ModelMetadata is the free-form metadata a provider returns for a model.
type ModelMetadata struct {
	Body any
}

// BackendFactory builds a Backend for a profile. It is used when a caller
// does not supply an existing backend.
type BackendFactory func(profile ProviderProfile) (Backend, error)
