// Package openai implements llmlab.Backend over the OpenAI SDK. It talks to
// any OpenAI-compatible Chat Completions endpoint and returns response
// bodies verbatim, so vendor fields such as reasoning_content survive.
package openai

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	lab "github.com/BrenchCC/LLM-Lab"
)

// Client wraps the OpenAI SDK to implement lab.Backend.
type Client struct {
	client *openai.Client
}

type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// ClientOption configures the OpenAI client.
type ClientOption func(*clientConfig)

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// New creates a new OpenAI client with the given API key. SDK retries are
// disabled; retrying is the caller's decision.
func New(apiKey string, opts ...ClientOption) *Client {
	var cfg clientConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(cfg.timeout))
	}
	if cfg.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(cfg.httpClient))
	}

	client := openai.NewClient(reqOpts...)
	return &Client{client: &client}
}

// CreateCompletion sends a blocking chat completion request.
func (c *Client) CreateCompletion(ctx context.Context, p lab.CompletionParams) (*lab.Completion, error) {
	params, reqOpts := buildParams(p)
	resp, err := c.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return nil, wrapError(err)
	}
	return &lab.Completion{Body: rawBody(resp.RawJSON(), resp)}, nil
}

// StreamCompletion opens a streaming chat completion. Request errors surface
// from the stream's first Next.
func (c *Client) StreamCompletion(ctx context.Context, p lab.CompletionParams) (lab.ChunkStream, error) {
	params, reqOpts := buildParams(p)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}
	return &chunkStream{stream: c.client.Chat.Completions.NewStreaming(ctx, params, reqOpts...)}, nil
}

// RetrieveModel fetches the model object from GET /models/{id}.
func (c *Client) RetrieveModel(ctx context.Context, model string) (*lab.ModelMetadata, error) {
	m, err := c.client.Models.Get(ctx, model)
	if err != nil {
		return nil, wrapError(err)
	}
	return &lab.ModelMetadata{Body: rawBody(m.RawJSON(), m)}, nil
}

// buildParams maps lab params onto the SDK request. Extra keys are merged
// into the top level of the JSON body in sorted order.
func buildParams(p lab.CompletionParams) (openai.ChatCompletionNewParams, []option.RequestOption) {
	params := openai.ChatCompletionNewParams{
		Model:    p.Model,
		Messages: convertMessages(p.Messages),
	}
	if p.Temperature != nil {
		params.Temperature = openai.Float(*p.Temperature)
	}
	if p.TopP != nil {
		params.TopP = openai.Float(*p.TopP)
	}
	if p.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*p.MaxTokens))
	}

	var reqOpts []option.RequestOption
	for _, key := range slices.Sorted(maps.Keys(p.Extra)) {
		reqOpts = append(reqOpts, option.WithJSONSet(key, p.Extra[key]))
	}
	return params, reqOpts
}

// rawBody prefers the exact JSON the server sent.
func rawBody(raw string, fallback any) any {
	if raw == "" {
		return fallback
	}
	return json.RawMessage(raw)
}

// chunkStream adapts the SDK's SSE stream to lab.ChunkStream.
type chunkStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
	cur    lab.Chunk
}

func (s *chunkStream) Next() bool {
	if !s.stream.Next() {
		return false
	}
	chunk := s.stream.Current()
	s.cur = lab.Chunk{Body: rawBody(chunk.RawJSON(), chunk)}
	return true
}

func (s *chunkStream) Current() lab.Chunk { return s.cur }

func (s *chunkStream) Err() error { return wrapError(s.stream.Err()) }

func (s *chunkStream) Close() error { return s.stream.Close() }

var _ lab.Backend = (*Client)(nil)
