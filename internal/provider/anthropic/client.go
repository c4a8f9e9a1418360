// Package anthropic implements llmlab.Backend over the Anthropic Messages
// API. Responses are reshaped into Chat Completions bodies; thinking blocks
// become reasoning_content.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/internal/provider"
	"github.com/BrenchCC/LLM-Lab/thinking"
)

const (
	// DefaultMaxTokens is sent when params carry no limit; the API requires one.
	DefaultMaxTokens = 4096

	// ThinkingBudget is the token budget of an enabled thinking block.
	ThinkingBudget = 1024
)

// Client wraps the Anthropic SDK to implement lab.Backend.
type Client struct {
	client *anthropic.Client
}

type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// ClientOption configures the Anthropic client.
type ClientOption func(*clientConfig)

// WithBaseURL overrides the API endpoint.
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

// New creates a new Anthropic client with the given API key.
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

	client := anthropic.NewClient(reqOpts...)
	return &Client{client: &client}
}

// CreateCompletion sends a Messages request and reshapes the reply.
func (c *Client) CreateCompletion(ctx context.Context, p lab.CompletionParams) (*lab.Completion, error) {
	params, reqOpts, err := buildParams(p)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Messages.New(ctx, params, reqOpts...)
	if err != nil {
		return nil, wrapError(err)
	}

	var text, reasoning strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "thinking":
			reasoning.WriteString(block.Thinking)
		}
	}
	usage := provider.NewUsage(int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens))
	return &lab.Completion{
		Body: provider.CompletionBody(resp.ID, string(resp.Model), text.String(), reasoning.String(), string(resp.StopReason), &usage),
	}, nil
}

// StreamCompletion opens a streaming Messages request.
func (c *Client) StreamCompletion(ctx context.Context, p lab.CompletionParams) (lab.ChunkStream, error) {
	params, reqOpts, err := buildParams(p)
	if err != nil {
		return nil, err
	}
	return &chunkStream{
		stream: c.client.Messages.NewStreaming(ctx, params, reqOpts...),
		model:  p.Model,
	}, nil
}

// RetrieveModel fetches GET /v1/models/{id}.
func (c *Client) RetrieveModel(ctx context.Context, model string) (*lab.ModelMetadata, error) {
	var raw json.RawMessage
	if err := c.client.Get(ctx, "v1/models/"+url.PathEscape(model), nil, &raw); err != nil {
		return nil, wrapError(err)
	}
	return &lab.ModelMetadata{Body: raw}, nil
}

// buildParams maps lab params onto a Messages request. Enabling thinking
// drops temperature and top_p, which the API rejects alongside it.
func buildParams(p lab.CompletionParams) (anthropic.MessageNewParams, []option.RequestOption, error) {
	msgs, system, err := convertMessages(p.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, nil, err
	}

	maxTokens := int64(DefaultMaxTokens)
	if p.MaxTokens != nil && *p.MaxTokens > 0 {
		maxTokens = int64(*p.MaxTokens)
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.Model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}

	if provider.ThinkingRequested(p) {
		params.Thinking = anthropic.ThinkingConfigParamOfEnabled(ThinkingBudget)
		if params.MaxTokens <= ThinkingBudget {
			params.MaxTokens = ThinkingBudget + maxTokens
		}
	} else {
		if p.Temperature != nil {
			params.Temperature = anthropic.Float(*p.Temperature)
		}
		if p.TopP != nil {
			params.TopP = anthropic.Float(*p.TopP)
		}
	}

	var reqOpts []option.RequestOption
	for _, key := range slices.Sorted(maps.Keys(p.Extra)) {
		if key == thinking.ExtraKey {
			continue
		}
		reqOpts = append(reqOpts, option.WithJSONSet(key, p.Extra[key]))
	}
	return params, reqOpts, nil
}

// chunkStream translates Messages stream events into Chat Completions
// chunks. Events that carry nothing are skipped.
type chunkStream struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
	model  string
	cur    lab.Chunk

	inputTokens int
}

func (s *chunkStream) Next() bool {
	for s.stream.Next() {
		event := s.stream.Current()
		switch event.Type {
		case "message_start":
			start := event.AsMessageStart()
			s.inputTokens = int(start.Message.Usage.InputTokens)
			if start.Message.Model != "" {
				s.model = string(start.Message.Model)
			}
		case "content_block_delta":
			delta := event.AsContentBlockDelta().Delta
			switch delta.Type {
			case "text_delta":
				s.cur = provider.DeltaChunk(s.model, delta.Text, "", nil)
				return true
			case "thinking_delta":
				s.cur = provider.DeltaChunk(s.model, "", delta.Thinking, nil)
				return true
			}
		case "message_delta":
			usage := event.AsMessageDelta().Usage
			s.cur = provider.UsageChunk(s.model, provider.NewUsage(s.inputTokens, int(usage.OutputTokens)))
			return true
		}
	}
	return false
}

func (s *chunkStream) Current() lab.Chunk { return s.cur }

func (s *chunkStream) Err() error { return wrapError(s.stream.Err()) }

func (s *chunkStream) Close() error { return s.stream.Close() }

// wrapError categorizes an Anthropic SDK error by status code and Retry-After.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return provider.StatusError("anthropic", apiErr.StatusCode, provider.ParseRetryAfter(apiErr.Response), err)
}

var _ lab.Backend = (*Client)(nil)
