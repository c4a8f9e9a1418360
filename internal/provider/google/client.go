// Package google implements llmlab.Backend over the Gemini API using the
// Google GenAI SDK. Responses are reshaped into Chat Completions bodies;
// thought parts become reasoning_content.
package google

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/internal/provider"
)

// Client wraps the Google GenAI SDK to implement lab.Backend.
type Client struct {
	client *genai.Client
}

type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// ClientOption configures the Google client.
type ClientOption func(*clientConfig)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithTimeout bounds each request. It is ignored when WithHTTPClient is used.
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

// New creates a new Gemini API client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	var cfg clientConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	hc := cfg.httpClient
	if hc == nil && cfg.timeout > 0 {
		hc = &http.Client{Timeout: cfg.timeout}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  hc,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.baseURL},
	})
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

// CreateCompletion calls generateContent and reshapes the reply.
func (c *Client) CreateCompletion(ctx context.Context, p lab.CompletionParams) (*lab.Completion, error) {
	contents, config, err := buildRequest(p)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Models.GenerateContent(ctx, p.Model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	if reason := blockReason(resp); reason != "" {
		return nil, &BlockedError{Reason: reason}
	}

	text, reasoning := splitParts(resp)
	finishReason := ""
	if len(resp.Candidates) > 0 {
		finishReason = string(resp.Candidates[0].FinishReason)
	}
	model := resp.ModelVersion
	if model == "" {
		model = p.Model
	}
	return &lab.Completion{
		Body: provider.CompletionBody(resp.ResponseID, model, text, reasoning, finishReason, usageOf(resp)),
	}, nil
}

// StreamCompletion opens streamGenerateContent.
func (c *Client) StreamCompletion(ctx context.Context, p lab.CompletionParams) (lab.ChunkStream, error) {
	contents, config, err := buildRequest(p)
	if err != nil {
		return nil, err
	}
	next, stop := iter.Pull2(c.client.Models.GenerateContentStream(ctx, p.Model, contents, config))
	return &chunkStream{next: next, stop: stop, model: p.Model}, nil
}

// RetrieveModel fetches the model resource.
func (c *Client) RetrieveModel(ctx context.Context, model string) (*lab.ModelMetadata, error) {
	m, err := c.client.Models.Get(ctx, model, nil)
	if err != nil {
		return nil, wrapError(err)
	}
	return &lab.ModelMetadata{Body: m}, nil
}

func buildRequest(p lab.CompletionParams) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	contents, system, err := convertMessages(p.Messages)
	if err != nil {
		return nil, nil, err
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if p.Temperature != nil {
		temp := float32(*p.Temperature)
		config.Temperature = &temp
	}
	if p.TopP != nil {
		topP := float32(*p.TopP)
		config.TopP = &topP
	}
	if p.MaxTokens != nil && *p.MaxTokens > 0 {
		config.MaxOutputTokens = int32(*p.MaxTokens)
	}
	if provider.ThinkingRequested(p) {
		config.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: true}
	}
	return contents, config, nil
}

// splitParts separates answer text from thought parts of the first candidate.
func splitParts(resp *genai.GenerateContentResponse) (text, reasoning string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ""
	}
	var answer, thoughts strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		if part.Thought {
			thoughts.WriteString(part.Text)
		} else {
			answer.WriteString(part.Text)
		}
	}
	return answer.String(), thoughts.String()
}

// usageOf counts thought tokens as completion tokens.
func usageOf(resp *genai.GenerateContentResponse) *lab.Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	md := resp.UsageMetadata
	usage := provider.NewUsage(int(md.PromptTokenCount), int(md.CandidatesTokenCount+md.ThoughtsTokenCount))
	return &usage
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp != nil && resp.PromptFeedback != nil {
		return string(resp.PromptFeedback.BlockReason)
	}
	return ""
}

// chunkStream pulls from the SDK's response iterator.
type chunkStream struct {
	next  func() (*genai.GenerateContentResponse, error, bool)
	stop  func()
	model string
	cur   lab.Chunk
	err   error
	done  bool
}

func (s *chunkStream) Next() bool {
	for !s.done {
		resp, err, ok := s.next()
		if !ok {
			s.done = true
			break
		}
		if err != nil {
			s.err = wrapError(err)
			s.done = true
			break
		}
		if reason := blockReason(resp); reason != "" {
			s.err = &BlockedError{Reason: reason}
			s.done = true
			break
		}

		text, reasoning := splitParts(resp)
		usage := usageOf(resp)
		if text == "" && reasoning == "" && usage == nil {
			continue
		}
		s.cur = provider.DeltaChunk(s.model, text, reasoning, usage)
		return true
	}
	return false
}

func (s *chunkStream) Current() lab.Chunk { return s.cur }

func (s *chunkStream) Err() error { return s.err }

func (s *chunkStream) Close() error {
	s.done = true
	s.stop()
	return nil
}

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return "request blocked: " + e.Reason
}

// wrapError categorizes a GenAI API error by status code.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return provider.StatusError("google", apiErr.Code, 0, err)
}

var _ lab.Backend = (*Client)(nil)
