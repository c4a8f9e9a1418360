package chat

import (
	"strings"
	"sync"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/internal/payload"
	"github.com/BrenchCC/LLM-Lab/reasoning"
)

// Delta fields that carry reasoning text in streaming chunks.
var deltaReasoningFields = []string{"reasoning_content", "reasoning", "thinking"}

// Stream is a pull-based sequence of answer text deltas. It accumulates the
// full text, streamed reasoning and usage so Response can produce the same
// normalized result a blocking call would.
type Stream struct {
	src       lab.ChunkStream
	requestID string
	warnings  []string

	cur       string
	text      strings.Builder
	reasoning strings.Builder
	usage     *lab.Usage
	last      any

	finishOnce sync.Once
	onFinish   func(*Stream)
}

func newStream(src lab.ChunkStream, requestID string, warnings []string, onFinish func(*Stream)) *Stream {
	return &Stream{
		src:       src,
		requestID: requestID,
		warnings:  warnings,
		onFinish:  onFinish,
	}
}

// Next advances to the next non-empty content delta. Chunks without choices
// or without content are consumed silently after recording any usage or
// reasoning they carry.
func (s *Stream) Next() bool {
	for s.src.Next() {
		chunk := s.src.Current()
		s.last = chunk.Body
		if usage := ParseUsage(chunk.Body); usage != nil {
			s.usage = usage
		}

		body := payload.Of(chunk.Body)
		choices := body.Get("choices")
		if !choices.IsArray() || len(choices.Array()) == 0 {
			continue
		}
		delta := body.Get("choices.0.delta")
		for _, field := range deltaReasoningFields {
			if v := delta.Get(field); v.IsString() {
				s.reasoning.WriteString(v.Str())
			}
		}

		content := delta.Get("content")
		if content.IsArray() {
			for _, block := range content.Array() {
				if reasoning.IsReasoningBlock(block.Get("type").String()) {
					s.reasoning.WriteString(block.Get("text").String())
				}
			}
		}
		text := MessageText(content)
		if text == "" {
			continue
		}
		s.cur = text
		s.text.WriteString(text)
		return true
	}
	s.finish()
	return false
}

// Current returns the latest content delta.
func (s *Stream) Current() string { return s.cur }

// Err returns the error that ended iteration, if any.
func (s *Stream) Err() error { return s.src.Err() }

// Warnings returns warnings raised while establishing the stream.
func (s *Stream) Warnings() []string { return s.warnings }

// RequestID returns the id shared by the stream's log lines and response.
func (s *Stream) RequestID() string { return s.requestID }

// Close releases the underlying stream.
func (s *Stream) Close() error {
	s.finish()
	return s.src.Close()
}

func (s *Stream) finish() {
	s.finishOnce.Do(func() {
		if s.onFinish != nil {
			s.onFinish(s)
		}
	})
}

// Response returns the normalized result of everything received so far.
// Inline <think> blocks are moved from the answer into the reasoning, after
// any reasoning streamed in dedicated fields. If the stream failed, the
// response carries the error and an empty answer.
func (s *Stream) Response() *lab.ChatResponse {
	resp := &lab.ChatResponse{
		RequestID: s.requestID,
		Usage:     s.usage,
		Warnings:  s.warnings,
		Raw:       s.last,
	}
	if err := s.Err(); err != nil {
		resp.ErrorMessage = err.Error()
		resp.Usage = nil
		return resp
	}
	resp.AssistantText, resp.ReasoningText = reasoning.Separate(s.text.String(), s.reasoning.String())
	return resp
}
