package backendtest

import (
	lab "github.com/BrenchCC/LLM-Lab"
)

// SliceStream yields a fixed list of chunks, then an optional error.
type SliceStream struct {
	chunks []lab.Chunk
	err    error
	pos    int
	cur    lab.Chunk
	failed bool
	closed bool
}

// NewStream returns a stream over chunks.
func NewStream(chunks ...lab.Chunk) *SliceStream {
	return &SliceStream{chunks: chunks}
}

// FailAfter makes the stream report err once its chunks are exhausted.
func (s *SliceStream) FailAfter(err error) *SliceStream {
	s.err = err
	return s
}

func (s *SliceStream) Next() bool {
	if s.closed || s.pos >= len(s.chunks) {
		if s.err != nil {
			s.failed = true
		}
		return false
	}
	s.cur = s.chunks[s.pos]
	s.pos++
	return true
}

func (s *SliceStream) Current() lab.Chunk { return s.cur }

func (s *SliceStream) Err() error {
	if s.failed {
		return s.err
	}
	return nil
}

func (s *SliceStream) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *SliceStream) Closed() bool { return s.closed }
