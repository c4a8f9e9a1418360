package thinking

import (
	lab "github.com/BrenchCC/LLM-Lab"
)

// primedStream replays a chunk that was read ahead during establishment.
type primedStream struct {
	lab.ChunkStream
	cur     lab.Chunk
	pending bool
}

// prime reads the first chunk of s. If that read fails, s is closed and the
// error returned so it can be classified like an establishment error.
func prime(s lab.ChunkStream) (lab.ChunkStream, error) {
	if s.Next() {
		return &primedStream{ChunkStream: s, cur: s.Current(), pending: true}, nil
	}
	if err := s.Err(); err != nil {
		s.Close()
		return nil, err
	}
	return &primedStream{ChunkStream: s}, nil
}

func (s *primedStream) Next() bool {
	if s.pending {
		s.pending = false
		return true
	}
	if !s.ChunkStream.Next() {
		return false
	}
	s.cur = s.ChunkStream.Current()
	return true
}

func (s *primedStream) Current() lab.Chunk {
	return s.cur
}
