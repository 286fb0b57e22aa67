package llm

import "sync"

// SliceStream implements Stream over a pre-built slice of chunks.
// Providers that produce their full output synchronously (echo, mocks, test
// doubles) use it to satisfy the streaming capability without a live backend.
type SliceStream struct {
	mu      sync.Mutex
	chunks  []*StreamChunk
	current int
	closed  bool
}

// NewSliceStream creates a SliceStream that yields the given chunks in order.
func NewSliceStream(chunks []*StreamChunk) *SliceStream {
	return &SliceStream{
		chunks:  chunks,
		current: -1,
	}
}

// Next advances to the next chunk.
func (s *SliceStream) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.current++
	return s.current < len(s.chunks)
}

// Chunk returns the current chunk.
func (s *SliceStream) Chunk() *StreamChunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 || s.current >= len(s.chunks) {
		return nil
	}
	return s.chunks[s.current]
}

// Err always returns nil; a pre-built stream cannot fail mid-iteration.
func (s *SliceStream) Err() error { return nil }

// Close marks the stream as consumed.
func (s *SliceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ Stream = (*SliceStream)(nil)
