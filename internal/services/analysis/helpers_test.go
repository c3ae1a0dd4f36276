package analysis

import (
	"context"
	"errors"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/interfaces"
)

// memoryStore is an in-memory CacheStorage for tests. Setting failing makes
// every operation error to exercise the degrade-to-miss path.
type memoryStore struct {
	data    map[string]string
	failing bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	if m.failing {
		return "", errors.New("storage unavailable")
	}
	value, ok := m.data[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return value, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value string) error {
	if m.failing {
		return errors.New("storage unavailable")
	}
	m.data[key] = value
	return nil
}

// scriptedGenerator returns responses in order and counts calls.
type scriptedGenerator struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	idx := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return s.responses[len(s.responses)-1], nil
}

func newTestCache() *ResponseCache {
	return NewResponseCache(newMemoryStore(), arbor.NewLogger())
}
