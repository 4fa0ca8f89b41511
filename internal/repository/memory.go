package store

import (
	"context"
	"sync"

	"github.com/xiaot623/postcard/internal/domain"
)

// MemoryStore keeps conversations in process memory. Nothing is evicted.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string][]domain.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string][]domain.Message),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) AddMessage(_ context.Context, conversationID string, role domain.Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conversationID] = append(s.conversations[conversationID], domain.Message{
		Role:    role,
		Content: content,
	})
	return nil
}

func (s *MemoryStore) GetMessages(_ context.Context, conversationID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	messages := s.conversations[conversationID]
	out := make([]domain.Message, len(messages))
	copy(out, messages)
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
