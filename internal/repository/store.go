// Package store holds conversation histories.
package store

import (
	"context"

	"github.com/xiaot623/postcard/internal/domain"
)

// Store is a keyed append log of conversation messages.
//
// Reads return a snapshot. Concurrent turns on the same conversation are not
// serialised against each other.
type Store interface {
	// AddMessage appends a message, creating the conversation if needed.
	AddMessage(ctx context.Context, conversationID string, role domain.Role, content string) error
	// GetMessages returns the conversation in insertion order, or an empty
	// slice when the conversation is unknown.
	GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
	// Clear removes the conversation. Clearing an unknown id is a no-op.
	Clear(ctx context.Context, conversationID string) error
	Close() error
}

// GetMessagesForLLM wraps the history in the shape agents expect.
func GetMessagesForLLM(ctx context.Context, s Store, conversationID string) (domain.LLMInput, error) {
	messages, err := s.GetMessages(ctx, conversationID)
	if err != nil {
		return domain.LLMInput{}, err
	}
	return domain.LLMInput{Messages: messages}, nil
}

// New opens the store selected by dsn: the in-memory store when dsn is empty,
// SQLite otherwise.
func New(dsn string) (Store, error) {
	if dsn == "" {
		return NewMemoryStore(), nil
	}
	s, err := NewSQLiteStore(dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}
