package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/xiaot623/postcard/internal/domain"
)

func (s *Service) GetConversation(ctx context.Context, conversationID string) (*domain.ConversationResponse, error) {
	messages, err := s.store.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messages")
	}
	return &domain.ConversationResponse{ConversationID: conversationID, Messages: messages}, nil
}

func (s *Service) ClearConversation(ctx context.Context, conversationID string) error {
	if err := s.store.Clear(ctx, conversationID); err != nil {
		return errors.Wrap(err, "failed to clear conversation")
	}
	return nil
}
