package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/xiaot623/postcard/internal/domain"
	store "github.com/xiaot623/postcard/internal/repository"
)

// Chat runs one chat turn without streaming. Citations are not extracted on
// this path, so the response always carries an empty list.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := s.store.AddMessage(ctx, req.ConversationID, domain.RoleUser, req.Message); err != nil {
		return nil, errors.Wrap(err, "failed to store user message")
	}
	input, err := store.GetMessagesForLLM(ctx, s.store, req.ConversationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load conversation")
	}

	agentCtx, cancel := s.agentContext(ctx)
	defer cancel()

	answer, err := s.agent.Invoke(agentCtx, input)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &StreamError{Kind: StreamErrorCanceled, Err: ctx.Err()}
		}
		return nil, &StreamError{Kind: StreamErrorAgent, Err: err}
	}

	if err := s.store.AddMessage(ctx, req.ConversationID, domain.RoleAssistant, answer); err != nil {
		return nil, errors.Wrap(err, "failed to store assistant message")
	}

	return &domain.ChatResponse{
		Message:        answer,
		Citations:      []string{},
		ConversationID: req.ConversationID,
	}, nil
}
