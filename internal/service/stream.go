package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/xiaot623/postcard/internal/domain"
	store "github.com/xiaot623/postcard/internal/repository"
)

// StreamErrorKind classifies why a chat turn stopped early.
type StreamErrorKind string

const (
	// StreamErrorAgent means the agent or one of its providers failed.
	StreamErrorAgent StreamErrorKind = "agent"
	// StreamErrorEmit means the event could not be written to the client.
	StreamErrorEmit StreamErrorKind = "emit"
	// StreamErrorCanceled means the caller went away.
	StreamErrorCanceled StreamErrorKind = "canceled"
)

// StreamError is returned when a chat turn fails. Nothing of the assistant
// answer is persisted when it is returned.
type StreamError struct {
	Kind StreamErrorKind
	Err  error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("chat %s failure: %v", e.Kind, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// EmitFunc writes one event to the client.
type EmitFunc func(evt domain.SSEEvent) error

// Stream runs one chat turn and emits its events through emit. On success the
// last emitted event is done.
func (s *Service) Stream(ctx context.Context, req domain.ChatRequest, emit EmitFunc) error {
	if err := s.store.AddMessage(ctx, req.ConversationID, domain.RoleUser, req.Message); err != nil {
		return errors.Wrap(err, "failed to store user message")
	}
	input, err := store.GetMessagesForLLM(ctx, s.store, req.ConversationID)
	if err != nil {
		return errors.Wrap(err, "failed to load conversation")
	}

	s.metrics.ActiveStreams.Inc()
	defer s.metrics.ActiveStreams.Dec()

	send := func(evt domain.SSEEvent) error {
		if err := emit(evt); err != nil {
			return &StreamError{Kind: StreamErrorEmit, Err: err}
		}
		s.metrics.StreamEvents.WithLabelValues(string(evt.Type)).Inc()
		return nil
	}

	agentCtx, cancel := s.agentContext(ctx)
	defer cancel()

	enc := newStreamEncoder()
	err = s.agent.Stream(agentCtx, input, func(token domain.StreamToken) error {
		for _, evt := range enc.Encode(token) {
			if err := send(evt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.streamFailed(ctx, req.ConversationID, err)
	}

	if response := enc.Response(); response != "" {
		if err := s.store.AddMessage(ctx, req.ConversationID, domain.RoleAssistant, response); err != nil {
			return errors.Wrap(err, "failed to store assistant message")
		}
	}

	if citations := enc.Citations(); len(citations) > 0 {
		if err := send(domain.NewCitationsEvent(citations)); err != nil {
			return s.streamFailed(ctx, req.ConversationID, err)
		}
		if images := s.enrichImages(ctx, citations); len(images) > 0 {
			if err := send(domain.NewImagesEvent(images)); err != nil {
				return s.streamFailed(ctx, req.ConversationID, err)
			}
		}
	}

	if err := send(domain.NewDoneEvent()); err != nil {
		return s.streamFailed(ctx, req.ConversationID, err)
	}
	return nil
}

// streamFailed classifies err, records it and returns it as a *StreamError.
func (s *Service) streamFailed(ctx context.Context, conversationID string, err error) error {
	var serr *StreamError
	switch {
	case errors.As(err, &serr):
	case ctx.Err() != nil:
		serr = &StreamError{Kind: StreamErrorCanceled, Err: ctx.Err()}
	default:
		serr = &StreamError{Kind: StreamErrorAgent, Err: err}
	}

	s.metrics.StreamErrors.WithLabelValues(string(serr.Kind)).Inc()
	slog.Warn("chat stream aborted", "conversation_id", conversationID, "kind", serr.Kind, "err", serr.Err)
	return serr
}
