// Package agent adapts LLM providers into a normalized token stream.
package agent

import (
	"context"
	"strings"

	"github.com/xiaot623/postcard/internal/domain"
)

// NodeModel labels tokens produced by the model.
const NodeModel = "model"

// TokenHandler receives each token of a stream. Returning an error stops the
// stream and the error is returned from Stream.
type TokenHandler func(token domain.StreamToken) error

// Agent answers a conversation. The system prompt is owned by the agent.
type Agent interface {
	// Invoke runs the agent to completion and returns the final message text.
	Invoke(ctx context.Context, input domain.LLMInput) (string, error)

	// Stream runs the agent and calls handler for every produced token.
	Stream(ctx context.Context, input domain.LLMInput, handler TokenHandler) error
}

type streamer interface {
	Stream(ctx context.Context, input domain.LLMInput, handler TokenHandler) error
}

// collectFinal streams the agent and returns the text produced after the
// last tool call, which is the final assistant message.
func collectFinal(ctx context.Context, s streamer, input domain.LLMInput) (string, error) {
	var final strings.Builder
	err := s.Stream(ctx, input, func(token domain.StreamToken) error {
		switch token.Kind {
		case domain.TokenKindToolCalls:
			final.Reset()
		case domain.TokenKindContentBlocks:
			for _, block := range token.Blocks {
				if block.Type == domain.BlockTypeText {
					final.WriteString(block.Text)
				}
			}
		case domain.TokenKindContent:
			final.WriteString(token.Content)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return final.String(), nil
}
