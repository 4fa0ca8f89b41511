package agent

import (
	"context"
	"fmt"

	"github.com/xiaot623/postcard/internal/domain"
)

// MockAgent is a deterministic Agent used for local runs and tests.
type MockAgent struct{}

// NewMockAgent creates a new mock agent.
func NewMockAgent() *MockAgent {
	return &MockAgent{}
}

var _ Agent = (*MockAgent)(nil)

// Invoke returns the mock answer.
func (m *MockAgent) Invoke(ctx context.Context, input domain.LLMInput) (string, error) {
	return collectFinal(ctx, m, input)
}

// Stream simulates a streaming response by sending the answer in chunks.
func (m *MockAgent) Stream(ctx context.Context, input domain.LLMInput, handler TokenHandler) error {
	for _, chunk := range splitIntoChunks(m.generateMockResponse(input), 10) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		token := domain.BlocksToken(NodeModel, domain.ContentBlock{Type: domain.BlockTypeText, Text: chunk})
		if err := handler(token); err != nil {
			return err
		}
	}
	return nil
}

// generateMockResponse generates a mock response based on the request.
func (m *MockAgent) generateMockResponse(input domain.LLMInput) string {
	var lastUserMessage string
	for i := len(input.Messages) - 1; i >= 0; i-- {
		if input.Messages[i].Role == domain.RoleUser {
			lastUserMessage = input.Messages[i].Content
			break
		}
	}

	if lastUserMessage == "" {
		return "[MOCK] This is a mock response from the assistant."
	}

	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(lastUserMessage, 100))
}

// splitIntoChunks splits a string into chunks of approximately the given size
// without cutting through a UTF-8 sequence.
func splitIntoChunks(s string, chunkSize int) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// truncate truncates a string to the given number of runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
