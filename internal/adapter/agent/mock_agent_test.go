package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/postcard/internal/domain"
)

func TestMockAgentStream(t *testing.T) {
	a := NewMockAgent()
	input := domain.LLMInput{Messages: []domain.Message{
		{Role: domain.RoleUser, Content: "earlier"},
		{Role: domain.RoleAssistant, Content: "answer"},
		{Role: domain.RoleUser, Content: "Hello"},
	}}

	var text strings.Builder
	err := a.Stream(context.Background(), input, func(token domain.StreamToken) error {
		require.Equal(t, domain.TokenKindContentBlocks, token.Kind)
		assert.Equal(t, NodeModel, token.Node)
		for _, b := range token.Blocks {
			assert.Equal(t, domain.BlockTypeText, b.Type)
			text.WriteString(b.Text)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, `[MOCK] Received your message: "Hello". This is a mock response.`, text.String())

	final, err := a.Invoke(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, text.String(), final)
}

func TestMockAgentHandlerErrorStops(t *testing.T) {
	calls := 0
	err := NewMockAgent().Stream(context.Background(), domain.LLMInput{}, func(domain.StreamToken) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestMockAgentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMockAgent().Stream(ctx, domain.LLMInput{}, func(domain.StreamToken) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitIntoChunks(t *testing.T) {
	assert.Nil(t, splitIntoChunks("", 10))
	assert.Equal(t, []string{"abc", "de"}, splitIntoChunks("abcde", 3))
	assert.Equal(t, []string{"héé", "llo"}, splitIntoChunks("hééllo", 3))
}

type scriptedAgent struct {
	tokens []domain.StreamToken
}

func (s scriptedAgent) Stream(_ context.Context, _ domain.LLMInput, handler TokenHandler) error {
	for _, token := range s.tokens {
		if err := handler(token); err != nil {
			return err
		}
	}
	return nil
}

func TestCollectFinalKeepsTextAfterLastToolCall(t *testing.T) {
	s := scriptedAgent{tokens: []domain.StreamToken{
		domain.ContentToken(NodeModel, "Let me search. "),
		domain.ToolCallsToken(NodeModel, domain.ToolCall{ID: "1", Name: "search"}),
		domain.BlocksToken(NodeModel,
			domain.ContentBlock{Type: domain.BlockTypeReasoning, Text: "thinking"},
			domain.ContentBlock{Type: domain.BlockTypeText, Text: "Final "},
		),
		domain.ContentToken(NodeModel, "answer"),
	}}

	got, err := collectFinal(context.Background(), s, domain.LLMInput{})
	require.NoError(t, err)
	assert.Equal(t, "Final answer", got)
}
