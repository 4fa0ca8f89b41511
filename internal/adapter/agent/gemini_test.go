package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/xiaot623/postcard/internal/domain"
)

func TestTokensFromResponseMapsParts(t *testing.T) {
	var answer strings.Builder
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: []*genai.Part{
			{Text: "considering", Thought: true},
			{Text: "AirPods"},
		}},
	}}}

	tokens := tokensFromResponse(resp, &answer)
	require.Len(t, tokens, 1)
	assert.Equal(t, domain.TokenKindContentBlocks, tokens[0].Kind)
	assert.Equal(t, []domain.ContentBlock{
		{Type: domain.BlockTypeReasoning, Text: "considering"},
		{Type: domain.BlockTypeText, Text: "AirPods"},
	}, tokens[0].Blocks)
	assert.Equal(t, "AirPods", answer.String())
}

func TestTokensFromResponseGrounding(t *testing.T) {
	var answer strings.Builder
	answer.WriteString("Café ")

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: "Pro is great."}, {Text: ""}}},
		GroundingMetadata: &genai.GroundingMetadata{
			GroundingChunks: []*genai.GroundingChunk{
				{Web: &genai.GroundingChunkWeb{URI: "https://apple.com", Title: "apple.com"}},
				{Web: &genai.GroundingChunkWeb{URI: "https://rtings.com", Title: "rtings.com"}},
			},
			GroundingSupports: []*genai.GroundingSupport{{
				Segment:               &genai.Segment{Text: "Pro is great.", EndIndex: 19},
				GroundingChunkIndices: []int32{1, 7},
			}},
		},
	}}}

	tokens := tokensFromResponse(resp, &answer)
	require.Len(t, tokens, 1)
	blocks := tokens[0].Blocks
	require.Len(t, blocks, 2)
	// "Café Pro is great." is 19 bytes and 18 runes
	assert.Equal(t, []domain.Annotation{{
		Type:      domain.AnnotationTypeCitation,
		ID:        "grounding_0_1",
		URL:       "https://rtings.com",
		Title:     "rtings.com",
		CitedText: "Pro is great.",
		EndIndex:  18,
	}}, blocks[0].Annotations)
	assert.Empty(t, blocks[1].Annotations)
}

func TestTokensFromResponseDropsGroundingWithoutText(t *testing.T) {
	var answer strings.Builder
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		GroundingMetadata: &genai.GroundingMetadata{
			GroundingChunks:   []*genai.GroundingChunk{{Web: &genai.GroundingChunkWeb{URI: "https://a"}}},
			GroundingSupports: []*genai.GroundingSupport{{Segment: &genai.Segment{EndIndex: 3}, GroundingChunkIndices: []int32{0}}},
		},
	}}}
	assert.Empty(t, tokensFromResponse(resp, &answer))
	assert.Empty(t, tokensFromResponse(nil, &answer))
}

func TestTokensFromResponseFunctionCall(t *testing.T) {
	var answer strings.Builder
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{FunctionCall: &genai.FunctionCall{ID: "f1", Name: "lookup", Args: map[string]any{"q": "x"}}},
		}},
	}}}
	tokens := tokensFromResponse(resp, &answer)
	require.Len(t, tokens, 1)
	assert.Equal(t, domain.ToolCallsToken(NodeModel, domain.ToolCall{ID: "f1", Name: "lookup", Args: map[string]any{"q": "x"}}), tokens[0])
}

func TestToContents(t *testing.T) {
	got := toContents(domain.LLMInput{Messages: []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	}})
	require.Len(t, got, 2)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, "hello", got[1].Parts[0].Text)
}

func TestRuneOffset(t *testing.T) {
	assert.Equal(t, 0, runeOffset("abc", 0))
	assert.Equal(t, 2, runeOffset("éa", 3))
	assert.Equal(t, 3, runeOffset("abc", 50))
}
