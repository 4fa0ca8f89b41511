package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/xiaot623/postcard/internal/domain"
)

// GeminiOptions configures a GeminiAgent.
type GeminiOptions struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	// WebSearch enables Google Search grounding, which is what produces
	// citation annotations.
	WebSearch bool
}

// GeminiAgent streams answers from the Gemini API.
type GeminiAgent struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

var _ Agent = (*GeminiAgent)(nil)

// NewGeminiAgent creates a new Gemini agent.
func NewGeminiAgent(ctx context.Context, opts GeminiOptions) (*GeminiAgent, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	genCfg := &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{IncludeThoughts: true},
	}
	if opts.SystemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: opts.SystemPrompt}}}
	}
	if opts.WebSearch {
		genCfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	slog.Info("initialized Gemini agent", "model", opts.Model, "web_search", opts.WebSearch)
	return &GeminiAgent{client: client, model: opts.Model, config: genCfg}, nil
}

// Invoke returns the final answer.
func (a *GeminiAgent) Invoke(ctx context.Context, input domain.LLMInput) (string, error) {
	return collectFinal(ctx, a, input)
}

// Stream streams the answer as content-block tokens.
func (a *GeminiAgent) Stream(ctx context.Context, input domain.LLMInput, handler TokenHandler) error {
	var answer strings.Builder
	for resp, err := range a.client.Models.GenerateContentStream(ctx, a.model, toContents(input), a.config) {
		if err != nil {
			return errors.Wrap(err, "gemini stream failed")
		}
		for _, token := range tokensFromResponse(resp, &answer) {
			if err := handler(token); err != nil {
				return err
			}
		}
	}
	return nil
}

func toContents(input domain.LLMInput) []*genai.Content {
	contents := make([]*genai.Content, 0, len(input.Messages))
	for _, m := range input.Messages {
		role := string(genai.RoleUser)
		if m.Role == domain.RoleAssistant {
			role = string(genai.RoleModel)
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}
	return contents
}

// tokensFromResponse converts one streamed chunk. answer accumulates the
// non-thought text seen so far; grounding offsets are byte offsets into it and
// are converted to rune offsets.
func tokensFromResponse(resp *genai.GenerateContentResponse, answer *strings.Builder) []domain.StreamToken {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	cand := resp.Candidates[0]

	var calls []domain.ToolCall
	var blocks []domain.ContentBlock
	lastText := -1

	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			switch {
			case part == nil:
			case part.FunctionCall != nil:
				calls = append(calls, domain.ToolCall{
					ID:   part.FunctionCall.ID,
					Name: part.FunctionCall.Name,
					Args: part.FunctionCall.Args,
				})
			case part.Thought:
				blocks = append(blocks, domain.ContentBlock{Type: domain.BlockTypeReasoning, Text: part.Text})
			default:
				answer.WriteString(part.Text)
				blocks = append(blocks, domain.ContentBlock{Type: domain.BlockTypeText, Text: part.Text})
				if part.Text != "" {
					lastText = len(blocks) - 1
				}
			}
		}
	}

	if annotations := groundingAnnotations(cand.GroundingMetadata, answer.String()); len(annotations) > 0 {
		if lastText >= 0 {
			blocks[lastText].Annotations = annotations
		} else {
			slog.Debug("dropping grounding annotations without text", "count", len(annotations))
		}
	}

	var tokens []domain.StreamToken
	if len(calls) > 0 {
		tokens = append(tokens, domain.ToolCallsToken(NodeModel, calls...))
	}
	if len(blocks) > 0 {
		tokens = append(tokens, domain.BlocksToken(NodeModel, blocks...))
	}
	return tokens
}

func groundingAnnotations(gm *genai.GroundingMetadata, answer string) []domain.Annotation {
	if gm == nil {
		return nil
	}

	var annotations []domain.Annotation
	for si, support := range gm.GroundingSupports {
		if support == nil || support.Segment == nil {
			continue
		}
		for _, ci := range support.GroundingChunkIndices {
			if ci < 0 || int(ci) >= len(gm.GroundingChunks) {
				continue
			}
			chunk := gm.GroundingChunks[ci]
			if chunk == nil || chunk.Web == nil {
				continue
			}
			annotations = append(annotations, domain.Annotation{
				Type:      domain.AnnotationTypeCitation,
				ID:        fmt.Sprintf("grounding_%d_%d", si, ci),
				URL:       chunk.Web.URI,
				Title:     chunk.Web.Title,
				CitedText: support.Segment.Text,
				EndIndex:  runeOffset(answer, int(support.Segment.EndIndex)),
			})
		}
	}
	return annotations
}

// runeOffset converts a byte offset into s to a rune offset, clamping to s.
func runeOffset(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return byteOffset
	}
	if byteOffset > len(s) {
		byteOffset = len(s)
	}
	return utf8.RuneCountInString(s[:byteOffset])
}
