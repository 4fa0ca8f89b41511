package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/tools"

	"github.com/xiaot623/postcard/internal/domain"
	"github.com/xiaot623/postcard/policy"
)

// defaultMaxRounds bounds the tool loop when no tool-call limit is set.
const defaultMaxRounds = 12

// OpenAIOptions configures an OpenAIAgent.
type OpenAIOptions struct {
	APIKey        string
	BaseURL       string
	Model         string
	SystemPrompt  string
	Tools         []tools.Tool
	Policy        *policy.Engine
	ToolCallLimit int
}

// OpenAIAgent runs a function-calling loop against an OpenAI compatible API.
type OpenAIAgent struct {
	client        *openai.Client
	model         string
	systemPrompt  string
	tools         map[string]tools.Tool
	toolDefs      []openai.Tool
	policy        *policy.Engine
	toolCallLimit int
}

var _ Agent = (*OpenAIAgent)(nil)

// parameterized is implemented by tools that publish a JSON schema for their
// arguments.
type parameterized interface {
	Parameters() map[string]any
}

// NewOpenAIAgent creates a new OpenAI agent.
func NewOpenAIAgent(opts OpenAIOptions) *OpenAIAgent {
	clientCfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}

	a := &OpenAIAgent{
		client:        openai.NewClientWithConfig(clientCfg),
		model:         opts.Model,
		systemPrompt:  opts.SystemPrompt,
		tools:         make(map[string]tools.Tool, len(opts.Tools)),
		policy:        opts.Policy,
		toolCallLimit: opts.ToolCallLimit,
	}

	for _, t := range opts.Tools {
		a.tools[t.Name()] = t
		a.toolDefs = append(a.toolDefs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  toolParameters(t),
			},
		})
	}

	slog.Info("initialized OpenAI agent", "model", opts.Model, "tools", len(a.toolDefs))
	return a
}

func toolParameters(t tools.Tool) map[string]any {
	if p, ok := t.(parameterized); ok {
		return p.Parameters()
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{"type": "string"},
		},
		"required": []string{"input"},
	}
}

// Invoke returns the final answer of the tool loop.
func (a *OpenAIAgent) Invoke(ctx context.Context, input domain.LLMInput) (string, error) {
	return collectFinal(ctx, a, input)
}

// Stream runs the tool loop, streaming content deltas and tool calls.
func (a *OpenAIAgent) Stream(ctx context.Context, input domain.LLMInput, handler TokenHandler) error {
	messages := a.buildMessages(input)

	maxRounds := defaultMaxRounds
	if a.toolCallLimit > 0 {
		maxRounds = a.toolCallLimit + 2
	}

	callCount := 0
	for round := 0; round < maxRounds; round++ {
		req := openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: messages,
			Stream:   true,
		}
		if len(a.toolDefs) > 0 {
			req.Tools = a.toolDefs
		}

		stream, err := a.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			return errors.Wrap(err, "failed to start completion stream")
		}
		content, toolCalls, err := a.consume(stream, handler)
		stream.Close()
		if err != nil {
			return err
		}

		if len(toolCalls) == 0 {
			return nil
		}

		requested := make([]domain.ToolCall, 0, len(toolCalls))
		for _, tc := range toolCalls {
			requested = append(requested, domain.ToolCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: parseArgs(tc.Function.Arguments),
			})
		}
		if err := handler(domain.ToolCallsToken(NodeModel, requested...)); err != nil {
			return err
		}

		messages = append(messages, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   content,
			ToolCalls: toolCalls,
		})
		for _, tc := range toolCalls {
			result := a.runTool(ctx, tc, callCount)
			callCount++
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	return errors.Errorf("agent did not finish within %d model rounds", maxRounds)
}

// consume reads one completion stream, forwarding content deltas and
// assembling the streamed tool call fragments.
func (a *OpenAIAgent) consume(stream *openai.ChatCompletionStream, handler TokenHandler) (string, []openai.ToolCall, error) {
	var content strings.Builder
	pending := make(map[int]*openai.ToolCall)
	var order []int

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, errors.Wrap(err, "failed to read completion stream")
		}
		if len(resp.Choices) == 0 {
			continue
		}

		delta := resp.Choices[0].Delta
		if delta.Content != "" {
			content.WriteString(delta.Content)
			if err := handler(domain.ContentToken(NodeModel, delta.Content)); err != nil {
				return "", nil, err
			}
		}

		for _, fragment := range delta.ToolCalls {
			idx := 0
			if fragment.Index != nil {
				idx = *fragment.Index
			}
			call, ok := pending[idx]
			if !ok {
				call = &openai.ToolCall{Type: openai.ToolTypeFunction}
				pending[idx] = call
				order = append(order, idx)
			}
			if fragment.ID != "" {
				call.ID = fragment.ID
			}
			if fragment.Function.Name != "" {
				call.Function.Name = fragment.Function.Name
			}
			call.Function.Arguments += fragment.Function.Arguments
		}
	}

	toolCalls := make([]openai.ToolCall, 0, len(order))
	for _, idx := range order {
		toolCalls = append(toolCalls, *pending[idx])
	}
	return content.String(), toolCalls, nil
}

// runTool executes one tool call. Failures are reported back to the model as
// the tool result instead of aborting the run.
func (a *OpenAIAgent) runTool(ctx context.Context, tc openai.ToolCall, callCount int) string {
	name := tc.Function.Name
	if a.policy != nil {
		allowed, err := a.policy.Allowed(ctx, policy.ToolCallInput{
			ToolName:  name,
			CallCount: callCount,
			Limit:     a.toolCallLimit,
		})
		if err != nil {
			slog.Warn("tool policy evaluation failed", "tool", name, "err", err)
			return "Error: tool policy unavailable"
		}
		if !allowed {
			slog.Info("tool call blocked", "tool", name, "call_count", callCount)
			return fmt.Sprintf("Error: the limit of %d tool calls for this request was reached. Answer with the information you already have.", a.toolCallLimit)
		}
	}

	tool, ok := a.tools[name]
	if !ok {
		return "Unknown tool: " + name
	}

	slog.Info("agent tool call", "tool", name, "input", tc.Function.Arguments)
	out, err := tool.Call(ctx, tc.Function.Arguments)
	if err != nil {
		slog.Warn("agent tool call failed", "tool", name, "err", err)
		return "Error: " + err.Error()
	}
	return out
}

func (a *OpenAIAgent) buildMessages(input domain.LLMInput) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(input.Messages)+1)
	if a.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: a.systemPrompt,
		})
	}
	for _, m := range input.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return messages
}

func parseArgs(raw string) map[string]any {
	args := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{"input": raw}
	}
	return args
}
