package agent

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/tools"

	"github.com/xiaot623/postcard/internal/config"
	"github.com/xiaot623/postcard/policy"
)

// Supported values of LLM_PROVIDER.
const (
	ProviderGoogle = "google"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Deps are the collaborators an agent may use.
type Deps struct {
	// Tools are offered to providers that run their own tool loop.
	Tools []tools.Tool
	// Policy gates tool calls; nil allows every call.
	Policy *policy.Engine
}

// New creates the agent selected by cfg.LLMProvider.
func New(ctx context.Context, cfg *config.Config, deps Deps) (Agent, error) {
	switch cfg.LLMProvider {
	case ProviderMock:
		slog.Info("LLM_PROVIDER=mock detected, using mock agent")
		return NewMockAgent(), nil

	case ProviderOpenAI:
		return NewOpenAIAgent(OpenAIOptions{
			APIKey:        cfg.LLMProviderAPIKey,
			BaseURL:       cfg.LLMProviderBaseURL,
			Model:         cfg.LLMProviderModel,
			SystemPrompt:  cfg.AgentSystemPrompt,
			Tools:         deps.Tools,
			Policy:        deps.Policy,
			ToolCallLimit: cfg.ToolCallLimit,
		}), nil

	case ProviderGoogle, ProviderGemini, "":
		return NewGeminiAgent(ctx, GeminiOptions{
			APIKey:       cfg.LLMProviderAPIKey,
			BaseURL:      cfg.LLMProviderBaseURL,
			Model:        cfg.LLMProviderModel,
			SystemPrompt: cfg.AgentSystemPrompt,
			WebSearch:    cfg.WebSearchEnabled,
		})

	default:
		return nil, errors.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}
