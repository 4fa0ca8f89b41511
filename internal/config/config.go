// Package config provides configuration for the assistant backend.
package config

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort       int
	AllowedOrigins []string

	// Conversation storage; empty keeps conversations in memory.
	StoreDSN string

	// LLM provider
	LLMProvider        string
	LLMProviderAPIKey  string
	LLMProviderModel   string
	LLMProviderBaseURL string
	AgentSystemPrompt  string
	ToolCallLimit      int

	// Web search
	WebSearchEnabled bool
	WebSearchAPIKey  string
	WebSearchResults int

	// Page scraping
	FirecrawlAPIKey     string
	FirecrawlAPIBaseURL string
	ScrapeConcurrency   int

	// Email delivery
	ResendAPIKey        string
	ResendFeedbackEmail string
	ResendFrom          string

	// Timeouts
	AgentTimeout      time.Duration
	HTTPClientTimeout time.Duration
	SSEKeepAlive      time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from the environment. The file named by ENV_FILE
// (default .env.google) is read first when it exists; real environment
// variables win over file entries.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENV_FILE", ".env.google")

	if err := godotenv.Load(v.GetString("ENV_FILE")); err == nil {
		slog.Debug("loaded env file", "path", v.GetString("ENV_FILE"))
	}

	setDefaults(v)

	return &Config{
		HTTPPort:            v.GetInt("HTTP_PORT"),
		AllowedOrigins:      splitList(v.GetString("ALLOWED_ORIGINS")),
		StoreDSN:            v.GetString("STORE_DSN"),
		LLMProvider:         strings.ToLower(v.GetString("LLM_PROVIDER")),
		LLMProviderAPIKey:   v.GetString("LLM_PROVIDER_API_KEY"),
		LLMProviderModel:    v.GetString("LLM_PROVIDER_MODEL"),
		LLMProviderBaseURL:  v.GetString("LLM_PROVIDER_BASE_URL"),
		AgentSystemPrompt:   v.GetString("AGENT_SYSTEM_PROMPT"),
		ToolCallLimit:       v.GetInt("TOOL_CALL_LIMIT"),
		WebSearchEnabled:    v.GetBool("WEB_SEARCH_ENABLED"),
		WebSearchAPIKey:     v.GetString("WEB_SEARCH_API_KEY"),
		WebSearchResults:    v.GetInt("WEB_SEARCH_MAX_RESULTS"),
		FirecrawlAPIKey:     v.GetString("FIRECRAWL_API_KEY"),
		FirecrawlAPIBaseURL: v.GetString("FIRECRAWL_API_BASE_URL"),
		ScrapeConcurrency:   v.GetInt("SCRAPE_CONCURRENCY"),
		ResendAPIKey:        v.GetString("RESEND_API_KEY"),
		ResendFeedbackEmail: v.GetString("RESEND_FEEDBACK_EMAIL"),
		ResendFrom:          v.GetString("RESEND_FROM"),
		AgentTimeout:        time.Duration(v.GetInt("AGENT_TIMEOUT_MS")) * time.Millisecond,
		HTTPClientTimeout:   time.Duration(v.GetInt("HTTP_CLIENT_TIMEOUT_MS")) * time.Millisecond,
		SSEKeepAlive:        time.Duration(v.GetInt("SSE_KEEPALIVE_MS")) * time.Millisecond,
		LogLevel:            v.GetString("LOG_LEVEL"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", 8000)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("STORE_DSN", "")
	v.SetDefault("LLM_PROVIDER", "google")
	v.SetDefault("LLM_PROVIDER_MODEL", "gemini-2.5-flash")
	v.SetDefault("AGENT_SYSTEM_PROMPT", DefaultSystemPrompt)
	v.SetDefault("TOOL_CALL_LIMIT", 10)
	v.SetDefault("WEB_SEARCH_ENABLED", true)
	v.SetDefault("WEB_SEARCH_MAX_RESULTS", 5)
	v.SetDefault("FIRECRAWL_API_BASE_URL", "https://api.firecrawl.dev/v2/scrape")
	v.SetDefault("SCRAPE_CONCURRENCY", 4)
	v.SetDefault("RESEND_FROM", "Airpods Assistant <onboarding@resend.dev>")
	v.SetDefault("AGENT_TIMEOUT_MS", 300000)
	v.SetDefault("HTTP_CLIENT_TIMEOUT_MS", 30000)
	v.SetDefault("SSE_KEEPALIVE_MS", 15000)
	v.SetDefault("LOG_LEVEL", "info")
}

// Validate reports settings that must be present for the selected provider.
func (c *Config) Validate() error {
	var missing []string
	require := func(name, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, name)
		}
	}

	if c.LLMProvider != "mock" {
		require("LLM_PROVIDER_API_KEY", c.LLMProviderAPIKey)
		require("LLM_PROVIDER_MODEL", c.LLMProviderModel)
	}
	if c.WebSearchEnabled && c.LLMProvider == "openai" {
		require("WEB_SEARCH_API_KEY", c.WebSearchAPIKey)
	}
	require("FIRECRAWL_API_KEY", c.FirecrawlAPIKey)
	require("RESEND_API_KEY", c.ResendAPIKey)
	require("RESEND_FEEDBACK_EMAIL", c.ResendFeedbackEmail)

	if len(missing) > 0 {
		return errors.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// splitList accepts either a JSON array or a comma separated list.
func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
