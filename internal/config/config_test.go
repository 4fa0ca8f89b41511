package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg := Load()

	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, "google", cfg.LLMProvider)
	assert.Equal(t, "https://api.firecrawl.dev/v2/scrape", cfg.FirecrawlAPIBaseURL)
	assert.True(t, cfg.WebSearchEnabled)
	assert.Equal(t, 10, cfg.ToolCallLimit)
	assert.Equal(t, 4, cfg.ScrapeConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.AgentTimeout)
	assert.Equal(t, 15*time.Second, cfg.SSEKeepAlive)
	assert.Equal(t, 5, cfg.WebSearchResults)
	assert.Equal(t, DefaultSystemPrompt, cfg.AgentSystemPrompt)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.test")
	content := "LLM_PROVIDER=OpenAI\nRESEND_FEEDBACK_EMAIL=owner@example.com\nALLOWED_ORIGINS=[\"http://a.test\",\"http://b.test\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("HTTP_PORT", "9100")

	cfg := Load()
	t.Cleanup(func() {
		os.Unsetenv("LLM_PROVIDER")
		os.Unsetenv("RESEND_FEEDBACK_EMAIL")
		os.Unsetenv("ALLOWED_ORIGINS")
	})

	assert.Equal(t, 9100, cfg.HTTPPort)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "owner@example.com", cfg.ResendFeedbackEmail)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"x"}, splitList(`["x"]`))
}

func TestValidate(t *testing.T) {
	cfg := &Config{LLMProvider: "mock"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIRECRAWL_API_KEY")
	assert.NotContains(t, err.Error(), "LLM_PROVIDER_API_KEY")

	cfg = &Config{
		LLMProvider:         "google",
		LLMProviderAPIKey:   "k",
		LLMProviderModel:    "m",
		FirecrawlAPIKey:     "f",
		ResendAPIKey:        "r",
		ResendFeedbackEmail: "owner@example.com",
	}
	assert.NoError(t, cfg.Validate())
}
