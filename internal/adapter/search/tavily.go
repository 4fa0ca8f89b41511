// Package search provides the web search tool used by the agent.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/tools"
)

const (
	// ToolName is the name the model uses to call the search tool.
	ToolName = "tavily_web_search_tool"

	defaultBaseURL    = "https://api.tavily.com"
	defaultMaxResults = 5
	defaultTopic      = "general"
)

// TavilyTool searches the web through the Tavily API.
type TavilyTool struct {
	baseURL    string
	apiKey     string
	maxResults int
	topic      string
	httpClient *http.Client
}

var _ tools.Tool = (*TavilyTool)(nil)

// Option configures a TavilyTool.
type Option func(*TavilyTool)

// WithBaseURL points the tool at another Tavily endpoint.
func WithBaseURL(baseURL string) Option {
	return func(t *TavilyTool) { t.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithMaxResults overrides the number of returned results. Non-positive
// values keep the default.
func WithMaxResults(n int) Option {
	return func(t *TavilyTool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// NewTavilyTool creates a new Tavily search tool.
func NewTavilyTool(apiKey string, timeout time.Duration, opts ...Option) *TavilyTool {
	t := &TavilyTool{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		maxResults: defaultMaxResults,
		topic:      defaultTopic,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TavilyTool) Name() string { return ToolName }

func (t *TavilyTool) Description() string {
	return "Search the web for up to date facts about Apple AirPods: releases, specifications, prices, compatibility and troubleshooting. Input is the search query."
}

// Parameters is the JSON schema of the tool arguments.
func (t *TavilyTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "The search query"},
		},
		"required": []string{"query"},
	}
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	Topic      string `json:"topic"`
}

// Result is a single search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

type searchResponse struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer,omitempty"`
	Results []Result `json:"results"`
}

// Call runs a search. The input is either a bare query or the JSON arguments
// object produced by a function-calling model.
func (t *TavilyTool) Call(ctx context.Context, input string) (string, error) {
	query := parseQuery(input)
	if query == "" {
		return "", errors.New("search query is empty")
	}

	results, err := t.Search(ctx, query)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(results)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal search results")
	}
	return string(out), nil
}

// Search queries Tavily and returns its results.
func (t *TavilyTool) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(searchRequest{Query: query, MaxResults: t.maxResults, Topic: t.topic})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("search API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result searchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}
	return result.Results, nil
}

func parseQuery(input string) string {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(trimmed), &args); err == nil {
			return strings.TrimSpace(args.Query)
		}
	}
	return trimmed
}
