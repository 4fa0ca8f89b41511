// Package scrape provides a client for the Firecrawl page scraping API.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Client is the Firecrawl client.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Firecrawl client. endpoint is the full scrape URL,
// for example https://api.firecrawl.dev/v2/scrape.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ScrapeRequest is the body of a scrape call.
type ScrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

// ScrapeResponse is the body returned by a scrape call.
type ScrapeResponse struct {
	Success bool        `json:"success"`
	Data    *ScrapeData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ScrapeData holds the scraped page.
type ScrapeData struct {
	Markdown string         `json:"markdown,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Scrape fetches a page and its metadata.
func (c *Client) Scrape(ctx context.Context, pageURL string) (*ScrapeResponse, error) {
	body, err := json.Marshal(ScrapeRequest{
		URL:             pageURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("scrape API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result ScrapeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}
	if !result.Success {
		return nil, errors.Errorf("scrape failed: %s", result.Error)
	}
	return &result, nil
}

// OGImage returns the page's open-graph image, or "" when it has none.
func (c *Client) OGImage(ctx context.Context, pageURL string) (string, error) {
	result, err := c.Scrape(ctx, pageURL)
	if err != nil {
		return "", err
	}
	if result.Data == nil {
		return "", nil
	}
	return ogImage(result.Data.Metadata), nil
}

func ogImage(metadata map[string]any) string {
	for _, key := range []string{"ogImage", "og:image"} {
		switch v := metadata[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}
