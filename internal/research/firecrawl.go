package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	firecrawlBaseURL = "https://api.firecrawl.dev/v1"

	// firecrawlRate caps outbound requests; the free tier throttles hard.
	firecrawlRate  = rate.Limit(1)
	firecrawlBurst = 2
)

// SearchHit is one Firecrawl search result with scraped markdown content.
type SearchHit struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// FirecrawlClient is a minimal client for the Firecrawl search and scrape
// endpoints. All requests go through a shared rate limiter.
type FirecrawlClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewFirecrawlClient creates a client. The API key must be non-empty.
func NewFirecrawlClient(apiKey string) (*FirecrawlClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("FIRECRAWL_API_KEY is not set")
	}
	return &FirecrawlClient{
		apiKey:  apiKey,
		baseURL: firecrawlBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(firecrawlRate, firecrawlBurst),
	}, nil
}

// Search runs a web search and returns hits with markdown content scraped.
func (c *FirecrawlClient) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	body := map[string]any{
		"query": query,
		"limit": limit,
		"scrapeOptions": map[string]any{
			"formats": []string{"markdown"},
		},
	}

	var resp struct {
		Success bool        `json:"success"`
		Data    []SearchHit `json:"data"`
	}
	if err := c.post(ctx, "/search", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("firecrawl search failed for %q", query)
	}
	return resp.Data, nil
}

// Scrape fetches one URL as markdown.
func (c *FirecrawlClient) Scrape(ctx context.Context, url string) (string, error) {
	body := map[string]any{
		"url":     url,
		"formats": []string{"markdown"},
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Markdown string `json:"markdown"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/scrape", body, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("firecrawl scrape failed for %s", url)
	}
	return resp.Data.Markdown, nil
}

func (c *FirecrawlClient) post(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("firecrawl request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read firecrawl response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("firecrawl returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode firecrawl response: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
