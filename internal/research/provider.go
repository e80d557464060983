/*
Package research gathers and structures tool candidates for a query.

The pipeline searches the web for relevant articles (Firecrawl), asks an
LLM to extract tool names, researches each candidate concurrently and asks
the LLM to structure the scraped content into a tool record. Per-candidate
failures are collected into a batch report; one bad candidate never aborts
the query.

Everything downstream of the pipeline (filtering, sorting, scoring,
comparison) is deterministic and lives in the other internal packages; this
package is the sole network-facing collaborator.
*/
package research

import (
	"context"
	"fmt"
	"os"
)

// Provider is the abstract LLM interface the pipeline depends on. Each
// implementation hides client initialization, authentication and the
// provider's request/response format.
type Provider interface {
	// Name returns the provider name (for logging).
	Name() string

	// Model returns the model in use.
	Model() string

	// Complete sends one system+user prompt pair and returns the text reply.
	Complete(ctx context.Context, system, user string) (string, error)
}

// providerInfo holds per-provider defaults and key lookup.
type providerInfo struct {
	defaultModel string
	apiKeyEnv    string
}

var providers = map[string]providerInfo{
	"openai":    {"gpt-4o-mini", "OPENAI_API_KEY"},
	"anthropic": {"claude-sonnet-4-20250514", "ANTHROPIC_API_KEY"},
}

// NewProvider builds a provider by name, reading its API key from the
// environment. An empty model selects the provider's default.
func NewProvider(name, model string) (Provider, error) {
	info, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider %q (use openai or anthropic)", name)
	}

	apiKey := os.Getenv(info.apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", info.apiKeyEnv)
	}
	if model == "" {
		model = info.defaultModel
	}

	switch name {
	case "anthropic":
		return newAnthropicProvider(apiKey, model), nil
	default:
		return newOpenAIProvider(apiKey, model), nil
	}
}
