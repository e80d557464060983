package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/scoutware/devscout/internal/record"
)

const (
	// maxArticles bounds the article search for tool extraction.
	maxArticles = 3

	// maxCandidates bounds how many extracted tools get researched.
	maxCandidates = 5

	// maxContentChars truncates scraped page content before prompting.
	maxContentChars = 2500

	// defaultConcurrency bounds parallel candidate research.
	defaultConcurrency = 3
)

// CandidateFailure records one candidate that could not be structured.
type CandidateFailure struct {
	Name string
	Err  error
}

// BatchReport summarizes a pipeline run: how many candidates structured
// cleanly and which failed. Failures are an expected part of the contract,
// not exceptions.
type BatchReport struct {
	Extracted int
	Succeeded int
	Failures  []CandidateFailure
}

// Result is the output of one research run.
type Result struct {
	Set      *record.ResultSet
	Analysis string
	Report   BatchReport
}

// Pipeline orchestrates search, extraction and structuring for one query.
type Pipeline struct {
	provider    Provider
	firecrawl   *FirecrawlClient
	concurrency int
}

// NewPipeline wires the pipeline. concurrency <= 0 selects the default.
func NewPipeline(provider Provider, firecrawl *FirecrawlClient, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Pipeline{provider: provider, firecrawl: firecrawl, concurrency: concurrency}
}

// Run researches a query end to end: find articles, extract tool names,
// structure each candidate concurrently, then generate the recommendation
// text. Individual candidate failures are reported, not fatal; Run only
// errors when nothing at all could be researched.
func (p *Pipeline) Run(ctx context.Context, query string) (*Result, error) {
	names, err := p.extractToolNames(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Printf("Extracted %d tool candidates for %q", len(names), query)

	records, failures := p.structureCandidates(ctx, query, names)
	if len(records) == 0 {
		return nil, fmt.Errorf("no tool could be researched for %q (%d candidates failed)", query, len(failures))
	}

	set, err := record.NewResultSet(query, records)
	if err != nil {
		return nil, err
	}

	analysis, err := p.recommend(ctx, query, records)
	if err != nil {
		// The result set is still useful without the narrative.
		log.Printf("Warning: recommendation step failed: %v", err)
		analysis = ""
	}

	return &Result{
		Set:      set,
		Analysis: analysis,
		Report: BatchReport{
			Extracted: len(names),
			Succeeded: len(records),
			Failures:  failures,
		},
	}, nil
}

// extractToolNames searches for comparison articles and asks the LLM for
// the tool names they mention.
func (p *Pipeline) extractToolNames(ctx context.Context, query string) ([]string, error) {
	hits, err := p.firecrawl.Search(ctx, query+" tools comparison best alternatives", maxArticles)
	if err != nil {
		return nil, fmt.Errorf("article search failed: %w", err)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("no articles found for %q", query)
	}

	var content strings.Builder
	for _, hit := range hits {
		content.WriteString(truncate(hit.Markdown, maxContentChars))
		content.WriteString("\n\n")
	}

	reply, err := p.provider.Complete(ctx, extractionSystem, extractionUser(query, content.String()))
	if err != nil {
		return nil, fmt.Errorf("tool extraction failed: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, line := range strings.Split(reply, "\n") {
		name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789. "))
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		names = append(names, name)
		if len(names) == maxCandidates {
			break
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no tool names extracted for %q", query)
	}
	return names, nil
}

// structureCandidates researches candidates concurrently, preserving the
// extraction order in the output. Failures are collected per candidate.
func (p *Pipeline) structureCandidates(ctx context.Context, query string, names []string) ([]*record.ToolRecord, []CandidateFailure) {
	results := make([]*record.ToolRecord, len(names))
	errs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range names {
		g.Go(func() error {
			r, err := p.structureOne(gctx, name)
			if err != nil {
				errs[i] = err
				return nil // per-candidate failures never cancel the batch
			}
			results[i] = r
			return nil
		})
	}
	g.Wait()

	var records []*record.ToolRecord
	var failures []CandidateFailure
	seen := make(map[string]bool)
	for i, name := range names {
		switch {
		case errs[i] != nil:
			log.Printf("Warning: dropping candidate %q: %v", name, errs[i])
			failures = append(failures, CandidateFailure{Name: name, Err: errs[i]})
		case seen[strings.ToLower(results[i].Name)]:
			// Two candidates resolved to the same tool; keep the first.
		default:
			seen[strings.ToLower(results[i].Name)] = true
			records = append(records, results[i])
		}
	}
	return records, failures
}

// structureOne scrapes one candidate's site and structures it into a record.
func (p *Pipeline) structureOne(ctx context.Context, name string) (*record.ToolRecord, error) {
	hits, err := p.firecrawl.Search(ctx, name+" official site", 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("no pages found")
	}

	content := hits[0].Markdown
	if content == "" {
		if content, err = p.firecrawl.Scrape(ctx, hits[0].URL); err != nil {
			return nil, err
		}
	}

	reply, err := p.provider.Complete(ctx, analysisSystem, analysisUser(name, truncate(content, maxContentChars)))
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(reply)
	if err != nil {
		return nil, err
	}

	website := analysis.Website
	if website == "" {
		website = hits[0].URL
	}

	popularity := record.PopularityUnknown
	if analysis.PopularityScore != nil {
		popularity = *analysis.PopularityScore
	}

	return record.New(record.ToolRecord{
		Name:                 name,
		Description:          analysis.Description,
		Website:              website,
		PricingModel:         record.PricingModel(strings.ToLower(analysis.PricingModel)),
		OpenSource:           analysis.OpenSource,
		HasAPI:               analysis.HasAPI,
		Languages:            analysis.Languages,
		TechStack:            analysis.TechStack,
		Integrations:         analysis.Integrations,
		PopularityScore:      popularity,
		CommunityActivity:    analysis.CommunityActivity,
		MarketPosition:       strings.ToLower(analysis.MarketPosition),
		TrendStatus:          record.TrendStatus(strings.ToLower(analysis.TrendStatus)),
		DocumentationQuality: strings.ToLower(analysis.DocumentationQuality),
	})
}

// recommend generates the short analysis text over the structured records.
func (p *Pipeline) recommend(ctx context.Context, query string, records []*record.ToolRecord) (string, error) {
	var summary strings.Builder
	for _, r := range records {
		fmt.Fprintf(&summary, "%s: %s (pricing: %s, open source: %t)\n",
			r.Name, r.Description, r.PricingModel, r.OpenSource)
	}
	return p.provider.Complete(ctx, recommendationSystem, recommendationUser(query, summary.String()))
}

// toolAnalysis mirrors the JSON the structuring prompt asks for.
type toolAnalysis struct {
	Description          string   `json:"description"`
	Website              string   `json:"website"`
	PricingModel         string   `json:"pricing_model"`
	OpenSource           bool     `json:"open_source"`
	HasAPI               bool     `json:"has_api"`
	Languages            []string `json:"languages"`
	TechStack            []string `json:"tech_stack"`
	Integrations         []string `json:"integrations"`
	PopularityScore      *int     `json:"popularity_score"`
	CommunityActivity    int      `json:"community_activity"`
	MarketPosition       string   `json:"market_position"`
	TrendStatus          string   `json:"trend_status"`
	DocumentationQuality string   `json:"documentation_quality"`
}

// parseAnalysis decodes the LLM reply, tolerating markdown code fences.
func parseAnalysis(reply string) (*toolAnalysis, error) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	var analysis toolAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("analysis reply is not valid JSON: %w", err)
	}
	return &analysis, nil
}
