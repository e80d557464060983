/*
Package scoring computes preference-weighted relevance scores for tool
records.

The score is a weighted sum of independent sub-scores, each normalized to
[0, 1] before weighting. Weights are fixed constants and sum to 1, so a
score is a pure deterministic function of (record, profile): the same
inputs always produce the same ranking.
*/
package scoring

import (
	"sort"
	"strings"

	"github.com/scoutware/devscout/internal/matrix"
	"github.com/scoutware/devscout/internal/record"
)

const (
	// pricingWeight is the weight of the budget/pricing fit (30%).
	pricingWeight = 0.30

	// languageWeight is the weight of the preferred-language fit (25%).
	languageWeight = 0.25

	// maturityWeight is the weight of the popularity/maturity fit (30%).
	maturityWeight = 0.30

	// openSourceWeight is the weight of the open-source bonus (15%).
	// Open source is a small fixed bonus, never a hard filter.
	openSourceWeight = 0.15

	// startupCurvePenalty lowers the maturity fit of high-learning-curve
	// tools for startup teams.
	startupCurvePenalty = 0.3

	// enterpriseMaturityBoost raises the maturity fit for enterprise teams.
	enterpriseMaturityBoost = 0.1

	// neutral is the sub-score used when a preference is unstated or the
	// record carries no signal for it.
	neutral = 0.5
)

// Budget is the user's budget preference.
type Budget string

const (
	BudgetFreeOnly Budget = "free_only"
	BudgetFlexible Budget = "flexible"
)

// TeamSize is the user's team profile.
type TeamSize string

const (
	TeamStartup    TeamSize = "startup"
	TeamEnterprise TeamSize = "enterprise"
)

// Profile is the ephemeral scoring input describing the user's priorities.
// Created per score invocation, never persisted. The zero value is an
// empty profile: every sub-score comes out neutral and every tool is kept.
type Profile struct {
	Budget             Budget   `yaml:"budget"`
	TeamSize           TeamSize `yaml:"team_size"`
	PreferredLanguages []string `yaml:"preferred_languages"`
	UseCase            string   `yaml:"use_case"`
}

// ScoredTool pairs a record with its computed score.
type ScoredTool struct {
	Record *record.ToolRecord
	Score  float64
}

// Score computes the weighted relevance score for one record.
func Score(r *record.ToolRecord, p Profile) float64 {
	return pricingWeight*pricingFit(r, p) +
		languageWeight*languageFit(r, p) +
		maturityWeight*maturityFit(r, p) +
		openSourceWeight*openSourceFit(r)
}

// Rank scores every record and orders the result descending by score, ties
// broken by name ascending. No record is ever dropped.
func Rank(records []*record.ToolRecord, p Profile) []ScoredTool {
	out := make([]ScoredTool, len(records))
	for i, r := range records {
		out[i] = ScoredTool{Record: r, Score: Score(r, p)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return strings.ToLower(out[i].Record.Name) < strings.ToLower(out[j].Record.Name)
	})
	return out
}

// pricingFit: under a free-only budget, free and freemium tools fit fully,
// paid and enterprise not at all, unknown pricing half. A flexible (or
// unstated) budget is neutral toward pricing.
func pricingFit(r *record.ToolRecord, p Profile) float64 {
	if p.Budget != BudgetFreeOnly {
		return neutral
	}
	switch r.PricingModel {
	case record.PricingFree, record.PricingFreemium:
		return 1.0
	case record.PricingPaid, record.PricingEnterprise:
		return 0.0
	default:
		return neutral
	}
}

// languageFit is the fraction of preferred languages the tool supports.
// An empty preference set is neutral.
func languageFit(r *record.ToolRecord, p Profile) float64 {
	if len(p.PreferredLanguages) == 0 {
		return neutral
	}
	supported := make(map[string]bool, len(r.Languages))
	for _, lang := range r.Languages {
		supported[strings.ToLower(lang)] = true
	}
	hits := 0
	for _, want := range p.PreferredLanguages {
		if supported[strings.ToLower(want)] {
			hits++
		}
	}
	return float64(hits) / float64(len(p.PreferredLanguages))
}

// maturityFit normalizes the popularity score, then adjusts for team size:
// startups are penalized toward simpler tools (high learning curve costs a
// fixed penalty), enterprises get a fixed boost. Clamped to [0, 1].
func maturityFit(r *record.ToolRecord, p Profile) float64 {
	fit := neutral
	if r.PopularityScore != record.PopularityUnknown {
		fit = float64(r.PopularityScore) / 100.0
	}

	switch p.TeamSize {
	case TeamStartup:
		if matrix.LearningCurve(r) == "high" {
			fit -= startupCurvePenalty
		}
	case TeamEnterprise:
		fit += enterpriseMaturityBoost
	}

	return clamp01(fit)
}

// openSourceFit: a small fixed bonus for open-source tools, neutral otherwise.
func openSourceFit(r *record.ToolRecord) float64 {
	if r.OpenSource {
		return 1.0
	}
	return neutral
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
