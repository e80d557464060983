/*
Package record defines the canonical in-memory representation of a researched
developer tool and the ordered result set produced by one research query.

Records are immutable value objects: engines downstream (filtering, sorting,
scoring, comparison) derive new views from them and never edit a record in
place. A re-research replaces the whole record, never individual fields.
*/
package record

import (
	"fmt"
	"strings"
)

// PricingModel enumerates the known pricing models.
type PricingModel string

const (
	PricingFree       PricingModel = "free"
	PricingFreemium   PricingModel = "freemium"
	PricingPaid       PricingModel = "paid"
	PricingEnterprise PricingModel = "enterprise"
	PricingUnknown    PricingModel = "unknown"
)

// TrendStatus enumerates the known trend labels.
type TrendStatus string

const (
	TrendRising   TrendStatus = "rising"
	TrendHot      TrendStatus = "hot"
	TrendEmerging TrendStatus = "emerging"
	TrendStable   TrendStatus = "stable"
	TrendUnknown  TrendStatus = "unknown"
)

// PopularityUnknown is the sentinel for a missing popularity score.
// It sorts as 0 and scores as neutral.
const PopularityUnknown = -1

// ToolRecord is one researched tool. The name is immutable once created and
// unique (case-insensitively) within a ResultSet.
type ToolRecord struct {
	// Name identifies the tool. Non-empty, unique within a result set.
	Name string `json:"name"`

	// Description is free text about what the tool does for developers.
	Description string `json:"description"`

	// Website is the tool's homepage, if known.
	Website string `json:"website,omitempty"`

	// PricingModel is one of free, freemium, paid, enterprise, unknown.
	PricingModel PricingModel `json:"pricing_model"`

	// OpenSource reports whether the tool is open source.
	OpenSource bool `json:"open_source"`

	// HasAPI reports whether the tool exposes programmatic access
	// (REST, GraphQL, SDK).
	HasAPI bool `json:"has_api"`

	// Languages are the programming languages the tool supports.
	Languages []string `json:"languages"`

	// TechStack lists technologies the tool is built on or works with.
	TechStack []string `json:"tech_stack"`

	// Integrations lists tools and platforms it integrates with.
	Integrations []string `json:"integrations"`

	// PopularityScore is 0-100, or PopularityUnknown when not determined.
	PopularityScore int `json:"popularity_score"`

	// CommunityActivity is a normalized 0-100 community signal.
	CommunityActivity int `json:"community_activity"`

	// MarketPosition is a free-text label (e.g. "leader", "niche").
	MarketPosition string `json:"market_position,omitempty"`

	// TrendStatus is one of rising, hot, emerging, stable, unknown.
	TrendStatus TrendStatus `json:"trend_status"`

	// DocumentationQuality is poor/good/excellent when supplied upstream,
	// empty when unknown. The comparison matrix never invents a value here.
	DocumentationQuality string `json:"documentation_quality,omitempty"`

	// searchSurface is the precomputed lower-cased text used by keyword
	// search: name, description and all set-valued fields concatenated.
	searchSurface string
}

// ValidationError reports a malformed tool record at construction time.
// A malformed candidate is dropped from its batch; it never aborts a query.
type ValidationError struct {
	Name  string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	name := e.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("invalid tool record %q: %s: %s", name, e.Field, e.Msg)
}

// New validates and constructs a ToolRecord, precomputing its search surface.
// Name must be non-empty; pricing model and trend status must be members of
// their enumerated sets (empty values normalize to unknown).
func New(r ToolRecord) (*ToolRecord, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, &ValidationError{Field: "name", Msg: "must not be empty"}
	}

	if r.PricingModel == "" {
		r.PricingModel = PricingUnknown
	}
	switch r.PricingModel {
	case PricingFree, PricingFreemium, PricingPaid, PricingEnterprise, PricingUnknown:
	default:
		return nil, &ValidationError{Name: r.Name, Field: "pricing_model",
			Msg: fmt.Sprintf("unknown value %q", r.PricingModel)}
	}

	if r.TrendStatus == "" {
		r.TrendStatus = TrendUnknown
	}
	switch r.TrendStatus {
	case TrendRising, TrendHot, TrendEmerging, TrendStable, TrendUnknown:
	default:
		return nil, &ValidationError{Name: r.Name, Field: "trend_status",
			Msg: fmt.Sprintf("unknown value %q", r.TrendStatus)}
	}

	if r.PopularityScore != PopularityUnknown && (r.PopularityScore < 0 || r.PopularityScore > 100) {
		return nil, &ValidationError{Name: r.Name, Field: "popularity_score",
			Msg: fmt.Sprintf("must be 0-100 or unknown, got %d", r.PopularityScore)}
	}

	r.searchSurface = buildSearchSurface(&r)
	return &r, nil
}

// SearchSurface returns the lower-cased text searched by keyword lookup.
func (r *ToolRecord) SearchSurface() string {
	if r.searchSurface == "" {
		// Records decoded from JSON skip New; build lazily off the same inputs.
		return buildSearchSurface(r)
	}
	return r.searchSurface
}

// EqualName reports whether the record's name matches case-insensitively.
func (r *ToolRecord) EqualName(name string) bool {
	return strings.EqualFold(r.Name, name)
}

// IsInfraTech reports whether a tech stack entry names an infrastructure
// technology that pushes the learning curve up.
func IsInfraTech(tech string) bool {
	switch strings.ToLower(tech) {
	case "docker", "kubernetes", "terraform":
		return true
	}
	return false
}

func buildSearchSurface(r *ToolRecord) string {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteByte(' ')
	b.WriteString(r.Description)
	for _, group := range [][]string{r.Languages, r.TechStack, r.Integrations} {
		for _, v := range group {
			b.WriteByte(' ')
			b.WriteString(v)
		}
	}
	return strings.ToLower(b.String())
}
