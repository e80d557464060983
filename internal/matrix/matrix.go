/*
Package matrix builds the fixed-category comparison matrix over two or more
tool records.

The category set is fixed: pricing, open_source, api, languages,
learning_curve, community_size, documentation_quality. Derived categories
(learning curve, community size) follow deterministic rules; documentation
quality is copied verbatim when supplied upstream and reported as unknown
otherwise — the builder never invents data it was not given.
*/
package matrix

import (
	"fmt"
	"strings"

	"github.com/scoutware/devscout/internal/record"
)

// Categories is the fixed column set, in display order.
var Categories = []string{
	"pricing",
	"open_source",
	"api",
	"languages",
	"learning_curve",
	"community_size",
	"documentation_quality",
}

// Learning-curve derivation: one point per supported language, plus a fixed
// bump when the tech stack includes an infrastructure technology (docker,
// kubernetes, terraform).
const (
	infraCurveBump       = 3
	lowCurveMaxPoints    = 2
	mediumCurveMaxPoints = 5
)

// Community-size buckets over the 0-100 activity signal.
const (
	smallCommunityMax  = 20
	mediumCommunityMax = 60
)

// InsufficientDataError reports a comparison attempted with fewer than two tools.
type InsufficientDataError struct {
	Got int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("comparison needs at least 2 tools, got %d", e.Got)
}

// Matrix is an immutable comparison table. Tools holds row order (input
// order); Cells maps tool name -> category -> display value.
type Matrix struct {
	Tools      []string                     `json:"tools"`
	Categories []string                     `json:"categories"`
	Cells      map[string]map[string]string `json:"matrix"`
}

// Build projects the records into a comparison matrix. Row order is input
// order; the caller controls it. Requires at least two records.
func Build(records []*record.ToolRecord) (*Matrix, error) {
	if len(records) < 2 {
		return nil, &InsufficientDataError{Got: len(records)}
	}

	m := &Matrix{
		Tools:      make([]string, 0, len(records)),
		Categories: Categories,
		Cells:      make(map[string]map[string]string, len(records)),
	}
	for _, r := range records {
		m.Tools = append(m.Tools, r.Name)
		m.Cells[r.Name] = map[string]string{
			"pricing":               string(r.PricingModel),
			"open_source":           yesNo(r.OpenSource),
			"api":                   yesNo(r.HasAPI),
			"languages":             joinOrNone(r.Languages),
			"learning_curve":        LearningCurve(r),
			"community_size":        CommunitySize(r.CommunityActivity),
			"documentation_quality": docQuality(r.DocumentationQuality),
		}
	}
	return m, nil
}

// Row returns the cells for one tool in category order.
func (m *Matrix) Row(tool string) []string {
	cells, ok := m.Cells[tool]
	if !ok {
		return nil
	}
	row := make([]string, len(m.Categories))
	for i, cat := range m.Categories {
		row[i] = cells[cat]
	}
	return row
}

// LearningCurve derives low/medium/high from language count and
// infrastructure-heavy tech stacks. Monotonic: more languages or an infra
// stack never lowers the curve.
func LearningCurve(r *record.ToolRecord) string {
	points := len(r.Languages)
	for _, tech := range r.TechStack {
		if record.IsInfraTech(tech) {
			points += infraCurveBump
			break
		}
	}
	switch {
	case points <= lowCurveMaxPoints:
		return "low"
	case points <= mediumCurveMaxPoints:
		return "medium"
	default:
		return "high"
	}
}

// CommunitySize buckets the 0-100 activity signal into small/medium/large.
func CommunitySize(activity int) string {
	switch {
	case activity < smallCommunityMax:
		return "small"
	case activity <= mediumCommunityMax:
		return "medium"
	default:
		return "large"
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func docQuality(v string) string {
	if v == "" {
		return "unknown"
	}
	return strings.ToLower(v)
}
