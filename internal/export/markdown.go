package export

import (
	"fmt"
	"strings"

	"github.com/scoutware/devscout/internal/matrix"
	"github.com/scoutware/devscout/internal/record"
)

// RenderReport renders the full markdown research report: title, quick
// stats, per-tool sections, the comparison matrix (when present) and the
// trend report.
func RenderReport(doc Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Developer Tools Research: %s\n\n", doc.Metadata.Query)
	fmt.Fprintf(&b, "Generated: %s\n", doc.Metadata.GeneratedAt)

	b.WriteString(QuickStats(doc.Companies))

	if doc.Analysis != "" {
		b.WriteString("\n## Analysis\n\n")
		b.WriteString(doc.Analysis)
		b.WriteString("\n")
	}

	b.WriteString("\n## Tools\n")
	for _, r := range doc.Companies {
		b.WriteString(ToolSummary(r))
	}

	if doc.ComparisonMatrix != nil {
		b.WriteString(RenderMatrix(doc.ComparisonMatrix))
	}

	b.WriteString(TrendReport(doc.Companies))

	return b.String()
}

// ToolSummary renders one tool as a markdown section.
func ToolSummary(r *record.ToolRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n### %s\n\n", r.Name)
	fmt.Fprintf(&b, "**Description:** %s\n", orNA(r.Description))
	fmt.Fprintf(&b, "**Website:** %s\n", orNA(r.Website))
	fmt.Fprintf(&b, "**Pricing:** %s\n", r.PricingModel)
	fmt.Fprintf(&b, "**Open Source:** %s\n", yesNo(r.OpenSource))
	fmt.Fprintf(&b, "**API Available:** %s\n\n", yesNo(r.HasAPI))
	fmt.Fprintf(&b, "**Supported Languages:** %s\n", strings.Join(r.Languages, ", "))
	fmt.Fprintf(&b, "**Tech Stack:** %s\n", strings.Join(r.TechStack, ", "))
	fmt.Fprintf(&b, "**Integrations:** %s\n", strings.Join(r.Integrations, ", "))

	return b.String()
}

// RenderMatrix renders the comparison matrix as a literal pipe table.
func RenderMatrix(m *matrix.Matrix) string {
	if m == nil || len(m.Tools) == 0 {
		return "\nNo comparison data available\n"
	}

	var b strings.Builder
	b.WriteString("\n## Comparison Matrix\n\n")

	b.WriteString("| Tool | " + strings.Join(m.Categories, " | ") + " |\n")
	b.WriteString("|------|" + strings.Repeat("------|", len(m.Categories)) + "\n")

	for _, tool := range m.Tools {
		row := m.Row(tool)
		if row == nil {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", tool, strings.Join(row, " | "))
	}

	return b.String()
}

// QuickStats summarizes the result set: counts by pricing model, the
// open-source share and how many tools expose an API.
func QuickStats(records []*record.ToolRecord) string {
	if len(records) == 0 {
		return "\nNo tools found.\n"
	}

	byPricing := make(map[record.PricingModel]int)
	openSource, withAPI := 0, 0
	for _, r := range records {
		byPricing[r.PricingModel]++
		if r.OpenSource {
			openSource++
		}
		if r.HasAPI {
			withAPI++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n## Summary\n\n")
	fmt.Fprintf(&b, "- Tools found: %d\n", len(records))
	fmt.Fprintf(&b, "- Open source: %d of %d\n", openSource, len(records))
	fmt.Fprintf(&b, "- With API access: %d of %d\n", withAPI, len(records))
	for _, pricing := range []record.PricingModel{
		record.PricingFree, record.PricingFreemium, record.PricingPaid,
		record.PricingEnterprise, record.PricingUnknown,
	} {
		if n := byPricing[pricing]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", pricing, n)
		}
	}
	return b.String()
}

// TrendReport lists trend-status counts and the trending tools
// (rising, hot, emerging) with their popularity.
func TrendReport(records []*record.ToolRecord) string {
	if len(records) == 0 {
		return ""
	}

	byTrend := make(map[record.TrendStatus]int)
	var trending []*record.ToolRecord
	for _, r := range records {
		byTrend[r.TrendStatus]++
		switch r.TrendStatus {
		case record.TrendRising, record.TrendHot, record.TrendEmerging:
			trending = append(trending, r)
		}
	}

	var b strings.Builder
	b.WriteString("\n## Trends\n\n")
	for _, trend := range []record.TrendStatus{
		record.TrendHot, record.TrendRising, record.TrendEmerging,
		record.TrendStable, record.TrendUnknown,
	} {
		if n := byTrend[trend]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", trend, n)
		}
	}

	if len(trending) > 0 {
		fmt.Fprintf(&b, "\nTrending tools (%d):\n", len(trending))
		for i, r := range trending {
			fmt.Fprintf(&b, "%d. %s - %s (popularity %s)\n",
				i+1, r.Name, r.TrendStatus, popularityLabel(r))
		}
	}
	return b.String()
}

func popularityLabel(r *record.ToolRecord) string {
	if r.PopularityScore == record.PopularityUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%d/100", r.PopularityScore)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
