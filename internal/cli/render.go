package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/scoutware/devscout/internal/export"
	"github.com/scoutware/devscout/internal/matrix"
	"github.com/scoutware/devscout/internal/query"
	"github.com/scoutware/devscout/internal/record"
	"github.com/scoutware/devscout/internal/research"
	"github.com/scoutware/devscout/internal/scoring"
	"github.com/scoutware/devscout/internal/session"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	toolColor   = color.New(color.FgGreen).SprintFunc()
	dimColor    = color.New(color.FgYellow).SprintFunc()
	errColor    = color.New(color.FgRed).SprintFunc()
)

// renderView prints the numbered current view with the active filters and
// sort, the numbering `compare` and `details` indexes resolve against.
func renderView(sess *session.Session, records []*record.ToolRecord) {
	fmt.Printf("\n%s (%d of %d tools)\n", headerColor("Results"), len(records), sess.Base().Len())

	if filters := sess.Filters(); len(filters) > 0 {
		parts := make([]string, len(filters))
		for i, c := range filters {
			parts[i] = c.String()
		}
		fmt.Printf("  %s %s\n", dimColor("filters:"), strings.Join(parts, " AND "))
	}
	if spec := sess.SortSpec(); spec != nil {
		fmt.Printf("  %s %s\n", dimColor("sort:"), spec)
	}

	for i, r := range records {
		fmt.Printf("%3d. %s  %s\n", i+1, toolColor(r.Name), summaryLine(r))
	}
	if len(records) == 0 {
		fmt.Println("  (no tools match)")
	}
	fmt.Println()
}

// summaryLine is the one-line descriptor shown in listings.
func summaryLine(r *record.ToolRecord) string {
	traits := []string{string(r.PricingModel)}
	if r.OpenSource {
		traits = append(traits, "open source")
	}
	if r.HasAPI {
		traits = append(traits, "API")
	}
	if r.PopularityScore != record.PopularityUnknown {
		traits = append(traits, fmt.Sprintf("popularity %d", r.PopularityScore))
	}
	return "[" + strings.Join(traits, ", ") + "]"
}

// renderDetails prints the full record for one tool.
func renderDetails(r *record.ToolRecord) {
	fmt.Printf("\n%s\n\n", headerColor(r.Name))
	fmt.Printf("  Description:  %s\n", r.Description)
	if r.Website != "" {
		fmt.Printf("  Website:      %s\n", r.Website)
	}
	fmt.Printf("  Pricing:      %s\n", r.PricingModel)
	fmt.Printf("  Open source:  %t\n", r.OpenSource)
	fmt.Printf("  API:          %t\n", r.HasAPI)
	fmt.Printf("  Languages:    %s\n", strings.Join(r.Languages, ", "))
	fmt.Printf("  Tech stack:   %s\n", strings.Join(r.TechStack, ", "))
	fmt.Printf("  Integrations: %s\n", strings.Join(r.Integrations, ", "))
	if r.PopularityScore != record.PopularityUnknown {
		fmt.Printf("  Popularity:   %d/100\n", r.PopularityScore)
	}
	fmt.Printf("  Community:    %s (%d/100)\n", matrix.CommunitySize(r.CommunityActivity), r.CommunityActivity)
	fmt.Printf("  Trend:        %s\n", r.TrendStatus)
	if r.MarketPosition != "" {
		fmt.Printf("  Market:       %s\n", r.MarketPosition)
	}
	fmt.Println()
}

// renderMatrix prints the comparison as a pipe table.
func renderMatrix(m *matrix.Matrix) {
	fmt.Println(export.RenderMatrix(m))
}

// renderRanked prints the scored ranking, best first.
func renderRanked(ranked []scoring.ScoredTool) {
	fmt.Printf("\n%s\n\n", headerColor("Recommendations"))
	for i, st := range ranked {
		fmt.Printf("%3d. %s  (score %.2f)\n", i+1, toolColor(st.Record.Name), st.Score)
		if st.Record.Description != "" {
			fmt.Printf("     %s\n", st.Record.Description)
		}
	}
	fmt.Println()
}

// renderBatchReport summarizes how the research run went.
func renderBatchReport(report research.BatchReport) {
	fmt.Printf("Structured %d of %d candidates\n", report.Succeeded, report.Extracted)
	for _, f := range report.Failures {
		fmt.Printf("  %s %s: %v\n", dimColor("skipped"), f.Name, f.Err)
	}
}

// renderOutcome routes one command outcome to its renderer.
func renderOutcome(sess *session.Session, cmd session.Command, outcome session.Outcome) {
	switch cmd.Kind {
	case session.KindFilter, session.KindSort, session.KindSearch,
		session.KindClear, session.KindList:
		renderView(sess, outcome.Records)
	case session.KindScore:
		renderRanked(outcome.Ranked)
	case session.KindDetails:
		renderDetails(outcome.Record)
	case session.KindCompare:
		renderMatrix(outcome.Matrix)
	case session.KindSave, session.KindExportCompare:
		fmt.Printf("Saved to %s\n", outcome.Path)
	case session.KindTrends:
		fmt.Println(outcome.Text)
	case session.KindHelp:
		printHelp()
	}
}

// printHelp lists the session verbs.
func printHelp() {
	fmt.Printf("\n%s\n\n", headerColor("Session commands"))
	rows := []struct{ cmd, desc string }{
		{"filter <field><op><value>", "narrow results (ops: = ~ >= <=), e.g. filter pricing=free"},
		{"sort <field> [asc|desc]", "reorder results, e.g. sort popularity"},
		{"search <keyword>", "keyword search within the current results"},
		{"clear", "drop all filters, sort and search"},
		{"score", "rank tools against your preferences"},
		{"details <name|index>", "show everything known about one tool"},
		{"compare <a> <b>", "comparison matrix for two tools (name or index)"},
		{"export-compare [json|markdown]", "write the last comparison to a file"},
		{"list", "show the current results again"},
		{"save [json|markdown]", "write the full result set to a file"},
		{"trends", "trend summary for the result set"},
		{"help", "this message"},
		{"exit", "leave devscout"},
	}
	for _, row := range rows {
		fmt.Printf("  %-32s %s\n", toolColor(row.cmd), row.desc)
	}
	fmt.Printf("\nAny other input starts a new research query.\n")
	fmt.Printf("Fields: %s\n\n", strings.Join(query.FieldNames(), ", "))
}
