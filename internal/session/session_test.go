package session

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/scoutware/devscout/internal/record"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	supabase, err := record.New(record.ToolRecord{
		Name:            "Supabase",
		Description:     "Open source Firebase alternative",
		PricingModel:    record.PricingFreemium,
		OpenSource:      true,
		HasAPI:          true,
		Languages:       []string{"sql", "js"},
		PopularityScore: 70,
		TrendStatus:     record.TrendRising,
	})
	if err != nil {
		t.Fatalf("failed to build record: %v", err)
	}
	planetscale, err := record.New(record.ToolRecord{
		Name:            "PlanetScale",
		Description:     "Serverless MySQL platform",
		PricingModel:    record.PricingPaid,
		HasAPI:          true,
		Languages:       []string{"sql"},
		PopularityScore: 60,
	})
	if err != nil {
		t.Fatalf("failed to build record: %v", err)
	}
	set, err := record.NewResultSet("database tools", []*record.ToolRecord{supabase, planetscale})
	if err != nil {
		t.Fatalf("failed to build result set: %v", err)
	}
	return New(set, "Supabase leads on openness.", t.TempDir())
}

func exec(t *testing.T, s *Session, line string) Outcome {
	t.Helper()
	cmd, err := Parse(line)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", line, err)
	}
	out, err := s.Execute(cmd)
	if err != nil {
		t.Fatalf("failed to execute %q: %v", line, err)
	}
	return out
}

func viewNames(records []*record.ToolRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names
}

func TestExecute_FilterSortCompare(t *testing.T) {
	s := testSession(t)

	out := exec(t, s, "filter opensource=true")
	if got := viewNames(out.Records); len(got) != 1 || got[0] != "Supabase" {
		t.Fatalf("expected only Supabase after filter, got %v", got)
	}

	exec(t, s, "clear")

	out = exec(t, s, "sort languages")
	if got := viewNames(out.Records); got[0] != "Supabase" || got[1] != "PlanetScale" {
		t.Fatalf("expected Supabase first by language count, got %v", got)
	}

	out = exec(t, s, "compare Supabase PlanetScale")
	if out.Matrix == nil {
		t.Fatal("expected a comparison matrix")
	}
	if out.Matrix.Tools[0] != "Supabase" || out.Matrix.Tools[1] != "PlanetScale" {
		t.Errorf("expected rows in argument order, got %v", out.Matrix.Tools)
	}
	if out.Matrix.Cells["Supabase"]["open_source"] != "yes" ||
		out.Matrix.Cells["PlanetScale"]["open_source"] != "no" {
		t.Error("open_source column does not reflect the records")
	}
	if s.LastComparison() != out.Matrix {
		t.Error("expected the comparison to be retained for export")
	}
}

func TestExecute_FilterThenSortCompose(t *testing.T) {
	s := testSession(t)

	exec(t, s, "sort popularity asc")
	out := exec(t, s, "filter api=true")
	// Re-filtering recomputes from the base set and reapplies the sort.
	if got := viewNames(out.Records); len(got) != 2 || got[0] != "PlanetScale" {
		t.Errorf("expected ascending popularity kept through filter, got %v", got)
	}

	out = exec(t, s, "filter pricing=paid")
	if got := viewNames(out.Records); len(got) != 1 || got[0] != "PlanetScale" {
		t.Errorf("expected both filters active, got %v", got)
	}

	// Same-field filter replaces, not narrows.
	out = exec(t, s, "filter pricing=freemium")
	if got := viewNames(out.Records); len(got) != 1 || got[0] != "Supabase" {
		t.Errorf("expected pricing filter replaced, got %v", got)
	}
	if n := len(s.Filters()); n != 2 {
		t.Errorf("expected 2 active criteria, got %d", n)
	}
}

func TestExecute_FailedFilterLeavesViewIntact(t *testing.T) {
	s := testSession(t)
	exec(t, s, "filter opensource=true")

	cmd, err := Parse("filter popularity>=soon")
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if _, err := s.Execute(cmd); err == nil {
		t.Fatal("expected a type mismatch error")
	}

	if got := viewNames(s.Current()); len(got) != 1 || got[0] != "Supabase" {
		t.Errorf("expected view unchanged after failed filter, got %v", got)
	}
	if n := len(s.Filters()); n != 1 {
		t.Errorf("expected filter chain unchanged, got %d criteria", n)
	}
}

func TestExecute_SearchNarrowsView(t *testing.T) {
	s := testSession(t)

	out := exec(t, s, "search mysql")
	if got := viewNames(out.Records); len(got) != 1 || got[0] != "PlanetScale" {
		t.Errorf("expected search to narrow to PlanetScale, got %v", got)
	}

	out = exec(t, s, "clear")
	if got := viewNames(out.Records); len(got) != 2 || got[0] != "Supabase" {
		t.Errorf("expected clear to restore base order, got %v", got)
	}
}

func TestExecute_DetailsResolution(t *testing.T) {
	s := testSession(t)

	out := exec(t, s, "details 2")
	if out.Record.Name != "PlanetScale" {
		t.Errorf("expected index 2 to resolve to PlanetScale, got %q", out.Record.Name)
	}

	out = exec(t, s, "details supabase")
	if out.Record.Name != "Supabase" {
		t.Errorf("expected case-insensitive name match, got %q", out.Record.Name)
	}

	// Index resolution follows the current view, not the base set.
	exec(t, s, "filter pricing=paid")
	out = exec(t, s, "details 1")
	if out.Record.Name != "PlanetScale" {
		t.Errorf("expected index 1 of filtered view, got %q", out.Record.Name)
	}

	for _, ref := range []string{"3", "0", "Nope"} {
		cmd, err := Parse("details " + ref)
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		_, err = s.Execute(cmd)
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("details %s: expected NotFoundError, got %v", ref, err)
		}
	}
}

func TestExecute_Score(t *testing.T) {
	s := testSession(t)
	exec(t, s, "filter pricing=paid")

	out := exec(t, s, "score")
	// Scoring ranks the full result set regardless of the active view.
	if len(out.Ranked) != 2 {
		t.Fatalf("expected all tools ranked, got %d", len(out.Ranked))
	}
	if out.Ranked[0].Record.Name != "Supabase" {
		t.Errorf("expected Supabase ranked first, got %q", out.Ranked[0].Record.Name)
	}
}

func TestExecute_SaveAndExportCompare(t *testing.T) {
	s := testSession(t)

	out := exec(t, s, "save")
	if out.Path == "" {
		t.Fatal("expected a written path")
	}
	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if !strings.Contains(string(data), `"query": "database tools"`) {
		t.Error("saved document missing query metadata")
	}

	cmd, err := Parse("export-compare")
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if _, err := s.Execute(cmd); err == nil {
		t.Error("expected error exporting before any comparison")
	}

	exec(t, s, "compare 1 2")
	out = exec(t, s, "export-compare")
	if !strings.HasSuffix(out.Path, ".md") {
		t.Errorf("expected markdown comparison export, got %q", out.Path)
	}
	data, err = os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("failed to read comparison export: %v", err)
	}
	if !strings.Contains(string(data), "| Supabase |") {
		t.Error("comparison export missing matrix rows")
	}
}

func TestExecute_Trends(t *testing.T) {
	s := testSession(t)
	out := exec(t, s, "trends")
	if !strings.Contains(out.Text, "rising: 1") {
		t.Errorf("expected trend counts, got:\n%s", out.Text)
	}
}
