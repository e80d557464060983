package session

import (
	"testing"

	"github.com/scoutware/devscout/internal/export"
	"github.com/scoutware/devscout/internal/query"
)

func TestIsVerb(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"filter opensource=true", true},
		{"  SORT popularity", true},
		{"list", true},
		{"?", true},
		{"best database tools for startups", false},
		{"compared to what", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsVerb(c.line); got != c.want {
			t.Errorf("IsVerb(%q): expected %v, got %v", c.line, c.want, got)
		}
	}
}

func TestParse_Filter(t *testing.T) {
	cmd, err := Parse("filter opensource=true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != KindFilter {
		t.Fatalf("expected KindFilter, got %v", cmd.Kind)
	}
	if cmd.Criterion.Field != "open_source" || cmd.Criterion.Op != query.OpEquals {
		t.Errorf("unexpected criterion %v", cmd.Criterion)
	}

	if _, err := Parse("filter"); err == nil {
		t.Error("expected usage error for bare filter")
	}
	if _, err := Parse("filter nonsense"); err == nil {
		t.Error("expected error for criterion without an operator")
	}
}

func TestParse_Sort(t *testing.T) {
	cmd, err := Parse("sort popularity")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != KindSort || cmd.Sort.Direction != query.Descending {
		t.Errorf("expected descending default, got %+v", cmd.Sort)
	}

	cmd, err = Parse("sort popularity asc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Sort.Direction != query.Ascending {
		t.Errorf("expected ascending, got %+v", cmd.Sort)
	}

	if _, err := Parse("sort popularity sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
	if _, err := Parse("sort"); err == nil {
		t.Error("expected usage error for bare sort")
	}
}

func TestParse_CompareAndDetails(t *testing.T) {
	cmd, err := Parse("compare Supabase PlanetScale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != KindCompare || cmd.RefA != "Supabase" || cmd.RefB != "PlanetScale" {
		t.Errorf("unexpected command %+v", cmd)
	}
	if _, err := Parse("compare Supabase"); err == nil {
		t.Error("expected error for compare with one argument")
	}

	cmd, err = Parse("details 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != KindDetails || cmd.Ref != "2" {
		t.Errorf("unexpected command %+v", cmd)
	}
}

func TestParse_Formats(t *testing.T) {
	cmd, err := Parse("save")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Format != export.FormatJSON {
		t.Errorf("expected save to default to json, got %q", cmd.Format)
	}

	cmd, err = Parse("export-compare")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Format != export.FormatMarkdown {
		t.Errorf("expected export-compare to default to markdown, got %q", cmd.Format)
	}

	cmd, err = Parse("save markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Format != export.FormatMarkdown {
		t.Errorf("expected explicit markdown, got %q", cmd.Format)
	}

	if _, err := Parse("save pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParse_Unknown(t *testing.T) {
	if _, err := Parse("frobnicate"); err == nil {
		t.Error("expected error for unknown verb")
	}
	if _, err := Parse("   "); err == nil {
		t.Error("expected error for empty line")
	}
}
