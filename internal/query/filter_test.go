package query

import (
	"errors"
	"testing"

	"github.com/scoutware/devscout/internal/record"
)

func testRecords(t *testing.T) []*record.ToolRecord {
	t.Helper()

	build := func(r record.ToolRecord) *record.ToolRecord {
		out, err := record.New(r)
		if err != nil {
			t.Fatalf("failed to build record %q: %v", r.Name, err)
		}
		return out
	}

	return []*record.ToolRecord{
		build(record.ToolRecord{
			Name:            "Supabase",
			Description:     "Open source Firebase alternative built on Postgres",
			PricingModel:    record.PricingFreemium,
			OpenSource:      true,
			HasAPI:          true,
			Languages:       []string{"sql", "js"},
			PopularityScore: 70,
		}),
		build(record.ToolRecord{
			Name:            "PlanetScale",
			Description:     "Serverless MySQL platform",
			PricingModel:    record.PricingPaid,
			OpenSource:      false,
			HasAPI:          true,
			Languages:       []string{"sql"},
			PopularityScore: 60,
		}),
		build(record.ToolRecord{
			Name:            "Neon",
			Description:     "Serverless Postgres",
			PricingModel:    record.PricingFree,
			OpenSource:      true,
			HasAPI:          false,
			Languages:       []string{"sql", "go", "python"},
			PopularityScore: record.PopularityUnknown,
		}),
	}
}

func names(records []*record.ToolRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestApply_EmptyChainIsIdentity(t *testing.T) {
	records := testRecords(t)

	got, err := Apply(records, Chain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("position %d: order changed under empty chain", i)
		}
	}
}

func TestApply_EqualsOnBool(t *testing.T) {
	records := testRecords(t)
	chain := Chain{}.Add(Criterion{Field: "open_source", Op: OpEquals, Value: "true"})

	got, err := Apply(records, chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Supabase", "Neon"}
	if len(got) != 2 || got[0].Name != want[0] || got[1].Name != want[1] {
		t.Errorf("expected %v, got %v", want, names(got))
	}
}

func TestApply_EqualsOnSetIsMembership(t *testing.T) {
	records := testRecords(t)
	chain := Chain{}.Add(Criterion{Field: "languages", Op: OpEquals, Value: "Python"})

	got, err := Apply(records, chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Neon" {
		t.Errorf("expected [Neon], got %v", names(got))
	}
}

func TestApply_ContainsOnText(t *testing.T) {
	records := testRecords(t)
	chain := Chain{}.Add(Criterion{Field: "description", Op: OpContains, Value: "serverless"})

	got, err := Apply(records, chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 serverless tools, got %v", names(got))
	}
}

func TestApply_NumericComparison(t *testing.T) {
	records := testRecords(t)
	chain := Chain{}.Add(Criterion{Field: "popularity_score", Op: OpGreaterOrEqual, Value: "65"})

	got, err := Apply(records, chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Supabase" {
		t.Errorf("expected [Supabase], got %v", names(got))
	}
}

func TestApply_IsIdempotent(t *testing.T) {
	records := testRecords(t)
	chain := Chain{}.Add(Criterion{Field: "open_source", Op: OpEquals, Value: "true"})

	once, err := Apply(records, chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := Apply(once, chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(once) != len(twice) {
		t.Fatalf("filter is not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("position %d differs after re-applying the same chain", i)
		}
	}
}

func TestApply_UnknownField(t *testing.T) {
	_, err := Apply(testRecords(t), Chain{}.Add(Criterion{Field: "velocity", Op: OpEquals, Value: "1"}))
	var uerr *UnknownFieldError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if uerr.Field != "velocity" {
		t.Errorf("expected the error to name the field, got %q", uerr.Field)
	}
}

func TestApply_TypeMismatch(t *testing.T) {
	cases := []Criterion{
		{Field: "languages", Op: OpGreaterOrEqual, Value: "2"},
		{Field: "name", Op: OpLessOrEqual, Value: "z"},
		{Field: "open_source", Op: OpContains, Value: "tr"},
		{Field: "popularity_score", Op: OpGreaterOrEqual, Value: "lots"},
	}
	for _, c := range cases {
		_, err := Apply(testRecords(t), Chain{}.Add(c))
		var terr *TypeMismatchError
		if !errors.As(err, &terr) {
			t.Errorf("criterion %v: expected TypeMismatchError, got %v", c, err)
		}
	}
}

func TestChain_DuplicateFieldReplaces(t *testing.T) {
	chain := Chain{}.
		Add(Criterion{Field: "pricing_model", Op: OpEquals, Value: "free"}).
		Add(Criterion{Field: "open_source", Op: OpEquals, Value: "true"}).
		Add(Criterion{Field: "pricing_model", Op: OpEquals, Value: "freemium"})

	criteria := chain.Criteria()
	if len(criteria) != 2 {
		t.Fatalf("expected 2 criteria after replacement, got %d", len(criteria))
	}
	if criteria[0].Field != "pricing_model" || criteria[0].Value != "freemium" {
		t.Errorf("expected pricing criterion replaced in place, got %v", criteria[0])
	}

	got, err := Apply(testRecords(t), chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Supabase" {
		t.Errorf("expected [Supabase], got %v", names(got))
	}
}

func TestParseCriterion(t *testing.T) {
	cases := []struct {
		in    string
		field string
		op    Operator
		value string
	}{
		{"pricing=free", "pricing_model", OpEquals, "free"},
		{"opensource=true", "open_source", OpEquals, "true"},
		{"popularity>=50", "popularity_score", OpGreaterOrEqual, "50"},
		{"community<=30", "community_activity", OpLessOrEqual, "30"},
		{"description~serverless", "description", OpContains, "serverless"},
		{"language=python", "languages", OpEquals, "python"},
	}
	for _, c := range cases {
		got, err := ParseCriterion(c.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.in, err)
			continue
		}
		if got.Field != c.field || got.Op != c.op || got.Value != c.value {
			t.Errorf("%q: expected (%s %s %s), got (%s %s %s)",
				c.in, c.field, c.op, c.value, got.Field, got.Op, got.Value)
		}
	}
}

func TestParseCriterion_Errors(t *testing.T) {
	for _, in := range []string{"pricing", "=free", "pricing=", "velocity=9"} {
		if _, err := ParseCriterion(in); err == nil {
			t.Errorf("%q: expected parse error", in)
		}
	}
}
