package query

import (
	"errors"
	"testing"
)

func TestSearch_IsRestriction(t *testing.T) {
	records := testRecords(t)

	got, err := Search(records, "postgres")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 postgres tools, got %v", names(got))
	}

	// Every hit must come from the input, in input order.
	in := map[string]int{}
	for i, r := range records {
		in[r.Name] = i
	}
	prev := -1
	for _, r := range got {
		pos, ok := in[r.Name]
		if !ok {
			t.Fatalf("search invented record %q", r.Name)
		}
		if pos < prev {
			t.Error("search reordered records")
		}
		prev = pos
	}
}

func TestSearch_MatchesSetFields(t *testing.T) {
	got, err := Search(testRecords(t), "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "go" appears in Neon's languages.
	found := false
	for _, r := range got {
		if r.Name == "Neon" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Neon via its languages, got %v", names(got))
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	got, err := Search(testRecords(t), "MYSQL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "PlanetScale" {
		t.Errorf("expected [PlanetScale], got %v", names(got))
	}
}

func TestSearch_EmptyKeyword(t *testing.T) {
	_, err := Search(testRecords(t), "   ")
	if !errors.Is(err, ErrEmptyKeyword) {
		t.Fatalf("expected ErrEmptyKeyword, got %v", err)
	}
}
