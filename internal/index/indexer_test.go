package index

import (
	"testing"

	"github.com/scoutware/devscout/internal/record"
	"github.com/scoutware/devscout/internal/storage"
)

func testTools(t *testing.T) []storage.IndexedTool {
	t.Helper()
	build := func(r record.ToolRecord) *record.ToolRecord {
		out, err := record.New(r)
		if err != nil {
			t.Fatalf("failed to build record %q: %v", r.Name, err)
		}
		return out
	}
	return []storage.IndexedTool{
		{
			SessionID: "session-1",
			Query:     "database tools",
			Record: build(record.ToolRecord{
				Name:        "Supabase",
				Description: "Open source Firebase alternative with realtime subscriptions",
				Languages:   []string{"sql", "js"},
			}),
		},
		{
			SessionID: "session-1",
			Query:     "database tools",
			Record: build(record.ToolRecord{
				Name:        "PlanetScale",
				Description: "Serverless MySQL platform with branching",
				Languages:   []string{"sql"},
			}),
		},
		{
			SessionID: "session-2",
			Query:     "monitoring tools",
			Record: build(record.ToolRecord{
				Name:        "Grafana",
				Description: "Observability dashboards",
				TechStack:   []string{"prometheus"},
			}),
		},
	}
}

func testIndexer(t *testing.T) *Indexer {
	t.Helper()
	idx, err := NewIndexer()
	if err != nil {
		t.Fatalf("failed to create indexer: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	if err := idx.IndexAll(testTools(t)); err != nil {
		t.Fatalf("failed to index tools: %v", err)
	}
	return idx
}

func TestSearch(t *testing.T) {
	idx := testIndexer(t)

	hits, err := idx.Search("realtime", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].ToolName != "Supabase" || hits[0].SessionID != "session-1" {
		t.Errorf("unexpected hit %+v", hits[0])
	}
	if hits[0].Score <= 0 {
		t.Errorf("expected a positive score, got %v", hits[0].Score)
	}
}

func TestSearch_NameBoost(t *testing.T) {
	idx := testIndexer(t)

	hits, err := idx.Search("grafana", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(hits) == 0 || hits[0].ToolName != "Grafana" {
		t.Fatalf("expected Grafana ranked first, got %+v", hits)
	}
	if hits[0].Query != "monitoring tools" {
		t.Errorf("expected origin query carried through, got %q", hits[0].Query)
	}
}

func TestSearch_SurfaceFields(t *testing.T) {
	idx := testIndexer(t)

	// "prometheus" only appears in Grafana's tech stack, which is part of
	// the indexed search surface.
	hits, err := idx.Search("prometheus", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ToolName != "Grafana" {
		t.Errorf("expected tech stack to be searchable, got %+v", hits)
	}
}

func TestSearch_Limit(t *testing.T) {
	idx := testIndexer(t)

	hits, err := idx.Search("sql", 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("expected limit applied, got %d hits", len(hits))
	}

	if hits, err = idx.Search("nothing-matches-this", 10); err != nil || len(hits) != 0 {
		t.Errorf("expected no hits, got %d err=%v", len(hits), err)
	}
}
