/*
Package index implements ranked full-text search across the persisted
research history.

Every tool record from every saved session is indexed in Bleve; `devscout
history search` queries it with BM25 ranking. This is distinct from the
in-session `search` verb, which is a deterministic substring restriction of
the current result set.
*/
package index

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/scoutware/devscout/internal/storage"
)

// Hit is one ranked search result from the history index.
type Hit struct {
	SessionID   string  `json:"session_id"`
	Query       string  `json:"query"`
	ToolName    string  `json:"name"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// toolDocument is a tool as stored in the index.
type toolDocument struct {
	SessionID   string `json:"session_id"`
	Query       string `json:"query"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Surface     string `json:"surface"`
}

// Indexer manages the in-memory search index over the history.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
}

// NewIndexer creates an in-memory Bleve index.
func NewIndexer() (*Indexer, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}
	return &Indexer{bleveIndex: idx}, nil
}

// buildIndexMapping creates the Bleve mapping for tool documents.
func buildIndexMapping() mapping.IndexMapping {
	toolMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	toolMapping.AddFieldMappingsAt("name", textField)
	toolMapping.AddFieldMappingsAt("description", textField)
	toolMapping.AddFieldMappingsAt("query", textField)
	toolMapping.AddFieldMappingsAt("surface", textField)

	keywordField := bleve.NewKeywordFieldMapping()
	toolMapping.AddFieldMappingsAt("session_id", keywordField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = toolMapping
	return indexMapping
}

// IndexAll loads every persisted tool into the index.
func (i *Indexer) IndexAll(tools []storage.IndexedTool) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()
	for _, t := range tools {
		doc := toolDocument{
			SessionID:   t.SessionID,
			Query:       t.Query,
			Name:        t.Record.Name,
			Description: t.Record.Description,
			Surface:     t.Record.SearchSurface(),
		}
		id := t.SessionID + "/" + strings.ToLower(t.Record.Name)
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("failed to index %s: %w", id, err)
		}
	}
	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to apply index batch: %w", err)
	}
	return nil
}

// Search runs a BM25-ranked match query over the history.
func (i *Indexer) Search(keyword string, limit int) ([]Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	req := bleve.NewSearchRequestOptions(buildMatchQuery(keyword), limit, 0, false)
	req.Fields = []string{"session_id", "query", "name", "description"}

	results, err := i.bleveIndex.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		sessionID, _ := hit.Fields["session_id"].(string)
		q, _ := hit.Fields["query"].(string)
		name, _ := hit.Fields["name"].(string)
		description, _ := hit.Fields["description"].(string)
		hits = append(hits, Hit{
			SessionID:   sessionID,
			Query:       q,
			ToolName:    name,
			Description: description,
			Score:       hit.Score,
		})
	}
	return hits, nil
}

// buildMatchQuery builds a disjunction of match queries so hits in any
// text field count, with name matches boosted.
func buildMatchQuery(keyword string) query.Query {
	nameQuery := bleve.NewMatchQuery(keyword)
	nameQuery.SetField("name")
	nameQuery.SetBoost(2.0)

	descQuery := bleve.NewMatchQuery(keyword)
	descQuery.SetField("description")

	surfaceQuery := bleve.NewMatchQuery(keyword)
	surfaceQuery.SetField("surface")

	queryQuery := bleve.NewMatchQuery(keyword)
	queryQuery.SetField("query")

	return bleve.NewDisjunctionQuery(nameQuery, descQuery, surfaceQuery, queryQuery)
}

// Close releases the index.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.bleveIndex.Close()
}
