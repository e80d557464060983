/*
Package export serializes a research view to JSON or markdown documents on
disk.

JSON exports follow a stable schema: companies, analysis, comparison_matrix
and metadata (query, timestamp, generated_at). Markdown exports render a
human-readable report with a summary, per-tool sections and the comparison
matrix as a pipe table. Filenames are timestamped to avoid collisions.

Exporting never mutates session state.
*/
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/scoutware/devscout/internal/matrix"
	"github.com/scoutware/devscout/internal/record"
)

// timestampLayout is the filename-safe timestamp format.
const timestampLayout = "2006-01-02_15-04-05"

// Format selects the output document type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (use json or markdown)", s)
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return "json"
}

// Metadata describes the query that produced an exported document.
type Metadata struct {
	Query       string `json:"query"`
	Timestamp   string `json:"timestamp"`
	GeneratedAt string `json:"generated_at"`
}

// Document is the full JSON export schema.
type Document struct {
	Companies        []*record.ToolRecord `json:"companies"`
	Analysis         string               `json:"analysis,omitempty"`
	ComparisonMatrix *matrix.Matrix       `json:"comparison_matrix,omitempty"`
	Metadata         Metadata             `json:"metadata"`
}

// NewDocument assembles an export document at the current time.
func NewDocument(query string, records []*record.ToolRecord, analysis string, m *matrix.Matrix) Document {
	now := time.Now()
	return Document{
		Companies:        records,
		Analysis:         analysis,
		ComparisonMatrix: m,
		Metadata: Metadata{
			Query:       query,
			Timestamp:   now.Format(timestampLayout),
			GeneratedAt: now.Format(time.RFC3339),
		},
	}
}

// Exporter writes documents under a results directory.
type Exporter struct {
	Dir string
}

// Write serializes the document in the given format and returns the path
// written. The results directory is created on demand.
func (e *Exporter) Write(doc Document, prefix string, format Format) (string, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.%s", prefix, doc.Metadata.Timestamp, format.Ext())
	path := filepath.Join(e.Dir, name)
	if _, err := os.Stat(path); err == nil {
		// Two exports within the same second; disambiguate.
		name = fmt.Sprintf("%s_%s_%s.%s", prefix, doc.Metadata.Timestamp, uuid.NewString()[:8], format.Ext())
		path = filepath.Join(e.Dir, name)
	}

	var data []byte
	switch format {
	case FormatMarkdown:
		data = []byte(RenderReport(doc))
	default:
		var err error
		data, err = json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode export: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ParseDocument decodes a previously exported JSON document.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse export document: %w", err)
	}
	return doc, nil
}
