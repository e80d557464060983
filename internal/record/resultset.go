package record

import (
	"fmt"
	"strings"
)

// ResultSet is the ordered collection of tool records produced by one
// research query. The original order is preserved for the lifetime of the
// set so that derived views (filtered, sorted) can always be reset.
//
// No two records share a case-insensitive name.
type ResultSet struct {
	Query   string
	records []*ToolRecord
}

// NewResultSet builds a result set from records, rejecting case-insensitive
// duplicate names.
func NewResultSet(query string, records []*ToolRecord) (*ResultSet, error) {
	seen := make(map[string]string, len(records))
	for _, r := range records {
		key := strings.ToLower(r.Name)
		if prior, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate tool name %q (conflicts with %q)", r.Name, prior)
		}
		seen[key] = r.Name
	}

	rs := &ResultSet{Query: query, records: make([]*ToolRecord, len(records))}
	copy(rs.records, records)
	return rs, nil
}

// Len returns the number of records.
func (s *ResultSet) Len() int {
	return len(s.records)
}

// Records returns the records in original order. The returned slice is a
// copy; the records themselves are shared and read-only.
func (s *ResultSet) Records() []*ToolRecord {
	out := make([]*ToolRecord, len(s.records))
	copy(out, s.records)
	return out
}

// At returns the record at position i (0-based).
func (s *ResultSet) At(i int) *ToolRecord {
	return s.records[i]
}

// ByName finds a record by case-insensitive exact name match.
func (s *ResultSet) ByName(name string) (*ToolRecord, bool) {
	for _, r := range s.records {
		if r.EqualName(name) {
			return r, true
		}
	}
	return nil, false
}

// Names returns the tool names in original order.
func (s *ResultSet) Names() []string {
	names := make([]string, len(s.records))
	for i, r := range s.records {
		names[i] = r.Name
	}
	return names
}
