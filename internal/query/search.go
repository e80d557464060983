package query

import (
	"errors"
	"strings"

	"github.com/scoutware/devscout/internal/record"
)

// ErrEmptyKeyword rejects a search with no keyword.
var ErrEmptyKeyword = errors.New("search keyword must not be empty")

// Search returns the records whose search surface (name, description,
// languages, tech stack, integrations) contains the keyword, preserving
// order. Matching is case-insensitive substring; the result is always a
// subset of the input.
func Search(records []*record.ToolRecord, keyword string) ([]*record.ToolRecord, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	out := make([]*record.ToolRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(r.SearchSurface(), keyword) {
			out = append(out, r)
		}
	}
	return out, nil
}
