/*
Package query implements the deterministic view engines over a result set:
multi-criteria filtering, stable single-key sorting, and keyword search.

All three operate on shared read-only records and return new slices; they
never mutate a record or the underlying result set.
*/
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scoutware/devscout/internal/record"
)

// fieldKind describes how a field's values compare.
type fieldKind int

const (
	kindText fieldKind = iota
	kindBool
	kindNumber
	kindSet
)

// fieldSpec binds a canonical field name to its kind and accessors.
type fieldSpec struct {
	name string
	kind fieldKind
	text func(*record.ToolRecord) string
	flag func(*record.ToolRecord) bool
	num  func(*record.ToolRecord) float64
	set  func(*record.ToolRecord) []string
}

// fields is the registry of filterable/sortable fields, keyed by canonical name.
var fields = map[string]*fieldSpec{
	"name":               {name: "name", kind: kindText, text: func(r *record.ToolRecord) string { return r.Name }},
	"description":        {name: "description", kind: kindText, text: func(r *record.ToolRecord) string { return r.Description }},
	"website":            {name: "website", kind: kindText, text: func(r *record.ToolRecord) string { return r.Website }},
	"pricing_model":      {name: "pricing_model", kind: kindText, text: func(r *record.ToolRecord) string { return string(r.PricingModel) }},
	"market_position":    {name: "market_position", kind: kindText, text: func(r *record.ToolRecord) string { return r.MarketPosition }},
	"trend_status":       {name: "trend_status", kind: kindText, text: func(r *record.ToolRecord) string { return string(r.TrendStatus) }},
	"open_source":        {name: "open_source", kind: kindBool, flag: func(r *record.ToolRecord) bool { return r.OpenSource }},
	"has_api":            {name: "has_api", kind: kindBool, flag: func(r *record.ToolRecord) bool { return r.HasAPI }},
	"popularity_score":   {name: "popularity_score", kind: kindNumber, num: popularityKey},
	"community_activity": {name: "community_activity", kind: kindNumber, num: func(r *record.ToolRecord) float64 { return float64(r.CommunityActivity) }},
	"languages":          {name: "languages", kind: kindSet, set: func(r *record.ToolRecord) []string { return r.Languages }},
	"tech_stack":         {name: "tech_stack", kind: kindSet, set: func(r *record.ToolRecord) []string { return r.TechStack }},
	"integrations":       {name: "integrations", kind: kindSet, set: func(r *record.ToolRecord) []string { return r.Integrations }},
}

// aliases maps the short names users type to canonical field names.
var aliases = map[string]string{
	"pricing":    "pricing_model",
	"opensource": "open_source",
	"api":        "has_api",
	"popularity": "popularity_score",
	"community":  "community_activity",
	"trend":      "trend_status",
	"stack":      "tech_stack",
	"language":   "languages",
	"position":   "market_position",
}

// popularityKey maps the unknown sentinel to 0 for comparisons.
func popularityKey(r *record.ToolRecord) float64 {
	if r.PopularityScore == record.PopularityUnknown {
		return 0
	}
	return float64(r.PopularityScore)
}

// UnknownFieldError reports a filter/sort field that does not exist.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q (known fields: %s)", e.Field, strings.Join(FieldNames(), ", "))
}

// TypeMismatchError reports an operator applied to a field of the wrong type.
type TypeMismatchError struct {
	Field string
	Op    Operator
	Msg   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot apply %s to field %q: %s", e.Op, e.Field, e.Msg)
}

// ResolveField canonicalizes a user-supplied field name, honoring aliases.
func ResolveField(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	if _, ok := fields[key]; !ok {
		return "", &UnknownFieldError{Field: name}
	}
	return key, nil
}

// FieldNames returns all canonical field names, sorted.
func FieldNames() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupField(name string) (*fieldSpec, error) {
	canonical, err := ResolveField(name)
	if err != nil {
		return nil, err
	}
	return fields[canonical], nil
}
