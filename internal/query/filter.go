package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scoutware/devscout/internal/record"
)

// Operator is a filter comparison operator.
type Operator string

const (
	OpEquals         Operator = "="
	OpContains       Operator = "~"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
)

// Criterion is one (field, operator, value) filter condition. Field is
// canonical (resolved through ResolveField).
type Criterion struct {
	Field string   `json:"field"`
	Op    Operator `json:"op"`
	Value string   `json:"value"`
}

func (c Criterion) String() string {
	return c.Field + string(c.Op) + c.Value
}

// ParseCriterion parses a criterion in command form, e.g. "pricing=free",
// "popularity>=50", "description~realtime". The earliest operator in the
// string splits field from value; multi-character operators win ties so
// ">=" never parses as "=".
func ParseCriterion(s string) (Criterion, error) {
	split, op := -1, Operator("")
	for _, candidate := range []Operator{OpGreaterOrEqual, OpLessOrEqual, OpEquals, OpContains} {
		idx := strings.Index(s, string(candidate))
		if idx <= 0 {
			continue
		}
		if split == -1 || idx < split {
			split, op = idx, candidate
		}
	}
	if split == -1 {
		return Criterion{}, fmt.Errorf("criterion %q is not of the form field=value, field~value, field>=value or field<=value", s)
	}

	field, err := ResolveField(s[:split])
	if err != nil {
		return Criterion{}, err
	}
	value := strings.TrimSpace(s[split+len(op):])
	if value == "" {
		return Criterion{}, fmt.Errorf("criterion %q has no value", s)
	}
	return Criterion{Field: field, Op: op, Value: value}, nil
}

// Chain is an ordered list of criteria combined by logical AND. Order is
// preserved for display and undo; it never affects which records match.
type Chain struct {
	criteria []Criterion
}

// Add appends a criterion. A criterion on a field already present replaces
// the prior one (re-filtering the same field refines, it does not AND a
// field against itself).
func (c Chain) Add(criterion Criterion) Chain {
	out := Chain{criteria: make([]Criterion, 0, len(c.criteria)+1)}
	replaced := false
	for _, prior := range c.criteria {
		if prior.Field == criterion.Field {
			out.criteria = append(out.criteria, criterion)
			replaced = true
			continue
		}
		out.criteria = append(out.criteria, prior)
	}
	if !replaced {
		out.criteria = append(out.criteria, criterion)
	}
	return out
}

// Criteria returns the criteria in display order.
func (c Chain) Criteria() []Criterion {
	out := make([]Criterion, len(c.criteria))
	copy(out, c.criteria)
	return out
}

// Empty reports whether the chain has no criteria.
func (c Chain) Empty() bool {
	return len(c.criteria) == 0
}

// Apply filters records through every criterion in the chain, preserving
// relative order. An empty chain is the identity.
func Apply(records []*record.ToolRecord, chain Chain) ([]*record.ToolRecord, error) {
	if chain.Empty() {
		return records, nil
	}

	// Validate all criteria up front so a bad chain rejects cleanly
	// instead of half-filtering.
	for _, c := range chain.criteria {
		if err := validateCriterion(c); err != nil {
			return nil, err
		}
	}

	out := make([]*record.ToolRecord, 0, len(records))
	for _, r := range records {
		ok := true
		for _, c := range chain.criteria {
			match, err := matches(r, c)
			if err != nil {
				return nil, err
			}
			if !match {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func validateCriterion(c Criterion) error {
	spec, err := lookupField(c.Field)
	if err != nil {
		return err
	}

	switch c.Op {
	case OpEquals:
		if spec.kind == kindBool {
			if _, err := strconv.ParseBool(c.Value); err != nil {
				return &TypeMismatchError{Field: spec.name, Op: c.Op,
					Msg: fmt.Sprintf("field is boolean, %q is not true/false", c.Value)}
			}
		}
		if spec.kind == kindNumber {
			if _, err := strconv.ParseFloat(c.Value, 64); err != nil {
				return &TypeMismatchError{Field: spec.name, Op: c.Op,
					Msg: fmt.Sprintf("field is numeric, %q is not a number", c.Value)}
			}
		}
	case OpContains:
		if spec.kind != kindText && spec.kind != kindSet {
			return &TypeMismatchError{Field: spec.name, Op: c.Op, Msg: "substring match needs a text field"}
		}
	case OpGreaterOrEqual, OpLessOrEqual:
		if spec.kind != kindNumber {
			return &TypeMismatchError{Field: spec.name, Op: c.Op, Msg: "numeric comparison needs a numeric field"}
		}
		if _, err := strconv.ParseFloat(c.Value, 64); err != nil {
			return &TypeMismatchError{Field: spec.name, Op: c.Op,
				Msg: fmt.Sprintf("%q is not a number", c.Value)}
		}
	default:
		return fmt.Errorf("unknown operator %q", c.Op)
	}
	return nil
}

// matches assumes the criterion already passed validateCriterion.
func matches(r *record.ToolRecord, c Criterion) (bool, error) {
	spec := fields[c.Field]

	switch c.Op {
	case OpEquals:
		switch spec.kind {
		case kindText:
			return strings.EqualFold(spec.text(r), c.Value), nil
		case kindBool:
			want, _ := strconv.ParseBool(c.Value)
			return spec.flag(r) == want, nil
		case kindNumber:
			want, _ := strconv.ParseFloat(c.Value, 64)
			return spec.num(r) == want, nil
		case kindSet:
			for _, member := range spec.set(r) {
				if strings.EqualFold(member, c.Value) {
					return true, nil
				}
			}
			return false, nil
		}
	case OpContains:
		needle := strings.ToLower(c.Value)
		if spec.kind == kindText {
			return strings.Contains(strings.ToLower(spec.text(r)), needle), nil
		}
		for _, member := range spec.set(r) {
			if strings.Contains(strings.ToLower(member), needle) {
				return true, nil
			}
		}
		return false, nil
	case OpGreaterOrEqual:
		want, _ := strconv.ParseFloat(c.Value, 64)
		return spec.num(r) >= want, nil
	case OpLessOrEqual:
		want, _ := strconv.ParseFloat(c.Value, 64)
		return spec.num(r) <= want, nil
	}
	return false, fmt.Errorf("unknown operator %q", c.Op)
}
