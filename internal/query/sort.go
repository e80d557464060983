package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scoutware/devscout/internal/record"
)

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec is a single-key sort order. Set-valued fields (languages,
// tech_stack, integrations) sort by cardinality, not lexical comparison.
type SortSpec struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

func (s SortSpec) String() string {
	return fmt.Sprintf("%s (%s)", s.Field, s.Direction)
}

// NewSortSpec resolves the field name and validates the direction.
func NewSortSpec(field string, direction Direction) (SortSpec, error) {
	canonical, err := ResolveField(field)
	if err != nil {
		return SortSpec{}, err
	}
	switch direction {
	case Ascending, Descending:
	default:
		return SortSpec{}, fmt.Errorf("unknown sort direction %q", direction)
	}
	return SortSpec{Field: canonical, Direction: direction}, nil
}

// Sort returns the records reordered by the given key. The sort is stable:
// records with equal keys keep their prior relative order. The input slice
// is not modified.
func Sort(records []*record.ToolRecord, spec SortSpec) ([]*record.ToolRecord, error) {
	fieldSpec, err := lookupField(spec.Field)
	if err != nil {
		return nil, err
	}

	out := make([]*record.ToolRecord, len(records))
	copy(out, records)

	less := lessFunc(fieldSpec)
	sort.SliceStable(out, func(i, j int) bool {
		if spec.Direction == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

// lessFunc builds the strict-weak ordering for one field.
func lessFunc(spec *fieldSpec) func(a, b *record.ToolRecord) bool {
	switch spec.kind {
	case kindNumber:
		return func(a, b *record.ToolRecord) bool { return spec.num(a) < spec.num(b) }
	case kindBool:
		// false sorts before true.
		return func(a, b *record.ToolRecord) bool { return !spec.flag(a) && spec.flag(b) }
	case kindSet:
		return func(a, b *record.ToolRecord) bool { return len(spec.set(a)) < len(spec.set(b)) }
	default:
		return func(a, b *record.ToolRecord) bool {
			return strings.ToLower(spec.text(a)) < strings.ToLower(spec.text(b))
		}
	}
}
