package session

import (
	"fmt"
	"strconv"

	"github.com/scoutware/devscout/internal/export"
	"github.com/scoutware/devscout/internal/matrix"
	"github.com/scoutware/devscout/internal/query"
	"github.com/scoutware/devscout/internal/record"
	"github.com/scoutware/devscout/internal/scoring"
)

// NotFoundError reports a name or index reference that resolves to no tool
// in the session.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no tool matches %q (use a name or a 1-based index from 'list')", e.Ref)
}

// Session is the working view over one research result set. It owns its
// filter chain and last comparison; the tool records themselves are shared
// read-only with the engines, which derive new orderings rather than edit
// records in place.
//
// A failed command leaves the session exactly as it was.
type Session struct {
	base     *record.ResultSet
	analysis string

	filters  query.Chain
	sortSpec *query.SortSpec
	current  []*record.ToolRecord

	lastComparison *matrix.Matrix

	exporter export.Exporter
}

// Outcome is the structured result of one executed command. Only the
// fields relevant to the command's kind are set.
type Outcome struct {
	// Records is the view after list/filter/sort/search/clear.
	Records []*record.ToolRecord

	// Ranked is the scored ranking (score).
	Ranked []scoring.ScoredTool

	// Record is a single resolved tool (details).
	Record *record.ToolRecord

	// Matrix is the comparison just built (compare).
	Matrix *matrix.Matrix

	// Path is the file written (save, export-compare).
	Path string

	// Text is prerendered report text (trends).
	Text string
}

// New creates a session over a completed result set. resultsDir is where
// save/export-compare write their files.
func New(base *record.ResultSet, analysis, resultsDir string) *Session {
	return &Session{
		base:     base,
		analysis: analysis,
		current:  base.Records(),
		exporter: export.Exporter{Dir: resultsDir},
	}
}

// Base returns the underlying result set.
func (s *Session) Base() *record.ResultSet { return s.base }

// Analysis returns the upstream analysis text, if any.
func (s *Session) Analysis() string { return s.analysis }

// Current returns the currently displayed view: base order narrowed by the
// active filters and any search, ordered by the active sort.
func (s *Session) Current() []*record.ToolRecord {
	out := make([]*record.ToolRecord, len(s.current))
	copy(out, s.current)
	return out
}

// Filters returns the active criteria in display order.
func (s *Session) Filters() []query.Criterion { return s.filters.Criteria() }

// SortSpec returns the active sort, or nil.
func (s *Session) SortSpec() *query.SortSpec { return s.sortSpec }

// LastComparison returns the most recent comparison matrix, or nil.
func (s *Session) LastComparison() *matrix.Matrix { return s.lastComparison }

// Execute dispatches one parsed command. All engine errors surface here;
// none of them crashes the session or leaves it half-mutated.
func (s *Session) Execute(cmd Command) (Outcome, error) {
	switch cmd.Kind {
	case KindFilter:
		if err := s.applyFilter(cmd.Criterion); err != nil {
			return Outcome{}, err
		}
		return Outcome{Records: s.Current()}, nil

	case KindSort:
		if err := s.applySort(cmd.Sort); err != nil {
			return Outcome{}, err
		}
		return Outcome{Records: s.Current()}, nil

	case KindSearch:
		if err := s.applySearch(cmd.Keyword); err != nil {
			return Outcome{}, err
		}
		return Outcome{Records: s.Current()}, nil

	case KindClear:
		s.clear()
		return Outcome{Records: s.Current()}, nil

	case KindScore:
		return Outcome{Ranked: scoring.Rank(s.base.Records(), cmd.Profile)}, nil

	case KindDetails:
		r, err := s.resolve(cmd.Ref)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Record: r}, nil

	case KindCompare:
		m, err := s.compare(cmd.RefA, cmd.RefB)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Matrix: m}, nil

	case KindExportCompare:
		if s.lastComparison == nil {
			return Outcome{}, fmt.Errorf("no comparison to export (run 'compare' first)")
		}
		doc := export.NewDocument(s.base.Query, nil, "", s.lastComparison)
		path, err := s.exporter.Write(doc, "comparison", cmd.Format)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Path: path}, nil

	case KindList:
		return Outcome{Records: s.Current()}, nil

	case KindSave:
		doc := export.NewDocument(s.base.Query, s.base.Records(), s.analysis, s.lastComparison)
		path, err := s.exporter.Write(doc, "research", cmd.Format)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Path: path}, nil

	case KindTrends:
		return Outcome{Text: export.TrendReport(s.base.Records())}, nil

	case KindHelp:
		return Outcome{}, nil
	}

	return Outcome{}, fmt.Errorf("unhandled command kind %d", cmd.Kind)
}

// applyFilter adds (or replaces, for a repeated field) one criterion and
// recomputes the view from the base set with the whole chain, so filtering
// stays order-independent and reversible. The active sort is reapplied on
// top; a prior search narrowing does not survive re-filtering.
func (s *Session) applyFilter(criterion query.Criterion) error {
	chain := s.filters.Add(criterion)
	view, err := query.Apply(s.base.Records(), chain)
	if err != nil {
		return err
	}
	if s.sortSpec != nil {
		if view, err = query.Sort(view, *s.sortSpec); err != nil {
			return err
		}
	}
	s.filters = chain
	s.current = view
	return nil
}

// applySort replaces the active sort and reorders the current view.
func (s *Session) applySort(spec query.SortSpec) error {
	view, err := query.Sort(s.current, spec)
	if err != nil {
		return err
	}
	s.sortSpec = &spec
	s.current = view
	return nil
}

// applySearch narrows the current view; it does not replace the active
// filter or sort.
func (s *Session) applySearch(keyword string) error {
	view, err := query.Search(s.current, keyword)
	if err != nil {
		return err
	}
	s.current = view
	return nil
}

// clear resets filters, sort and search; the view reverts to the original
// result set order.
func (s *Session) clear() {
	s.filters = query.Chain{}
	s.sortSpec = nil
	s.current = s.base.Records()
}

// resolve maps a name-or-index argument to a record: an integer is a
// 1-based position in the currently displayed view, anything else is a
// case-insensitive exact name match against the full base set.
func (s *Session) resolve(ref string) (*record.ToolRecord, error) {
	if idx, err := strconv.Atoi(ref); err == nil {
		if idx < 1 || idx > len(s.current) {
			return nil, &NotFoundError{Ref: ref}
		}
		return s.current[idx-1], nil
	}
	if r, ok := s.base.ByName(ref); ok {
		return r, nil
	}
	return nil, &NotFoundError{Ref: ref}
}

// compare resolves both references, builds the matrix and stores it as the
// session's last comparison.
func (s *Session) compare(refA, refB string) (*matrix.Matrix, error) {
	a, err := s.resolve(refA)
	if err != nil {
		return nil, err
	}
	b, err := s.resolve(refB)
	if err != nil {
		return nil, err
	}
	m, err := matrix.Build([]*record.ToolRecord{a, b})
	if err != nil {
		return nil, err
	}
	s.lastComparison = m
	return m, nil
}
