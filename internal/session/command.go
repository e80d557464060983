/*
Package session owns the interactive working view over one research result
set: the active filter chain, sort order and last comparison, plus the
command dispatcher that drives the engines.

Commands are parsed once into a tagged Command value (one kind per verb,
with typed payloads) and dispatched with an exhaustive switch; there is no
string branching past the parse step and no package-level session state.
*/
package session

import (
	"fmt"
	"strings"

	"github.com/scoutware/devscout/internal/export"
	"github.com/scoutware/devscout/internal/query"
	"github.com/scoutware/devscout/internal/scoring"
)

// Kind identifies a session verb.
type Kind int

const (
	KindFilter Kind = iota
	KindSort
	KindSearch
	KindClear
	KindScore
	KindDetails
	KindCompare
	KindExportCompare
	KindList
	KindSave
	KindTrends
	KindHelp
)

// Command is one parsed session command. Only the payload fields for its
// kind are meaningful.
type Command struct {
	Kind Kind

	// Criterion is the filter condition (KindFilter).
	Criterion query.Criterion

	// Sort is the sort order (KindSort).
	Sort query.SortSpec

	// Keyword is the search keyword (KindSearch).
	Keyword string

	// Profile is the scoring preference profile (KindScore). The caller
	// fills it in (interactively or from a file) before execution.
	Profile scoring.Profile

	// Ref resolves a single tool by name or 1-based index (KindDetails).
	Ref string

	// RefA and RefB resolve the two tools to compare (KindCompare).
	RefA, RefB string

	// Format selects json or markdown output (KindSave, KindExportCompare).
	Format export.Format
}

// Verbs lists the session verbs for help output.
var Verbs = []string{
	"filter", "sort", "search", "clear", "score", "details",
	"compare", "export-compare", "list", "save", "trends", "help",
}

// IsVerb reports whether the first word of a line is a session verb.
// Anything else is treated as a fresh research query by the caller.
func IsVerb(line string) bool {
	word := strings.ToLower(strings.TrimSpace(line))
	if i := strings.IndexByte(word, ' '); i >= 0 {
		word = word[:i]
	}
	if word == "?" {
		return true
	}
	for _, v := range Verbs {
		if word == v {
			return true
		}
	}
	return false
}

// Parse turns one command line into a tagged Command.
func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	verb, args := strings.ToLower(parts[0]), parts[1:]

	switch verb {
	case "filter":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("usage: filter <field><op><value>  (ops: = ~ >= <=)")
		}
		criterion, err := query.ParseCriterion(strings.Join(args, " "))
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindFilter, Criterion: criterion}, nil

	case "sort":
		if len(args) == 0 || len(args) > 2 {
			return Command{}, fmt.Errorf("usage: sort <field> [asc|desc]")
		}
		direction := query.Descending
		if len(args) == 2 {
			switch strings.ToLower(args[1]) {
			case "asc", "ascending":
				direction = query.Ascending
			case "desc", "descending":
				direction = query.Descending
			default:
				return Command{}, fmt.Errorf("unknown sort direction %q (use asc or desc)", args[1])
			}
		}
		spec, err := query.NewSortSpec(args[0], direction)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindSort, Sort: spec}, nil

	case "search":
		return Command{Kind: KindSearch, Keyword: strings.Join(args, " ")}, nil

	case "clear":
		return Command{Kind: KindClear}, nil

	case "score":
		return Command{Kind: KindScore}, nil

	case "details":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("usage: details <name|index>")
		}
		return Command{Kind: KindDetails, Ref: strings.Join(args, " ")}, nil

	case "compare":
		if len(args) != 2 {
			return Command{}, fmt.Errorf("usage: compare <name|index> <name|index>")
		}
		return Command{Kind: KindCompare, RefA: args[0], RefB: args[1]}, nil

	case "export-compare":
		format, err := optionalFormat(args, export.FormatMarkdown)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindExportCompare, Format: format}, nil

	case "list":
		return Command{Kind: KindList}, nil

	case "save":
		format, err := optionalFormat(args, export.FormatJSON)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindSave, Format: format}, nil

	case "trends":
		return Command{Kind: KindTrends}, nil

	case "help", "?":
		return Command{Kind: KindHelp}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q (type 'help' for the command list)", verb)
}

func optionalFormat(args []string, fallback export.Format) (export.Format, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	return export.ParseFormat(strings.ToLower(args[0]))
}
