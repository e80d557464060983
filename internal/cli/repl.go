package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/chzyer/readline"

	"github.com/scoutware/devscout/internal/config"
	"github.com/scoutware/devscout/internal/research"
	"github.com/scoutware/devscout/internal/scoring"
	"github.com/scoutware/devscout/internal/session"
	"github.com/scoutware/devscout/internal/storage"
)

// REPL is the interactive research shell. It owns at most one live session
// at a time; a fresh query replaces the session wholesale.
type REPL struct {
	rl       *readline.Instance
	pipeline *research.Pipeline
	store    storage.Store
	cfg      *config.Config

	sess    *session.Session
	profile *scoring.Profile // preset via --profile, otherwise prompted
	noSave  bool
}

// NewREPL wires the shell. noSave suppresses history persistence.
func NewREPL(pipeline *research.Pipeline, store storage.Store, cfg *config.Config, profile *scoring.Profile, noSave bool) *REPL {
	return &REPL{pipeline: pipeline, store: store, cfg: cfg, profile: profile, noSave: noSave}
}

// Run starts the interactive loop. initialQuery, when non-empty, is
// researched before the first prompt.
func (r *REPL) Run(ctx context.Context, initialQuery string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            headerColor("devscout> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	if initialQuery != "" {
		if err := r.runResearch(ctx, initialQuery); err != nil {
			fmt.Printf("%s %v\n", errColor("Error:"), err)
		}
	}

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Println("Goodbye!")
			return nil
		}

		if err := r.processLine(ctx, line); err != nil {
			fmt.Printf("%s %v\n", errColor("Error:"), err)
		}
	}
}

// processLine runs one line: a session verb against the live session, or a
// fresh research query.
func (r *REPL) processLine(ctx context.Context, line string) error {
	if !session.IsVerb(line) {
		return r.runResearch(ctx, line)
	}

	if r.sess == nil {
		return fmt.Errorf("no results yet - type a query to research first")
	}

	cmd, err := session.Parse(line)
	if err != nil {
		return err
	}

	if cmd.Kind == session.KindScore {
		profile, err := r.resolveProfile()
		if err != nil {
			return err
		}
		cmd.Profile = profile
	}

	outcome, err := r.sess.Execute(cmd)
	if err != nil {
		return err
	}
	renderOutcome(r.sess, cmd, outcome)
	return nil
}

// runResearch runs the pipeline and replaces the session.
func (r *REPL) runResearch(ctx context.Context, q string) error {
	fmt.Printf("Researching %q...\n", q)

	result, err := r.pipeline.Run(ctx, q)
	if err != nil {
		return err
	}
	renderBatchReport(result.Report)

	// A new result set discards all prior session state.
	r.sess = session.New(result.Set, result.Analysis, r.cfg.ResultsDir)
	renderView(r.sess, r.sess.Current())

	if result.Analysis != "" {
		fmt.Printf("%s %s\n\n", headerColor("Analysis:"), result.Analysis)
	}

	if r.noSave {
		return nil
	}
	if id, err := r.store.SaveSession(q, result.Analysis, result.Set.Records()); err != nil {
		log.Printf("Warning: failed to save session: %v", err)
	} else if id != "" {
		fmt.Printf("Session saved as %s\n\n", shortID(id))
	}
	return nil
}

// resolveProfile returns the preset profile or prompts for one.
func (r *REPL) resolveProfile() (scoring.Profile, error) {
	if r.profile != nil {
		return *r.profile, nil
	}
	return r.promptProfile()
}

// promptProfile asks for the scoring preferences interactively.
func (r *REPL) promptProfile() (scoring.Profile, error) {
	return buildProfile(r.ask)
}

// buildProfile collects the scoring preferences one answer at a time. Empty
// answers mean "no preference" and score neutrally. The enum answers are
// normalized to lower case; the free-text use case is kept as typed.
func buildProfile(ask func(prompt string) (string, error)) (scoring.Profile, error) {
	var p scoring.Profile

	budget, err := ask("Budget (free_only/flexible, blank for no preference): ")
	if err != nil {
		return p, err
	}
	p.Budget = scoring.Budget(strings.ToLower(budget))

	team, err := ask("Team size (startup/enterprise, blank for no preference): ")
	if err != nil {
		return p, err
	}
	p.TeamSize = scoring.TeamSize(strings.ToLower(team))

	langs, err := ask("Preferred languages (comma separated, blank for any): ")
	if err != nil {
		return p, err
	}
	for _, lang := range strings.Split(langs, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			p.PreferredLanguages = append(p.PreferredLanguages, lang)
		}
	}

	useCase, err := ask("Use case (free text, optional): ")
	if err != nil {
		return p, err
	}
	p.UseCase = useCase

	if err := p.Validate(); err != nil {
		return scoring.Profile{}, err
	}
	return p, nil
}

// ask reads one answer with a temporary prompt.
func (r *REPL) ask(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	defer r.rl.SetPrompt(headerColor("devscout> "))

	line, err := r.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (r *REPL) printWelcome() {
	fmt.Printf("\n%s\n", headerColor("devscout - developer tools research"))
	fmt.Println("Type a query (e.g. \"database tools for startups\") to research.")
	fmt.Println("Type 'help' for session commands, 'exit' to quit.")
	fmt.Println()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
