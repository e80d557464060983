/*
Package cli wires the cobra commands and the interactive research shell.
*/
package cli

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutware/devscout/internal/config"
	"github.com/scoutware/devscout/internal/research"
	"github.com/scoutware/devscout/internal/scoring"
	"github.com/scoutware/devscout/internal/storage"
)

// NewResearchCmd creates the 'research' command: run a query through the
// pipeline and explore the results interactively.
func NewResearchCmd() *cobra.Command {
	var providerName string
	var model string
	var profilePath string
	var resultsDir string
	var concurrency int
	var noSave bool

	cmd := &cobra.Command{
		Use:   "research [query]",
		Short: "Research developer tools and explore the results interactively",
		Long: `Research developer tools for a query: find relevant articles, extract
tool candidates, structure each one, then drop into an interactive session
for filtering, sorting, scoring, comparing and exporting.

Requires FIRECRAWL_API_KEY plus the API key for the chosen LLM provider
(OPENAI_API_KEY or ANTHROPIC_API_KEY), from the environment or a .env file.`,
		Example: `  devscout research "database tools for startups"
  devscout research --provider anthropic "python web frameworks"
  devscout research --profile prefs.yaml "API development tools"
  devscout research   # start the shell without an initial query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResearch(strings.Join(args, " "), providerName, model,
				profilePath, resultsDir, concurrency, noSave)
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "LLM provider (openai or anthropic)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model override for the provider")
	cmd.Flags().StringVar(&profilePath, "profile", "", "YAML preference profile for 'score'")
	cmd.Flags().StringVar(&resultsDir, "results-dir", "", "Directory for exported files")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel candidate research limit")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record sessions in the research history")

	return cmd
}

func runResearch(initialQuery, providerName, model, profilePath, resultsDir string, concurrency int, noSave bool) error {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if providerName != "" {
		cfg.Provider = providerName
	}
	if model != "" {
		cfg.Model = model
	}
	if resultsDir != "" {
		cfg.ResultsDir = resultsDir
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}

	var profile *scoring.Profile
	if profilePath != "" {
		p, err := scoring.LoadProfile(profilePath)
		if err != nil {
			return err
		}
		profile = &p
	}

	provider, err := research.NewProvider(cfg.Provider, cfg.Model)
	if err != nil {
		return err
	}
	firecrawl, err := research.NewFirecrawlClient(os.Getenv("FIRECRAWL_API_KEY"))
	if err != nil {
		return err
	}
	pipeline := research.NewPipeline(provider, firecrawl, cfg.Concurrency)

	store := newStore(cfg)
	if err := store.Init(); err != nil {
		// History is best effort; Init already disabled the store.
		log.Printf("Warning: research history disabled: %v", err)
	}
	defer store.Close()

	if cfg.RetentionDays > 0 {
		if err := store.Cleanup(time.Duration(cfg.RetentionDays) * 24 * time.Hour); err != nil {
			log.Printf("Warning: history cleanup failed: %v", err)
		}
	}

	repl := NewREPL(pipeline, store, cfg, profile, noSave)
	return repl.Run(context.Background(), initialQuery)
}

func newStore(cfg *config.Config) *storage.SQLiteStore {
	if cfg.HistoryDB != "" {
		return storage.NewStoreAt(cfg.HistoryDB)
	}
	return storage.NewStore()
}
