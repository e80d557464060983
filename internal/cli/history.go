package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutware/devscout/internal/config"
	"github.com/scoutware/devscout/internal/export"
	"github.com/scoutware/devscout/internal/index"
	"github.com/scoutware/devscout/internal/storage"
)

// NewHistoryCmd creates the 'history' command group over past research
// sessions.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and search past research sessions",
		Long:  `List, inspect and full-text search research sessions saved in ~/.devscout/history.db.`,
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistorySearchCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent research sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.ListSessions(limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No saved sessions yet. Run 'devscout research' first.")
				return nil
			}

			fmt.Printf("Saved sessions (%d):\n\n", len(sessions))
			for _, s := range sessions {
				fmt.Printf("  %s  %s\n", toolColor(shortID(s.ID)), s.Query)
				fmt.Printf("          %s, %d tools\n", s.CreatedAt.Format("2006-01-02 15:04"), s.ToolCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to list")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one saved session as a markdown report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			summary, records, analysis, err := store.GetSession(args[0])
			if err != nil {
				return err
			}

			doc := export.NewDocument(summary.Query, records, analysis, nil)
			fmt.Println(export.RenderReport(doc))
			return nil
		},
	}
}

func newHistorySearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Full-text search tools across all saved sessions",
		Args:  cobra.MinimumNArgs(1),
		Example: `  devscout history search postgres
  devscout history search "graphql api"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			tools, err := store.AllTools()
			if err != nil {
				return err
			}
			if len(tools) == 0 {
				fmt.Println("Nothing indexed yet. Run 'devscout research' first.")
				return nil
			}

			idx, err := index.NewIndexer()
			if err != nil {
				return err
			}
			defer idx.Close()
			if err := idx.IndexAll(tools); err != nil {
				return err
			}

			keyword := args[0]
			for _, extra := range args[1:] {
				keyword += " " + extra
			}
			hits, err := idx.Search(keyword, limit)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Printf("No tools match %q.\n", keyword)
				return nil
			}

			fmt.Printf("Matches for %q:\n\n", keyword)
			for _, hit := range hits {
				fmt.Printf("  %s  (session %s: %q, score %.2f)\n",
					toolColor(hit.ToolName), shortID(hit.SessionID), hit.Query, hit.Score)
				if hit.Description != "" {
					fmt.Printf("      %s\n", hit.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum hits to show")
	return cmd
}

// openStore opens the history database read path, honoring the config
// override.
func openStore() (*storage.SQLiteStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store := newStore(cfg)
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}
