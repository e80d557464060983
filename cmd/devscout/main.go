/*
Package main is the entry point for the devscout CLI.

devscout researches and ranks developer tools: given a query it gathers
candidate tools, structures each one with an LLM, then opens an
interactive session for filtering, sorting, scoring, comparing and
exporting the results.

Usage:
  devscout [command]

Available Commands:
  research    Research a query and explore the results interactively
  history     Browse and search past research sessions
  help        Help about any command

Examples:
  # Research and explore
  devscout research "database tools for startups"

  # Search every tool seen in past sessions
  devscout history search postgres
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scoutware/devscout/internal/cli"
	"github.com/scoutware/devscout/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "devscout",
		Short: "Research and rank developer tools from the command line",
		Long: `devscout researches developer tools for a natural-language query:
it finds relevant articles, extracts tool candidates, structures each one
with an LLM, and opens an interactive session over the results.

In the session you can filter, sort, keyword-search, score against your
preferences, compare tools side by side, inspect trends, and export the
results as JSON or markdown reports.`,
		Version: version.GetVersion(),
	}

	rootCmd.AddCommand(cli.NewResearchCmd())
	rootCmd.AddCommand(cli.NewHistoryCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
