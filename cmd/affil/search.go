package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/affil/internal/config"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find authors by affiliation across analysed conferences",
	Long: `Full-text search over stored affiliations.

Examples:
  affil search "Stanford"
  affil search "max planck" --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// Column widths for human-readable search output.
const (
	searchAuthorWidth      = 28
	searchAffiliationWidth = 60
)

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(config.NewLayout(cfg))
	defer db.Close()

	hits, err := db.SearchAffiliations(args[0], searchLimit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		if len(hits) == 0 {
			outputHuman("No matches.\n")
			return nil
		}
		for _, h := range hits {
			outputHuman("%-*s  %-*s  %s/%s\n",
				searchAuthorWidth, truncate(h.Author, searchAuthorWidth),
				searchAffiliationWidth, truncate(h.Affiliation, searchAffiliationWidth),
				h.Conference, h.PaperID)
		}
		return nil
	}
	return outputJSON(hits)
}
