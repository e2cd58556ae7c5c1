package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/affil/internal/conference"
	"github.com/matsen/affil/internal/config"
)

var exportRebuild bool

func init() {
	exportCmd.Flags().BoolVar(&exportRebuild, "rebuild", false, "Reload the results database from the conference's papers.jsonl first")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <conference>",
	Short: "Write general.json, errors.json and papers.jsonl for a conference",
	Long: `Write the exports of a conference from the results database.

general.json maps paper id -> {url, title, authors}; manual records from
papers/<conference>.json replace extracted ones. errors.json maps each
error message to the ids of the papers that hit it.

With --rebuild, the database is first reloaded from output/<conference>/papers.jsonl,
so results can be shared as plain files and restored elsewhere.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	conf := args[0]
	cfg := mustLoadConfig()
	l := config.NewLayout(cfg)

	manual, err := conference.LoadOverrides(l.OverridesPath(conf), conf)
	if err != nil {
		exitWithError(ExitDataError, "loading overrides: %v", err)
	}

	db := mustOpenDatabase(l)
	defer db.Close()

	if exportRebuild {
		n, err := db.RebuildFromJSONL(conf, l.PapersPath(conf))
		if err != nil {
			exitWithError(ExitDataError, "rebuilding database: %v", err)
		}
		if humanOutput {
			outputHuman("reloaded %d papers\n", n)
		}
	}

	out, err := conference.WriteExports(db, l, conf, manual)
	if err != nil {
		exitWithError(ExitError, "writing exports: %v", err)
	}

	if humanOutput {
		outputHuman("%d extracted + %d manual papers -> %s\n", out.Papers, out.Manual, out.General)
		outputHuman("%d error buckets -> %s\n", out.Buckets, out.Errors)
		return nil
	}
	return outputJSON(out)
}
