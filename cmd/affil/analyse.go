package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matsen/affil/internal/conference"
	"github.com/matsen/affil/internal/config"
	"github.com/matsen/affil/internal/metadata"
)

var (
	analyseForce    bool
	analyseWorkers  int
	analyseNoRaster bool
)

func init() {
	analyseCmd.Flags().BoolVar(&analyseForce, "force", false, "Re-extract papers whose PDF is unchanged")
	analyseCmd.Flags().IntVarP(&analyseWorkers, "workers", "w", 0, "Papers processed at once (default from config)")
	analyseCmd.Flags().BoolVar(&analyseNoRaster, "no-raster", false, "Scan whole pages instead of bounding headers by whitespace gaps")
	rootCmd.AddCommand(analyseCmd)
}

var analyseCmd = &cobra.Command{
	Use:   "analyse <conference>",
	Short: "Extract affiliations for every paper of a conference",
	Long: `Download and analyse every paper listed in conferences/<conference>.json.

Papers with a manual record in papers/<conference>.json are skipped, as
are papers whose PDF has not changed since the last successful run.
A failing paper never stops the batch: its error is recorded and shows
up in errors.json. general.json and errors.json are written at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyse,
}

// AnalyseResponse is the output of the analyse command.
type AnalyseResponse struct {
	Conference string               `json:"conference"`
	Summary    *conference.Summary  `json:"summary"`
	Exported   *conference.Exported `json:"exported"`
}

func runAnalyse(cmd *cobra.Command, args []string) error {
	conf := args[0]
	cfg := mustLoadConfig()
	l := config.NewLayout(cfg)

	links, err := conference.LoadLinks(l.LinksPath(conf))
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	manual, err := conference.LoadOverrides(l.OverridesPath(conf), conf)
	if err != nil {
		exitWithError(ExitDataError, "loading overrides: %v", err)
	}

	db := mustOpenDatabase(l)
	defer db.Close()

	client := newHTTPClient(cfg)
	workers := cfg.Workers()
	if analyseWorkers > 0 {
		workers = analyseWorkers
	}
	runner := conference.NewRunner(conf, l, client, metadata.NewFetcher(client),
		mustNewExtractor(cfg, !analyseNoRaster), db,
		conference.WithWorkers(workers),
		conference.WithForce(analyseForce),
		conference.WithLogger(slog.Default().With("conference", conf)),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("analysing", "conference", conf, "papers", len(links), "manual", len(manual), "workers", workers)
	summary, err := runner.Analyse(ctx, links, manual)
	if err != nil {
		slog.Warn("analysis interrupted", "error", err)
	}

	exported, xerr := conference.WriteExports(db, l, conf, manual)
	if xerr != nil {
		exitWithError(ExitError, "writing exports: %v", xerr)
	}

	if humanOutput {
		outputHuman("%s: %d extracted, %d unchanged, %d manual, %d failed\n",
			conf, summary.Extracted, summary.Unchanged, summary.Manual, summary.Failed)
		outputHuman("wrote %s\n      %s\n", exported.General, exported.Errors)
	} else if oerr := outputJSON(AnalyseResponse{Conference: conf, Summary: summary, Exported: exported}); oerr != nil {
		return oerr
	}
	if err != nil {
		os.Exit(ExitError)
	}
	return nil
}
