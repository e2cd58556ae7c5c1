// Package main provides the affil CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "affil",
	Short: "Map paper authors to their affiliations",
	Long: `affil reads the first page of a paper and maps each author to the
institutions printed in its header.

Single papers are handled by 'affil extract'. Whole conferences are
downloaded, analysed and exported with 'affil analyse', 'affil export'
and 'affil locate'.

All commands output JSON by default. Use --human for readable output.
Logs go to stderr; set LOG_LEVEL to DEBUG, INFO, WARN or ERROR.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(os.Getenv("LOG_LEVEL")))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// newLogger builds the stderr text logger for level, defaulting to INFO.
func newLogger(level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
