package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/affil/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set values in the global config file.

Usage:
  affil config                      # Show all config
  affil config data_dir             # Get specific value
  affil config data_dir ~/affil     # Set value

Keys:
  data_dir             Root of downloads, paper lists and exports
  postal_codes         YAML table of per-country postal code patterns
  geocode_api_key      Google Geocoding API key
  scale                Render scale for header detection
  skip_lines           Lines skipped at the top of the page without raster detection
  concurrency          Papers analysed at once
  requests_per_second  Download rate limit
  user_agent           User-Agent for downloads
  strict_symbols       Fail papers with unmatched affiliation markers`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	// The file as written, so environment overrides are never saved.
	cfg, err := config.ReadGlobalConfigFile()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		values := make(map[string]string, len(config.Keys))
		for _, k := range config.Keys {
			v, _ := cfg.Get(k)
			values[k] = v
		}
		if humanOutput {
			for _, k := range config.Keys {
				outputHuman("%-20s %s\n", k+":", values[k])
			}
			return nil
		}
		return outputJSON(values)
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		v, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			outputHuman("%s\n", v)
			return nil
		}
		return outputJSON(map[string]string{key: v})
	}

	// Two args: set value
	value := args[1]
	if key == "data_dir" || key == "postal_codes" {
		value = config.ExpandPath(value)
	}
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("%s = %s\n", key, value)
		return nil
	}
	return outputJSON(map[string]string{"status": "updated", "key": key, "value": value})
}
