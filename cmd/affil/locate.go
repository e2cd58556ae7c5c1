package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/affil/internal/config"
	"github.com/matsen/affil/internal/export"
	"github.com/matsen/affil/internal/geocode"
)

func init() {
	// Load .env file if present (for GOOGLE_MAPS_API_KEY)
	_ = godotenv.Load()

	rootCmd.AddCommand(locateCmd)
}

var locateCmd = &cobra.Command{
	Use:   "locate <conference>",
	Short: "Geocode the affiliations of a conference",
	Long: `Resolve every distinct affiliation in output/<conference>/general.json to
coordinates with the Google Geocoding API and write locations.csv.

Affiliations already resolved in an existing locations.csv are not looked
up again. An affiliation the API cannot place keeps empty coordinates.

Requires GOOGLE_MAPS_API_KEY (environment, .env file, or geocode_api_key
in the config file).`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

// LocateResponse is the output of the locate command.
type LocateResponse struct {
	Path       string `json:"path"`
	Locations  int    `json:"locations"`
	Unresolved int    `json:"unresolved"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	conf := args[0]
	cfg := mustLoadConfig()
	l := config.NewLayout(cfg)

	client, err := geocode.NewClient(newHTTPClient(cfg), cfg.GeocodeAPIKey)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nSet %s or geocode_api_key in %s", err, config.EnvGeocodeAPIKey, config.GlobalConfigPath())
	}

	var general export.General
	if err := export.ReadJSON(l.GeneralPath(conf), &general); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			exitWithError(ExitDataError, "no results for %s\n\nRun 'affil analyse %s' first.", conf, conf)
		}
		exitWithError(ExitDataError, "%v", err)
	}
	known, err := export.ReadLocations(l.LocationsPath(conf))
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	locs, err := client.LookupAll(cmd.Context(), general.Affiliations(), known)
	if err != nil {
		// Keep what was resolved so a rerun picks up from here.
		if werr := export.WriteLocations(l.LocationsPath(conf), locs); werr != nil {
			exitWithError(ExitError, "%v", werr)
		}
		exitWithError(ExitError, "%v", err)
	}
	if err := export.WriteLocations(l.LocationsPath(conf), locs); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	resp := LocateResponse{Path: l.LocationsPath(conf), Locations: len(locs)}
	for _, loc := range locs {
		if loc.Lat == nil {
			resp.Unresolved++
		}
	}
	if humanOutput {
		outputHuman("%d locations (%d unresolved) -> %s\n", resp.Locations, resp.Unresolved, resp.Path)
		return nil
	}
	return outputJSON(resp)
}
