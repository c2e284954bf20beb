package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sahara-sahaya/relief-cli/internal/dataset"
	"github.com/sahara-sahaya/relief-cli/internal/relief"
	"github.com/sahara-sahaya/relief-cli/pkg/geocode"
	"github.com/sahara-sahaya/relief-cli/pkg/iplocate"
)

var (
	searchLat      float64
	searchLon      float64
	searchAddress  string
	searchAuto     bool
	searchDisaster string
	searchSort     string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find relief centres near a location",
	Long:  "Resolves the user position from --lat/--lon, a geocoded --address, or --auto (IP-based), then lists centres supporting the selected disaster type sorted by distance or inventory availability.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		lat, lon, err := resolvePosition(cmd)
		if err != nil {
			return err
		}

		store := dataset.NewStore(cfg.Dataset.Path)
		records, err := store.Load()
		if err != nil {
			return eris.Wrap(err, "load dataset")
		}

		centres := relief.Nearby(records, lat, lon, searchDisaster, relief.ParseSort(searchSort))
		if len(centres) == 0 {
			fmt.Printf("no relief resources found for %q near (%.4f, %.4f)\n", searchDisaster, lat, lon)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tDISTANCE\tTIME\tINVENTORY\tCONTACT")
		for _, c := range centres {
			inventory := c.Inventory
			if inventory == "" {
				inventory = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%.2f km\t%d min\t%s\t%s\n",
				c.Name, c.Type, c.DistanceKm, c.WalkMinutes, inventory, c.Contact)
		}
		return eris.Wrap(w.Flush(), "flush output")
	},
}

// resolvePosition picks the user coordinate from explicit flags, a geocoded
// address, or IP-based detection, in that order of preference.
func resolvePosition(cmd *cobra.Command) (float64, float64, error) {
	ctx := cmd.Context()

	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
		return searchLat, searchLon, nil
	}

	if searchAddress != "" {
		client := geocode.NewClient(
			geocode.WithBaseURL(cfg.Geocode.BaseURL),
			geocode.WithUserAgent(cfg.Geocode.UserAgent),
			geocode.WithRateLimit(cfg.Geocode.RateRPS),
		)
		result, err := client.Geocode(ctx, searchAddress)
		if err != nil {
			return 0, 0, eris.Wrap(err, "geocode address")
		}
		if !result.Matched {
			return 0, 0, eris.Errorf("location not found: %q", searchAddress)
		}
		zap.L().Info("location found",
			zap.String("address", searchAddress),
			zap.Float64("lat", result.Lat),
			zap.Float64("lon", result.Lon),
		)
		return result.Lat, result.Lon, nil
	}

	if searchAuto {
		client := iplocate.NewClient(iplocate.WithBaseURL(cfg.Locate.BaseURL))
		pos, err := client.Locate(ctx)
		if err != nil {
			return 0, 0, eris.Wrap(err, "detect location")
		}
		if !pos.Matched {
			return 0, 0, eris.New("could not detect location from IP")
		}
		zap.L().Info("approximate location detected",
			zap.Float64("lat", pos.Lat),
			zap.Float64("lon", pos.Lon),
			zap.String("city", pos.City),
		)
		return pos.Lat, pos.Lon, nil
	}

	return 0, 0, eris.New("provide a location: --lat/--lon, --address, or --auto")
}

func init() {
	searchCmd.Flags().Float64Var(&searchLat, "lat", 0, "user latitude")
	searchCmd.Flags().Float64Var(&searchLon, "lon", 0, "user longitude")
	searchCmd.Flags().StringVar(&searchAddress, "address", "", "free-text address to geocode")
	searchCmd.Flags().BoolVar(&searchAuto, "auto", false, "detect approximate location from IP")
	searchCmd.Flags().StringVar(&searchDisaster, "disaster", "", "disaster type to filter by (e.g. Flood)")
	searchCmd.Flags().StringVar(&searchSort, "sort", "nearest", "sort order: nearest or inventory")
	rootCmd.AddCommand(searchCmd)
}
