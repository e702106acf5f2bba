package main

import (
	"log"
	"sort"
	"time"

	"github.com/spf13/pflag"

	"thermospline/internal/config"
	"thermospline/internal/database"
	"thermospline/internal/interp"
	"thermospline/internal/plot"
	"thermospline/internal/resample"
	"thermospline/internal/series"
)

func main() {
	var (
		filename    string
		output      string
		splineOrder int
		timedelta   int
		maxInterval int
		mode        string
		keepOld     bool
		plotEnabled bool
		store       bool
		configPath  string
	)

	pflag.StringVarP(&filename, "filename", "F", "sample_temperature_data_for_coding_challenge.csv", "Filename to read data from")
	pflag.StringVarP(&output, "output", "O", "temperature.csv", "Output to save interpolated data to")
	pflag.IntVarP(&splineOrder, "spline-order", "S", 1, "Order of spline for interpolation")
	pflag.IntVarP(&timedelta, "timedelta", "T", 60, "Timedelta for interpolation in minutes")
	pflag.IntVarP(&maxInterval, "max-interval", "M", 0, "Maximum time-interval in minutes. Larger gaps split the series and are interpolated linearly. 0 means unlimited")
	pflag.StringVarP(&mode, "interpolation-mode", "I", string(interp.ModeInterp1d), "Method to use for interpolation: interp1d, bspline or univ")
	pflag.BoolVarP(&keepOld, "keep-old", "K", false, "Keep old data during interpolation if enabled")
	pflag.BoolVarP(&plotEnabled, "plot", "P", false, "Plot temperatures if enabled")
	pflag.BoolVar(&store, "store", false, "Archive the resampled output to the database")
	pflag.StringVar(&configPath, "config", "", "Path to an optional yaml config file")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Config supplies defaults for flags that were not given explicitly.
	if !pflag.CommandLine.Changed("spline-order") {
		splineOrder = cfg.Resample.SplineOrder
	}
	if !pflag.CommandLine.Changed("timedelta") {
		timedelta = cfg.Resample.TimedeltaMinutes
	}
	if !pflag.CommandLine.Changed("max-interval") {
		maxInterval = cfg.Resample.MaxIntervalMinutes
	}
	if !pflag.CommandLine.Changed("interpolation-mode") {
		mode = cfg.Resample.Mode
	}
	if !pflag.CommandLine.Changed("keep-old") {
		keepOld = cfg.Resample.KeepOld
	}

	opts := resample.Options{
		Order:       splineOrder,
		Step:        time.Duration(timedelta) * time.Minute,
		MaxInterval: time.Duration(maxInterval) * time.Minute,
		Mode:        interp.Mode(mode),
		KeepOld:     keepOld,
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	data, stats, err := series.Load(filename)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", filename, err)
	}
	log.Printf("Read %d samples from %s (%d malformed rows skipped)", stats.Loaded, filename, stats.Skipped)
	for _, e := range stats.Errors {
		log.Printf("  %s", e)
	}
	if stats.Loaded == 0 {
		log.Fatalf("No usable samples in %s", filename)
	}

	split, err := series.SplitByProperty(data)
	if err != nil {
		log.Fatalf("Failed to split properties: %v", err)
	}

	properties := make([]string, 0, len(split))
	for prop := range split {
		properties = append(properties, prop)
	}
	sort.Strings(properties)

	resampled := make(map[string]series.Series, len(split))
	for _, prop := range properties {
		group := split[prop]

		result, err := resample.Resample(group, opts)
		if err != nil {
			log.Fatalf("Failed to resample %s: %v", prop, err)
		}
		resampled[prop] = result

		// Per-property CSV next to the combined output.
		if err := series.Write(prop+".csv", result); err != nil {
			log.Fatalf("Failed to write %s.csv: %v", prop, err)
		}
		log.Printf("✓ %s: %d samples -> %d samples", prop, len(group), len(result))

		if plotEnabled {
			if err := plot.Render(prop+".png", prop, group, result); err != nil {
				log.Fatalf("Failed to plot %s: %v", prop, err)
			}
			log.Printf("✓ %s: plot saved to %s.png", prop, prop)
		}
	}

	merged := series.MergeProperties(resampled)
	if err := series.Write(output, merged); err != nil {
		log.Fatalf("Failed to write %s: %v", output, err)
	}
	log.Printf("Wrote %d samples to %s", len(merged), output)

	if store {
		db, err := database.NewDB(config.GetDatabaseDSN())
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := db.StoreSamples(merged); err != nil {
			log.Fatalf("Failed to archive samples: %v", err)
		}
		log.Printf("✓ Archived %d samples", len(merged))
	}
}
