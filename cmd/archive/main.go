package main

import (
	"log"

	"github.com/spf13/pflag"

	"thermospline/internal/config"
	"thermospline/internal/database"
	"thermospline/internal/series"
)

func main() {
	var filename string
	pflag.StringVarP(&filename, "filename", "F", "temperature.csv", "CSV file to archive")
	pflag.Parse()

	data, stats, err := series.Load(filename)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", filename, err)
	}
	log.Printf("Read %d samples from %s (%d malformed rows skipped)", stats.Loaded, filename, stats.Skipped)

	if stats.Loaded == 0 {
		log.Fatalf("No usable samples in %s", filename)
	}

	db, err := database.NewDB(config.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.StoreSamples(data); err != nil {
		log.Fatalf("Failed to archive samples: %v", err)
	}

	log.Printf("✓ Archived %d samples from %s", stats.Loaded, filename)
}
