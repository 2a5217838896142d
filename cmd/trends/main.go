package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trends",
	Short: "Monthly/category aggregation and trend analysis for paper metadata",
	Long: `trends turns a large stream of bibliographic records into a monthly/category
count matrix and derives trend statistics from it.

Example usage:
  trends aggregate --data snapshot.json.gz --out data/monthly.csv --prefix cs.
  trends report --in data/monthly.csv --out data/summary.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
