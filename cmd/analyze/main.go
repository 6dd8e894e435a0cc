// Command analyze runs the full squad analysis over a local raw-data root
// and prints the JSON report. Batch counterpart to the MCP server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fplkit/squad-engine/internal/analysis"
	"github.com/fplkit/squad-engine/internal/store"
)

func main() {
	var (
		dataRoot   = flag.String("data-root", "data/raw", "root directory for raw JSON")
		gw         = flag.Int("gw", 0, "current gameweek (required)")
		window     = flag.Int("window", 0, "fixture window size in GWs (default 8)")
		budget     = flag.Float64("budget", 0, "budget ceiling in currency units (default 100.0)")
		maxPerClub = flag.Int("max-per-club", 0, "club concentration cap (default 3)")
		maxRisk    = flag.Int("max-risk", 0, "availability risk ceiling for the pool (default 1)")
	)
	flag.Parse()

	if *gw < 1 {
		fmt.Fprintln(os.Stderr, "usage: analyze -gw <gameweek> [-data-root dir] [-window n] [-budget n] [-max-per-club n] [-max-risk n]")
		os.Exit(2)
	}

	dataset, err := store.NewJSONStore(*dataRoot).LoadDataset()
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	opts := analysis.DefaultOptions(*gw)
	if *window > 0 {
		opts.WindowSize = *window
	}
	if *budget > 0 {
		opts.Constraints.Budget = *budget
	}
	if *maxPerClub > 0 {
		opts.Constraints.MaxPerClub = *maxPerClub
	}
	if *maxRisk > 0 {
		opts.MaxRisk = *maxRisk
	}

	report, err := analysis.Run(dataset, opts)
	if err != nil {
		log.Fatalf("analysis: %v", err)
	}

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	os.Stdout.Write(append(b, '\n'))
}
