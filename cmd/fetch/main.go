// Command fetch refreshes the raw FPL files (bootstrap-static and fixtures)
// under the local data root.
package main

import (
	"flag"
	"log"

	"github.com/fplkit/squad-engine/internal/fetch"
	"github.com/fplkit/squad-engine/internal/store"
)

func main() {
	var (
		dataRoot = flag.String("data-root", "data/raw", "root directory for raw JSON")
		force    = flag.Bool("force", false, "re-download even if files exist")
	)
	flag.Parse()

	client := fetch.NewClient(store.NewJSONStore(*dataRoot))
	if err := client.FetchBootstrap(*force); err != nil {
		log.Fatalf("fetch bootstrap: %v", err)
	}
	if err := client.FetchFixtures(*force); err != nil {
		log.Fatalf("fetch fixtures: %v", err)
	}
	log.Printf("raw data refreshed under %s", *dataRoot)
}
