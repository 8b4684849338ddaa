// Command scraperctl is a manual-run harness for exercising a scraper
// against a real or mocked target, grounded on the teacher's use of
// github.com/jawher/mow.cli for its own CLI entry points.
package main

import (
	"fmt"
	"os"

	cli "github.com/jawher/mow.cli"

	"github.com/freelawproject/scraperdriver/examples"
	"github.com/freelawproject/scraperdriver/scraperdriver"
	"github.com/freelawproject/scraperdriver/scraperdriver/config"
	"github.com/freelawproject/scraperdriver/scraperdriver/logging"
)

func main() {
	app := cli.App("scraperctl", "Run a scraperdriver scraper by hand")

	app.Command("run", "run the bundled Bug Court example scraper", func(cmd *cli.Cmd) {
		url := cmd.StringArg("URL", "", "listing page URL to scrape")
		workers := cmd.IntOpt("workers w", 1, "number of concurrent workers")
		storageDir := cmd.StringOpt("storage-dir d", "", "directory archived files are written to")
		dotenv := cmd.StringOpt("env-file", ".env", "dotenv file to load before reading SCRAPERDRIVER_* env vars")

		cmd.Action = func() {
			cfg, err := config.Load(*dotenv)
			if err != nil {
				exitf("loading config: %v", err)
			}
			if *storageDir != "" {
				cfg.StorageDir = *storageDir
			}
			if *workers > 1 {
				cfg.NumWorkers = *workers
			}

			log := logging.NewStdLogger()
			scraper := examples.NewBugCourtScraper(*url)

			runErr := scraperdriver.Run(scraper,
				scraperdriver.WithNumWorkers(cfg.NumWorkers),
				scraperdriver.WithStorageDir(cfg.StorageDir),
				scraperdriver.WithOnData(func(v any) {
					log.LogEvent(logging.Info, &logging.Event{Type: "data", Values: map[string]string{"value": fmt.Sprintf("%+v", v)}})
				}),
				scraperdriver.WithOnInvalidData(func(v any) {
					log.LogEvent(logging.Warn, &logging.Event{Type: "invalid_data", Values: map[string]string{"value": fmt.Sprintf("%+v", v)}})
				}),
				scraperdriver.WithOnTransientException(func(t scraperdriver.TransientException) bool {
					log.LogError(logging.Warn, t)
					return true // keep the worker going; the failed request is not refetched
				}),
				scraperdriver.WithOnStructuralError(func(a scraperdriver.ScraperAssumption) bool {
					log.LogError(logging.Error, a)
					return false // stop this worker (the whole run when there is one worker)
				}),
				scraperdriver.WithOnRunStart(func(name string) {
					log.LogEvent(logging.Info, &logging.Event{Type: "run_start", Values: map[string]string{"scraper": name}})
				}),
				scraperdriver.WithOnRunComplete(func(name, status string, err error) {
					values := map[string]string{"scraper": name, "status": status}
					if err != nil {
						values["error"] = err.Error()
					}
					log.LogEvent(logging.Info, &logging.Event{Type: "run_complete", Values: values})
				}),
			)
			if runErr != nil {
				exitf("run failed: %v", runErr)
			}
		}
	})

	if err := app.Run(os.Args); err != nil {
		exitf("%v", err)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
