package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/config"
	"github.com/02loveslollipop/Hokori-airquality-archive/internal/db"
	"github.com/02loveslollipop/Hokori-airquality-archive/internal/ingest"
	"github.com/02loveslollipop/Hokori-airquality-archive/internal/pipeline"
)

const dayFormat = "2006-01-02"

func main() {
	start := flag.String("start", "", "first day to fetch (YYYY-MM-DD)")
	end := flag.String("end", "", "last day to fetch, inclusive (YYYY-MM-DD)")
	doIngest := flag.Bool("ingest", false, "load the merged CSV files into the database after fetching")
	schedule := flag.String("schedule", "", "cron spec; when set, re-fetches yesterday on that schedule instead of running once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *schedule != "" {
		runScheduled(ctx, cfg, *schedule, *doIngest)
		return
	}

	startDate, endDate, err := parseRange(*start, *end)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, startDate, endDate, *doIngest); err != nil {
		log.Fatalf("fetcher failed: %v", err)
	}
}

// parseRange validates the CLI dates before any work begins. Unparseable
// input and inverted ranges are fatal configuration errors.
func parseRange(start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("both -start and -end are required (YYYY-MM-DD)")
	}
	startDate, err := time.Parse(dayFormat, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -start date %q: expected YYYY-MM-DD", start)
	}
	endDate, err := time.Parse(dayFormat, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -end date %q: expected YYYY-MM-DD", end)
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range: %s is after %s", start, end)
	}
	return startDate, endDate, nil
}

func run(ctx context.Context, cfg config.Config, start, end time.Time, doIngest bool) error {
	result, err := pipeline.Run(ctx, cfg, start, end)
	if err != nil {
		return err
	}
	log.Printf("merged CSV files written: %s, %s", result.ParticulatePath, result.ClimatePath)

	if !doIngest {
		return nil
	}

	store, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := ingest.New(store).Run(ctx, result.ParticulatePath, result.ClimatePath)
	if err != nil {
		return err
	}
	log.Printf("ingestion done: %+v", counts)
	return nil
}

// runScheduled re-fetches the previous UTC day on the given cron schedule
// until the process is signalled. A failed sync logs and waits for the next
// firing; only the initial configuration is fatal.
func runScheduled(ctx context.Context, cfg config.Config, spec string, doIngest bool) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		yesterday := time.Now().UTC().AddDate(0, 0, -1)
		if err := run(ctx, cfg, yesterday, yesterday, doIngest); err != nil {
			log.Printf("scheduled sync failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid -schedule spec %q: %v", spec, err)
	}

	log.Printf("scheduler running with spec %q", spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
}
