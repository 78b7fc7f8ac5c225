// Package pipeline ties one acquisition run together: URL planning over a
// date range, day-by-day fetch with skip-on-failure, and the canonical CSV
// outputs. Ingestion into the store is a separate, optional step driven by
// the caller.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/archive"
	"github.com/02loveslollipop/Hokori-airquality-archive/internal/config"
	"github.com/02loveslollipop/Hokori-airquality-archive/internal/csvio"
)

// Result reports where the canonical files landed and how many days of each
// feed actually resolved.
type Result struct {
	ParticulatePath string
	ClimatePath     string
	ParticulateDays int
	ClimateDays     int
}

// Run executes one acquisition pass for [start, end]. The date range is
// validated before any network call; after that, per-day failures degrade
// to log lines and the run always produces both canonical files.
func Run(ctx context.Context, cfg config.Config, start, end time.Time) (Result, error) {
	plan, err := archive.NewPlanner(cfg.ArchiveBaseURL).PlanRange(start, end)
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	collector := &archive.Collector{
		Fetcher: archive.NewFetcher(&http.Client{Timeout: cfg.FetchTimeout}),
	}
	collected := collector.Collect(ctx, plan)
	log.Printf("collected %d/%d particulate and %d/%d climate days",
		len(collected.Particulate), len(plan.Particulate),
		len(collected.Climate), len(plan.Climate))

	particulatePath, climatePath, err := csvio.WriteDatasets(collected, cfg.OutputDir)
	if err != nil {
		return Result{}, err
	}

	return Result{
		ParticulatePath: particulatePath,
		ClimatePath:     climatePath,
		ParticulateDays: len(collected.Particulate),
		ClimateDays:     len(collected.Climate),
	}, nil
}
