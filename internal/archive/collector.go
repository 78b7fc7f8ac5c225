package archive

import (
	"context"
	"errors"
	"log"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/models"
)

// Collector walks a URL plan day by day and accumulates the rows of every
// day that could be fetched. A failed day is logged and dropped; it never
// aborts the batch, and a run where every day fails yields an empty result.
type Collector struct {
	Fetcher *Fetcher
}

// Collect fetches both feeds sequentially, preserving per-day grouping.
func (c *Collector) Collect(ctx context.Context, plan models.URLPlan) models.Collected {
	return models.Collected{
		Particulate: c.collectFeed(ctx, plan.Particulate),
		Climate:     c.collectFeed(ctx, plan.Climate),
	}
}

func (c *Collector) collectFeed(ctx context.Context, urls []models.SourceURL) []models.DayRecords {
	days := make([]models.DayRecords, 0, len(urls))
	for _, src := range urls {
		records, err := c.Fetcher.Fetch(ctx, src)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				log.Printf("skipping %s %s: no data published (%v)", src.Kind, src.Date.Format(dayFormat), err)
			} else {
				log.Printf("skipping %s %s: undecodable payload: %v", src.Kind, src.Date.Format(dayFormat), err)
			}
			continue
		}
		days = append(days, models.DayRecords(records))
	}
	return days
}
