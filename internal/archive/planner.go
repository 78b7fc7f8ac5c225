package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/models"
)

const dayFormat = "2006-01-02"

// Planner derives per-day archive URLs for a date range. It performs no I/O.
type Planner struct {
	baseURL string
}

// NewPlanner creates a planner rooted at the archive origin.
func NewPlanner(baseURL string) *Planner {
	return &Planner{baseURL: strings.TrimRight(baseURL, "/")}
}

// PlanRange emits one particulate and one climate URL for every calendar day
// in [start, end], in chronological order. An inverted range is rejected
// before any work happens.
func (p *Planner) PlanRange(start, end time.Time) (models.URLPlan, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if start.After(end) {
		return models.URLPlan{}, fmt.Errorf("invalid date range: start %s is after end %s",
			start.Format(dayFormat), end.Format(dayFormat))
	}

	var plan models.URLPlan
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		scheme := schemeFor(day.Year())
		plan.Particulate = append(plan.Particulate, models.SourceURL{
			Kind: models.KindParticulate,
			Date: day,
			URL:  p.dayURL(day, scheme, scheme.particulateFile),
		})
		plan.Climate = append(plan.Climate, models.SourceURL{
			Kind: models.KindClimate,
			Date: day,
			URL:  p.dayURL(day, scheme, scheme.climateFile),
		})
	}
	return plan, nil
}

func (p *Planner) dayURL(day time.Time, scheme namingScheme, suffix string) string {
	date := day.Format(dayFormat)
	var b strings.Builder
	b.WriteString(p.baseURL)
	b.WriteByte('/')
	if scheme.yearPrefix {
		b.WriteString(day.Format("2006"))
		b.WriteByte('/')
	}
	b.WriteString(date)
	b.WriteByte('/')
	b.WriteString(date)
	b.WriteString(suffix)
	return b.String()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
