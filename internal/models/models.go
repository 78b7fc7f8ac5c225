package models

import "time"

// Kind distinguishes the two archive feeds.
type Kind string

const (
	KindParticulate Kind = "particulate"
	KindClimate     Kind = "climate"
)

// SourceURL is a resolved archive address for one day of one feed.
type SourceURL struct {
	Kind Kind
	Date time.Time
	URL  string
}

// URLPlan holds the per-day URLs for a date range, in chronological order.
type URLPlan struct {
	Particulate []SourceURL
	Climate     []SourceURL
}

// RawRecord is one decoded archive row, keyed by header field name.
// Values stay strings until the ingest layer coerces them.
type RawRecord map[string]string

// DayRecords groups the rows contributed by a single day's file.
type DayRecords []RawRecord

// Collected accumulates the successfully fetched days of both feeds.
// Days that could not be fetched are absent, not empty.
type Collected struct {
	Particulate []DayRecords
	Climate     []DayRecords
}

// ParticulateColumns is the canonical column order of the merged
// particulate CSV. The ingest side parses by this same contract.
var ParticulateColumns = []string{
	"sensor_id", "sensor_type", "location", "lat", "lon", "timestamp",
	"P1", "durP1", "ratioP1", "P2", "durP2", "ratioP2",
}

// ClimateColumns is the canonical column order of the merged climate CSV.
var ClimateColumns = []string{
	"sensor_id", "sensor_type", "location", "lat", "lon", "timestamp",
	"temperature", "humidity",
}

// ParticulateRow is a coerced particulate fact ready for insertion.
// Nil fields persist as NULL.
type ParticulateRow struct {
	SensorID  *int64
	Timestamp *string
	P1        *float64
	DurP1     *float64
	RatioP1   *float64
	P2        *float64
	DurP2     *float64
	RatioP2   *float64
}

// ClimateRow is a coerced climate fact ready for insertion.
type ClimateRow struct {
	SensorID    *int64
	Timestamp   *string
	Temperature *float64
	Humidity    *float64
}
