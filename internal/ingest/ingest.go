// Package ingest loads the canonical merged CSV files into the store:
// dimension rows are extracted and upserted while facts are staged, then
// each file's facts land in one bulk insert.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/csvio"
	"github.com/02loveslollipop/Hokori-airquality-archive/internal/db"
	"github.com/02loveslollipop/Hokori-airquality-archive/internal/models"
)

// Counts summarizes one ingestion pass.
type Counts struct {
	ParticulateRows int
	ClimateRows     int
	Locations       int
	Sensors         int
}

// Ingestor performs one pass over the two canonical files. It holds no
// state beyond the pass itself.
type Ingestor struct {
	store *db.Store

	seenLocations map[int64]bool
	seenSensors   map[int64]bool
	counts        Counts
}

// New creates an ingestor writing into store.
func New(store *db.Store) *Ingestor {
	return &Ingestor{
		store:         store,
		seenLocations: make(map[int64]bool),
		seenSensors:   make(map[int64]bool),
	}
}

// Run ingests the particulate file and then the climate file. For each file
// all dimension upserts happen before that file's single bulk fact insert.
func (in *Ingestor) Run(ctx context.Context, particulatePath, climatePath string) (Counts, error) {
	if err := in.ingestParticulate(ctx, particulatePath); err != nil {
		return in.counts, err
	}
	if err := in.ingestClimate(ctx, climatePath); err != nil {
		return in.counts, err
	}
	log.Printf("ingested %d particulate and %d climate rows (%d locations, %d sensors)",
		in.counts.ParticulateRows, in.counts.ClimateRows, in.counts.Locations, in.counts.Sensors)
	return in.counts, nil
}

func (in *Ingestor) ingestParticulate(ctx context.Context, path string) error {
	r, err := csvio.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	var staged []models.ParticulateRow
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		sensorID, err := in.upsertDimensions(ctx, rec)
		if err != nil {
			return err
		}

		staged = append(staged, models.ParticulateRow{
			SensorID:  sensorID,
			Timestamp: coerceText(rec["timestamp"]),
			P1:        coerceFloat(rec["P1"]),
			DurP1:     coerceFloat(rec["durP1"]),
			RatioP1:   coerceFloat(rec["ratioP1"]),
			P2:        coerceFloat(rec["P2"]),
			DurP2:     coerceFloat(rec["durP2"]),
			RatioP2:   coerceFloat(rec["ratioP2"]),
		})
	}

	if err := in.store.BulkInsertParticulate(ctx, staged); err != nil {
		return err
	}
	in.counts.ParticulateRows += len(staged)
	return nil
}

func (in *Ingestor) ingestClimate(ctx context.Context, path string) error {
	r, err := csvio.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	var staged []models.ClimateRow
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		sensorID, err := in.upsertDimensions(ctx, rec)
		if err != nil {
			return err
		}

		staged = append(staged, models.ClimateRow{
			SensorID:    sensorID,
			Timestamp:   coerceText(rec["timestamp"]),
			Temperature: coerceFloat(rec["temperature"]),
			Humidity:    coerceFloat(rec["humidity"]),
		})
	}

	if err := in.store.BulkInsertClimate(ctx, staged); err != nil {
		return err
	}
	in.counts.ClimateRows += len(staged)
	return nil
}

// upsertDimensions extracts the location and sensor of one row and upserts
// whichever has a usable identity. A missing identity suppresses only the
// dimension write; the caller still stages the fact row, with a NULL sensor
// reference if need be. Returns the coerced sensor id for the fact.
func (in *Ingestor) upsertDimensions(ctx context.Context, rec models.RawRecord) (*int64, error) {
	locationID := coerceInt(rec["location"])
	if locationID != nil && !in.seenLocations[*locationID] {
		if err := in.store.UpsertLocation(ctx, *locationID, coerceFloat(rec["lat"]), coerceFloat(rec["lon"])); err != nil {
			return nil, err
		}
		in.seenLocations[*locationID] = true
		in.counts.Locations++
	}

	sensorID := coerceInt(rec["sensor_id"])
	sensorType := rec["sensor_type"]
	if sensorID != nil && sensorType != "" && !in.seenSensors[*sensorID] {
		if err := in.store.UpsertSensor(ctx, *sensorID, sensorType, locationID); err != nil {
			return nil, err
		}
		in.seenSensors[*sensorID] = true
		in.counts.Sensors++
	}

	return sensorID, nil
}
