// Package csvio reads and writes the two canonical merged CSV files that sit
// between the acquisition pipeline and the ingestor. Both sides share the
// fixed column orders declared in internal/models.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/models"
)

const (
	// ParticulateFile is the canonical merged particulate file name.
	ParticulateFile = "particulate.csv"
	// ClimateFile is the canonical merged climate file name.
	ClimateFile = "climate.csv"
)

// WriteDatasets flattens the collected day groups into the two canonical
// files under dir and returns their paths. A header row is written even when
// no data rows exist.
func WriteDatasets(collected models.Collected, dir string) (particulatePath, climatePath string, err error) {
	particulatePath = filepath.Join(dir, ParticulateFile)
	climatePath = filepath.Join(dir, ClimateFile)

	if err := writeFeed(particulatePath, models.ParticulateColumns, collected.Particulate); err != nil {
		return "", "", err
	}
	if err := writeFeed(climatePath, models.ClimateColumns, collected.Climate); err != nil {
		return "", "", err
	}
	return particulatePath, climatePath, nil
}

func writeFeed(path string, columns []string, days []models.DayRecords) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header of %s: %w", path, err)
	}

	row := make([]string, len(columns))
	for _, day := range days {
		for _, rec := range day {
			for i, col := range columns {
				row[i] = rec[col]
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write row to %s: %w", path, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// Reader streams header-keyed records from a canonical CSV file.
type Reader struct {
	f      *os.File
	csv    *csv.Reader
	header []string
}

// Open opens a canonical CSV file and consumes its header row.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	return &Reader{f: f, csv: r, header: header}, nil
}

// Read returns the next record, or io.EOF once the file is consumed.
func (r *Reader) Read() (models.RawRecord, error) {
	fields, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	rec := make(models.RawRecord, len(r.header))
	for i, name := range r.header {
		if i < len(fields) {
			rec[name] = fields[i]
		}
	}
	return rec, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
