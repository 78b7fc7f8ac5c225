package db

import (
	"context"
	"fmt"
)

// TemperatureSummary aggregates one calendar day of climate readings.
// Fields are nil when no readings exist for the day.
type TemperatureSummary struct {
	Avg *float64 `json:"avg"`
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ParticulatePoint is one timestamped particulate sample.
type ParticulatePoint struct {
	Timestamp string   `json:"timestamp"`
	P1        *float64 `json:"p1"`
	P2        *float64 `json:"p2"`
}

// TemperaturePoint is one timestamped temperature sample.
type TemperaturePoint struct {
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
}

// Timestamps are stored as YYYY-MM-DDTHH:MM:SS text, so calendar filters are
// plain prefix extractions. substr behaves identically on SQLite and
// PostgreSQL, which keeps these queries driver-agnostic.

// GetTemperatureSummary returns AVG/MIN/MAX temperature for one calendar
// date (YYYY-MM-DD).
func (s *Store) GetTemperatureSummary(ctx context.Context, date string) (TemperatureSummary, error) {
	var out TemperatureSummary
	row := s.DB.QueryRowContext(ctx, s.rebind(
		`SELECT AVG(temperature), MIN(temperature), MAX(temperature)
		 FROM climate_reading
		 WHERE substr(timestamp, 1, 10) = ?`), date)
	if err := row.Scan(&out.Avg, &out.Min, &out.Max); err != nil {
		return out, fmt.Errorf("temperature summary for %s: %w", date, err)
	}
	return out, nil
}

// GetParticulateDay returns the ordered P1/P2 series of one calendar date.
func (s *Store) GetParticulateDay(ctx context.Context, date string) ([]ParticulatePoint, error) {
	rows, err := s.DB.QueryContext(ctx, s.rebind(
		`SELECT timestamp, p1, p2
		 FROM particulate_reading
		 WHERE timestamp IS NOT NULL AND substr(timestamp, 1, 10) = ?
		 ORDER BY timestamp`), date)
	if err != nil {
		return nil, fmt.Errorf("particulate day %s: %w", date, err)
	}
	defer rows.Close()

	points := make([]ParticulatePoint, 0)
	for rows.Next() {
		var p ParticulatePoint
		if err := rows.Scan(&p.Timestamp, &p.P1, &p.P2); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetTemperatureYear returns the ordered temperature series of one year,
// excluding NULL temperatures.
func (s *Store) GetTemperatureYear(ctx context.Context, year string) ([]TemperaturePoint, error) {
	rows, err := s.DB.QueryContext(ctx, s.rebind(
		`SELECT timestamp, temperature
		 FROM climate_reading
		 WHERE timestamp IS NOT NULL AND temperature IS NOT NULL AND substr(timestamp, 1, 4) = ?
		 ORDER BY timestamp`), year)
	if err != nil {
		return nil, fmt.Errorf("temperature year %s: %w", year, err)
	}
	defer rows.Close()

	points := make([]TemperaturePoint, 0)
	for rows.Next() {
		var p TemperaturePoint
		if err := rows.Scan(&p.Timestamp, &p.Temperature); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// CountRows reports the row count of one of the four relations. The table
// name must be one of the fixed schema names; it is matched against an
// allow-list rather than interpolated blindly.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	switch table {
	case "location", "sensor", "particulate_reading", "climate_reading":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
