// Package db owns the persisted relations: the location and sensor
// dimension tables and the two append-only reading fact tables.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/models"
)

// Store wraps a single database connection and serializes all writes
// through it. Supported drivers are "sqlite" (file-based, the default)
// and "pgx" (PostgreSQL).
type Store struct {
	DB     *sql.DB
	driver string
}

// Open connects to the store, constrains SQLite to a single connection and
// creates the schema if it does not exist yet.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))

	var db *sql.DB
	var err error
	switch driver {
	case "", "sqlite":
		driver = "sqlite"
		db, err = sql.Open("sqlite", dsn)
		if err == nil {
			// modernc sqlite tolerates no concurrent writers.
			db.SetMaxOpenConns(1)
		}
	case "pgx", "postgres", "postgresql":
		driver = "pgx"
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	s := &Store{DB: db, driver: driver}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

// createSchema creates the four relations. References between them stay
// advisory: field data carries dangling and NULL ids, so no FK constraints
// are declared and inserts never fail on a missing parent.
func (s *Store) createSchema(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == "pgx" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS location (
			location_id BIGINT PRIMARY KEY,
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS sensor (
			sensor_id BIGINT PRIMARY KEY,
			sensor_type TEXT,
			location_id BIGINT
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS particulate_reading (
			id %s,
			sensor_id BIGINT,
			timestamp TEXT,
			p1 DOUBLE PRECISION,
			dur_p1 DOUBLE PRECISION,
			ratio_p1 DOUBLE PRECISION,
			p2 DOUBLE PRECISION,
			dur_p2 DOUBLE PRECISION,
			ratio_p2 DOUBLE PRECISION
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS climate_reading (
			id %s,
			sensor_id BIGINT,
			timestamp TEXT,
			temperature DOUBLE PRECISION,
			humidity DOUBLE PRECISION
		)`, serial),
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// rebind converts ?-style placeholders to the $n form PostgreSQL expects.
func (s *Store) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UpsertLocation inserts a location if absent. An existing id keeps its
// first-written coordinates; the call is then a no-op.
func (s *Store) UpsertLocation(ctx context.Context, id int64, lat, lon *float64) error {
	_, err := s.DB.ExecContext(ctx, s.rebind(
		`INSERT INTO location (location_id, lat, lon) VALUES (?, ?, ?)
		 ON CONFLICT (location_id) DO NOTHING`), id, lat, lon)
	if err != nil {
		return fmt.Errorf("upsert location %d: %w", id, err)
	}
	return nil
}

// UpsertSensor inserts a sensor if absent, first-write-wins like
// UpsertLocation. The location reference may be nil.
func (s *Store) UpsertSensor(ctx context.Context, id int64, sensorType string, locationID *int64) error {
	_, err := s.DB.ExecContext(ctx, s.rebind(
		`INSERT INTO sensor (sensor_id, sensor_type, location_id) VALUES (?, ?, ?)
		 ON CONFLICT (sensor_id) DO NOTHING`), id, sensorType, locationID)
	if err != nil {
		return fmt.Errorf("upsert sensor %d: %w", id, err)
	}
	return nil
}

// BulkInsertParticulate appends particulate facts inside one transaction;
// either the whole batch commits or none of it does.
func (s *Store) BulkInsertParticulate(ctx context.Context, rows []models.ParticulateRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.rebind(
			`INSERT INTO particulate_reading (sensor_id, timestamp, p1, dur_p1, ratio_p1, p2, dur_p2, ratio_p2)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range rows {
			if _, err := stmt.ExecContext(ctx, r.SensorID, r.Timestamp,
				r.P1, r.DurP1, r.RatioP1, r.P2, r.DurP2, r.RatioP2); err != nil {
				return err
			}
		}
		return nil
	})
}

// BulkInsertClimate appends climate facts inside one transaction.
func (s *Store) BulkInsertClimate(ctx context.Context, rows []models.ClimateRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.rebind(
			`INSERT INTO climate_reading (sensor_id, timestamp, temperature, humidity)
			 VALUES (?, ?, ?, ?)`))
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range rows {
			if _, err := stmt.ExecContext(ctx, r.SensorID, r.Timestamp, r.Temperature, r.Humidity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
