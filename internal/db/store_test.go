package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }
func sptr(v string) *string   { return &v }

func TestUpsertLocationFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.UpsertLocation(ctx, 5, fptr(48.8), fptr(9.0)))
	require.NoError(t, store.UpsertLocation(ctx, 5, fptr(1.0), fptr(2.0)))

	var lat, lon float64
	err := store.DB.QueryRow("SELECT lat, lon FROM location WHERE location_id = 5").Scan(&lat, &lon)
	require.NoError(t, err)
	require.Equal(t, 48.8, lat)
	require.Equal(t, 9.0, lon)

	n, err := store.CountRows(ctx, "location")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestUpsertSensorFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.UpsertSensor(ctx, 10, "SDS011", iptr(5)))
	require.NoError(t, store.UpsertSensor(ctx, 10, "DHT22", nil))

	var sensorType string
	err := store.DB.QueryRow("SELECT sensor_type FROM sensor WHERE sensor_id = 10").Scan(&sensorType)
	require.NoError(t, err)
	require.Equal(t, "SDS011", sensorType)
}

func TestUpsertLocationNullCoordinates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.UpsertLocation(ctx, 7, nil, nil))

	var lat, lon *float64
	err := store.DB.QueryRow("SELECT lat, lon FROM location WHERE location_id = 7").Scan(&lat, &lon)
	require.NoError(t, err)
	require.Nil(t, lat)
	require.Nil(t, lon)
}

func TestBulkInsertParticulateNullableFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rows := []models.ParticulateRow{
		{SensorID: iptr(10), Timestamp: sptr("2022-03-14T10:00:00"), P1: fptr(12.5), P2: fptr(6.1)},
		{SensorID: nil, Timestamp: sptr("2022-03-14T11:00:00")},
	}
	require.NoError(t, store.BulkInsertParticulate(ctx, rows))

	n, err := store.CountRows(ctx, "particulate_reading")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	var sensorID *int64
	var p1 *float64
	err = store.DB.QueryRow(
		"SELECT sensor_id, p1 FROM particulate_reading WHERE timestamp = '2022-03-14T11:00:00'").Scan(&sensorID, &p1)
	require.NoError(t, err)
	require.Nil(t, sensorID)
	require.Nil(t, p1)
}

func TestReingestDuplicatesFacts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rows := []models.ClimateRow{
		{SensorID: iptr(10), Timestamp: sptr("2022-03-14T10:00:00"), Temperature: fptr(20)},
	}
	require.NoError(t, store.BulkInsertClimate(ctx, rows))
	require.NoError(t, store.BulkInsertClimate(ctx, rows))

	n, err := store.CountRows(ctx, "climate_reading")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestGetTemperatureSummary(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rows := []models.ClimateRow{
		{SensorID: iptr(10), Timestamp: sptr("2022-03-14T10:00:00"), Temperature: fptr(20), Humidity: fptr(40)},
		{SensorID: iptr(10), Timestamp: sptr("2022-03-14T18:00:00"), Temperature: fptr(22), Humidity: fptr(42)},
		{SensorID: iptr(10), Timestamp: sptr("2022-03-15T10:00:00"), Temperature: fptr(99), Humidity: fptr(10)},
	}
	require.NoError(t, store.BulkInsertClimate(ctx, rows))

	summary, err := store.GetTemperatureSummary(ctx, "2022-03-14")
	require.NoError(t, err)
	require.NotNil(t, summary.Avg)
	require.InDelta(t, 21.0, *summary.Avg, 1e-9)
	require.Equal(t, 20.0, *summary.Min)
	require.Equal(t, 22.0, *summary.Max)
}

func TestGetTemperatureSummaryEmptyDayIsNull(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	summary, err := store.GetTemperatureSummary(ctx, "1999-01-01")
	require.NoError(t, err)
	require.Nil(t, summary.Avg)
	require.Nil(t, summary.Min)
	require.Nil(t, summary.Max)
}

func TestGetParticulateDayOrdered(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rows := []models.ParticulateRow{
		{SensorID: iptr(10), Timestamp: sptr("2022-03-14T18:00:00"), P1: fptr(30), P2: fptr(15)},
		{SensorID: iptr(10), Timestamp: sptr("2022-03-14T06:00:00"), P1: fptr(10), P2: fptr(5)},
		{SensorID: iptr(10), Timestamp: sptr("2022-03-15T06:00:00"), P1: fptr(99), P2: fptr(99)},
	}
	require.NoError(t, store.BulkInsertParticulate(ctx, rows))

	points, err := store.GetParticulateDay(ctx, "2022-03-14")
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "2022-03-14T06:00:00", points[0].Timestamp)
	require.Equal(t, "2022-03-14T18:00:00", points[1].Timestamp)
}

func TestGetTemperatureYearSkipsNulls(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rows := []models.ClimateRow{
		{SensorID: iptr(10), Timestamp: sptr("2022-01-05T10:00:00"), Temperature: fptr(3)},
		{SensorID: iptr(10), Timestamp: sptr("2022-07-05T10:00:00"), Temperature: nil},
		{SensorID: iptr(10), Timestamp: sptr("2023-01-05T10:00:00"), Temperature: fptr(5)},
	}
	require.NoError(t, store.BulkInsertClimate(ctx, rows))

	points, err := store.GetTemperatureYear(ctx, "2022")
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.Equal(t, 3.0, points[0].Temperature)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "whatever")
	require.Error(t, err)
}
