package csvio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/models"
)

func TestWriteDatasetsHeaderAlwaysPresent(t *testing.T) {
	dir := t.TempDir()

	pPath, cPath, err := WriteDatasets(models.Collected{}, dir)
	require.NoError(t, err)

	pData, err := os.ReadFile(pPath)
	require.NoError(t, err)
	require.Equal(t, strings.Join(models.ParticulateColumns, ",")+"\n", string(pData))

	cData, err := os.ReadFile(cPath)
	require.NoError(t, err)
	require.Equal(t, strings.Join(models.ClimateColumns, ",")+"\n", string(cData))
}

func TestWriteDatasetsFlattensDayGroups(t *testing.T) {
	dir := t.TempDir()

	collected := models.Collected{
		Climate: []models.DayRecords{
			{
				{"sensor_id": "10", "sensor_type": "DHT22", "location": "5",
					"lat": "48.8", "lon": "9.0", "timestamp": "2022-03-14T10:00:00",
					"temperature": "21.5", "humidity": "45.0"},
			},
			{
				{"sensor_id": "10", "sensor_type": "DHT22", "location": "5",
					"lat": "48.8", "lon": "9.0", "timestamp": "2022-03-15T10:00:00",
					"temperature": "19.0", "humidity": "50.1"},
			},
		},
	}

	_, cPath, err := WriteDatasets(collected, dir)
	require.NoError(t, err)

	r, err := Open(cPath)
	require.NoError(t, err)
	defer r.Close()

	var rows []models.RawRecord
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		rows = append(rows, rec)
	}

	require.Len(t, rows, 2)
	require.Equal(t, "21.5", rows[0]["temperature"])
	require.Equal(t, "2022-03-15T10:00:00", rows[1]["timestamp"])
}

func TestWriteDatasetsMissingFieldsSerializeEmpty(t *testing.T) {
	dir := t.TempDir()

	collected := models.Collected{
		Particulate: []models.DayRecords{
			{
				// Only a subset of columns present in the raw record.
				{"sensor_id": "10", "timestamp": "2022-03-14T10:00:00", "P1": "12.5"},
			},
		},
	}

	pPath, _, err := WriteDatasets(collected, dir)
	require.NoError(t, err)

	r, err := Open(pPath)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, "12.5", rec["P1"])
	require.Equal(t, "", rec["P2"])
	require.Equal(t, "", rec["sensor_type"])
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
