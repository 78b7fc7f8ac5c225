package archive

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/02loveslollipop/Hokori-airquality-archive/internal/models"
)

// ErrUnavailable marks a day whose file could not be reached (404,
// unreachable host, timeout). Callers skip the day instead of aborting;
// any other error from Fetch means the body was fetched but not decodable.
var ErrUnavailable = errors.New("archive day not available")

// Fetcher resolves one archive URL into decoded rows.
type Fetcher struct {
	Client *http.Client
}

// NewFetcher creates a fetcher using the given HTTP client.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{Client: client}
}

// Fetch downloads one day's file and decodes it into header-keyed records.
// Gzipped bodies (recognized by the URL suffix) are decompressed
// transparently. Transport failures of any kind come back wrapping
// ErrUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, src models.SourceURL) ([]models.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", src.URL, err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnavailable, src.URL, resp.Status)
	}

	body := io.Reader(resp.Body)
	if strings.HasSuffix(src.URL, ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("open gzip body of %s: %w", src.URL, err)
		}
		defer gz.Close()
		body = gz
	}

	records, err := decodeRows(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.URL, err)
	}
	return records, nil
}

// decodeRows reads semicolon-delimited, header-first tabular text. Rows may
// be ragged; fields beyond the header or missing at the tail are dropped.
func decodeRows(r io.Reader) ([]models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []models.RawRecord
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		rec := make(models.RawRecord, len(header))
		for i, name := range header {
			if i < len(fields) {
				rec[name] = fields[i]
			}
		}
		records = append(records, rec)
	}
}
