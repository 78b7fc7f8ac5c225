package ingest

import (
	"strconv"
	"strings"
)

// The archive's field data is messy: empty cells, stray tokens, truncated
// rows. Coercion never fails; anything that does not parse becomes nil and
// persists as NULL, never as a zero default.

func coerceFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func coerceInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func coerceText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
