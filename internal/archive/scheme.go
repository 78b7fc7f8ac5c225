package archive

import "strings"

// namingScheme describes how the archive names one day's files. The archive
// changed its layout over time, so schemes are keyed by year range and the
// matching entry is a hard external contract: a wrong suffix or a missing
// year directory silently turns into 404s.
type namingScheme struct {
	fromYear        int
	toYear          int
	yearPrefix      bool
	particulateFile string
	climateFile     string
}

// schemes lists the historical layouts, newest contract first. Future layout
// changes get a new entry here; nothing else needs touching.
var schemes = []namingScheme{
	{
		fromYear:        2015,
		toYear:          2024,
		yearPrefix:      true,
		particulateFile: "_sds011_sensor_321.csv.gz",
		climateFile:     "_dht22_sensor_322.csv.gz",
	},
}

// defaultScheme covers every year outside the table.
var defaultScheme = namingScheme{
	particulateFile: "_sds011_sensor_3659.csv",
	climateFile:     "_dht22_sensor_3660.csv",
}

func schemeFor(year int) namingScheme {
	for _, s := range schemes {
		if year >= s.fromYear && year <= s.toYear {
			return s
		}
	}
	return defaultScheme
}

// compressed reports whether a filename produced by a scheme is gzipped.
func compressed(name string) bool {
	return strings.HasSuffix(name, ".gz")
}
