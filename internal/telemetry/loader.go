package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Required header columns, case-sensitive. Column order in the source
// file does not matter and extra columns are ignored.
var requiredColumns = []string{
	"timestamp",
	"latitude",
	"longitude",
	"altitude",
	"velocity",
	"battery",
}

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var (
	ErrMissingColumn = errors.New("required column missing")
	ErrEmptyInput    = errors.New("input contains no header row")
)

// ParseError reports the first malformed header or cell encountered
// while loading a flight log. A single bad row fails the whole load;
// there is no best-effort mode.
type ParseError struct {
	Row    int    // 1-based data row, 0 for header errors
	Column string // Column name, when known
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row == 0 && e.Column != "":
		return fmt.Sprintf("parsing telemetry header: column %q: %s", e.Column, e.Err)
	case e.Row == 0:
		return fmt.Sprintf("parsing telemetry header: %s", e.Err)
	case e.Column != "":
		return fmt.Sprintf("parsing telemetry row %d: column %q: %s", e.Row, e.Column, e.Err)
	default:
		return fmt.Sprintf("parsing telemetry row %d: %s", e.Row, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads a CSV flight log and returns its samples in file order.
func Load(r io.Reader) (Sequence, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Err: ErrEmptyInput}
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, &ParseError{Column: name, Err: ErrMissingColumn}
		}
	}

	var seq Sequence
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Row: row, Err: err}
		}

		sample, err := parseSample(record, columns, row)
		if err != nil {
			return nil, err
		}
		seq = append(seq, sample)
	}

	return seq, nil
}

// LoadFile reads a CSV flight log from disk.
func LoadFile(path string) (Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening flight log: %w", err)
	}
	defer f.Close()

	seq, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading flight log %s: %w", path, err)
	}
	return seq, nil
}

func parseSample(record []string, columns map[string]int, row int) (Sample, error) {
	ts, err := parseTimestamp(record[columns["timestamp"]])
	if err != nil {
		return Sample{}, &ParseError{Row: row, Column: "timestamp", Err: err}
	}

	sample := Sample{Timestamp: ts}
	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{"latitude", &sample.Latitude},
		{"longitude", &sample.Longitude},
		{"altitude", &sample.Altitude},
		{"velocity", &sample.Velocity},
		{"battery", &sample.Battery},
	} {
		v, err := strconv.ParseFloat(record[columns[field.name]], 64)
		if err != nil {
			return Sample{}, &ParseError{Row: row, Column: field.name, Err: err}
		}
		*field.dst = v
	}

	return sample, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
