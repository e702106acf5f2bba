package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"thermospline/internal/metrics"
)

// TimeLayout is the datetime format used by the input data: ISO-8601 with
// millisecond precision and a numeric zone offset, e.g.
// 2019-04-13T17:51:16.000+0000.
const TimeLayout = "2006-01-02T15:04:05.000-0700"

// Columns is the CSV column order used for both input and output files.
var Columns = []string{"source_id", "datetime", "property_name", "temperature"}

// LoadStats accounts for what happened while reading a file. Malformed rows
// are skipped, not fatal, so callers can report partial success.
type LoadStats struct {
	Total   int
	Loaded  int
	Skipped int
	Errors  []string
}

// Load reads a temperature CSV file into a Series.
func Load(path string) (Series, *LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read reads temperature samples from a CSV stream. The first line must be a
// header containing at least the source_id, datetime, property_name and
// temperature columns, in any order.
func Read(r io.Reader) (Series, *LoadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &LoadStats{}, nil
		}
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	headerMap := make(map[string]int)
	for i, h := range headers {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range Columns {
		if _, ok := headerMap[col]; !ok {
			return nil, nil, fmt.Errorf("missing required csv header: %s", col)
		}
	}

	stats := &LoadStats{}
	var out Series

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		stats.Total++
		if err != nil {
			stats.Skipped++
			stats.Errors = append(stats.Errors, fmt.Sprintf("line %d: %v", stats.Total+1, err))
			metrics.RowsSkipped.Inc()
			continue
		}

		smp, err := parseRecord(record, headerMap)
		if err != nil {
			stats.Skipped++
			stats.Errors = append(stats.Errors, fmt.Sprintf("line %d: %v", stats.Total+1, err))
			metrics.RowsSkipped.Inc()
			continue
		}

		out = append(out, smp)
		stats.Loaded++
		metrics.RowsRead.Inc()
	}

	return out, stats, nil
}

func parseRecord(record []string, headerMap map[string]int) (Sample, error) {
	get := func(col string) string {
		if idx, ok := headerMap[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	tsStr := get("datetime")
	ts, err := time.Parse(TimeLayout, tsStr)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid datetime %q: %v", tsStr, err)
	}

	valStr := get("temperature")
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid temperature %q", valStr)
	}

	prop := get("property_name")
	if prop == "" {
		return Sample{}, fmt.Errorf("property_name is empty")
	}

	return Sample{
		Source:   get("source_id"),
		Time:     ts,
		Property: prop,
		Value:    val,
	}, nil
}

// Write writes a series to a CSV file in the original column order.
func Write(path string, s Series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteTo(f, s); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteTo writes a series as CSV to w, header included.
func WriteTo(w io.Writer, s Series) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, smp := range s {
		record := []string{
			smp.Source,
			smp.Time.Format(TimeLayout),
			smp.Property,
			strconv.FormatFloat(smp.Value, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
		metrics.RowsWritten.Inc()
	}

	writer.Flush()
	return writer.Error()
}
