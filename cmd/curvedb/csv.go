package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts epoch seconds or one of timeLayouts, read as UTC.
func parseTime(field string) (int64, error) {
	field = strings.TrimSpace(field)
	if epoch, err := strconv.ParseInt(field, 10, 64); err == nil {
		return epoch, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, field, time.UTC); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized time %q", field)
}

// readCurve reads time,value rows. A first row whose fields do not parse is
// taken as a header and skipped; extra columns are ignored.
func readCurve(r io.Reader) ([]int64, []float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	times := make([]int64, 0)
	values := make([]float64, 0)
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(record) < 2 {
			return nil, nil, fmt.Errorf("line %d: want time,value, got %d fields", row+1, len(record))
		}

		t, timeErr := parseTime(record[0])
		v, valueErr := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if timeErr != nil || valueErr != nil {
			if row == 0 {
				continue
			}
			if timeErr != nil {
				return nil, nil, fmt.Errorf("line %d: %w", row+1, timeErr)
			}
			return nil, nil, fmt.Errorf("line %d: %w", row+1, valueErr)
		}
		times = append(times, t)
		values = append(values, v)
	}
	return times, values, nil
}

func formatTime(t int64, epoch bool) string {
	if epoch {
		return strconv.FormatInt(t, 10)
	}
	return time.Unix(t, 0).UTC().Format(time.RFC3339)
}

func writeCurve(w io.Writer, times []int64, values []float64, epoch bool) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"time", "value"}); err != nil {
		return err
	}
	for i := range times {
		record := []string{
			formatTime(times[i], epoch),
			strconv.FormatFloat(values[i], 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
