package domain

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// minTokens is the smallest token count of a candidate record line.
const minTokens = 6

// SkipReason explains why a line produced no reading.
type SkipReason string

const (
	SkipShortLine      SkipReason = "short_line"
	SkipBadTimestamp   SkipReason = "bad_timestamp"
	SkipBadTemperature SkipReason = "bad_temperature"
	SkipBadHumidity    SkipReason = "bad_humidity"
)

// LineDiagnostic describes one skipped line. Line is 1-based.
type LineDiagnostic struct {
	Line   int        `json:"line"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a logger file and returns the dataset plus diagnostics for
// every non-blank line that was skipped. The only error is an *IOError for a
// failed read or content that is not valid UTF-8; malformed lines never fail
// the parse.
func Parse(r io.Reader) (*LogDataset, []LineDiagnostic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, &IOError{Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, nil, &IOError{Err: errors.New("content is not valid UTF-8")}
	}

	ds, diags := ParseLines(splitLines(string(data)))
	return ds, diags, nil
}

// ParseLines folds already-split lines into a dataset.
func ParseLines(lines []string) (*LogDataset, []LineDiagnostic) {
	var (
		readings []Reading
		diags    []LineDiagnostic
		loggerID string
		haveID   bool
	)

	for i, line := range lines {
		tokens := tokenize(line)
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) < minTokens {
			diags = append(diags, LineDiagnostic{
				Line:   i + 1,
				Reason: SkipShortLine,
				Detail: fmt.Sprintf("%d tokens", len(tokens)),
			})
			continue
		}
		if !haveID {
			loggerID = tokens[2]
			haveID = true
		}

		reading, reason, detail := parseLine(tokens)
		if reason != "" {
			diags = append(diags, LineDiagnostic{Line: i + 1, Reason: reason, Detail: detail})
			continue
		}
		readings = append(readings, reading)
	}

	return NewLogDataset(loggerID, readings), diags
}

// splitLines breaks content on \n, \r\n and lone \r.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// tokenize strips NUL bytes and splits on whitespace.
func tokenize(line string) []string {
	return strings.Fields(strings.ReplaceAll(line, "\x00", ""))
}

// parseLine converts the tokens of a candidate line into a Reading. A
// non-empty SkipReason means the line must be dropped.
func parseLine(tokens []string) (Reading, SkipReason, string) {
	date := tokens[0]
	stamp := date + " " + tokens[1]

	// time.Parse tolerates a one-digit hour and trailing fractional seconds.
	if len(stamp) != len(TimestampLayout) {
		return Reading{}, SkipBadTimestamp, fmt.Sprintf("%q", stamp)
	}
	ts, err := time.Parse(TimestampLayout, stamp)
	if err != nil {
		return Reading{}, SkipBadTimestamp, fmt.Sprintf("%q", stamp)
	}

	temp, ok := parseMeasurement(tokens[3])
	if !ok {
		return Reading{}, SkipBadTemperature, fmt.Sprintf("%q", tokens[3])
	}

	hum, ok := parseMeasurement(tokens[4])
	if !ok {
		return Reading{}, SkipBadHumidity, fmt.Sprintf("%q", tokens[4])
	}

	return Reading{
		Timestamp:   ts,
		Temperature: temp,
		Humidity:    hum,
		Month:       monthKey(date),
	}, "", ""
}

// parseMeasurement accepts finite decimal numbers only. Hex floats, digit
// separators, NaN and infinities are rejected.
func parseMeasurement(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// monthKey returns "YYYY-MM" from a "YYYY-MM-DD" date token.
func monthKey(date string) string {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) < 2 {
		return date
	}
	return parts[0] + "-" + parts[1]
}
