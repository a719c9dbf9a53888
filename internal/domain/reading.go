package domain

import (
	"slices"
	"time"
)

// Fixed storage alarm thresholds in degrees Celsius.
const (
	AlarmLower = 2.0
	AlarmUpper = 10.0
)

// TimestampLayout is the only accepted date+time layout.
const TimestampLayout = "2006-01-02 15:04:05"

// Reading is one validated line of a logger file.
type Reading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Month       string    `json:"month"` // "YYYY-MM"
}

// LogDataset is the result of loading one logger file. It is never modified
// after construction; a new load produces a new dataset.
type LogDataset struct {
	loggerID string
	readings []Reading
	months   []string
	counts   map[string]int
}

// NewLogDataset builds a dataset from readings in file order and derives the
// sorted set of month keys.
func NewLogDataset(loggerID string, readings []Reading) *LogDataset {
	counts := make(map[string]int)
	for _, r := range readings {
		counts[r.Month]++
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	slices.Sort(months)

	return &LogDataset{
		loggerID: loggerID,
		readings: slices.Clone(readings),
		months:   months,
		counts:   counts,
	}
}

// LoggerID returns the logger identifier taken from the first candidate line.
func (d *LogDataset) LoggerID() string { return d.loggerID }

// Len returns the number of accepted readings.
func (d *LogDataset) Len() int { return len(d.readings) }

// Readings returns a copy of all readings in file order.
func (d *LogDataset) Readings() []Reading { return slices.Clone(d.readings) }

// Months returns the sorted unique month keys.
func (d *LogDataset) Months() []string { return slices.Clone(d.months) }

// MonthCount returns how many readings fall in month.
func (d *LogDataset) MonthCount(month string) int { return d.counts[month] }

// MonthReadings returns the readings of one month in file order.
func (d *LogDataset) MonthReadings(month string) []Reading {
	n := d.counts[month]
	if n == 0 {
		return nil
	}
	out := make([]Reading, 0, n)
	for _, r := range d.readings {
		if r.Month == month {
			out = append(out, r)
		}
	}
	return out
}
