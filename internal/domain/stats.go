package domain

import (
	"math"
	"time"
)

// SeriesStats summarizes one measurement series of a month.
//
// StdDev is the sample standard deviation. It is NaN for a single value, and
// then both sigma coverages are 0 because no value compares within a NaN band.
type SeriesStats struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	OutOfBounds  int     `json:"out_of_bounds"`
	Within1Sigma float64 `json:"within_1_sigma_pct"`
	Within2Sigma float64 `json:"within_2_sigma_pct"`
}

// CadenceStats describes how often the logger sampled.
type CadenceStats struct {
	Count       int     `json:"count"`
	AvgPerDay   float64 `json:"avg_per_day"`
	MaxGapHours float64 `json:"max_gap_hours"`
}

// ComputeSeriesStats returns the summary of values. An empty series yields
// NaN for every float field except the coverages.
func ComputeSeriesStats(values []float64) SeriesStats {
	n := len(values)
	if n == 0 {
		nan := math.NaN()
		return SeriesStats{Mean: nan, StdDev: nan, Min: nan, Max: nan}
	}

	s := SeriesStats{Count: n, Min: values[0], Max: values[0]}

	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		if v < AlarmLower || v > AlarmUpper {
			s.OutOfBounds++
		}
	}
	s.Mean = sum / float64(n)
	s.StdDev = sampleStdDev(values, s.Mean)
	s.Within1Sigma = withinSigma(values, s.Mean, s.StdDev, 1)
	s.Within2Sigma = withinSigma(values, s.Mean, s.StdDev, 2)
	return s
}

func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// withinSigma returns the percentage of values inside [mean-k*sd, mean+k*sd].
func withinSigma(values []float64, mean, sd, k float64) float64 {
	lo, hi := mean-k*sd, mean+k*sd
	in := 0
	for _, v := range values {
		if v >= lo && v <= hi {
			in++
		}
	}
	return float64(in) / float64(len(values)) * 100
}

// ComputeCadenceStats derives sampling cadence from timestamps in the order
// given. The caller guarantees chronological order; nothing is re-sorted.
// MaxGapHours is NaN with fewer than two timestamps.
func ComputeCadenceStats(timestamps []time.Time) CadenceStats {
	c := CadenceStats{Count: len(timestamps), AvgPerDay: math.NaN(), MaxGapHours: math.NaN()}
	if len(timestamps) == 0 {
		return c
	}

	days := make(map[string]struct{})
	for _, ts := range timestamps {
		days[ts.UTC().Format(time.DateOnly)] = struct{}{}
	}
	c.AvgPerDay = float64(len(timestamps)) / float64(len(days))

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1]).Hours()
		if i == 1 || gap > c.MaxGapHours {
			c.MaxGapHours = gap
		}
	}
	return c
}
