package pdf

import (
	"fmt"
	"strings"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
)

// Default chart ranges. The temperature range widens when data leaves it.
const (
	tempAxisMin = 0.0
	tempAxisMax = 15.0
	humAxisMin  = 0.0
	humAxisMax  = 100.0
)

// AxisRange is the y range of a chart.
type AxisRange struct {
	Min float64
	Max float64
}

// TemperatureAxis returns 0..15 unless a reading falls outside it, in which
// case the range becomes min-1..max+1.
func TemperatureAxis(s domain.SeriesStats) AxisRange {
	if s.Count > 0 && (s.Min < tempAxisMin || s.Max > tempAxisMax) {
		return AxisRange{Min: s.Min - 1, Max: s.Max + 1}
	}
	return AxisRange{Min: tempAxisMin, Max: tempAxisMax}
}

// HumidityAxis is always 0..100.
func HumidityAxis() AxisRange {
	return AxisRange{Min: humAxisMin, Max: humAxisMax}
}

// TemperatureSummary is the text of the temperature box on the cover page.
func TemperatureSummary(s domain.SeriesStats) string {
	return joinLines(
		fmt.Sprintf("Average = (%.2f ± %.2f) °C", s.Mean, s.StdDev),
		"",
		fmt.Sprintf("Minimum = %.2f°C", s.Min),
		fmt.Sprintf("Maximum = %.2f°C", s.Max),
		"",
		"Percentage of datapoints within",
		fmt.Sprintf(" - 1 standard deviation = %.1f%%", s.Within1Sigma),
		fmt.Sprintf(" - 2 standard deviation = %.1f%%", s.Within2Sigma),
		"",
		"Data points outside",
		fmt.Sprintf("%g-%g°C interval: %d", domain.AlarmLower, domain.AlarmUpper, s.OutOfBounds),
	)
}

// HumiditySummary is the text of the humidity box on the cover page.
func HumiditySummary(s domain.SeriesStats) string {
	return joinLines(
		fmt.Sprintf("Average = (%.2f ± %.2f) %%", s.Mean, s.StdDev),
		"",
		fmt.Sprintf("Minimum = %.2f%%", s.Min),
		fmt.Sprintf("Maximum = %.2f%%", s.Max),
		"",
		"Percentage of datapoints within",
		fmt.Sprintf(" - 1 standard deviation = %.1f%%", s.Within1Sigma),
		fmt.Sprintf(" - 2 standard deviation = %.1f%%", s.Within2Sigma),
	)
}

// CadenceSummary is the text of the additional stats box on the cover page.
func CadenceSummary(c domain.CadenceStats) string {
	return joinLines(
		fmt.Sprintf("Number of measurements: %d", c.Count),
		"",
		"Average number of",
		fmt.Sprintf("measurements per day: %.2f", c.AvgPerDay),
		"",
		"Maximum time between",
		fmt.Sprintf("two signal transmissions: %.2f hours", c.MaxGapHours),
	)
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}

// tableColumns are the headings of each half-page table.
var tableColumns = [4]string{"Number", "Time", "Temperature", "Humidity"}

func tableCells(r domain.Row) [4]string {
	return [4]string{
		fmt.Sprintf("%d", r.Seq),
		r.Timestamp.Format(domain.TimestampLayout),
		fmt.Sprintf("%g", r.Temperature),
		fmt.Sprintf("%g", r.Humidity),
	}
}
