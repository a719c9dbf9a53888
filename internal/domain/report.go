package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReportPlan is everything a renderer needs to draw one monthly report.
type ReportPlan struct {
	LoggerID          string       `json:"logger_id"`
	Month             string       `json:"month"`
	Temperature       SeriesStats  `json:"temperature"`
	Humidity          SeriesStats  `json:"humidity"`
	Cadence           CadenceStats `json:"cadence"`
	Readings          []Reading    `json:"-"`
	Pages             []Page       `json:"pages"`
	SuggestedFilename string       `json:"suggested_filename"`
	GeneratedAt       time.Time    `json:"generated_at"`
}

// SuggestedFilename builds the default export name, e.g.
// ("LOG42", "2024-03") -> "Export_LOG42_2024.03.pdf".
func SuggestedFilename(loggerID, month string) string {
	return fmt.Sprintf("Export_%s_%s.pdf", loggerID, strings.ReplaceAll(month, "-", "."))
}

// Assemble filters ds to month and computes statistics and the table layout.
// It returns *EmptySelectionError when no dataset is loaded, month is empty,
// or month has no readings.
func Assemble(ds *LogDataset, month string, rowsPerHalfPage int) (ReportPlan, error) {
	if ds == nil || month == "" {
		return ReportPlan{}, &EmptySelectionError{Month: month}
	}

	readings := ds.MonthReadings(month)
	if len(readings) == 0 {
		return ReportPlan{}, &EmptySelectionError{Month: month}
	}

	pages, err := PlanPages(NumberRows(readings), rowsPerHalfPage)
	if err != nil {
		return ReportPlan{}, fmt.Errorf("plan pages: %w", err)
	}

	temps := make([]float64, len(readings))
	hums := make([]float64, len(readings))
	stamps := make([]time.Time, len(readings))
	for i, r := range readings {
		temps[i] = r.Temperature
		hums[i] = r.Humidity
		stamps[i] = r.Timestamp
	}

	return ReportPlan{
		LoggerID:          ds.LoggerID(),
		Month:             month,
		Temperature:       ComputeSeriesStats(temps),
		Humidity:          ComputeSeriesStats(hums),
		Cadence:           ComputeCadenceStats(stamps),
		Readings:          readings,
		Pages:             pages,
		SuggestedFilename: SuggestedFilename(ds.LoggerID(), month),
		GeneratedAt:       clock.Now().UTC(),
	}, nil
}
