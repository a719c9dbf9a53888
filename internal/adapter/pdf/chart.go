package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 1200
	chartHeight = 460
)

// chartSpec describes one time series chart on the cover page.
type chartSpec struct {
	Title  string
	YName  string
	Axis   AxisRange
	Value  func(domain.Reading) float64
	Alarms []float64
}

func temperatureChart(plan domain.ReportPlan) chartSpec {
	return chartSpec{
		Title:  "Temperature over time",
		YName:  "Temp (°C)",
		Axis:   TemperatureAxis(plan.Temperature),
		Value:  func(r domain.Reading) float64 { return r.Temperature },
		Alarms: []float64{domain.AlarmLower, domain.AlarmUpper},
	}
}

func humidityChart() chartSpec {
	return chartSpec{
		Title: "Humidity over time",
		YName: "Hum (%)",
		Axis:  HumidityAxis(),
		Value: func(r domain.Reading) float64 { return r.Humidity },
	}
}

// renderChart draws readings as a PNG line chart.
func renderChart(readings []domain.Reading, spec chartSpec) ([]byte, error) {
	if len(readings) == 0 {
		return nil, errors.New("no readings to plot")
	}

	xs := make([]time.Time, 0, len(readings)+1)
	ys := make([]float64, 0, len(readings)+1)
	lo, hi := readings[0].Timestamp, readings[0].Timestamp
	for _, r := range readings {
		xs = append(xs, r.Timestamp)
		ys = append(ys, spec.Value(r))
		if r.Timestamp.Before(lo) {
			lo = r.Timestamp
		}
		if r.Timestamp.After(hi) {
			hi = r.Timestamp
		}
	}
	// go-chart cannot build an x range of zero width.
	if !hi.After(lo) {
		hi = lo.Add(time.Second)
		xs = append(xs, hi)
		ys = append(ys, ys[len(ys)-1])
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    spec.Title,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5},
		},
	}
	for _, level := range spec.Alarms {
		series = append(series, chart.TimeSeries{
			Name:    fmt.Sprintf("limit %g", level),
			XValues: []time.Time{lo, hi},
			YValues: []float64{level, level},
			Style: chart.Style{
				StrokeColor:     drawing.ColorRed,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{6, 4},
			},
		})
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
		},
		YAxis: chart.YAxis{
			Name:  spec.YName,
			Range: &chart.ContinuousRange{Min: spec.Axis.Min, Max: spec.Axis.Max},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart %q: %w", spec.Title, err)
	}
	return buf.Bytes(), nil
}
