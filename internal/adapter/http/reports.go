package http

import (
	"bytes"
	"errors"
	"math"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

type monthJSON struct {
	Month    string `json:"month"`
	Readings int    `json:"readings"`
}

type monthsResponse struct {
	LoggerID string      `json:"logger_id"`
	Months   []monthJSON `json:"months"`
}

// JSON has no NaN, so undefined statistics are emitted as null.
type seriesJSON struct {
	Count        int      `json:"count"`
	Mean         *float64 `json:"mean"`
	StdDev       *float64 `json:"std_dev"`
	Min          *float64 `json:"min"`
	Max          *float64 `json:"max"`
	OutOfBounds  int      `json:"out_of_bounds"`
	Within1Sigma float64  `json:"within_1_sigma_pct"`
	Within2Sigma float64  `json:"within_2_sigma_pct"`
}

type cadenceJSON struct {
	Count       int      `json:"count"`
	AvgPerDay   *float64 `json:"avg_per_day"`
	MaxGapHours *float64 `json:"max_gap_hours"`
}

type reportResponse struct {
	LoggerID          string      `json:"logger_id"`
	Month             string      `json:"month"`
	Temperature       seriesJSON  `json:"temperature"`
	Humidity          seriesJSON  `json:"humidity"`
	Cadence           cadenceJSON `json:"cadence"`
	Readings          int         `json:"readings"`
	TablePages        int         `json:"table_pages"`
	SuggestedFilename string      `json:"suggested_filename"`
	GeneratedAt       time.Time   `json:"generated_at"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("name")
	if source == "" {
		source = "upload"
	}

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	summary, err := s.service.LoadReader(r.Context(), source, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonths(w http.ResponseWriter, _ *http.Request) {
	ds := s.service.Dataset()
	if ds == nil {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "no logger file loaded"})
		return
	}

	resp := monthsResponse{LoggerID: ds.LoggerID(), Months: []monthJSON{}}
	for _, m := range ds.Months() {
		resp.Months = append(resp.Months, monthJSON{Month: m, Readings: ds.MonthCount(m)})
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	plan, err := s.service.Plan(r.PathValue("month"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, newReportResponse(plan))
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	plan, err := s.service.Export(r.Context(), r.PathValue("month"), &buf)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": filepath.Base(plan.SuggestedFilename),
	}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w) //nolint:errcheck // client may have gone away
}

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		notFound *domain.ResourceError
		ioErr    *domain.IOError
		empty    *domain.EmptySelectionError
		tooLarge *http.MaxBytesError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.As(err, &notFound), errors.As(err, &empty):
		status = http.StatusNotFound
	case errors.As(err, &ioErr):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}

func newReportResponse(plan domain.ReportPlan) reportResponse {
	return reportResponse{
		LoggerID:    plan.LoggerID,
		Month:       plan.Month,
		Temperature: newSeriesJSON(plan.Temperature),
		Humidity:    newSeriesJSON(plan.Humidity),
		Cadence: cadenceJSON{
			Count:       plan.Cadence.Count,
			AvgPerDay:   finite(plan.Cadence.AvgPerDay),
			MaxGapHours: finite(plan.Cadence.MaxGapHours),
		},
		Readings:          len(plan.Readings),
		TablePages:        len(plan.Pages),
		SuggestedFilename: plan.SuggestedFilename,
		GeneratedAt:       plan.GeneratedAt,
	}
}

func newSeriesJSON(st domain.SeriesStats) seriesJSON {
	return seriesJSON{
		Count:        st.Count,
		Mean:         finite(st.Mean),
		StdDev:       finite(st.StdDev),
		Min:          finite(st.Min),
		Max:          finite(st.Max),
		OutOfBounds:  st.OutOfBounds,
		Within1Sigma: st.Within1Sigma,
		Within2Sigma: st.Within2Sigma,
	}
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
