package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/Trimetilamin/Temperature-monitor/internal/adapter/http"
	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	"github.com/Trimetilamin/Temperature-monitor/internal/observability"
	"github.com/Trimetilamin/Temperature-monitor/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `Logger export
2024-03-01 00:00:00 LOG42 4.5 60.0 OK
2024-03-01 01:00:00 LOG42 12.5 61.0 OK
2024-03-01 03:00:00 LOG42 6.0 62.0 OK
2024-04-01 00:00:00 LOG42 5.0 58.0 OK
`

type fakeRenderer struct{}

func (fakeRenderer) Render(_ context.Context, plan domain.ReportPlan, w io.Writer) error {
	_, err := io.WriteString(w, "%PDF-1.3 "+plan.Month)
	return err
}

func newTestServer(t *testing.T, load bool) *httpadapter.Server {
	t.Helper()
	session := pipeline.NewSession(fakeRenderer{}, slog.Default(), observability.NewMetricsForTesting())
	if load {
		_, err := session.LoadReader(context.Background(), "sample", strings.NewReader(sampleLog))
		require.NoError(t, err)
	}
	return httpadapter.NewServer(":0", session, slog.Default())
}

func serve(srv *httpadapter.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(t, false), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestReadyzReturns200WhenLoaded(t *testing.T) {
	rec := serve(newTestServer(t, true), http.MethodGet, "/readyz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestReadyzReturns503BeforeLoad(t *testing.T) {
	rec := serve(newTestServer(t, false), http.MethodGet, "/readyz", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no logger file loaded yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(t, false), http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestUploadLog(t *testing.T) {
	srv := newTestServer(t, false)

	rec := serve(srv, http.MethodPost, "/v1/logs?name=march.txt", strings.NewReader(sampleLog))

	require.Equal(t, http.StatusOK, rec.Code)
	var summary pipeline.LoadSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "march.txt", summary.Source)
	assert.Equal(t, "LOG42", summary.LoggerID)
	assert.Equal(t, 4, summary.Readings)
	assert.Equal(t, []string{"2024-03", "2024-04"}, summary.Months)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, domain.SkipShortLine, summary.Skipped[0].Reason)

	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/readyz", nil).Code)
}

func TestUploadLog_InvalidEncoding(t *testing.T) {
	rec := serve(newTestServer(t, false), http.MethodPost, "/v1/logs", strings.NewReader("2024-03-01 \xff"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "upload")
}

func TestMonths(t *testing.T) {
	rec := serve(newTestServer(t, true), http.MethodGet, "/v1/months", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "LOG42", body["logger_id"])
	assert.Equal(t, []any{
		map[string]any{"month": "2024-03", "readings": float64(3)},
		map[string]any{"month": "2024-04", "readings": float64(1)},
	}, body["months"])
}

func TestMonths_NothingLoaded(t *testing.T) {
	rec := serve(newTestServer(t, false), http.MethodGet, "/v1/months", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReport(t *testing.T) {
	rec := serve(newTestServer(t, true), http.MethodGet, "/v1/reports/2024-03", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Export_LOG42_2024.03.pdf", body["suggested_filename"])
	assert.EqualValues(t, 3, body["readings"])
	assert.EqualValues(t, 1, body["table_pages"])

	temp := body["temperature"].(map[string]any)
	assert.EqualValues(t, 1, temp["out_of_bounds"])
	assert.InDelta(t, 23.0/3, temp["mean"], 1e-9)

	cadence := body["cadence"].(map[string]any)
	assert.InDelta(t, 2.0, cadence["max_gap_hours"], 1e-9)
}

func TestReport_SingleReadingEmitsNull(t *testing.T) {
	rec := serve(newTestServer(t, true), http.MethodGet, "/v1/reports/2024-04", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)

	temp := body["temperature"].(map[string]any)
	assert.Nil(t, temp["std_dev"])
	assert.InDelta(t, 5.0, temp["mean"], 1e-9)

	cadence := body["cadence"].(map[string]any)
	assert.Nil(t, cadence["max_gap_hours"])
}

func TestReport_UnknownMonth(t *testing.T) {
	rec := serve(newTestServer(t, true), http.MethodGet, "/v1/reports/1999-01", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "1999-01")
}

func TestReportPDF(t *testing.T) {
	rec := serve(newTestServer(t, true), http.MethodGet, "/v1/reports/2024-03/pdf", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=Export_LOG42_2024.03.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 2024-03", rec.Body.String())
}

func TestReportPDF_NothingLoaded(t *testing.T) {
	rec := serve(newTestServer(t, false), http.MethodGet, "/v1/reports/2024-03/pdf", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestReportPDF_FilenameFromUntrustedLoggerID(t *testing.T) {
	tests := []struct {
		name     string
		loggerID string
		want     string
	}{
		{"non-ascii", "Café-3", "Export_Café-3_2024.03.pdf"},
		{"path separators", "../../etc/LOG1", "LOG1_2024.03.pdf"},
		{"quotes", `LOG"1`, `Export_LOG"1_2024.03.pdf`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := pipeline.NewSession(fakeRenderer{}, slog.Default(), observability.NewMetricsForTesting())
			line := "2024-03-01 00:00:00 " + tt.loggerID + " 4.5 60.0 OK\n"
			_, err := session.LoadReader(context.Background(), "sample", strings.NewReader(line))
			require.NoError(t, err)
			srv := httpadapter.NewServer(":0", session, slog.Default())

			rec := serve(srv, http.MethodGet, "/v1/reports/2024-03/pdf", nil)

			require.Equal(t, http.StatusOK, rec.Code)
			disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, tt.want, params["filename"])
		})
	}
}
