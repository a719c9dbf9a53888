package pipeline

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	"github.com/Trimetilamin/Temperature-monitor/internal/observability"
	"github.com/dustin/go-humanize"
)

// Renderer draws a report plan into a document.
type Renderer interface {
	Render(ctx context.Context, plan domain.ReportPlan, w io.Writer) error
}

// LoadSummary describes the outcome of one successful load.
type LoadSummary struct {
	Source   string                  `json:"source"`
	LoggerID string                  `json:"logger_id"`
	Readings int                     `json:"readings"`
	Months   []string                `json:"months"`
	Skipped  []domain.LineDiagnostic `json:"skipped"`
	Bytes    int64                   `json:"bytes"`
}

// Session owns the currently loaded dataset and runs the
// load -> select -> export sequence against it.
type Session struct {
	renderer        Renderer
	logger          *slog.Logger
	metrics         *observability.Metrics
	dataset         atomic.Pointer[domain.LogDataset]
	rowsPerHalfPage int
	outputDir       string
}

// Option configures a Session.
type Option func(*Session)

// WithRowsPerHalfPage sets how many readings one table column holds.
func WithRowsPerHalfPage(n int) Option {
	return func(s *Session) { s.rowsPerHalfPage = n }
}

// WithOutputDir sets the directory used when an export has no destination.
func WithOutputDir(dir string) Option {
	return func(s *Session) { s.outputDir = dir }
}

// NewSession creates a Session with no dataset loaded.
func NewSession(renderer Renderer, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Session {
	s := &Session{
		renderer:        renderer,
		logger:          logger,
		metrics:         metrics,
		rowsPerHalfPage: 70,
		outputDir:       ".",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the logger file at path and replaces the current dataset. On
// error the previous dataset stays active.
func (s *Session) Load(ctx context.Context, path string) (LoadSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.metrics.Loads.WithLabelValues("not_found").Inc()
			s.logger.Warn("log file not found", "path", path)
			return LoadSummary{}, &domain.ResourceError{Path: path, Err: err}
		}
		s.metrics.Loads.WithLabelValues("io_error").Inc()
		s.logger.Warn("open log file failed", "path", path, "error", err)
		return LoadSummary{}, &domain.IOError{Path: path, Err: err}
	}
	defer f.Close()

	return s.LoadReader(ctx, path, f)
}

// LoadReader parses r as a logger file named source and replaces the current
// dataset. The new dataset is built completely before it is published.
func (s *Session) LoadReader(ctx context.Context, source string, r io.Reader) (LoadSummary, error) {
	if err := ctx.Err(); err != nil {
		return LoadSummary{}, err
	}

	cr := &countingReader{r: r}
	ds, diags, err := domain.Parse(cr)
	if err != nil {
		var ioErr *domain.IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = source
		}
		s.metrics.Loads.WithLabelValues("io_error").Inc()
		s.logger.Warn("read log file failed", "source", source, "error", err)
		return LoadSummary{}, err
	}

	s.dataset.Store(ds)

	s.metrics.Loads.WithLabelValues("success").Inc()
	s.metrics.LinesRead.Add(float64(ds.Len() + len(diags)))
	s.metrics.ReadingsParsed.Add(float64(ds.Len()))
	s.metrics.DatasetSize.Set(float64(ds.Len()))
	for _, d := range diags {
		s.metrics.LinesSkipped.WithLabelValues(string(d.Reason)).Inc()
		s.logger.Debug("skipped log line", "source", source, "line", d.Line, "reason", d.Reason, "detail", d.Detail)
	}

	s.logger.Info("log file loaded",
		"source", source,
		"size", humanize.Bytes(uint64(cr.n)),
		"logger_id", ds.LoggerID(),
		"readings", ds.Len(),
		"months", len(ds.Months()),
		"skipped", len(diags),
	)

	return LoadSummary{
		Source:   source,
		LoggerID: ds.LoggerID(),
		Readings: ds.Len(),
		Months:   ds.Months(),
		Skipped:  diags,
		Bytes:    cr.n,
	}, nil
}

// Dataset returns the current dataset, or nil before the first load.
func (s *Session) Dataset() *domain.LogDataset {
	return s.dataset.Load()
}

// Months returns the month keys of the current dataset.
func (s *Session) Months() []string {
	ds := s.dataset.Load()
	if ds == nil {
		return nil
	}
	return ds.Months()
}

// LoggerID returns the logger id of the current dataset.
func (s *Session) LoggerID() string {
	ds := s.dataset.Load()
	if ds == nil {
		return ""
	}
	return ds.LoggerID()
}

// CheckReadiness returns nil once a logger file has been loaded.
func (s *Session) CheckReadiness(_ context.Context) error {
	if s.dataset.Load() == nil {
		return errors.New("no logger file loaded yet")
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
