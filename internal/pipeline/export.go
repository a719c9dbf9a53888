package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
)

// Plan assembles the report plan for month from the current dataset.
func (s *Session) Plan(month string) (domain.ReportPlan, error) {
	return domain.Assemble(s.dataset.Load(), month, s.rowsPerHalfPage)
}

// Export renders the report for month into w.
func (s *Session) Export(ctx context.Context, month string, w io.Writer) (domain.ReportPlan, error) {
	start := time.Now()

	plan, err := s.render(ctx, month, w)
	if err != nil {
		return plan, err
	}

	s.recordExport(plan, "", start)
	return plan, nil
}

// ExportFile renders the report for month and writes it to dest. An empty
// dest uses the suggested filename in the output directory; a dest naming a
// directory uses the suggested filename inside it. The file is only created
// once rendering has succeeded. It returns the path written.
func (s *Session) ExportFile(ctx context.Context, month, dest string) (string, error) {
	start := time.Now()

	var buf bytes.Buffer
	plan, err := s.render(ctx, month, &buf)
	if err != nil {
		return "", err
	}

	path := s.resolveDest(dest, plan.SuggestedFilename)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		s.metrics.Exports.WithLabelValues("write_error").Inc()
		s.logger.Error("write report failed", "path", path, "error", err)
		return "", fmt.Errorf("write report: %w", err)
	}

	s.recordExport(plan, path, start)
	return path, nil
}

func (s *Session) render(ctx context.Context, month string, w io.Writer) (domain.ReportPlan, error) {
	plan, err := s.Plan(month)
	if err != nil {
		var empty *domain.EmptySelectionError
		if errors.As(err, &empty) {
			s.metrics.Exports.WithLabelValues("empty_selection").Inc()
		} else {
			s.metrics.Exports.WithLabelValues("plan_error").Inc()
		}
		s.logger.Warn("export rejected", "month", month, "error", err)
		return domain.ReportPlan{}, err
	}

	if err := ctx.Err(); err != nil {
		return plan, err
	}
	if s.renderer == nil {
		return plan, errors.New("no renderer configured")
	}

	if err := s.renderer.Render(ctx, plan, w); err != nil {
		s.metrics.Exports.WithLabelValues("render_error").Inc()
		s.logger.Error("render report failed", "month", month, "error", err)
		return plan, fmt.Errorf("render report: %w", err)
	}
	return plan, nil
}

func (s *Session) recordExport(plan domain.ReportPlan, path string, start time.Time) {
	s.metrics.Exports.WithLabelValues("success").Inc()
	s.metrics.ExportDuration.Observe(time.Since(start).Seconds())
	s.metrics.ReportPages.Observe(float64(len(plan.Pages)))

	s.logger.Info("report exported",
		"logger_id", plan.LoggerID,
		"month", plan.Month,
		"readings", len(plan.Readings),
		"table_pages", len(plan.Pages),
		"path", path,
	)
}

func (s *Session) resolveDest(dest, suggested string) string {
	// The logger id inside suggested comes from the file; keep it in one directory.
	suggested = filepath.Base(suggested)
	if dest == "" {
		return filepath.Join(s.outputDir, suggested)
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return filepath.Join(dest, suggested)
	}
	if filepath.Ext(dest) == "" {
		return dest + ".pdf"
	}
	return dest
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place so readers never see a partial document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".templog-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
