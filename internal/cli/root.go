// Package cli implements the templog command-line interface.
package cli

import (
	"errors"
	"log/slog"

	"github.com/Trimetilamin/Temperature-monitor/internal/adapter/assets"
	"github.com/Trimetilamin/Temperature-monitor/internal/adapter/pdf"
	"github.com/Trimetilamin/Temperature-monitor/internal/config"
	"github.com/Trimetilamin/Temperature-monitor/internal/observability"
	"github.com/Trimetilamin/Temperature-monitor/internal/pipeline"
	"github.com/spf13/cobra"
)

// App carries the dependencies shared by every command. Logger serves the
// one-shot commands, whose stdout carries report text; ServiceLogger is used
// by serve and falls back to Logger when nil.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	ServiceLogger *slog.Logger
	Metrics       *observability.Metrics
}

// Execute runs the root command.
func Execute(app *App) error {
	return NewRootCommand(app).Execute()
}

// NewRootCommand builds the command tree. Persistent flags default to the
// values loaded from the environment and override them when set.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "templog",
		Short: "Monthly temperature and humidity reports from logger files",
		Long: `templog reads temperature/humidity logger exports, summarizes one calendar
month at a time and renders the result as a PDF report with charts and a
full table of readings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if app.Config.RowsPerHalfPage <= 0 {
				return errors.New("--rows must be positive")
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.IntVar(&app.Config.RowsPerHalfPage, "rows", app.Config.RowsPerHalfPage, "Readings per table column")
	flags.StringVar(&app.Config.LogoPath, "logo", app.Config.LogoPath, "Logo image drawn on every page")
	flags.StringVar(&app.Config.FontPath, "font", app.Config.FontPath, "TrueType font for report text")
	flags.StringVar(&app.Config.OutputDir, "output-dir", app.Config.OutputDir, "Directory for reports exported without --out")

	root.AddCommand(
		newMonthsCmd(app),
		newStatsCmd(app),
		newExportCmd(app),
		newServeCmd(app),
	)
	return root
}

func (a *App) serviceLogger() *slog.Logger {
	if a.ServiceLogger != nil {
		return a.ServiceLogger
	}
	return a.Logger
}

// newSession wires a session with the PDF renderer and configured assets.
// Long-running hosts pass cached=true to replay repeated exports.
func (a *App) newSession(logger *slog.Logger, cached bool) *pipeline.Session {
	var renderer pipeline.Renderer = pdf.NewRenderer(assets.Load(a.Config.LogoPath, a.Config.FontPath, logger), logger)
	if cached && a.Config.ReportCacheSize > 0 {
		renderer = pdf.NewCachedRenderer(renderer, a.Config.ReportCacheSize)
	}
	return pipeline.NewSession(renderer, logger, a.Metrics,
		pipeline.WithRowsPerHalfPage(a.Config.RowsPerHalfPage),
		pipeline.WithOutputDir(a.Config.OutputDir),
	)
}
