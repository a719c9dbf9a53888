package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Trimetilamin/Temperature-monitor/internal/adapter/pdf"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newMonthsCmd(app *App) *cobra.Command {
	var showSkipped bool

	cmd := &cobra.Command{
		Use:   "months <file>",
		Short: "List the months present in a logger file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.newSession(app.Logger, false)
			summary, err := session.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logger:   %s\n", summary.LoggerID)
			fmt.Fprintf(out, "Readings: %s\n", humanize.Comma(int64(summary.Readings)))
			fmt.Fprintf(out, "Skipped:  %s lines\n", humanize.Comma(int64(len(summary.Skipped))))
			fmt.Fprintln(out, "Months:")
			ds := session.Dataset()
			for _, m := range summary.Months {
				fmt.Fprintf(out, "  %s  %8s readings\n", m, humanize.Comma(int64(ds.MonthCount(m))))
			}

			if showSkipped {
				fmt.Fprintln(out, "Skipped lines:")
				for _, d := range summary.Skipped {
					fmt.Fprintf(out, "  line %d: %s %s\n", d.Line, d.Reason, d.Detail)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "List every skipped line with its reason")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Print the summary statistics of one month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.newSession(app.Logger, false)
			if _, err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			plan, err := session.Plan(month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s - %s\n\n", plan.LoggerID, plan.Month)
			section(out, "Temperature:", pdf.TemperatureSummary(plan.Temperature))
			section(out, "Additional Stats:", pdf.CadenceSummary(plan.Cadence))
			section(out, "Humidity:", pdf.HumiditySummary(plan.Humidity))
			fmt.Fprintf(out, "Table pages: %d\n", len(plan.Pages))
			fmt.Fprintf(out, "Suggested file: %s\n", plan.SuggestedFilename)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to summarize (YYYY-MM)")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var month, out string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render the PDF report of one month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.newSession(app.Logger, false)
			if _, err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			path, err := session.ExportFile(cmd.Context(), month, out)
			if err != nil {
				return err
			}

			size := "unknown size"
			if info, err := os.Stat(path); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", path, size)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to export (YYYY-MM)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination file or directory")
	return cmd
}

func section(w io.Writer, heading, body string) {
	fmt.Fprintln(w, heading)
	fmt.Fprintln(w, body)
	fmt.Fprintln(w)
}
