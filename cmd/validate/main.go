// Command validate parses a logger export and runs integrity checks over the
// dataset and every monthly report plan built from it: month partitioning,
// chronological order, pagination arithmetic and statistics bounds.
//
// Usage:
//
//	go run ./cmd/validate -file testdata/LOG42.txt -rows 70
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "logger export to validate")
	rows := flag.Int("rows", 70, "readings per table column")
	flag.Parse()

	if *file == "" || *rows <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*file, *rows); code != 0 {
		os.Exit(code)
	}
}

func run(path string, rows int) int {
	// Fixed clock so repeated runs assemble identical plans.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Println("=== Logger Export Validation ===")
	fmt.Println()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open log: %v\n", err)
		return 1
	}
	defer f.Close()

	ds, diags, err := domain.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	plans := make(map[string]domain.ReportPlan, len(ds.Months()))
	for _, m := range ds.Months() {
		plan, err := domain.Assemble(ds, m, rows)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: assemble %s: %v\n", m, err)
			return 1
		}
		plans[m] = plan
	}

	phases := []*phase{
		validateParse(ds, diags),
		validateMonthPartition(ds),
		validateChronology(ds),
		validatePagination(ds, plans, rows),
		validateStatistics(plans),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Logger %s: %s readings in %d months, %s lines skipped\n",
		ds.LoggerID(), humanize.Comma(int64(ds.Len())), len(ds.Months()), humanize.Comma(int64(len(diags))))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateParse(ds *domain.LogDataset, diags []domain.LineDiagnostic) *phase {
	p := &phase{name: "Parse"}
	if ds.Len() == 0 {
		p.errorf("no readings parsed")
	}
	if ds.Len() > 0 && ds.LoggerID() == "" {
		p.errorf("readings present but logger id is empty")
	}

	reasons := map[domain.SkipReason]int{}
	prev := 0
	for _, d := range diags {
		reasons[d.Reason]++
		if d.Line <= prev {
			p.errorf("diagnostic line %d not after line %d", d.Line, prev)
		}
		prev = d.Line
	}
	for reason, n := range reasons {
		fmt.Printf("  skipped %-16s %s\n", reason, humanize.Comma(int64(n)))
	}
	return p
}

func validateMonthPartition(ds *domain.LogDataset) *phase {
	p := &phase{name: "Month partition"}

	total := 0
	for _, m := range ds.Months() {
		n := ds.MonthCount(m)
		if n == 0 {
			p.errorf("month %s listed with no readings", m)
		}
		total += n
		for _, r := range ds.MonthReadings(m) {
			if got := r.Timestamp.Format("2006-01"); got != m {
				p.errorf("reading at %s filed under %s", r.Timestamp.Format(domain.TimestampLayout), m)
			}
		}
	}
	if total != ds.Len() {
		p.errorf("months hold %d readings, dataset has %d", total, ds.Len())
	}
	return p
}

func validateChronology(ds *domain.LogDataset) *phase {
	p := &phase{name: "Chronological order"}
	readings := ds.Readings()
	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.Before(readings[i-1].Timestamp) {
			p.errorf("reading %d (%s) precedes reading %d", i+1,
				readings[i].Timestamp.Format(domain.TimestampLayout), i)
		}
	}
	return p
}

func validatePagination(ds *domain.LogDataset, plans map[string]domain.ReportPlan, rows int) *phase {
	p := &phase{name: "Pagination arithmetic"}

	for _, m := range ds.Months() {
		plan := plans[m]
		n := ds.MonthCount(m)

		wantPages := (n + 2*rows - 1) / (2 * rows)
		if len(plan.Pages) != wantPages {
			p.errorf("%s: %d pages, want %d", m, len(plan.Pages), wantPages)
		}

		seq := 0
		for _, page := range plan.Pages {
			if len(page.Left) > rows || len(page.Right) > rows {
				p.errorf("%s page %d: column exceeds %d rows", m, page.Number, rows)
			}
			if len(page.Right) > 0 && len(page.Left) < rows {
				p.errorf("%s page %d: right column used before left is full", m, page.Number)
			}
			for _, col := range [][]domain.Row{page.Left, page.Right} {
				for _, row := range col {
					seq++
					if row.Seq != seq {
						p.errorf("%s page %d: row numbered %d, want %d", m, page.Number, row.Seq, seq)
					}
				}
			}
		}
		if seq != n {
			p.errorf("%s: pages hold %d rows, month has %d", m, seq, n)
		}
	}
	return p
}

func validateStatistics(plans map[string]domain.ReportPlan) *phase {
	p := &phase{name: "Statistics bounds"}

	for m, plan := range plans {
		for name, s := range map[string]domain.SeriesStats{"temperature": plan.Temperature, "humidity": plan.Humidity} {
			if s.Count != len(plan.Readings) {
				p.errorf("%s %s: count %d, want %d", m, name, s.Count, len(plan.Readings))
			}
			if s.Mean < s.Min-1e-9 || s.Mean > s.Max+1e-9 {
				p.errorf("%s %s: mean %.3f outside [%.3f, %.3f]", m, name, s.Mean, s.Min, s.Max)
			}
			if s.Within1Sigma < 0 || s.Within1Sigma > s.Within2Sigma || s.Within2Sigma > 100 {
				p.errorf("%s %s: coverage %.1f%% / %.1f%% not ordered", m, name, s.Within1Sigma, s.Within2Sigma)
			}
			if s.OutOfBounds > s.Count {
				p.errorf("%s %s: %d out of bounds exceeds count %d", m, name, s.OutOfBounds, s.Count)
			}
		}

		if plan.Cadence.Count != len(plan.Readings) {
			p.errorf("%s cadence: count %d, want %d", m, plan.Cadence.Count, len(plan.Readings))
		}
		if gap := plan.Cadence.MaxGapHours; !math.IsNaN(gap) && gap < 0 {
			p.errorf("%s cadence: negative max gap %.2f hours", m, gap)
		}
	}
	return p
}
