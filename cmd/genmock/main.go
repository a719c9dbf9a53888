// Command genmock writes a synthetic logger export for manual testing and
// fixtures. The file mixes regular readings with the noise real exports carry:
// a banner, short status lines, an occasional malformed value, and sampling
// gaps.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out testdata/LOG42.txt \
//	  -logger LOG42 -start 2024-03-01 -days 45 -interval 10m -seed 7
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	"github.com/dustin/go-humanize"
)

type options struct {
	loggerID string
	start    time.Time
	days     int
	interval time.Duration
	seed     uint64
	gapEvery int // drop a block of samples roughly every gapEvery readings
	badEvery int // emit a malformed line roughly every badEvery readings
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated log (stdout when empty)")
	loggerID := flag.String("logger", "LOG42", "logger id written into every record")
	start := flag.String("start", "2024-03-01", "first day of readings (YYYY-MM-DD)")
	days := flag.Int("days", 31, "number of days to generate")
	interval := flag.Duration("interval", 15*time.Minute, "nominal sampling interval")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	first, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *days <= 0 || *interval <= 0 {
		return fmt.Errorf("-days and -interval must be positive")
	}

	opts := options{
		loggerID: *loggerID,
		start:    first,
		days:     *days,
		interval: *interval,
		seed:     *seed,
		gapEvery: 500,
		badEvery: 997,
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	bw := bufio.NewWriter(w)
	n, err := generate(bw, opts)
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	log.Printf("wrote %s readings for %s", humanize.Comma(int64(n)), opts.loggerID)
	return nil
}

// generate writes the synthetic log and returns the number of well-formed
// readings it contains.
func generate(w io.Writer, opts options) (int, error) {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	if _, err := fmt.Fprintf(w, "Logger export %s\r\nSerial %s  firmware 2.1\r\n\r\n", opts.loggerID, opts.loggerID); err != nil {
		return 0, err
	}

	end := opts.start.AddDate(0, 0, opts.days)
	written := 0
	for ts := opts.start; ts.Before(end); ts = ts.Add(opts.interval) {
		if opts.gapEvery > 0 && rng.IntN(opts.gapEvery) == 0 {
			ts = ts.Add(time.Duration(2+rng.IntN(10)) * opts.interval)
			if !ts.Before(end) {
				break
			}
		}

		temp, hum := sample(rng, ts)
		stamp := ts.Format(domain.TimestampLayout)

		var line string
		switch {
		case opts.badEvery > 0 && rng.IntN(opts.badEvery) == 0:
			line = fmt.Sprintf("%s %s ERR --.- %.1f SENSOR", stamp, opts.loggerID, hum)
		case rng.IntN(2000) == 0:
			line = "battery low"
		default:
			line = fmt.Sprintf("%s %s %.1f %.1f OK", stamp, opts.loggerID, temp, hum)
			written++
		}

		if _, err := io.WriteString(w, line+"\r\n"); err != nil {
			return written, err
		}
	}
	return written, nil
}

// sample produces a fridge-like temperature with a daily cycle, a rare door
// opening excursion, and humidity loosely anti-correlated with it.
func sample(rng *rand.Rand, ts time.Time) (temp, hum float64) {
	hour := float64(ts.Hour()) + float64(ts.Minute())/60
	temp = 5.5 + 1.8*math.Sin(2*math.Pi*(hour-9)/24) + rng.NormFloat64()*0.6
	if rng.IntN(300) == 0 {
		temp += 4 + rng.Float64()*6
	}
	hum = 62 - 2.5*(temp-5.5) + rng.NormFloat64()*3
	hum = math.Max(20, math.Min(99, hum))
	return temp, hum
}
