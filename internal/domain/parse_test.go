package domain

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLoggerID = "LOG42"
	testMarch    = "2024-03"
	testApril    = "2024-04"
)

const sampleLog = `Logger export v2.1

2024-03-01 00:00:00 LOG42 4.5 60.1 OK
2024-03-01 01:00:00 LOG99 5.5 61.0 OK
2024-03-32 02:00:00 LOG42 5.0 60.0 OK
2024-03-01 03:00:00 LOG42 abc 60.0 OK
2024-03-01 04:00:00 LOG42 5.0 n/a OK
2024-04-02 05:00:00 LOG42 6.0 59.0 OK
end of file`

func TestParse(t *testing.T) {
	ds, diags, err := Parse(strings.NewReader(sampleLog))
	require.NoError(t, err)

	assert.Equal(t, testLoggerID, ds.LoggerID())
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{testMarch, testApril}, ds.Months())

	readings := ds.Readings()
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), readings[0].Timestamp)
	assert.Equal(t, 4.5, readings[0].Temperature)
	assert.Equal(t, 60.1, readings[0].Humidity)
	assert.Equal(t, testMarch, readings[0].Month)
	assert.Equal(t, testApril, readings[2].Month)

	want := []LineDiagnostic{
		{Line: 1, Reason: SkipShortLine, Detail: "3 tokens"},
		{Line: 5, Reason: SkipBadTimestamp, Detail: `"2024-03-32 02:00:00"`},
		{Line: 6, Reason: SkipBadTemperature, Detail: `"abc"`},
		{Line: 7, Reason: SkipBadHumidity, Detail: `"n/a"`},
		{Line: 9, Reason: SkipShortLine, Detail: "3 tokens"},
	}
	if diff := cmp.Diff(want, diags); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_LoggerIDFromFirstCandidateLine(t *testing.T) {
	t.Run("first candidate has bad timestamp", func(t *testing.T) {
		log := "not-a-date 00:00:00 FIRST 1.0 2.0 x\n2024-03-01 00:00:00 SECOND 4.0 50.0 x\n"
		ds, _, err := Parse(strings.NewReader(log))
		require.NoError(t, err)
		assert.Equal(t, "FIRST", ds.LoggerID())
		assert.Equal(t, 1, ds.Len())
	})

	t.Run("short header lines do not count", func(t *testing.T) {
		log := "Device LOGX\n2024-03-01 00:00:00 LOG7 4.0 50.0 x\n"
		ds, _, err := Parse(strings.NewReader(log))
		require.NoError(t, err)
		assert.Equal(t, "LOG7", ds.LoggerID())
	})

	t.Run("no candidate lines", func(t *testing.T) {
		ds, _, err := Parse(strings.NewReader("header\nfooter\n"))
		require.NoError(t, err)
		assert.Empty(t, ds.LoggerID())
		assert.Zero(t, ds.Len())
		assert.Empty(t, ds.Months())
	})
}

func TestParse_LineCleanup(t *testing.T) {
	line := "2024-03-01 00:00:00 LOG42 4.5 60.1 OK"

	tests := []struct {
		name  string
		input string
	}{
		{"NUL bytes between characters", strings.Join(strings.Split(line, ""), "\x00") + "\x00"},
		{"CRLF endings", line + "\r\n" + line + "\r\n"},
		{"CR endings", line + "\r" + line + "\r"},
		{"surrounding whitespace", "   \t" + line + "   \n"},
		{"UTF-8 BOM", "\uFEFF" + line},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, _, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Positive(t, ds.Len())
			assert.Equal(t, testLoggerID, ds.LoggerID())
			for _, r := range ds.Readings() {
				assert.Equal(t, 4.5, r.Temperature)
				assert.Equal(t, testMarch, r.Month)
			}
		})
	}
}

func TestParse_RejectsLooseTimestamps(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"unpadded month", "2024-3-01 00:00:00 L 1 2 x"},
		{"day out of range", "2024-02-30 00:00:00 L 1 2 x"},
		{"hour out of range", "2024-03-01 24:00:00 L 1 2 x"},
		{"slashes", "2024/03/01 00:00:00 L 1 2 x"},
		{"missing seconds", "2024-03-01 00:00 L 1 2 x"},
		{"fractional seconds", "2024-03-01 10:00:00.75 LOG42 4.5 60.1 OK"},
		{"unpadded hour", "2024-03-01 7:05:00 LOG42 4.5 60.1 OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, diags, err := Parse(strings.NewReader(tt.line))
			require.NoError(t, err)
			assert.Zero(t, ds.Len())
			require.Len(t, diags, 1)
			assert.Equal(t, SkipBadTimestamp, diags[0].Reason)
		})
	}
}

func TestParse_RejectsNonDecimalMeasurements(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason SkipReason
	}{
		{"NaN temperature", "2024-03-01 00:00:00 LOG42 NaN 60.1 OK", SkipBadTemperature},
		{"infinite temperature", "2024-03-01 00:00:00 LOG42 -Inf 60.1 OK", SkipBadTemperature},
		{"overflowing temperature", "2024-03-01 00:00:00 LOG42 1e400 60.1 OK", SkipBadTemperature},
		{"hex temperature", "2024-03-01 00:00:00 LOG42 0x1p3 60.1 OK", SkipBadTemperature},
		{"NaN humidity", "2024-03-01 00:00:00 LOG42 4.5 nan OK", SkipBadHumidity},
		{"digit separator humidity", "2024-03-01 00:00:00 LOG42 4.5 6_0 OK", SkipBadHumidity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, diags, err := Parse(strings.NewReader(tt.line))
			require.NoError(t, err)
			assert.Zero(t, ds.Len())
			require.Len(t, diags, 1)
			assert.Equal(t, tt.reason, diags[0].Reason)
		})
	}
}

func TestParse_AcceptsSignedAndExponentMeasurements(t *testing.T) {
	ds, diags, err := Parse(strings.NewReader("2024-03-01 00:00:00 LOG42 -2.5e0 +60 OK"))
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, -2.5, ds.Readings()[0].Temperature)
	assert.Equal(t, 60.0, ds.Readings()[0].Humidity)
}

func TestParse_FiveTokensIsNoise(t *testing.T) {
	ds, diags, err := Parse(strings.NewReader("2024-03-01 00:00:00 LOG42 4.5 60.1"))
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
	assert.Empty(t, ds.LoggerID())
	require.Len(t, diags, 1)
	assert.Equal(t, SkipShortLine, diags[0].Reason)
}

func TestParse_IOErrors(t *testing.T) {
	t.Run("read failure", func(t *testing.T) {
		boom := errors.New("disk on fire")
		_, _, err := Parse(iotest.ErrReader(boom))

		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("invalid UTF-8", func(t *testing.T) {
		_, _, err := Parse(strings.NewReader("\xff\xfe2\x000\x00"))

		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Contains(t, err.Error(), "UTF-8")
	})
}

func TestParse_Idempotent(t *testing.T) {
	first, diags1, err := Parse(strings.NewReader(sampleLog))
	require.NoError(t, err)
	second, diags2, err := Parse(strings.NewReader(sampleLog))
	require.NoError(t, err)

	assert.Equal(t, first.LoggerID(), second.LoggerID())
	assert.Equal(t, first.Months(), second.Months())
	if diff := cmp.Diff(first.Readings(), second.Readings()); diff != "" {
		t.Fatalf("readings differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, diags1, diags2)
}

func TestParse_KeepsFileOrder(t *testing.T) {
	log := strings.Join([]string{
		"2024-04-01 00:00:00 L 6.0 50 x",
		"2024-03-15 00:00:00 L 5.0 50 x",
		"2024-04-01 01:00:00 L 7.0 50 x",
		"2023-12-31 23:59:59 L 8.0 50 x",
	}, "\n")

	ds, _, err := Parse(strings.NewReader(log))
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-12", testMarch, testApril}, ds.Months())

	temps := make([]float64, 0, ds.Len())
	for _, r := range ds.Readings() {
		temps = append(temps, r.Temperature)
	}
	assert.Equal(t, []float64{6, 5, 7, 8}, temps)

	april := ds.MonthReadings(testApril)
	require.Len(t, april, 2)
	assert.Equal(t, 6.0, april[0].Temperature)
	assert.Equal(t, 7.0, april[1].Temperature)
	assert.Equal(t, 2, ds.MonthCount(testApril))
	assert.Nil(t, ds.MonthReadings("2025-01"))
}

func TestLogDataset_ReadingsAreCopies(t *testing.T) {
	ds := NewLogDataset(testLoggerID, []Reading{{Temperature: 1, Month: testMarch}})

	got := ds.Readings()
	got[0].Temperature = 99

	assert.Equal(t, 1.0, ds.Readings()[0].Temperature)
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, testMarch, monthKey("2024-03-01"))
	assert.Equal(t, "2024", monthKey("2024"))
}
