package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParses(t *testing.T) {
	opts := options{
		loggerID: "LOG7",
		start:    time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
		days:     20,
		interval: 30 * time.Minute,
		seed:     3,
		gapEvery: 50,
		badEvery: 40,
	}

	var buf bytes.Buffer
	n, err := generate(&buf, opts)
	require.NoError(t, err)

	ds, diags, err := domain.Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, "LOG7", ds.LoggerID())
	assert.Equal(t, n, ds.Len())
	assert.Equal(t, []string{"2024-02", "2024-03"}, ds.Months())
	assert.NotEmpty(t, diags, "banner lines are reported as skipped")
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := options{
		loggerID: "LOG7",
		start:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		days:     2,
		interval: time.Hour,
		seed:     11,
	}

	var a, b bytes.Buffer
	_, err := generate(&a, opts)
	require.NoError(t, err)
	_, err = generate(&b, opts)
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}
