package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	warnings []string
}

func (c *captureLogger) Warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func TestJobFileRoundTrip(t *testing.T) {
	jobs := []PixelJob{
		{PX: 0, PY: 0, Job: RayJob{
			Valid: true,
			IX0:   5, IY0: 10, IZ0: 15,
			SX: 1, SY: 0, SZ: 1,
			NextX: 1000, NextY: 2000, NextZ: 3000,
			IncX: 100, IncY: 200, IncZ: 300,
			MaxSteps: 500,
		}},
		{PX: 1, PY: 0, Job: RayJob{}}, // invalid filler row
	}

	path := filepath.Join(t.TempDir(), "ray_jobs.txt")
	require.NoError(t, WriteJobFile(path, jobs))

	log := &captureLogger{}
	parsed, err := ParseJobFile(path, false, log)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, jobs, parsed)
	assert.Empty(t, log.warnings)
}

func TestParseJobFileSkipInvalid(t *testing.T) {
	jobs := []PixelJob{
		{PX: 0, PY: 0, Job: RayJob{}},
		{PX: 1, PY: 0, Job: RayJob{Valid: true, IX0: 1, SX: 1, SY: 1, SZ: 1, MaxSteps: 10}},
	}

	path := filepath.Join(t.TempDir(), "ray_jobs.txt")
	require.NoError(t, WriteJobFile(path, jobs))

	parsed, err := ParseJobFile(path, true, &captureLogger{})
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, 1, parsed[0].PX)
}

func TestParseJobFileMalformedRows(t *testing.T) {
	content := "# header comment\n" +
		"\n" +
		"0 0 1 5 5 5 1 1 1 10 10 10 1 1 1 100\n" +
		"1 0 1 too few fields\n" +
		"2 0 1 5 5 5 1 1 1 10 10 ten 1 1 1 100\n" +
		"3 0 1 6 6 6 1 1 1 20 20 20 2 2 2 200\n"

	path := filepath.Join(t.TempDir(), "ray_jobs.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	log := &captureLogger{}
	parsed, err := ParseJobFile(path, true, log)
	require.NoError(t, err)

	// The two malformed rows are skipped with diagnostics; parsing continues.
	require.Len(t, parsed, 2)
	assert.Equal(t, 0, parsed[0].PX)
	assert.Equal(t, 3, parsed[1].PX)
	assert.Len(t, log.warnings, 2)
}

func TestParseJobFileMissing(t *testing.T) {
	_, err := ParseJobFile(filepath.Join(t.TempDir(), "nope.txt"), true, &captureLogger{})
	assert.Error(t, err)
}
