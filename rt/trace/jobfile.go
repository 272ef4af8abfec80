package trace

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Logger is the slice of the application logger the parser needs for
// malformed-record diagnostics.
type Logger interface {
	Warnf(format string, args ...any)
}

// PixelJob ties a compiled job to the pixel it renders.
type PixelJob struct {
	PX, PY int
	Job    RayJob
}

const jobFileHeader = "# px py valid ix0 iy0 iz0 sx sy sz next_x next_y next_z inc_x inc_y inc_z max_steps"

// FormatJobLine renders one record line. Invalid jobs carry filler zeros.
func FormatJobLine(p PixelJob) string {
	j := p.Job
	valid := 0
	if j.Valid {
		valid = 1
	}
	return fmt.Sprintf("%d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d",
		p.PX, p.PY, valid,
		j.IX0, j.IY0, j.IZ0,
		j.SX, j.SY, j.SZ,
		j.NextX, j.NextY, j.NextZ,
		j.IncX, j.IncY, j.IncZ,
		j.MaxSteps)
}

// WriteJobFile persists the hardware handoff artifact: one record per pixel,
// header comment first.
func WriteJobFile(path string, jobs []PixelJob) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, jobFileHeader)
	for _, p := range jobs {
		fmt.Fprintln(w, FormatJobLine(p))
	}
	return w.Flush()
}

// ParseJobFile reads a job record file. Comments, blanks, short rows and
// non-integer rows are skipped with a diagnostic; with skipInvalid set,
// valid=0 filler rows are dropped too.
func ParseJobFile(path string, skipInvalid bool, log Logger) ([]PixelJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var jobs []PixelJob
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 16 {
			log.Warnf("%s:%d: skipping short job record (%d fields)", path, lineno, len(parts))
			continue
		}

		fields := make([]int64, 16)
		ok := true
		for i := 0; i < 16; i++ {
			v, err := strconv.ParseInt(parts[i], 10, 64)
			if err != nil {
				log.Warnf("%s:%d: skipping malformed job record: %v", path, lineno, err)
				ok = false
				break
			}
			fields[i] = v
		}
		if !ok {
			continue
		}

		valid := fields[2] != 0
		if skipInvalid && !valid {
			continue
		}

		jobs = append(jobs, PixelJob{
			PX: int(fields[0]),
			PY: int(fields[1]),
			Job: RayJob{
				Valid:    valid,
				IX0:      int(fields[3]),
				IY0:      int(fields[4]),
				IZ0:      int(fields[5]),
				SX:       int(fields[6]),
				SY:       int(fields[7]),
				SZ:       int(fields[8]),
				NextX:    uint32(fields[9]),
				NextY:    uint32(fields[10]),
				NextZ:    uint32(fields[11]),
				IncX:     uint32(fields[12]),
				IncY:     uint32(fields[13]),
				IncZ:     uint32(fields[14]),
				MaxSteps: int(fields[15]),
			},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read job file %s: %w", path, err)
	}
	return jobs, nil
}
