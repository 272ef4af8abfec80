package volume

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Logger is the slice of the application logger the loaders need for
// malformed-record diagnostics.
type Logger interface {
	Warnf(format string, args ...any)
}

// OccupancyFormat selects how an occupancy file is laid out.
type OccupancyFormat int

const (
	// FormatAddrBit is "addr bit" per line; only listed addresses change.
	FormatAddrBit OccupancyFormat = iota
	// FormatBitPerLine is one bit per line, address = line number.
	FormatBitPerLine
)

// DetectOccupancyFormat guesses the format from the file extension: .txt
// files carry sparse "addr bit" records, .mem files one bit per line.
func DetectOccupancyFormat(path string) OccupancyFormat {
	if strings.HasSuffix(path, ".txt") {
		return FormatAddrBit
	}
	return FormatBitPerLine
}

// LoadOccupancy reads an occupancy file into a fresh grid. Blank lines and
// '#' comments are ignored; malformed lines are skipped with a diagnostic
// so one bad record never aborts a scene load.
func LoadOccupancy(path string, format OccupancyFormat, log Logger) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	grid := NewGrid()
	scanner := bufio.NewScanner(f)
	lineno := 0
	addr := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch format {
		case FormatAddrBit:
			parts := strings.Fields(line)
			if len(parts) != 2 {
				log.Warnf("%s:%d: skipping malformed occupancy record %q", path, lineno, line)
				continue
			}
			a, err1 := strconv.Atoi(parts[0])
			bit, err2 := strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil {
				log.Warnf("%s:%d: skipping malformed occupancy record %q", path, lineno, line)
				continue
			}
			grid.SetAddr(a, bit != 0)
		case FormatBitPerLine:
			bit, err := strconv.Atoi(line)
			if err != nil {
				log.Warnf("%s:%d: skipping malformed occupancy record %q", path, lineno, line)
				addr++
				continue
			}
			grid.SetAddr(addr, bit != 0)
			addr++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read occupancy %s: %w", path, err)
	}
	return grid, nil
}

// LoadColors reads a color memory file: one 4-hex-digit RGB565 value per
// line, address = line number. A missing file is not an error; it yields an
// all-zero store and the shader's grey fallback takes over.
func LoadColors(path string, log Logger) (*ColorStore, error) {
	store := NewColorStore()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("color file not found: %s, using grey fallback", path)
			return store, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	addr := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseUint(line, 16, 16)
		if err != nil {
			log.Warnf("%s:%d: skipping malformed color record %q", path, lineno, line)
			addr++
			continue
		}
		store.SetAddr(addr, uint16(v))
		addr++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read colors %s: %w", path, err)
	}
	return store, nil
}

// WriteOccupancyTxt writes the sparse "addr bit" form, solid voxels only.
func WriteOccupancyTxt(grid *Grid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for addr := 0; addr < GridVoxels; addr++ {
		x := addr & 0x1F
		y := (addr >> 5) & 0x1F
		z := (addr >> 10) & 0x1F
		if grid.At(x, y, z) {
			fmt.Fprintf(w, "%d 1\n", addr)
		}
	}
	return w.Flush()
}

// WriteOccupancyMem writes the dense bit-per-line form, all addresses.
func WriteOccupancyMem(grid *Grid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for addr := 0; addr < GridVoxels; addr++ {
		x := addr & 0x1F
		y := (addr >> 5) & 0x1F
		z := (addr >> 10) & 0x1F
		bit := 0
		if grid.At(x, y, z) {
			bit = 1
		}
		fmt.Fprintf(w, "%d\n", bit)
	}
	return w.Flush()
}

// WriteColorMem writes one 4-hex-digit RGB565 value per address.
func WriteColorMem(store *ColorStore, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for addr := 0; addr < GridVoxels; addr++ {
		fmt.Fprintf(w, "%04x\n", store.colors[addr])
	}
	return w.Flush()
}
