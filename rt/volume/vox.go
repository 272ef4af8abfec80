package volume

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

const voxMagicNumber = "VOX "

// voxCell is one XYZI record: grid position plus palette index.
type voxCell struct {
	X, Y, Z, ColorIndex byte
}

type voxModel struct {
	SizeX, SizeY, SizeZ uint32
	Cells               []voxCell
}

// voxPalette holds RGBA colors; index 0 is unused per the format.
type voxPalette [256][4]byte

// ImportVox reads a MagicaVoxel .vox file and rasterizes its first model
// into an occupancy grid and color store. The model is centered in the
// grid; cells outside it are dropped with a diagnostic. Palette colors are
// quantized to RGB565.
func ImportVox(path string, log Logger) (*Grid, *ColorStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	model, palette, err := parseVox(file)
	if err != nil {
		return nil, nil, fmt.Errorf("parse vox file %s: %w", path, err)
	}
	if model == nil || len(model.Cells) == 0 {
		return nil, nil, fmt.Errorf("vox file %s contains no voxels", path)
	}

	grid := NewGrid()
	colors := NewColorStore()

	// Center the model; offsets clamp at zero for oversize models.
	ox := centerOffset(model.SizeX)
	oy := centerOffset(model.SizeY)
	oz := centerOffset(model.SizeZ)

	dropped := 0
	for _, c := range model.Cells {
		x := int(c.X) + ox
		y := int(c.Y) + oy
		z := int(c.Z) + oz
		if !InBounds(x, y, z) {
			dropped++
			continue
		}
		grid.Set(x, y, z, true)

		rgba := palette[c.ColorIndex]
		linear := mgl64.Vec3{
			float64(rgba[0]) / 255.0,
			float64(rgba[1]) / 255.0,
			float64(rgba[2]) / 255.0,
		}
		colors.Set(x, y, z, EncodeRGB565(linear))
	}

	if dropped > 0 && log != nil {
		log.Warnf("%s: model %dx%dx%d exceeds the %d^3 grid, dropped %d voxels",
			path, model.SizeX, model.SizeY, model.SizeZ, GridSize, dropped)
	}
	return grid, colors, nil
}

func centerOffset(size uint32) int {
	if int(size) >= GridSize {
		return 0
	}
	return (GridSize - int(size)) / 2
}

// parseVox walks the chunk stream. Only SIZE, XYZI and RGBA matter here;
// scene-graph and material chunks are skipped.
func parseVox(r io.Reader) (*voxModel, voxPalette, error) {
	palette := defaultVoxPalette()

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, palette, err
	}
	if string(magic[:]) != voxMagicNumber {
		return nil, palette, errors.New("not a valid VOX file")
	}

	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, palette, err
	}

	var model *voxModel
	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(r, chunkID[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, palette, err
		}

		var chunkSize, childrenSize int32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, palette, err
		}
		if err := binary.Read(r, binary.LittleEndian, &childrenSize); err != nil {
			return nil, palette, err
		}
		if chunkSize < 0 {
			return nil, palette, errors.New("negative chunk size")
		}

		chunkData := make([]byte, chunkSize)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, palette, err
		}

		switch string(chunkID[:]) {
		case "MAIN":
			continue
		case "SIZE":
			if len(chunkData) < 12 {
				return nil, palette, errors.New("SIZE chunk too small")
			}
			// First model wins; later models in the file are ignored.
			if model == nil {
				model = &voxModel{
					SizeX: binary.LittleEndian.Uint32(chunkData[0:4]),
					SizeY: binary.LittleEndian.Uint32(chunkData[4:8]),
					SizeZ: binary.LittleEndian.Uint32(chunkData[8:12]),
				}
			}
		case "XYZI":
			if model == nil || model.Cells != nil {
				continue
			}
			if len(chunkData) < 4 {
				return nil, palette, errors.New("XYZI chunk too small")
			}
			numVoxels := int(binary.LittleEndian.Uint32(chunkData[:4]))
			if 4+numVoxels*4 > len(chunkData) {
				return nil, palette, errors.New("XYZI chunk data overflow")
			}
			model.Cells = make([]voxCell, numVoxels)
			for i := 0; i < numVoxels; i++ {
				offset := 4 + i*4
				model.Cells[i] = voxCell{
					X:          chunkData[offset],
					Y:          chunkData[offset+1],
					Z:          chunkData[offset+2],
					ColorIndex: chunkData[offset+3],
				}
			}
		case "RGBA":
			for i := 0; i < 255; i++ {
				offset := i * 4
				if offset+3 >= len(chunkData) {
					break
				}
				palette[i+1][0] = chunkData[offset]
				palette[i+1][1] = chunkData[offset+1]
				palette[i+1][2] = chunkData[offset+2]
				palette[i+1][3] = chunkData[offset+3]
			}
		}
	}

	return model, palette, nil
}

func defaultVoxPalette() voxPalette {
	var palette voxPalette
	for i := range palette {
		palette[i] = [4]byte{255, 255, 255, 255}
	}
	return palette
}
