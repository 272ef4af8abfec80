// voxslice renders the Z slices of a voxel scene as a tiled contact sheet,
// for eyeballing occupancy and color data without a full render.
package main

import (
	"flag"
	"image"
	"image/color"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/voxtrace/voxtrace"
	"github.com/voxtrace/voxtrace/rt/volume"
)

func main() {
	voxelFile := flag.String("voxels", "voxels_load.txt", "Voxel occupancy file")
	colorFile := flag.String("colors", "voxels_color.mem", "Voxel color memory file")
	output := flag.String("o", "slices.png", "Output PNG filename")
	cols := flag.Int("cols", 8, "Slices per sheet row")
	scale := flag.Int("scale", 4, "Integer upscale factor (nearest neighbor)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := voxtrace.NewDefaultLogger("voxslice", *debug)

	grid, err := volume.LoadOccupancy(*voxelFile, volume.DetectOccupancyFormat(*voxelFile), log)
	if err != nil {
		log.Errorf("load occupancy: %v", err)
		os.Exit(1)
	}
	colors, err := volume.LoadColors(*colorFile, log)
	if err != nil {
		log.Errorf("load colors: %v", err)
		os.Exit(1)
	}

	sheet := renderSheet(grid, colors, *cols)
	if *scale > 1 {
		b := sheet.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()**scale, b.Dy()**scale))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), sheet, b, xdraw.Over, nil)
		sheet = scaled
	}

	if err := voxtrace.SavePNG(sheet, *output); err != nil {
		log.Errorf("save image: %v", err)
		os.Exit(1)
	}
	log.Infof("wrote %d slices (%d solid voxels) to %s", volume.GridSize, grid.Count(), *output)
}

// renderSheet tiles the Z slices left to right, top to bottom. Solid voxels
// draw in their stored color (grey when none recorded), empty voxels black,
// with a one-pixel gutter between tiles.
func renderSheet(grid *volume.Grid, colors *volume.ColorStore, cols int) *image.RGBA {
	const n = volume.GridSize
	rows := (n + cols - 1) / cols
	gutter := 1

	img := image.NewRGBA(image.Rect(0, 0, cols*(n+gutter)-gutter, rows*(n+gutter)-gutter))

	for z := 0; z < n; z++ {
		ox := (z % cols) * (n + gutter)
		oy := (z / cols) * (n + gutter)
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				c := color.RGBA{A: 255}
				if grid.At(x, y, z) {
					rgb := volume.DecodeRGB565(colors.At(x, y, z))
					if colors.At(x, y, z) == 0 {
						c = color.RGBA{R: 184, G: 184, B: 184, A: 255}
					} else {
						c = color.RGBA{
							R: uint8(rgb.X()*255 + 0.5),
							G: uint8(rgb.Y()*255 + 0.5),
							B: uint8(rgb.Z()*255 + 0.5),
							A: 255,
						}
					}
				}
				// Image rows run top to bottom; world Y runs up.
				img.SetRGBA(ox+x, oy+(n-1-y), c)
			}
		}
	}
	return img
}
