// Package render turns traversal results into pixels: Lambertian shading
// with analytic shadow queries, then a single tone-mapping pass over the
// finished framebuffer.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Framebuffer accumulates linear RGB in [0,1]^3. Each pixel is written
// exactly once per render, so there is no locking.
type Framebuffer struct {
	Width  int
	Height int
	pix    []mgl64.Vec3
}

// NewFramebuffer allocates a buffer pre-filled with the given color
// (typically the sky color, so dropped pixels degrade gracefully).
func NewFramebuffer(width, height int, fill mgl64.Vec3) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		pix:    make([]mgl64.Vec3, width*height),
	}
	for i := range fb.pix {
		fb.pix[i] = fill
	}
	return fb
}

func (f *Framebuffer) Set(x, y int, c mgl64.Vec3) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.pix[y*f.Width+x] = c
}

func (f *Framebuffer) At(x, y int) mgl64.Vec3 {
	return f.pix[y*f.Width+x]
}

// ToneMap is the exposure/contrast/gamma transform from linear shading
// values to displayable color. It is applied once, to the whole frame.
type ToneMap struct {
	Exposure float64
	Contrast float64
	Gamma    float64
}

func DefaultToneMap() ToneMap {
	return ToneMap{Exposure: 1.0, Contrast: 1.0, Gamma: 2.2}
}

// Apply maps one linear channel value to [0,1].
func (tm ToneMap) Apply(v float64) float64 {
	v *= tm.Exposure
	v = (v-0.5)*tm.Contrast + 0.5
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return math.Pow(v, 1.0/tm.Gamma)
}

// ToImage tone-maps and quantizes the framebuffer into an 8-bit RGB raster.
func (f *Framebuffer) ToImage(tm ToneMap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.pix[y*f.Width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: quantize(tm.Apply(c.X())),
				G: quantize(tm.Apply(c.Y())),
				B: quantize(tm.Apply(c.Z())),
				A: 255,
			})
		}
	}
	return img
}

func quantize(v float64) uint8 {
	return uint8(math.Round(v * 255.0))
}
