// Package voxtrace drives the ray-compile / traverse / shade pipeline: it
// turns camera parameters into fixed-point DDA jobs for the traversal
// engine, and the engine's hit records into a tone-mapped image.
package voxtrace

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/voxtrace/rt/fixed"
)

// Config is the immutable per-render configuration record. It replaces the
// sprawl of environment overrides the hardware testbench grew: everything
// the orchestrator needs arrives here, at construction.
type Config struct {
	Width  int
	Height int
	FovDeg float64

	// MaxSteps is the primary-ray step budget handed to the engine.
	MaxSteps int

	// Shadows enables the nested occlusion query per lit pixel.
	Shadows bool

	Ambient float64
	Sky     mgl64.Vec3

	Exposure float64
	Contrast float64

	// Codec is the fixed-point format of the job's timer fields.
	Codec fixed.Codec
}

// DefaultConfig mirrors the conventional demo parameters.
func DefaultConfig() Config {
	return Config{
		Width:    64,
		Height:   64,
		FovDeg:   55.0,
		MaxSteps: 512,
		Shadows:  true,
		Ambient:  0.15,
		Sky:      mgl64.Vec3{0.4, 0.6, 1.0},
		Exposure: 1.0,
		Contrast: 1.0,
		Codec:    fixed.Default,
	}
}
