// Package oracle abstracts the fixed-function traversal engine. The hardware
// drives a valid/ready/done handshake per job; here that collapses to a
// blocking Submit with a timeout error, and the default backend is a software
// model of the same stepping rule.
package oracle

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/voxtrace/rt/trace"
)

// ErrTimeout reports a round-trip that never completed within the configured
// cycle budget. Callers degrade the affected ray to a miss; nothing retries.
var ErrTimeout = errors.New("oracle: job timed out")

// HitRecord is the engine's per-job result.
type HitRecord struct {
	Hit     bool
	X, Y, Z int
	FaceID  int
}

// Face ids encode the axis and direction the ray was stepping along when it
// entered the hit voxel — not the face it struck from outside. The outward
// surface normal is therefore the negation of the step direction.
const (
	FaceStepXPos = 0
	FaceStepXNeg = 1
	FaceStepYPos = 2
	FaceStepYNeg = 3
	FaceStepZPos = 4
	FaceStepZNeg = 5
)

// FaceIDFor returns the face id for a step along axis (0=X,1=Y,2=Z) with the
// given signed direction.
func FaceIDFor(axis, dir int) int {
	id := axis * 2
	if dir < 0 {
		id++
	}
	return id
}

// StepDir returns the unit step vector a face id encodes.
func StepDir(faceID int) mgl64.Vec3 {
	switch faceID {
	case FaceStepXPos:
		return mgl64.Vec3{1, 0, 0}
	case FaceStepXNeg:
		return mgl64.Vec3{-1, 0, 0}
	case FaceStepYPos:
		return mgl64.Vec3{0, 1, 0}
	case FaceStepYNeg:
		return mgl64.Vec3{0, -1, 0}
	case FaceStepZPos:
		return mgl64.Vec3{0, 0, 1}
	default:
		return mgl64.Vec3{0, 0, -1}
	}
}

// OutwardNormal returns the surface normal of the struck face.
func OutwardNormal(faceID int) mgl64.Vec3 {
	return StepDir(faceID).Mul(-1)
}

// FaceAxis returns the axis (0=X,1=Y,2=Z) a face id steps along.
func FaceAxis(faceID int) int {
	return faceID / 2
}

// Oracle accepts one job at a time and blocks until the engine reports done.
type Oracle interface {
	Submit(job trace.RayJob) (HitRecord, error)
}
