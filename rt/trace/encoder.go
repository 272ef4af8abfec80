package trace

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/voxtrace/rt/core"
	"github.com/voxtrace/voxtrace/rt/fixed"
	"github.com/voxtrace/voxtrace/rt/volume"
)

const (
	// EpsAdvance nudges the start point past the box entry so it lands
	// strictly inside a voxel instead of on its boundary.
	EpsAdvance = 1e-6

	// boundaryClamp keeps the advanced point below the upper world bound so
	// the floor never yields voxel index N.
	boundaryClamp = 1e-9
)

// WorldMin and WorldMax bound the voxel world the engine traverses.
var (
	WorldMin = mgl64.Vec3{0, 0, 0}
	WorldMax = mgl64.Vec3{volume.GridSize, volume.GridSize, volume.GridSize}
)

// EncodeJob compiles a ray into the engine's job fields. Rays that miss the
// world box, or exit it behind their origin, yield the invalid job. Numeric
// edge cases (axis-parallel directions, boundary coincidence) resolve to
// saturation or axis inactivation, never to an error.
func EncodeJob(ray core.Ray, codec fixed.Codec, maxSteps int) RayJob {
	hit, tEnter, tExit := IntersectAABB(ray.Origin, ray.Dir, WorldMin, WorldMax)
	if !hit || tExit < 0 {
		return RayJob{}
	}

	// Advance to just inside the box (or just past the origin if already
	// inside), then clamp into [0, N) so the floor is always a voxel index.
	t0 := math.Max(tEnter, 0) + EpsAdvance
	p0 := ray.At(t0)
	for i := 0; i < 3; i++ {
		p0[i] = math.Min(math.Max(p0[i], 0), float64(volume.GridSize)-boundaryClamp)
	}

	job := RayJob{
		Valid: true,
		IX0:   int(math.Floor(p0[0])),
		IY0:   int(math.Floor(p0[1])),
		IZ0:   int(math.Floor(p0[2])),
		SX:    stepSign(ray.Dir[0]),
		SY:    stepSign(ray.Dir[1]),
		SZ:    stepSign(ray.Dir[2]),
	}

	start := [3]int{job.IX0, job.IY0, job.IZ0}
	next := [3]uint32{}
	inc := [3]uint32{}
	for i := 0; i < 3; i++ {
		plane := start[i]
		if job.StepDelta(i) == 1 {
			plane++
		}
		next[i], inc[i] = axisTimers(ray.Dir[i], p0[i], plane, codec)
	}
	job.NextX, job.NextY, job.NextZ = next[0], next[1], next[2]
	job.IncX, job.IncY, job.IncZ = inc[0], inc[1], inc[2]

	if maxSteps < 0 {
		maxSteps = 0
	}
	if maxSteps > MaxStepsCap {
		maxSteps = MaxStepsCap
	}
	job.MaxSteps = maxSteps

	return job
}

// stepSign is 1 for non-negative direction components (an exact zero steps
// positive by convention; the axis is inactive anyway).
func stepSign(d float64) int {
	if d >= 0 {
		return 1
	}
	return 0
}

// axisTimers computes the first-boundary distance and per-step increment for
// one axis. An axis the ray never crosses encodes both as the saturation
// sentinel.
func axisTimers(d, p float64, plane int, codec fixed.Codec) (next, inc uint32) {
	if math.Abs(d) < EpsDir {
		return codec.Max(), codec.Max()
	}
	tMax := (float64(plane) - p) / d
	if tMax < 0 {
		// Floating error around a boundary: the crossing is now.
		tMax = 0
	}
	tDelta := math.Abs(1.0 / d)
	return codec.Encode(tMax), codec.Encode(tDelta)
}
