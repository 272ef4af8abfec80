// Package trace compiles continuous-space rays into the fixed-point DDA job
// fields the traversal engine consumes, and predicts the engine's stepping
// behavior where the caller needs a step bound instead of a distance bound.
package trace

import "github.com/go-gl/mathgl/mgl64"

// EpsDir is the direction-component magnitude below which an axis is treated
// as parallel to its slab pair.
const EpsDir = 1e-12

// IntersectAABB runs the slab method against the closed box [bmin, bmax].
// Returns (hit, tEnter, tExit). tEnter may be negative when the origin is
// inside the box.
func IntersectAABB(origin, dir mgl64.Vec3, bmin, bmax mgl64.Vec3) (bool, float64, float64) {
	tmin := mgl64.InfNeg
	tmax := mgl64.InfPos

	for i := 0; i < 3; i++ {
		d := dir[i]
		o := origin[i]

		if d > -EpsDir && d < EpsDir {
			// Parallel to this slab pair: origin must lie within it.
			if o < bmin[i] || o > bmax[i] {
				return false, 0, 0
			}
			continue
		}

		inv := 1.0 / d
		t0 := (bmin[i] - o) * inv
		t1 := (bmax[i] - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmax < tmin {
			return false, 0, 0
		}
	}

	return true, tmin, tmax
}
