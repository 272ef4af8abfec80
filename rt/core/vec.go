package core

import "github.com/go-gl/mathgl/mgl64"

// SafeNormalize returns the unit vector, or the input unchanged when its
// length is too small to divide by.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() < 1e-20 {
		return v
	}
	return v.Normalize()
}

// Ray is a continuous-space ray. Direction is unit length for every ray the
// generator produces; encoder callers are responsible for keeping it that way.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at parametric distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
