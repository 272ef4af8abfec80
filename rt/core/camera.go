package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a pinhole camera with a precomputed orthonormal basis.
type Camera struct {
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Right    mgl64.Vec3
	Up       mgl64.Vec3
	FovDeg   float64
	Width    int
	Height   int
}

// BuildBasis derives an orthonormal (forward, right, up) from a camera
// position, look-at target and world up. If forward is nearly parallel to
// worldUp the up reference switches to +Z so the cross products stay
// well-conditioned.
func BuildBasis(camPos, lookAt, worldUp mgl64.Vec3) (forward, right, up mgl64.Vec3) {
	forward = SafeNormalize(lookAt.Sub(camPos))

	right = forward.Cross(worldUp)
	if right.Len() < 1e-9 {
		worldUp = mgl64.Vec3{0, 0, 1}
		right = forward.Cross(worldUp)
	}

	right = SafeNormalize(right)
	up = SafeNormalize(right.Cross(forward))
	return forward, right, up
}

// NewCamera builds a camera looking from pos toward lookAt.
func NewCamera(pos, lookAt, worldUp mgl64.Vec3, fovDeg float64, width, height int) *Camera {
	forward, right, up := BuildBasis(pos, lookAt, worldUp)
	return &Camera{
		Position: pos,
		Forward:  forward,
		Right:    right,
		Up:       up,
		FovDeg:   fovDeg,
		Width:    width,
		Height:   height,
	}
}

// PrimaryRay maps a pixel center to a world-space ray. px runs left to
// right, py top to bottom.
func (c *Camera) PrimaryRay(px, py int) Ray {
	aspect := float64(c.Width) / float64(c.Height)
	tanHalf := math.Tan(0.5 * mgl64.DegToRad(c.FovDeg))

	u := ((float64(px)+0.5)/float64(c.Width))*2.0 - 1.0
	v := 1.0 - ((float64(py)+0.5)/float64(c.Height))*2.0

	u *= aspect * tanHalf
	v *= tanHalf

	dir := SafeNormalize(c.Forward.Add(c.Right.Mul(u)).Add(c.Up.Mul(v)))
	return Ray{Origin: c.Position, Dir: dir}
}

// AutoFrame picks demo-friendly camera and light placements around a bounding
// box: camera on a diagonal so the scene reads as 3D, key light offset
// up+right from the camera for face contrast.
func AutoFrame(boundsMin, boundsMax mgl64.Vec3) (camPos, lookAt, lightPos mgl64.Vec3) {
	center := boundsMin.Add(boundsMax).Mul(0.5)
	diag := boundsMax.Sub(boundsMin).Len()
	radius := math.Max(diag*0.5, 1.0)

	viewDir := SafeNormalize(mgl64.Vec3{1.0, 1.0, -1.3})

	dist := math.Max(3.2*radius, 40.0)
	camPos = center.Add(viewDir.Mul(dist))
	lookAt = center

	_, right, up := BuildBasis(camPos, lookAt, mgl64.Vec3{0, 1, 0})
	lightPos = camPos.Add(up.Mul(0.35 * dist)).Add(right.Mul(0.25 * dist))

	return camPos, lookAt, lightPos
}
