package core

import "github.com/go-gl/mathgl/mgl64"

// Light is a world-space point light.
type Light struct {
	Position mgl64.Vec3
}
