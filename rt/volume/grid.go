// Package volume holds the 32^3 voxel world: the occupancy grid the traversal
// engine walks and the per-voxel RGB565 color store the shader samples.
package volume

import "github.com/go-gl/mathgl/mgl64"

const (
	// GridSize is N: the world is [0,N]^3 with unit voxels indexed 0..N-1.
	GridSize   = 32
	GridVoxels = GridSize * GridSize * GridSize
)

// Addr maps a voxel coordinate to its memory address: z*N^2 + y*N + x,
// i.e. (z<<10)|(y<<5)|x for the 32^3 grid.
func Addr(x, y, z int) int {
	return z<<10 | y<<5 | x
}

// InBounds reports whether the coordinate names a voxel.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < GridSize && y >= 0 && y < GridSize && z >= 0 && z < GridSize
}

// Grid is the dense occupancy bitset.
type Grid struct {
	bits [GridVoxels / 64]uint64
}

func NewGrid() *Grid {
	return &Grid{}
}

func (g *Grid) Set(x, y, z int, solid bool) {
	addr := Addr(x, y, z)
	g.SetAddr(addr, solid)
}

// SetAddr writes by raw address; out-of-range addresses are ignored, matching
// the loader interface which drops writes outside the RAM.
func (g *Grid) SetAddr(addr int, solid bool) {
	if addr < 0 || addr >= GridVoxels {
		return
	}
	if solid {
		g.bits[addr/64] |= 1 << uint(addr%64)
	} else {
		g.bits[addr/64] &^= 1 << uint(addr%64)
	}
}

func (g *Grid) At(x, y, z int) bool {
	if !InBounds(x, y, z) {
		return false
	}
	addr := Addr(x, y, z)
	return g.bits[addr/64]&(1<<uint(addr%64)) != 0
}

// Count returns the number of solid voxels.
func (g *Grid) Count() int {
	n := 0
	for addr := 0; addr < GridVoxels; addr++ {
		if g.bits[addr/64]&(1<<uint(addr%64)) != 0 {
			n++
		}
	}
	return n
}

// Bounds returns the world-space AABB of the solid voxels (voxel faces, not
// centers). ok is false for an empty grid.
func (g *Grid) Bounds() (bmin, bmax mgl64.Vec3, ok bool) {
	first := true
	for z := 0; z < GridSize; z++ {
		for y := 0; y < GridSize; y++ {
			for x := 0; x < GridSize; x++ {
				if !g.At(x, y, z) {
					continue
				}
				lo := mgl64.Vec3{float64(x), float64(y), float64(z)}
				hi := mgl64.Vec3{float64(x + 1), float64(y + 1), float64(z + 1)}
				if first {
					bmin, bmax = lo, hi
					first = false
					continue
				}
				for i := 0; i < 3; i++ {
					if lo[i] < bmin[i] {
						bmin[i] = lo[i]
					}
					if hi[i] > bmax[i] {
						bmax[i] = hi[i]
					}
				}
			}
		}
	}
	return bmin, bmax, !first
}

// ColorStore maps voxel address to a packed RGB565 color. A zero entry means
// "no color recorded"; the shader substitutes a neutral grey.
type ColorStore struct {
	colors [GridVoxels]uint16
}

func NewColorStore() *ColorStore {
	return &ColorStore{}
}

func (s *ColorStore) SetAddr(addr int, rgb565 uint16) {
	if addr < 0 || addr >= GridVoxels {
		return
	}
	s.colors[addr] = rgb565
}

func (s *ColorStore) Set(x, y, z int, rgb565 uint16) {
	s.SetAddr(Addr(x, y, z), rgb565)
}

func (s *ColorStore) At(x, y, z int) uint16 {
	if !InBounds(x, y, z) {
		return 0
	}
	return s.colors[Addr(x, y, z)]
}

// HasColors reports whether any entry is non-zero.
func (s *ColorStore) HasColors() bool {
	for _, c := range s.colors {
		if c != 0 {
			return true
		}
	}
	return false
}

// DecodeRGB565 unpacks a 16-bit 5-6-5 color into linear [0,1] RGB.
func DecodeRGB565(rgb565 uint16) mgl64.Vec3 {
	r := float64((rgb565>>11)&0x1F) / 31.0
	g := float64((rgb565>>5)&0x3F) / 63.0
	b := float64(rgb565&0x1F) / 31.0
	return mgl64.Vec3{r, g, b}
}

// EncodeRGB565 packs linear [0,1] RGB into 5-6-5 bits.
func EncodeRGB565(c mgl64.Vec3) uint16 {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	r := uint16(clamp(c.X())*31.0 + 0.5)
	g := uint16(clamp(c.Y())*63.0 + 0.5)
	b := uint16(clamp(c.Z())*31.0 + 0.5)
	return r<<11 | g<<5 | b
}
