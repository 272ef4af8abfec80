// Package fixed implements the unsigned fixed-point number format consumed by
// the traversal engine's job interface.
package fixed

import "math"

// Codec converts between float64 and an unsigned fixed-point encoding with
// Width total bits and Frac fractional bits. Width must be in (Frac, 32].
type Codec struct {
	Width int
	Frac  int
}

// Default matches the job interface's next/inc field format: U24.16.
var Default = Codec{Width: 24, Frac: 16}

// Max returns the largest representable code. Non-finite and negative inputs
// saturate to this value, so it doubles as the "effectively infinite"
// sentinel for inactive axes.
func (c Codec) Max() uint32 {
	return uint32(1)<<uint(c.Width) - 1
}

// Encode converts a real value to its fixed-point code. Values outside the
// representable range saturate; this is the documented overflow policy, not
// an error.
func (c Codec) Encode(x float64) uint32 {
	maxU := c.Max()
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return maxU
	}
	scaled := math.Round(x * float64(uint64(1)<<uint(c.Frac)))
	if scaled >= float64(maxU) {
		return maxU
	}
	if scaled < 0 {
		return 0
	}
	return uint32(scaled)
}

// Decode converts a fixed-point code back to a real value.
func (c Codec) Decode(v uint32) float64 {
	return float64(v) / float64(uint64(1)<<uint(c.Frac))
}

// MaxValue returns the real value the saturation sentinel decodes to.
func (c Codec) MaxValue() float64 {
	return c.Decode(c.Max())
}
