package trace

// RayJob is one traversal request in the engine's wire representation.
// The zero value is the invalid job: Valid=false with all-zero filler, which
// is exactly what goes on the wire and into the record file for rays that
// never touch the world box.
type RayJob struct {
	Valid bool

	// Start voxel, each in [0, 31].
	IX0, IY0, IZ0 int

	// Per-axis step sign: 1 steps toward +axis, 0 toward -axis.
	SX, SY, SZ int

	// Distance to the first boundary crossing per axis, fixed point.
	NextX, NextY, NextZ uint32

	// Distance between successive crossings per axis, fixed point.
	IncX, IncY, IncZ uint32

	// Step budget, in [0, 1023].
	MaxSteps int
}

// MaxStepsCap is the widest step budget the job field can carry.
const MaxStepsCap = 1023

// StepDelta returns the signed voxel step for an axis (0=X, 1=Y, 2=Z).
func (j RayJob) StepDelta(axis int) int {
	s := [3]int{j.SX, j.SY, j.SZ}[axis]
	if s == 1 {
		return 1
	}
	return -1
}
