package trace

import "github.com/voxtrace/voxtrace/rt/volume"

// Stepper replays the engine's deterministic stepping rule in software: at
// each step the axis with the smallest boundary-distance accumulator
// advances, ties broken in the fixed priority order X, Y, Z. Both the
// step-budget prediction and the traversal model are built on this one type
// so they can never disagree on which axis moves.
//
// Accumulators are held in 64 bits so repeated increment additions never wrap
// within any realistic step budget.
type Stepper struct {
	X, Y, Z int

	acc  [3]uint64
	inc  [3]uint64
	step [3]int
}

// NewStepper primes a stepper from a job's start voxel, signs and timers.
func NewStepper(job RayJob) *Stepper {
	s := &Stepper{
		X:   job.IX0,
		Y:   job.IY0,
		Z:   job.IZ0,
		acc: [3]uint64{uint64(job.NextX), uint64(job.NextY), uint64(job.NextZ)},
		inc: [3]uint64{uint64(job.IncX), uint64(job.IncY), uint64(job.IncZ)},
	}
	for i := 0; i < 3; i++ {
		s.step[i] = job.StepDelta(i)
	}
	return s
}

// Peek returns the axis the next step would advance (0=X, 1=Y, 2=Z) and that
// axis's current boundary-distance code.
func (s *Stepper) Peek() (axis int, code uint64) {
	axis = 0
	if s.acc[1] < s.acc[axis] {
		axis = 1
	}
	if s.acc[2] < s.acc[axis] {
		axis = 2
	}
	return axis, s.acc[axis]
}

// Step advances the minimum axis and returns which one moved.
func (s *Stepper) Step() int {
	axis, _ := s.Peek()
	switch axis {
	case 0:
		s.X += s.step[0]
	case 1:
		s.Y += s.step[1]
	default:
		s.Z += s.step[2]
	}
	s.acc[axis] += s.inc[axis]
	return axis
}

// StepDir returns the signed step for an axis.
func (s *Stepper) StepDir(axis int) int {
	return s.step[axis]
}

// InBounds reports whether the current voxel is still inside the grid. The
// engine self-terminates the moment this goes false.
func (s *Stepper) InBounds() bool {
	return volume.InBounds(s.X, s.Y, s.Z)
}
