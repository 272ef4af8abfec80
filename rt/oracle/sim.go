package oracle

import (
	"github.com/voxtrace/voxtrace/rt/trace"
	"github.com/voxtrace/voxtrace/rt/volume"
)

// Sim models the traversal engine in software: the same axis-choose rule as
// the hardware (minimum boundary distance, ties X then Y then Z), terminating
// on a solid voxel, on leaving the grid, or on exhausting max_steps. It
// serves both as the unit-test double and as the default backend when no
// hardware is attached.
type Sim struct {
	Grid *volume.Grid

	// CycleBudget bounds the steps a single job may consume before the
	// round-trip is reported as timed out. Zero means the per-job default.
	CycleBudget int
}

const defaultCycleBudget = 4000

func NewSim(grid *volume.Grid) *Sim {
	return &Sim{Grid: grid}
}

// Submit runs one job to completion. An invalid job completes immediately as
// a miss, mirroring the hardware which never latches one.
func (s *Sim) Submit(job trace.RayJob) (HitRecord, error) {
	if !job.Valid {
		return HitRecord{}, nil
	}

	budget := s.CycleBudget
	if budget <= 0 {
		budget = defaultCycleBudget
	}

	st := trace.NewStepper(job)

	// The face register resets to 0 and updates on every step, so a hit in
	// the start voxel before any step reports face id 0.
	faceID := 0

	for steps := 0; ; steps++ {
		if !st.InBounds() {
			return HitRecord{}, nil
		}
		if s.Grid.At(st.X, st.Y, st.Z) {
			return HitRecord{Hit: true, X: st.X, Y: st.Y, Z: st.Z, FaceID: faceID}, nil
		}
		if steps >= job.MaxSteps {
			return HitRecord{}, nil
		}
		if steps >= budget {
			return HitRecord{}, ErrTimeout
		}
		axis := st.Step()
		faceID = FaceIDFor(axis, st.StepDir(axis))
	}
}
