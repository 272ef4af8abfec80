package trace

// budgetIterCeiling bounds the replay loop; a 32^3 grid is crossed in well
// under this many steps.
const budgetIterCeiling = 4096

// StepBudget predicts how many steps the engine will take before its next
// boundary crossing would reach or exceed targetCode (a distance in the same
// fixed-point format as the job's timers). The engine has no stop-at-distance
// input, only a step counter, so a distance-bounded traversal — a shadow ray
// that must not report hits beyond the light — is realized by passing this
// count as the job's max_steps.
//
// The step that would cross the target is not counted. The replay also stops
// once the voxel coordinate leaves the grid, where the engine self-terminates
// anyway.
func StepBudget(job RayJob, targetCode uint32) int {
	if !job.Valid {
		return 0
	}

	s := NewStepper(job)
	steps := 0
	for steps < budgetIterCeiling {
		_, code := s.Peek()
		if code >= uint64(targetCode) {
			break
		}
		s.Step()
		steps++
		if !s.InBounds() {
			break
		}
	}
	return steps
}
