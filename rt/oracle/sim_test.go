package oracle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxtrace/voxtrace/rt/core"
	"github.com/voxtrace/voxtrace/rt/fixed"
	"github.com/voxtrace/voxtrace/rt/trace"
	"github.com/voxtrace/voxtrace/rt/volume"
)

func encodeRay(t *testing.T, origin, dir mgl64.Vec3, maxSteps int) trace.RayJob {
	t.Helper()
	job := trace.EncodeJob(core.Ray{Origin: origin, Dir: core.SafeNormalize(dir)}, fixed.Default, maxSteps)
	require.True(t, job.Valid, "expected a valid job for origin %v dir %v", origin, dir)
	return job
}

func TestSimHitsWallHeadOn(t *testing.T) {
	grid := volume.NewGrid()
	grid.Set(16, 16, 20, true)

	sim := NewSim(grid)
	job := encodeRay(t, mgl64.Vec3{16.5, 16.5, -10}, mgl64.Vec3{0, 0, 1}, 512)

	rec, err := sim.Submit(job)
	require.NoError(t, err)
	require.True(t, rec.Hit)
	assert.Equal(t, 16, rec.X)
	assert.Equal(t, 16, rec.Y)
	assert.Equal(t, 20, rec.Z)
	// Last step into the voxel was +Z.
	assert.Equal(t, FaceStepZPos, rec.FaceID)
}

func TestSimMissesEmptyGrid(t *testing.T) {
	sim := NewSim(volume.NewGrid())
	job := encodeRay(t, mgl64.Vec3{16.5, 16.5, -10}, mgl64.Vec3{0, 0, 1}, 512)

	rec, err := sim.Submit(job)
	require.NoError(t, err)
	assert.False(t, rec.Hit)
}

func TestSimStopsAtMaxSteps(t *testing.T) {
	grid := volume.NewGrid()
	grid.Set(16, 16, 20, true)

	sim := NewSim(grid)

	// Entering at z=0, the wall at z=20 takes 20 steps to reach. A budget
	// of 19 must stop one voxel short.
	job := encodeRay(t, mgl64.Vec3{16.5, 16.5, -10}, mgl64.Vec3{0, 0, 1}, 19)
	rec, err := sim.Submit(job)
	require.NoError(t, err)
	assert.False(t, rec.Hit, "budget 19 must not reach the wall")

	job = encodeRay(t, mgl64.Vec3{16.5, 16.5, -10}, mgl64.Vec3{0, 0, 1}, 20)
	rec, err = sim.Submit(job)
	require.NoError(t, err)
	assert.True(t, rec.Hit, "budget 20 must reach the wall")
}

func TestSimStartVoxelSolid(t *testing.T) {
	grid := volume.NewGrid()
	grid.Set(5, 5, 5, true)

	sim := NewSim(grid)
	job := encodeRay(t, mgl64.Vec3{5.5, 5.5, 5.5}, mgl64.Vec3{1, 0, 0}, 512)

	rec, err := sim.Submit(job)
	require.NoError(t, err)
	require.True(t, rec.Hit)
	assert.Equal(t, [3]int{5, 5, 5}, [3]int{rec.X, rec.Y, rec.Z})
	// No step taken: the face register still holds its reset value.
	assert.Equal(t, 0, rec.FaceID)
}

func TestSimInvalidJobIsMiss(t *testing.T) {
	sim := NewSim(volume.NewGrid())
	rec, err := sim.Submit(trace.RayJob{})
	require.NoError(t, err)
	assert.False(t, rec.Hit)
}

func TestSimNegativeDirectionFace(t *testing.T) {
	grid := volume.NewGrid()
	grid.Set(10, 16, 16, true)

	sim := NewSim(grid)
	job := encodeRay(t, mgl64.Vec3{20.5, 16.5, 16.5}, mgl64.Vec3{-1, 0, 0}, 512)

	rec, err := sim.Submit(job)
	require.NoError(t, err)
	require.True(t, rec.Hit)
	assert.Equal(t, 10, rec.X)
	assert.Equal(t, FaceStepXNeg, rec.FaceID)
}

func TestSimTimeout(t *testing.T) {
	sim := NewSim(volume.NewGrid())
	sim.CycleBudget = 5

	job := encodeRay(t, mgl64.Vec3{0.5, 16.5, 16.5}, mgl64.Vec3{1, 0, 0}, trace.MaxStepsCap)
	_, err := sim.Submit(job)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSimAgreesWithStepBudget(t *testing.T) {
	// Lock-step property: place a blocker just past the budget's target
	// distance. A job bounded by the predicted step count must never reach
	// it; one extra step must.
	grid := volume.NewGrid()
	grid.Set(16, 16, 12, true)

	// In-box origin, the same frame a shadow ray starts from. The blocker's
	// entry face sits 11.5 units down the ray.
	origin := mgl64.Vec3{16.5, 16.5, 0.5}
	dir := mgl64.Vec3{0, 0, 1}

	job := encodeRay(t, origin, dir, trace.MaxStepsCap)

	target := fixed.Default.Encode(11.4)
	budget := trace.StepBudget(job, target)
	assert.Equal(t, 11, budget)

	sim := NewSim(grid)

	bounded := job
	bounded.MaxSteps = budget
	rec, err := sim.Submit(bounded)
	require.NoError(t, err)
	assert.False(t, rec.Hit, "bounded traversal must stop short of the blocker")

	unbounded := job
	unbounded.MaxSteps = budget + 1
	rec, err = sim.Submit(unbounded)
	require.NoError(t, err)
	assert.True(t, rec.Hit, "one extra step must reach the blocker")
}

func TestFaceNormals(t *testing.T) {
	// Outward normal is the negation of the recorded step direction.
	cases := []struct {
		faceID int
		normal mgl64.Vec3
	}{
		{FaceStepXPos, mgl64.Vec3{-1, 0, 0}},
		{FaceStepXNeg, mgl64.Vec3{1, 0, 0}},
		{FaceStepYPos, mgl64.Vec3{0, -1, 0}},
		{FaceStepYNeg, mgl64.Vec3{0, 1, 0}},
		{FaceStepZPos, mgl64.Vec3{0, 0, -1}},
		{FaceStepZNeg, mgl64.Vec3{0, 0, 1}},
	}
	for _, c := range cases {
		assert.Equal(t, c.normal, OutwardNormal(c.faceID), "face %d", c.faceID)
		assert.Equal(t, c.faceID, FaceIDFor(FaceAxis(c.faceID), int(StepDir(c.faceID)[FaceAxis(c.faceID)])))
	}
}
