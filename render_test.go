package voxtrace

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxtrace/voxtrace/rt/core"
	"github.com/voxtrace/voxtrace/rt/oracle"
	"github.com/voxtrace/voxtrace/rt/trace"
	"github.com/voxtrace/voxtrace/rt/volume"
)

// wallScene builds a 4x4 voxel wall at z=20 with a camera looking straight
// at it, so the center of the frame hits and the edges miss.
func wallScene() (*volume.Grid, *core.Camera, core.Light, Config) {
	grid := volume.NewGrid()
	for y := 14; y < 18; y++ {
		for x := 14; x < 18; x++ {
			grid.Set(x, y, 20, true)
		}
	}

	cfg := DefaultConfig()
	cfg.Width = 16
	cfg.Height = 16

	cam := core.NewCamera(mgl64.Vec3{16, 16, -20}, mgl64.Vec3{16, 16, 16}, mgl64.Vec3{0, 1, 0}, cfg.FovDeg, cfg.Width, cfg.Height)
	light := core.Light{Position: mgl64.Vec3{16, 16, -40}}
	return grid, cam, light, cfg
}

func TestRenderWallScene(t *testing.T) {
	grid, cam, light, cfg := wallScene()

	r := NewRenderer(cfg, cam, light, nil, oracle.NewSim(grid), nil)
	fb, stats := r.Render()

	assert.Equal(t, cfg.Width*cfg.Height, stats.Rays)
	assert.Equal(t, stats.Rays, stats.Hits+stats.Misses)
	assert.Positive(t, stats.Hits, "frame center must hit the wall")
	assert.Positive(t, stats.Misses, "frame edges must miss")
	assert.Zero(t, stats.Timeouts)

	// Center pixel: lit wall, corner pixel: sky.
	center := fb.At(cfg.Width/2, cfg.Height/2)
	assert.NotEqual(t, cfg.Sky, center)
	assert.Equal(t, cfg.Sky, fb.At(0, 0))
}

func TestRenderAmbientOnlyWhenLightBehindWall(t *testing.T) {
	grid, cam, _, cfg := wallScene()

	// Light behind the wall: every visible face points away from it, so all
	// hit pixels carry exactly the ambient term.
	light := core.Light{Position: mgl64.Vec3{16, 16, 60}}
	r := NewRenderer(cfg, cam, light, nil, oracle.NewSim(grid), nil)
	fb, stats := r.Render()

	require.Positive(t, stats.Hits)
	want := (mgl64.Vec3{0.72, 0.72, 0.72}).Mul(cfg.Ambient)
	for py := 0; py < cfg.Height; py++ {
		for px := 0; px < cfg.Width; px++ {
			c := fb.At(px, py)
			if c == cfg.Sky {
				continue
			}
			assert.InDelta(t, want.X(), c.X(), 1e-12, "pixel (%d,%d)", px, py)
		}
	}
}

type timeoutOracle struct{}

func (timeoutOracle) Submit(trace.RayJob) (oracle.HitRecord, error) {
	return oracle.HitRecord{}, oracle.ErrTimeout
}

func TestRenderDegradesOnTimeout(t *testing.T) {
	_, cam, light, cfg := wallScene()

	r := NewRenderer(cfg, cam, light, nil, timeoutOracle{}, nil)
	fb, stats := r.Render()

	assert.Equal(t, stats.Rays, stats.Timeouts+stats.Invalid)
	assert.Zero(t, stats.Hits)
	assert.Equal(t, cfg.Sky, fb.At(cfg.Width/2, cfg.Height/2), "timed-out pixel degrades to sky")
}

func TestCompileJobsRowMajor(t *testing.T) {
	_, cam, light, cfg := wallScene()

	r := NewRenderer(cfg, cam, light, nil, oracle.NewSim(volume.NewGrid()), nil)
	jobs := r.CompileJobs()

	require.Len(t, jobs, cfg.Width*cfg.Height)
	assert.Equal(t, 0, jobs[0].PX)
	assert.Equal(t, 0, jobs[0].PY)
	assert.Equal(t, cfg.Width-1, jobs[cfg.Width-1].PX)
	assert.Equal(t, 0, jobs[cfg.Width-1].PY)
	assert.Equal(t, 0, jobs[cfg.Width].PX)
	assert.Equal(t, 1, jobs[cfg.Width].PY)
}

func TestRenderJobsMatchesDirectRender(t *testing.T) {
	grid, cam, light, cfg := wallScene()
	sim := oracle.NewSim(grid)

	direct := NewRenderer(cfg, cam, light, nil, sim, nil)
	wantFB, wantStats := direct.Render()

	replay := NewRenderer(cfg, cam, light, nil, sim, nil)
	gotFB, gotStats := replay.RenderJobs(replay.CompileJobs())

	assert.Equal(t, wantStats, gotStats)
	for py := 0; py < cfg.Height; py++ {
		for px := 0; px < cfg.Width; px++ {
			assert.Equal(t, wantFB.At(px, py), gotFB.At(px, py), "pixel (%d,%d)", px, py)
		}
	}
}

func TestRenderJobsDropsOutOfFrameRows(t *testing.T) {
	grid, cam, light, cfg := wallScene()

	r := NewRenderer(cfg, cam, light, nil, oracle.NewSim(grid), nil)
	jobs := []trace.PixelJob{
		{PX: -1, PY: 0},
		{PX: 0, PY: cfg.Height},
		{PX: 0, PY: 0},
	}
	_, stats := r.RenderJobs(jobs)
	assert.Equal(t, 1, stats.Rays, "only the in-frame row is traced")
}

func TestJobFileRoundTripThroughRenderer(t *testing.T) {
	grid, cam, light, cfg := wallScene()
	sim := oracle.NewSim(grid)

	r := NewRenderer(cfg, cam, light, nil, sim, nil)
	jobs := r.CompileJobs()

	path := filepath.Join(t.TempDir(), "ray_jobs.txt")
	require.NoError(t, trace.WriteJobFile(path, jobs))

	loaded, err := trace.ParseJobFile(path, false, NewNopLogger())
	require.NoError(t, err)
	require.Len(t, loaded, len(jobs))

	wantFB, wantStats := r.RenderJobs(jobs)
	gotFB, gotStats := r.RenderJobs(loaded)
	assert.Equal(t, wantStats, gotStats)
	assert.Equal(t, wantFB.At(cfg.Width/2, cfg.Height/2), gotFB.At(cfg.Width/2, cfg.Height/2))
}
