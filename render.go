package voxtrace

import (
	"errors"
	"image"
	"image/png"
	"os"

	"github.com/google/uuid"

	"github.com/voxtrace/voxtrace/rt/core"
	"github.com/voxtrace/voxtrace/rt/oracle"
	"github.com/voxtrace/voxtrace/rt/render"
	"github.com/voxtrace/voxtrace/rt/trace"
	"github.com/voxtrace/voxtrace/rt/volume"
)

// RenderStats counts per-ray outcomes of one render pass.
type RenderStats struct {
	Rays     int
	Hits     int
	Misses   int
	Invalid  int
	Timeouts int
}

// Renderer is the render orchestrator: it walks pixels strictly
// sequentially, issuing at most one outstanding engine job at a time
// (primary, then the optional nested shadow query), and writes each
// framebuffer pixel exactly once.
type Renderer struct {
	cfg    Config
	cam    *core.Camera
	shader *render.Shader
	orc    oracle.Oracle
	log    Logger
	runID  string
}

// NewRenderer wires the orchestrator. The oracle is shared between primary
// rays and the shader's shadow queries — the engine has a single job slot,
// and the sequential loop is what keeps that invariant.
func NewRenderer(cfg Config, cam *core.Camera, light core.Light, colors *volume.ColorStore, orc oracle.Oracle, log Logger) *Renderer {
	if log == nil {
		log = NewNopLogger()
	}

	shader := render.NewShader(colors, light, orc)
	shader.Ambient = cfg.Ambient
	shader.Sky = cfg.Sky
	shader.Codec = cfg.Codec
	shader.Shadows = cfg.Shadows

	return &Renderer{
		cfg:    cfg,
		cam:    cam,
		shader: shader,
		orc:    orc,
		log:    log,
		runID:  uuid.NewString()[:8],
	}
}

// RunID identifies this render in logs and artifact names.
func (r *Renderer) RunID() string { return r.runID }

// ToneMap returns the frame-wide tone mapping the config asks for.
func (r *Renderer) ToneMap() render.ToneMap {
	tm := render.DefaultToneMap()
	tm.Exposure = r.cfg.Exposure
	tm.Contrast = r.cfg.Contrast
	return tm
}

// CompileJobs compiles one job per pixel, in row-major order, including the
// invalid filler rows — the record file format carries every pixel.
func (r *Renderer) CompileJobs() []trace.PixelJob {
	jobs := make([]trace.PixelJob, 0, r.cfg.Width*r.cfg.Height)
	for py := 0; py < r.cfg.Height; py++ {
		for px := 0; px < r.cfg.Width; px++ {
			ray := r.cam.PrimaryRay(px, py)
			jobs = append(jobs, trace.PixelJob{
				PX:  px,
				PY:  py,
				Job: trace.EncodeJob(ray, r.cfg.Codec, r.cfg.MaxSteps),
			})
		}
	}
	return jobs
}

// Render compiles and traces every pixel. The render always completes: a
// timed-out round-trip degrades that pixel to sky and the loop moves on.
func (r *Renderer) Render() (*render.Framebuffer, RenderStats) {
	fb := render.NewFramebuffer(r.cfg.Width, r.cfg.Height, r.cfg.Sky)
	stats := RenderStats{}

	r.log.Infof("[%s] rendering %dx%d, %d rays", r.runID, r.cfg.Width, r.cfg.Height, r.cfg.Width*r.cfg.Height)

	for py := 0; py < r.cfg.Height; py++ {
		for px := 0; px < r.cfg.Width; px++ {
			ray := r.cam.PrimaryRay(px, py)
			job := trace.EncodeJob(ray, r.cfg.Codec, r.cfg.MaxSteps)
			r.tracePixel(fb, px, py, ray, job, &stats)
		}
		if r.log.DebugEnabled() && (py+1)%16 == 0 {
			r.log.Debugf("[%s] row %d/%d: %d hits, %d misses", r.runID, py+1, r.cfg.Height, stats.Hits, stats.Misses)
		}
	}

	r.log.Infof("[%s] render complete: %d hits, %d misses (%d invalid, %d timeouts)",
		r.runID, stats.Hits, stats.Misses, stats.Invalid, stats.Timeouts)
	return fb, stats
}

// RenderJobs replays a persisted job record set against the engine, shading
// with rays rebuilt from this renderer's camera. Record rows outside the
// frame are dropped.
func (r *Renderer) RenderJobs(jobs []trace.PixelJob) (*render.Framebuffer, RenderStats) {
	fb := render.NewFramebuffer(r.cfg.Width, r.cfg.Height, r.cfg.Sky)
	stats := RenderStats{}

	for _, pj := range jobs {
		if pj.PX < 0 || pj.PX >= r.cfg.Width || pj.PY < 0 || pj.PY >= r.cfg.Height {
			r.log.Warnf("[%s] job for pixel (%d,%d) outside %dx%d frame, dropped",
				r.runID, pj.PX, pj.PY, r.cfg.Width, r.cfg.Height)
			continue
		}
		ray := r.cam.PrimaryRay(pj.PX, pj.PY)
		r.tracePixel(fb, pj.PX, pj.PY, ray, pj.Job, &stats)
	}

	r.log.Infof("[%s] replay complete: %d hits, %d misses (%d invalid, %d timeouts)",
		r.runID, stats.Hits, stats.Misses, stats.Invalid, stats.Timeouts)
	return fb, stats
}

// tracePixel runs one primary round-trip and shades the result. The
// framebuffer is pre-filled with sky, so misses and degraded pixels need no
// write.
func (r *Renderer) tracePixel(fb *render.Framebuffer, px, py int, ray core.Ray, job trace.RayJob, stats *RenderStats) {
	stats.Rays++

	if !job.Valid {
		stats.Invalid++
		stats.Misses++
		return
	}

	rec, err := r.orc.Submit(job)
	if err != nil {
		if errors.Is(err, oracle.ErrTimeout) {
			r.log.Warnf("[%s] primary ray timed out at pixel (%d,%d)", r.runID, px, py)
			stats.Timeouts++
			stats.Misses++
			return
		}
		r.log.Errorf("[%s] oracle error at pixel (%d,%d): %v", r.runID, px, py, err)
		stats.Misses++
		return
	}

	if !rec.Hit {
		stats.Misses++
		return
	}

	stats.Hits++
	fb.Set(px, py, r.shader.Shade(ray, rec))
}

// SavePNG writes an image as PNG.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
