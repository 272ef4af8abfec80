package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	xdraw "golang.org/x/image/draw"

	"github.com/voxtrace/voxtrace"
	"github.com/voxtrace/voxtrace/rt/core"
	"github.com/voxtrace/voxtrace/rt/fixed"
	"github.com/voxtrace/voxtrace/rt/oracle"
	"github.com/voxtrace/voxtrace/rt/trace"
	"github.com/voxtrace/voxtrace/rt/volume"
)

func main() {
	voxelFile := flag.String("voxels", "voxels_load.txt", "Voxel occupancy file (.txt = addr-bit, .mem = bit-per-line)")
	colorFile := flag.String("colors", "voxels_color.mem", "Voxel color memory file (RGB565 hex per line)")
	voxFile := flag.String("vox", "", "MagicaVoxel .vox model (overrides -voxels/-colors)")
	scenePath := flag.String("scene", "", "Camera/light descriptor JSON (empty = auto-frame the scene)")
	writeScene := flag.String("write-scene", "", "Write the effective camera/light descriptor JSON here")
	jobsOut := flag.String("jobs", "", "Write the compiled ray job records here")
	replay := flag.String("replay", "", "Replay a persisted ray job record file instead of compiling rays")
	output := flag.String("o", "render.png", "Output PNG filename")

	width := flag.Int("w", 64, "Image width (pixels)")
	height := flag.Int("h", 64, "Image height (pixels)")
	fov := flag.Float64("fov", 55.0, "Vertical FOV (degrees)")
	maxSteps := flag.Int("max-steps", 512, "Primary ray step budget")
	shadows := flag.Bool("shadows", true, "Enable shadow rays")
	lightFlag := flag.String("light", "", "Light position as x,y,z (overrides descriptor)")
	exposure := flag.Float64("exposure", 1.0, "Tone mapping exposure")
	contrast := flag.Float64("contrast", 1.0, "Tone mapping contrast")
	fpWidth := flag.Int("fp-width", fixed.Default.Width, "Fixed-point total bits for job timers")
	fpFrac := flag.Int("fp-frac", fixed.Default.Frac, "Fixed-point fractional bits for job timers")
	scale := flag.Int("scale", 1, "Integer output upscale factor (nearest neighbor)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := voxtrace.NewDefaultLogger("voxtrace", *debug)

	var (
		grid   *volume.Grid
		colors *volume.ColorStore
		err    error
	)
	if *voxFile != "" {
		grid, colors, err = volume.ImportVox(*voxFile, log)
		if err != nil {
			log.Errorf("import vox model: %v", err)
			os.Exit(1)
		}
		log.Infof("scene: %d solid voxels from %s", grid.Count(), *voxFile)
	} else {
		grid, err = volume.LoadOccupancy(*voxelFile, volume.DetectOccupancyFormat(*voxelFile), log)
		if err != nil {
			log.Errorf("load occupancy: %v", err)
			os.Exit(1)
		}
		log.Infof("scene: %d solid voxels from %s", grid.Count(), *voxelFile)

		colors, err = volume.LoadColors(*colorFile, log)
		if err != nil {
			log.Errorf("load colors: %v", err)
			os.Exit(1)
		}
	}

	cfg := voxtrace.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.FovDeg = *fov
	cfg.MaxSteps = *maxSteps
	cfg.Shadows = *shadows
	cfg.Exposure = *exposure
	cfg.Contrast = *contrast
	cfg.Codec = fixed.Codec{Width: *fpWidth, Frac: *fpFrac}

	cam, light, err := buildView(*scenePath, grid, &cfg, log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	if *lightFlag != "" {
		pos, err := parseVec3(*lightFlag)
		if err != nil {
			log.Errorf("bad -light value %q: %v", *lightFlag, err)
			os.Exit(1)
		}
		light = core.Light{Position: pos}
	}

	if *writeScene != "" {
		desc := core.NewSceneDescriptor(cam, light, trace.WorldMin, trace.WorldMax, cfg.Codec.Width, cfg.Codec.Frac)
		if err := desc.Save(*writeScene); err != nil {
			log.Errorf("write scene descriptor: %v", err)
			os.Exit(1)
		}
		log.Infof("wrote scene descriptor to %s", *writeScene)
	}

	renderer := voxtrace.NewRenderer(cfg, cam, light, colors, oracle.NewSim(grid), log)

	if *jobsOut != "" {
		jobs := renderer.CompileJobs()
		if err := trace.WriteJobFile(*jobsOut, jobs); err != nil {
			log.Errorf("write job file: %v", err)
			os.Exit(1)
		}
		log.Infof("wrote %d job records to %s", len(jobs), *jobsOut)
	}

	var img image.Image
	if *replay != "" {
		jobs, err := trace.ParseJobFile(*replay, false, log)
		if err != nil {
			log.Errorf("parse job file: %v", err)
			os.Exit(1)
		}
		frame, _ := renderer.RenderJobs(jobs)
		img = frame.ToImage(renderer.ToneMap())
	} else {
		frame, _ := renderer.Render()
		img = frame.ToImage(renderer.ToneMap())
	}

	if *scale > 1 {
		img = upscale(img, *scale)
	}

	if err := voxtrace.SavePNG(img, *output); err != nil {
		log.Errorf("save image: %v", err)
		os.Exit(1)
	}
	log.Infof("saved render to %s", *output)
}

// buildView resolves the camera and light, either from a descriptor file or
// by auto-framing the solid voxels. Descriptor dimensions win over flags so
// replayed job files line up with the frame they were compiled for.
func buildView(scenePath string, grid *volume.Grid, cfg *voxtrace.Config, log voxtrace.Logger) (*core.Camera, core.Light, error) {
	if scenePath != "" {
		desc, err := core.LoadSceneDescriptor(scenePath)
		if err != nil {
			return nil, core.Light{}, fmt.Errorf("load scene descriptor: %w", err)
		}
		cfg.Width = desc.Camera.ImageW
		cfg.Height = desc.Camera.ImageH
		cfg.FovDeg = desc.Camera.FovDeg
		if desc.FixedPoint.Width > 0 {
			cfg.Codec = fixed.Codec{Width: desc.FixedPoint.Width, Frac: desc.FixedPoint.Frac}
		}
		return desc.BuildCamera(), desc.BuildLight(), nil
	}

	bmin, bmax, ok := grid.Bounds()
	if !ok {
		bmin, bmax = trace.WorldMin, trace.WorldMax
		log.Warnf("empty scene, framing the whole world box")
	}
	camPos, lookAt, lightPos := core.AutoFrame(bmin, bmax)
	cam := core.NewCamera(camPos, lookAt, mgl64.Vec3{0, 1, 0}, cfg.FovDeg, cfg.Width, cfg.Height)
	return cam, core.Light{Position: lightPos}, nil
}

func parseVec3(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("want 3 comma-separated components")
	}
	var v mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

func upscale(src image.Image, factor int) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
