package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/voxtrace/rt/core"
	"github.com/voxtrace/voxtrace/rt/fixed"
	"github.com/voxtrace/voxtrace/rt/oracle"
	"github.com/voxtrace/voxtrace/rt/trace"
	"github.com/voxtrace/voxtrace/rt/volume"
)

// GreyFallback is the base color for voxels with no recorded color.
var GreyFallback = mgl64.Vec3{0.72, 0.72, 0.72}

// Shader computes the final linear color for one traversal result.
type Shader struct {
	Colors  *volume.ColorStore
	Light   core.Light
	Ambient float64
	Sky     mgl64.Vec3
	Codec   fixed.Codec

	// Shadows enables the nested occlusion query through Oracle. Oracle may
	// be nil when Shadows is false.
	Shadows bool
	Oracle  oracle.Oracle

	// ShadowBias pushes the shadow-ray origin off the surface to avoid
	// self-occlusion; ShadowEps pulls the step budget's target distance just
	// short of the light so the light itself never registers as a blocker.
	ShadowBias float64
	ShadowEps  float64
}

// NewShader returns a shader with the conventional demo parameters.
func NewShader(colors *volume.ColorStore, light core.Light, orc oracle.Oracle) *Shader {
	return &Shader{
		Colors:     colors,
		Light:      light,
		Ambient:    0.15,
		Sky:        mgl64.Vec3{0.4, 0.6, 1.0},
		Codec:      fixed.Default,
		Shadows:    orc != nil,
		Oracle:     orc,
		ShadowBias: 1e-3,
		ShadowEps:  1e-3,
	}
}

// Shade turns a hit record (or miss) into a linear pixel color. ray is the
// camera ray the hit came from; the continuous hit point is reconstructed
// from it rather than from the discretized voxel center, which would band.
func (s *Shader) Shade(ray core.Ray, rec oracle.HitRecord) mgl64.Vec3 {
	if !rec.Hit {
		return s.Sky
	}

	base := GreyFallback
	if s.Colors != nil {
		if packed := s.Colors.At(rec.X, rec.Y, rec.Z); packed != 0 {
			base = volume.DecodeRGB565(packed)
		}
	}

	normal := oracle.OutwardNormal(rec.FaceID)
	hitPoint := s.hitPoint(ray, rec)

	lightDir := core.SafeNormalize(s.Light.Position.Sub(hitPoint))
	diffuse := normal.Dot(lightDir)
	if diffuse < 0 {
		diffuse = 0
	}

	if diffuse > 0 && s.Shadows && s.Oracle != nil && s.occluded(hitPoint, normal, rec) {
		diffuse = 0
	}

	if diffuse > 1 {
		diffuse = 1
	}
	brightness := s.Ambient + (1.0-s.Ambient)*diffuse
	return base.Mul(brightness)
}

// hitPoint intersects the camera ray with the plane of the struck face,
// clamped to the face bounds. Falls back to the voxel center when the ray is
// parallel to that plane (possible only for the reset face id of a
// zero-step hit).
func (s *Shader) hitPoint(ray core.Ray, rec oracle.HitRecord) mgl64.Vec3 {
	voxel := [3]float64{float64(rec.X), float64(rec.Y), float64(rec.Z)}
	axis := oracle.FaceAxis(rec.FaceID)

	plane := voxel[axis]
	if oracle.StepDir(rec.FaceID)[axis] < 0 {
		// Stepping -axis enters through the voxel's upper face.
		plane = voxel[axis] + 1
	}

	d := ray.Dir[axis]
	if math.Abs(d) < trace.EpsDir {
		return mgl64.Vec3{voxel[0] + 0.5, voxel[1] + 0.5, voxel[2] + 0.5}
	}

	t := (plane - ray.Origin[axis]) / d
	p := ray.At(t)
	for i := 0; i < 3; i++ {
		if i == axis {
			p[i] = plane
			continue
		}
		p[i] = math.Min(math.Max(p[i], voxel[i]), voxel[i]+1)
	}
	return p
}

// occluded issues the nested shadow round-trip: encode a ray from just off
// the surface toward the light, bound it to the steps the engine will take
// before reaching the light, and submit. A timeout degrades to "not
// shadowed"; a hit on the originating voxel is self-occlusion noise and is
// ignored.
func (s *Shader) occluded(hitPoint, normal mgl64.Vec3, rec oracle.HitRecord) bool {
	origin := hitPoint.Add(normal.Mul(s.ShadowBias))
	toLight := s.Light.Position.Sub(origin)
	dist := toLight.Len()
	if dist < s.ShadowEps {
		return false
	}

	ray := core.Ray{Origin: origin, Dir: toLight.Mul(1.0 / dist)}
	job := trace.EncodeJob(ray, s.Codec, trace.MaxStepsCap)
	if !job.Valid {
		return false
	}

	target := s.Codec.Encode(dist - s.ShadowEps)
	budget := trace.StepBudget(job, target)
	if budget > trace.MaxStepsCap {
		budget = trace.MaxStepsCap
	}
	job.MaxSteps = budget

	shadowRec, err := s.Oracle.Submit(job)
	if err != nil {
		return false
	}
	if !shadowRec.Hit {
		return false
	}
	if shadowRec.X == rec.X && shadowRec.Y == rec.Y && shadowRec.Z == rec.Z {
		return false
	}
	return true
}
