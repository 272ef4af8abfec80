package core

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// SceneDescriptor is the persisted camera/light placement record
// (camera_light.json). It travels alongside the ray job file so the shading
// side reconstructs the exact rays the jobs were compiled from.
type SceneDescriptor struct {
	WorldBox   WorldBoxDesc   `json:"world_box"`
	Camera     CameraDesc     `json:"camera"`
	Light      LightDesc      `json:"light"`
	FixedPoint FixedPointDesc `json:"fixed_point"`
}

type WorldBoxDesc struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

type CameraDesc struct {
	Pos     [3]float64 `json:"pos"`
	LookAt  [3]float64 `json:"look_at"`
	Forward [3]float64 `json:"forward"`
	Right   [3]float64 `json:"right"`
	Up      [3]float64 `json:"up"`
	FovDeg  float64    `json:"fov_deg"`
	ImageW  int        `json:"image_w"`
	ImageH  int        `json:"image_h"`
}

type LightDesc struct {
	Type string     `json:"type"`
	Pos  [3]float64 `json:"pos"`
}

type FixedPointDesc struct {
	Width int `json:"W"`
	Frac  int `json:"FRAC"`
}

func vec3(a [3]float64) mgl64.Vec3 { return mgl64.Vec3{a[0], a[1], a[2]} }
func arr3(v mgl64.Vec3) [3]float64 { return [3]float64{v.X(), v.Y(), v.Z()} }

// BuildCamera reconstructs the pinhole camera. The basis is rebuilt from
// pos/look_at rather than trusted from the stored vectors, so a hand-edited
// descriptor still yields an orthonormal frame.
func (d *SceneDescriptor) BuildCamera() *Camera {
	return NewCamera(vec3(d.Camera.Pos), vec3(d.Camera.LookAt), mgl64.Vec3{0, 1, 0},
		d.Camera.FovDeg, d.Camera.ImageW, d.Camera.ImageH)
}

// BuildLight returns the point light.
func (d *SceneDescriptor) BuildLight() Light {
	return Light{Position: vec3(d.Light.Pos)}
}

// NewSceneDescriptor records a camera/light placement, including the derived
// basis for the benefit of non-Go consumers.
func NewSceneDescriptor(cam *Camera, light Light, worldMin, worldMax mgl64.Vec3, fpWidth, fpFrac int) *SceneDescriptor {
	lookAt := cam.Position.Add(cam.Forward)
	return &SceneDescriptor{
		WorldBox: WorldBoxDesc{Min: arr3(worldMin), Max: arr3(worldMax)},
		Camera: CameraDesc{
			Pos:     arr3(cam.Position),
			LookAt:  arr3(lookAt),
			Forward: arr3(cam.Forward),
			Right:   arr3(cam.Right),
			Up:      arr3(cam.Up),
			FovDeg:  cam.FovDeg,
			ImageW:  cam.Width,
			ImageH:  cam.Height,
		},
		Light:      LightDesc{Type: "point", Pos: arr3(light.Position)},
		FixedPoint: FixedPointDesc{Width: fpWidth, Frac: fpFrac},
	}
}

// LoadSceneDescriptor reads a descriptor JSON file.
func LoadSceneDescriptor(path string) (*SceneDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d SceneDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse scene descriptor %s: %w", path, err)
	}
	if d.Camera.ImageW <= 0 || d.Camera.ImageH <= 0 {
		return nil, fmt.Errorf("scene descriptor %s: image dimensions must be positive", path)
	}
	return &d, nil
}

// Save writes the descriptor as indented JSON.
func (d *SceneDescriptor) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
