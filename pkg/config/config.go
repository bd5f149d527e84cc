// Package config loads brdfview's JSON scene file and merges CLI overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/taigrr/brdfview/pkg/math3d"
	"github.com/taigrr/brdfview/pkg/render"
	"github.com/taigrr/brdfview/pkg/shading"
)

// Config is the full scene and viewer configuration. Fields absent from the
// JSON file keep the values from Default.
type Config struct {
	Model       string            `json:"model"`
	Material    MaterialConfig    `json:"material"`
	Lights      []LightConfig     `json:"lights"`
	Attenuation AttenuationConfig `json:"attenuation"`
	Steps       StepsConfig       `json:"steps"`
	ToneMap     ToneMapConfig     `json:"tonemap"`
	Camera      CameraConfig      `json:"camera"`
	Render      RenderConfig      `json:"render"`
	Snapshot    SnapshotConfig    `json:"snapshot"`
}

type MaterialConfig struct {
	Specular  string  `json:"specular"` // blinn-phong, cook-torrance, ggx-smith, ggx-schlick
	Kd        float64 `json:"kd"`
	Ks        float64 `json:"ks"`
	Shininess float64 `json:"shininess"`
	Alpha     float64 `json:"alpha"`
	F0        float64 `json:"f0"`
}

type LightConfig struct {
	Position [3]float64 `json:"position"`
	Color    [3]float64 `json:"color"`
	Active   *bool      `json:"active,omitempty"` // nil means on
}

type AttenuationConfig struct {
	Constant  float64 `json:"constant"`
	Linear    float64 `json:"linear"`
	Quadratic float64 `json:"quadratic"`
}

type StepsConfig struct {
	Alpha float64 `json:"alpha"`
	F0    float64 `json:"f0"`
	Light float64 `json:"light"`
}

type ToneMapConfig struct {
	Exposure float64 `json:"exposure"`
	Gamma    float64 `json:"gamma"`
	Filmic   bool    `json:"filmic"`
}

type CameraConfig struct {
	Position [3]float64 `json:"position"`
	FOV      float64    `json:"fov"` // degrees
}

type RenderConfig struct {
	FPS        int    `json:"fps"`
	Background string `json:"background"` // "R,G,B"
	Workers    int    `json:"workers"`
	ChunkSize  int    `json:"chunk_size"`
	Wireframe  bool   `json:"wireframe"`
	Axes       bool   `json:"axes"`
}

type SnapshotConfig struct {
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	Supersample int  `json:"supersample"`
	Thumbnail   int  `json:"thumbnail"` // longest side; 0 disables
	Caption     bool `json:"caption"`
}

// Default returns the configuration the viewer starts with when no file is
// given: the Cook-Torrance material, the three-light rig and pure
// inverse-linear falloff.
func Default() Config {
	mat := shading.DefaultMaterial()
	steps := shading.DefaultSteps()
	att := shading.DefaultAttenuation()
	tm := render.DefaultToneMap()

	rig := shading.DefaultLightRig()
	lights := make([]LightConfig, rig.Len())
	for i := range lights {
		l := rig.Light(i)
		lights[i] = LightConfig{Position: array3(l.Position()), Color: array3(l.Color())}
	}

	return Config{
		Material: MaterialConfig{
			Specular:  mat.Model.String(),
			Kd:        mat.Kd,
			Ks:        mat.Ks,
			Shininess: mat.Shininess,
			Alpha:     mat.Alpha,
			F0:        mat.F0,
		},
		Lights:      lights,
		Attenuation: AttenuationConfig{Constant: att.Constant, Linear: att.Linear, Quadratic: att.Quadratic},
		Steps:       StepsConfig{Alpha: steps.Alpha, F0: steps.F0, Light: steps.Light},
		ToneMap:     ToneMapConfig{Exposure: tm.Exposure, Gamma: tm.Gamma, Filmic: tm.Filmic},
		Camera:      CameraConfig{Position: [3]float64{0, 0, 4}, FOV: 60},
		Render:      RenderConfig{FPS: 60, Background: "30,30,40", ChunkSize: 1024},
		Snapshot:    SnapshotConfig{Width: 640, Height: 480, Supersample: 2},
	}
}

// Load reads a JSON config file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	// Decoding into the default slice would merge file lights into the
	// default ones, so lights are replaced as a whole.
	defaultLights := cfg.Lights
	cfg.Lights = nil
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Lights == nil {
		cfg.Lights = defaultLights
	}
	return cfg, nil
}

// Flags holds CLI values that override the config file. Zero counts, empty
// strings and nil floats leave the file's setting alone.
type Flags struct {
	Model       string
	Specular    string
	Alpha       *float64
	F0          *float64
	FPS         int
	Background  string
	Workers     int
	Exposure    *float64
	Gamma       *float64
	Filmic      bool
	Width       int
	Height      int
	Supersample int
	Thumbnail   int
	Caption     bool
}

// check rejects negative counts, which would otherwise read as unset.
func (f Flags) check() error {
	for _, n := range []struct {
		name string
		v    int
	}{
		{"fps", f.FPS},
		{"workers", f.Workers},
		{"width", f.Width},
		{"height", f.Height},
		{"ssaa", f.Supersample},
		{"thumb", f.Thumbnail},
	} {
		if n.v < 0 {
			return fmt.Errorf("config: %s %d is negative", n.name, n.v)
		}
	}
	return nil
}

// Resolve applies flag overrides, fills auto-detected defaults and validates
// the result.
func (c *Config) Resolve(flags Flags) error {
	if err := flags.check(); err != nil {
		return err
	}
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.Specular != "" {
		c.Material.Specular = flags.Specular
	}
	if flags.Alpha != nil {
		c.Material.Alpha = *flags.Alpha
	}
	if flags.F0 != nil {
		c.Material.F0 = *flags.F0
	}
	if flags.FPS > 0 {
		c.Render.FPS = flags.FPS
	}
	if flags.Background != "" {
		c.Render.Background = flags.Background
	}
	if flags.Workers > 0 {
		c.Render.Workers = flags.Workers
	}
	if flags.Exposure != nil {
		c.ToneMap.Exposure = *flags.Exposure
	}
	if flags.Gamma != nil {
		c.ToneMap.Gamma = *flags.Gamma
	}
	if flags.Filmic {
		c.ToneMap.Filmic = true
	}
	if flags.Width > 0 {
		c.Snapshot.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Snapshot.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Snapshot.Supersample = flags.Supersample
	}
	if flags.Thumbnail > 0 {
		c.Snapshot.Thumbnail = flags.Thumbnail
	}
	if flags.Caption {
		c.Snapshot.Caption = true
	}

	if c.Render.Workers <= 0 {
		c.Render.Workers = runtime.NumCPU()
	}
	if c.Render.ChunkSize <= 0 {
		c.Render.ChunkSize = 1024
	}
	if c.Render.FPS <= 0 {
		c.Render.FPS = 60
	}
	if c.Snapshot.Supersample <= 0 {
		c.Snapshot.Supersample = 1
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		c.Camera.FOV = 60
	}

	return c.Validate()
}

// Validate checks ranges the shading code relies on.
func (c *Config) Validate() error {
	if _, err := shading.ParseSpecularModel(c.Material.Specular); err != nil {
		return fmt.Errorf("config: material: %w", err)
	}
	if c.Material.Alpha <= 0 || c.Material.Alpha > 1 {
		return fmt.Errorf("config: material alpha %g outside (0, 1]", c.Material.Alpha)
	}
	if c.Material.F0 < 0 || c.Material.F0 > 1 {
		return fmt.Errorf("config: material f0 %g outside [0, 1]", c.Material.F0)
	}
	if n := len(c.Lights); n > shading.MaxLights {
		return fmt.Errorf("config: %d lights: %w", n, shading.ErrTooManyLights)
	}
	a := c.Attenuation
	if a.Constant < 0 || a.Linear < 0 || a.Quadratic < 0 {
		return fmt.Errorf("config: attenuation coefficients must be non-negative")
	}
	if a.Constant == 0 && a.Linear == 0 && a.Quadratic == 0 {
		return fmt.Errorf("config: attenuation coefficients are all zero")
	}
	if c.Steps.Alpha <= 0 || c.Steps.F0 <= 0 || c.Steps.Light <= 0 {
		return fmt.Errorf("config: steps must be positive")
	}
	// Controls.Apply never lowers roughness below one step.
	if c.Material.Alpha < c.Steps.Alpha {
		return fmt.Errorf("config: material alpha %g below roughness step %g", c.Material.Alpha, c.Steps.Alpha)
	}
	if c.ToneMap.Exposure <= 0 || c.ToneMap.Gamma <= 0 {
		return fmt.Errorf("config: tonemap exposure and gamma must be positive")
	}
	if c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0 {
		return fmt.Errorf("config: snapshot size %dx%d", c.Snapshot.Width, c.Snapshot.Height)
	}
	if _, err := ParseRGB(c.Render.Background); err != nil {
		return fmt.Errorf("config: background: %w", err)
	}
	return nil
}

// ShadingMaterial builds the BRDF parameters. Call after Resolve.
func (c *Config) ShadingMaterial() shading.Material {
	model, _ := shading.ParseSpecularModel(c.Material.Specular)
	return shading.Material{
		Kd:        c.Material.Kd,
		Ks:        c.Material.Ks,
		Shininess: c.Material.Shininess,
		Alpha:     c.Material.Alpha,
		F0:        c.Material.F0,
		Model:     model,
	}
}

// LightRig builds the configured lights.
func (c *Config) LightRig() (*shading.LightRig, error) {
	lights := make([]shading.LightSource, len(c.Lights))
	for i, lc := range c.Lights {
		lights[i] = shading.NewLightSource(vec3(lc.Position), vec3(lc.Color))
		if lc.Active == nil || *lc.Active {
			lights[i].Activate()
		}
	}
	return shading.NewLightRig(lights...)
}

func (c *Config) ShadingAttenuation() shading.Attenuation {
	return shading.Attenuation{
		Constant:  c.Attenuation.Constant,
		Linear:    c.Attenuation.Linear,
		Quadratic: c.Attenuation.Quadratic,
	}
}

func (c *Config) ShadingSteps() shading.Steps {
	return shading.Steps{Alpha: c.Steps.Alpha, F0: c.Steps.F0, Light: c.Steps.Light}
}

func (c *Config) RenderToneMap() render.ToneMap {
	return render.ToneMap{Exposure: c.ToneMap.Exposure, Gamma: c.ToneMap.Gamma, Filmic: c.ToneMap.Filmic}
}

// Engine returns the parallel shading engine sized by the render settings.
func (c *Config) Engine() *shading.Engine {
	return &shading.Engine{Workers: c.Render.Workers, ChunkSize: c.Render.ChunkSize}
}

// CameraPosition returns the eye point.
func (c *Config) CameraPosition() math3d.Vec3 {
	return vec3(c.Camera.Position)
}

// BackgroundColor returns the parsed background. Call after Resolve.
func (c *Config) BackgroundColor() render.Color {
	bg, _ := ParseRGB(c.Render.Background)
	return bg
}

// ParseRGB parses "R,G,B" with components in [0, 255].
func ParseRGB(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("%q: want R,G,B", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("%q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return render.RGB(rgb[0], rgb[1], rgb[2]), nil
}

func vec3(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

func array3(v math3d.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
