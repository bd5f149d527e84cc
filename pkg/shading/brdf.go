// Package shading evaluates per-vertex outgoing radiance from point lights
// using a Lambertian diffuse term plus a Blinn-Phong or microfacet
// (Cook-Torrance, GGX) specular term.
package shading

import (
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// SpecularModel selects the specular lobe of the BRDF.
type SpecularModel int

const (
	BlinnPhong   SpecularModel = iota // ks * (n·wh)^shininess
	CookTorrance                      // Beckmann D, Cook-Torrance G
	GGXSmith                          // GGX D, Smith G
	GGXSchlick                        // GGX D, Schlick-approximated Smith G
)

var modelNames = [...]string{
	BlinnPhong:   "blinn-phong",
	CookTorrance: "cook-torrance",
	GGXSmith:     "ggx-smith",
	GGXSchlick:   "ggx-schlick",
}

func (m SpecularModel) String() string {
	if m < 0 || int(m) >= len(modelNames) {
		return fmt.Sprintf("SpecularModel(%d)", int(m))
	}
	return modelNames[m]
}

// Microfacet reports whether m is one of the microfacet lobes.
func (m SpecularModel) Microfacet() bool {
	return m != BlinnPhong
}

// ParseSpecularModel maps a name such as "ggx-smith" to its model.
func ParseSpecularModel(name string) (SpecularModel, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range modelNames {
		if n == key {
			return SpecularModel(i), nil
		}
	}
	return BlinnPhong, fmt.Errorf("unknown specular model %q", name)
}

// Material holds the reflectance parameters consumed by the evaluator.
type Material struct {
	Kd        float64 // Diffuse coefficient; Kd = pi gives a unit Lambertian term
	Ks        float64 // Blinn-Phong specular coefficient
	Shininess float64 // Blinn-Phong exponent
	Alpha     float64 // Microfacet roughness
	F0        float64 // Reflectance at normal incidence
	Model     SpecularModel
}

// DefaultMaterial returns the viewer's startup material.
func DefaultMaterial() Material {
	return Material{
		Kd:        math.Pi,
		Ks:        1,
		Shininess: 1,
		Alpha:     0.5,
		F0:        0.5,
		Model:     CookTorrance,
	}
}

// Diffuse returns the Lambertian term kd/pi.
func (m Material) Diffuse() float64 {
	return m.Kd / math.Pi
}

// Specular returns the specular term for unit vectors n, wi (toward the
// light), wo (toward the viewer) and the half vector wh.
func (m Material) Specular(n, wi, wo, wh math3d.Vec3) float64 {
	switch m.Model {
	case CookTorrance:
		return cookTorrance(m.Alpha, m.F0, newFrame(n, wi, wo, wh))
	case GGXSmith:
		return ggx(m.Alpha, m.F0, newFrame(n, wi, wo, wh), SmithG1)
	case GGXSchlick:
		return ggx(m.Alpha, m.F0, newFrame(n, wi, wo, wh), SchlickG1)
	default:
		return m.Ks * math.Pow(math.Max(0, n.Dot(wh)), m.Shininess)
	}
}

// Evaluate returns the total reflectance diffuse + specular.
func (m Material) Evaluate(n, wi, wo, wh math3d.Vec3) float64 {
	return m.Diffuse() + m.Specular(n, wi, wo, wh)
}
