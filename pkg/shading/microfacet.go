package shading

import (
	"math"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// Epsilon is the floor applied to denominators that may approach zero.
const Epsilon = 1e-7

// MinAlpha is the smallest roughness the distribution terms will accept.
// Smaller values, including zero, are raised to MinAlpha.
const MinAlpha = 1e-4

// clampAlpha keeps roughness inside [MinAlpha, 1].
func clampAlpha(alpha float64) float64 {
	return math.Max(MinAlpha, math.Min(alpha, 1))
}

// FresnelSchlick returns Schlick's approximation of the Fresnel reflectance
// for a light direction making cosine wiDotWh with the half vector.
// The result stays in [f0, 1] for f0 in [0, 1].
func FresnelSchlick(f0, wiDotWh float64) float64 {
	m := 1 - math.Max(0, wiDotWh)
	m2 := m * m
	return f0 + (1-f0)*m2*m2*m
}

// BeckmannD is the Cook-Torrance (Beckmann) normal distribution.
// nDotWh <= 0 yields 0.
func BeckmannD(alpha, nDotWh float64) float64 {
	if nDotWh <= 0 {
		return 0
	}
	alpha = clampAlpha(alpha)
	a2 := alpha * alpha
	c2 := math.Min(nDotWh*nDotWh, 1)
	e := math.Exp((c2 - 1) / (a2 * c2))
	if e == 0 {
		return 0
	}
	return e / (math.Pi * a2 * c2 * c2)
}

// CookTorranceG is the Cook-Torrance masking-shadowing term.
func CookTorranceG(nDotWh, nDotWi, nDotWo, woDotWh float64) float64 {
	woDotWh = math.Max(woDotWh, Epsilon)
	shadowing := 2 * nDotWh * nDotWi / woDotWh
	masking := 2 * nDotWh * nDotWo / woDotWh
	return math.Max(0, math.Min(1, math.Min(shadowing, masking)))
}

// GGXD is the GGX (Trowbridge-Reitz) normal distribution.
func GGXD(alpha, nDotWh float64) float64 {
	if nDotWh <= 0 {
		return 0
	}
	alpha = clampAlpha(alpha)
	a2 := alpha * alpha
	// With cos^2 <= 1 the denominator bottoms out at a2, never zero.
	d := 1 + (a2-1)*math.Min(nDotWh*nDotWh, 1)
	return a2 / (math.Pi * d * d)
}

// SmithG1 is the single-direction Smith masking term for GGX.
func SmithG1(alpha, cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	alpha = clampAlpha(alpha)
	a2 := alpha * alpha
	return 2 * cosTheta / (cosTheta + math.Sqrt(a2+(1-a2)*cosTheta*cosTheta))
}

// SchlickG1 is Schlick's approximation of the Smith masking term, with
// k = alpha * sqrt(2/pi).
func SchlickG1(alpha, cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	k := clampAlpha(alpha) * math.Sqrt(2/math.Pi)
	return cosTheta / math.Max(cosTheta*(1-k)+k, Epsilon)
}

// frame holds the cosines a microfacet evaluation needs.
type frame struct {
	nDotWi  float64
	nDotWo  float64
	nDotWh  float64
	woDotWh float64
	wiDotWh float64
}

func newFrame(n, wi, wo, wh math3d.Vec3) frame {
	return frame{
		nDotWi:  n.Dot(wi),
		nDotWo:  n.Dot(wo),
		nDotWh:  n.Dot(wh),
		woDotWh: wo.Dot(wh),
		wiDotWh: wi.Dot(wh),
	}
}

// microfacet combines distribution, Fresnel and geometry into
// D*F*G / (4 cos_i cos_o). Directions below the tangent plane yield 0.
func (f frame) microfacet(d, fresnel, g float64) float64 {
	if f.nDotWi <= 0 || f.nDotWo <= 0 {
		return 0
	}
	return d * fresnel * g / math.Max(4*f.nDotWi*f.nDotWo, Epsilon)
}

func cookTorrance(alpha, f0 float64, f frame) float64 {
	if f.nDotWi <= 0 || f.nDotWo <= 0 {
		return 0
	}
	d := BeckmannD(alpha, f.nDotWh)
	g := CookTorranceG(f.nDotWh, f.nDotWi, f.nDotWo, f.woDotWh)
	return f.microfacet(d, FresnelSchlick(f0, f.wiDotWh), g)
}

func ggx(alpha, f0 float64, f frame, g1 func(alpha, cosTheta float64) float64) float64 {
	if f.nDotWi <= 0 || f.nDotWo <= 0 {
		return 0
	}
	d := GGXD(alpha, f.nDotWh)
	g := g1(alpha, f.nDotWi) * g1(alpha, f.nDotWo)
	return f.microfacet(d, FresnelSchlick(f0, f.wiDotWh), g)
}
