package math3d

import (
	"math"
	"testing"
)

func TestVec3Offset(t *testing.T) {
	base := V3(1, 2, 3)

	tests := []struct {
		axis     Axis
		delta    float64
		expected Vec3
	}{
		{AxisX, 0.5, V3(1.5, 2, 3)},
		{AxisY, -1, V3(1, 1, 3)},
		{AxisZ, 2, V3(1, 2, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.axis.String(), func(t *testing.T) {
			got := base.Offset(tc.axis, tc.delta)
			if got != tc.expected {
				t.Errorf("Offset(%v, %v) = %v, want %v", tc.axis, tc.delta, got, tc.expected)
			}
			if got.Component(tc.axis) != tc.expected.Component(tc.axis) {
				t.Errorf("Component(%v) = %v, want %v", tc.axis, got.Component(tc.axis), tc.expected.Component(tc.axis))
			}
		})
	}

	if base != V3(1, 2, 3) {
		t.Errorf("Offset mutated receiver: %v", base)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := Zero3().Normalize(); got != Zero3() {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}

	n := V3(3, 0, 4).Normalize()
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("len = %v, want 1", n.Len())
	}
	if !n.ApproxEqual(V3(0.6, 0, 0.8), 1e-12) {
		t.Errorf("Normalize = %v, want (0.6, 0, 0.8)", n)
	}
}

func TestNormalMatrixKeepsNormalsPerpendicular(t *testing.T) {
	m := Scale(V3(4, 1, 1)).Mul(RotateY(0.3))

	// Tangent lies in the surface, normal is perpendicular to it.
	tangent := V3(1, 1, 0)
	normal := V3(-1, 1, 0).Normalize()

	tt := m.MulVec3Dir(tangent)
	nn := m.NormalMatrix().MulVec3Dir(normal)

	if d := tt.Dot(nn); math.Abs(d) > 1e-9 {
		t.Errorf("transformed normal not perpendicular to tangent: dot = %v", d)
	}
	if naive := m.MulVec3Dir(normal); math.Abs(tt.Dot(naive)) < 1e-3 {
		t.Errorf("expected non-uniform scale to skew a naively transformed normal")
	}
}
