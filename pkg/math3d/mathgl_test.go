package math3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// The view and projection matrices must agree with the OpenGL conventions
// implemented by mathgl, which the rasterizer's clip-space tests assume.

func approxMat(a Mat4, b mgl64.Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestMatricesAgreeWithMathgl(t *testing.T) {
	eye, center, up := V3(3, 4, 10), V3(0, 0.5, 0), V3(0, 1, 0)
	mglVec := func(v Vec3) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

	tests := []struct {
		name string
		got  Mat4
		want mgl64.Mat4
	}{
		{"perspective", Perspective(math.Pi/3, 16.0/9.0, 0.1, 100), mgl64.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)},
		{"look at", LookAt(eye, center, up), mgl64.LookAtV(mglVec(eye), mglVec(center), mglVec(up))},
		{"translate", Translate(V3(1, -2, 3)), mgl64.Translate3D(1, -2, 3)},
		{"scale", Scale(V3(2, 3, 4)), mgl64.Scale3D(2, 3, 4)},
		{"rotate x", RotateX(0.7), mgl64.HomogRotate3DX(0.7)},
		{"rotate y", RotateY(-1.1), mgl64.HomogRotate3DY(-1.1)},
		{"rotate z", RotateZ(2.5), mgl64.HomogRotate3DZ(2.5)},
		{
			"composite",
			RotateX(0.3).Mul(RotateY(0.4)).Mul(Translate(V3(1, 2, 3))),
			mgl64.HomogRotate3DX(0.3).Mul4(mgl64.HomogRotate3DY(0.4)).Mul4(mgl64.Translate3D(1, 2, 3)),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !approxMat(tc.got, tc.want, 1e-9) {
				t.Errorf("got %v\nwant %v", tc.got, tc.want)
			}
		})
	}
}

func TestInverseAgreesWithMathgl(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 1, 0.5)))
	want := mgl64.Mat4(m).Inv()

	if !approxMat(m.Inverse(), want, 1e-9) {
		t.Errorf("Inverse = %v, want %v", m.Inverse(), want)
	}
	if d, want := m.Determinant(), mgl64.Mat4(m).Det(); math.Abs(d-want) > 1e-9 {
		t.Errorf("Determinant = %v, want %v", d, want)
	}
}

func TestMulVec4AgreesWithMathgl(t *testing.T) {
	m := Perspective(math.Pi/4, 1.5, 1, 50).Mul(LookAt(V3(0, 0, 5), Zero3(), V3(0, 1, 0)))
	v := Vec4{0.3, -0.2, 1.5, 1}

	got := m.MulVec4(v)
	want := mgl64.Mat4(m).Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, v.W})
	for i, g := range [4]float64{got.X, got.Y, got.Z, got.W} {
		if math.Abs(g-want[i]) > 1e-12 {
			t.Errorf("component %d = %v, want %v", i, g, want[i])
		}
	}
}
