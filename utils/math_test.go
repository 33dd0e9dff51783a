package utils

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var eulerTests = []mgl32.Vec3{
	{0, 0, 0},
	{0.01, 0.005, 0.01},
	{0.5, -0.3, 1.2},
	{-1.4, 0.2, -2.9},
	{math.Pi / 4, math.Pi / 6, math.Pi / 3},
}

func TestEulerQuatRoundTrip(t *testing.T) {
	for _, e := range eulerTests {
		got := QuatToEulerXYZ(EulerXYZToQuat(e))
		if got.Sub(e).Len() > 1e-4 {
			t.Errorf("QuatToEulerXYZ(EulerXYZToQuat(%v))=%v; expected %v", e, got, e)
		}
	}
}

func TestEulerXYZOrder(t *testing.T) {
	// rotating (1,0,0) by 90 deg around z then x must differ from x then z
	e := mgl32.Vec3{math.Pi / 2, 0, math.Pi / 2}
	v := EulerXYZToQuat(e).Rotate(mgl32.Vec3{1, 0, 0})
	expected := mgl32.Vec3{0, 0, 1}
	if v.Sub(expected).Len() > 1e-5 {
		t.Errorf("EulerXYZToQuat(%v).Rotate(x)=%v; expected %v", e, v, expected)
	}
}

func TestQuatApproxEqualSign(t *testing.T) {
	q := EulerXYZToQuat(mgl32.Vec3{0.3, 0.2, 0.1})
	neg := mgl32.Quat{W: -q.W, V: q.V.Mul(-1)}
	if !QuatApproxEqual(q, neg, 1e-5) {
		t.Errorf("QuatApproxEqual(%v,%v)=false; expected true", q, neg)
	}
	if QuatApproxEqual(q, mgl32.QuatIdent(), 1e-5) {
		t.Errorf("QuatApproxEqual(%v,ident)=true; expected false", q)
	}
}

func TestColorFromHex(t *testing.T) {
	c := ColorFromHex(0xff6347)
	expected := mgl32.Vec3{1, 99.0 / 255.0, 71.0 / 255.0}
	if c.Sub(expected).Len() > 1e-6 {
		t.Errorf("ColorFromHex(0xff6347)=%v; expected %v", c, expected)
	}
}
