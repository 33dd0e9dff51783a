package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	} else if v > max {
		return max
	}
	return v
}

// EulerXYZToQuat builds intrinsic X, then Y, then Z rotation. input in radians
func EulerXYZToQuat(e mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(e[0], mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(e[1], mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(e[2], mgl32.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz).Normalize()
}

// QuatToEulerXYZ is inverse of EulerXYZToQuat. result in radians
func QuatToEulerXYZ(q mgl32.Quat) (e mgl32.Vec3) {
	m := q.Normalize().Mat4()

	m11, m12, m13 := float64(m.At(0, 0)), float64(m.At(0, 1)), float64(m.At(0, 2))
	m22, m23 := float64(m.At(1, 1)), float64(m.At(1, 2))
	m32, m33 := float64(m.At(2, 1)), float64(m.At(2, 2))

	e[1] = float32(math.Asin(clamp(m13, -1, 1)))
	if math.Abs(m13) < 0.9999999 {
		e[0] = float32(math.Atan2(-m23, m33))
		e[2] = float32(math.Atan2(-m12, m11))
	} else {
		// gimbal lock, z folded into x
		e[0] = float32(math.Atan2(m32, m22))
		e[2] = 0
	}
	return e
}

// QuatApproxEqual treats q and -q as the same orientation
func QuatApproxEqual(a, b mgl32.Quat, threshold float32) bool {
	return float32(math.Abs(float64(a.Dot(b)))) >= 1-threshold
}

// Hex color to 0..1 rgb
func ColorFromHex(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((hex>>16)&0xff) / 255.0,
		float32((hex>>8)&0xff) / 255.0,
		float32(hex&0xff) / 255.0,
	}
}
