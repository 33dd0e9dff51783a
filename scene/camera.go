package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type PerspectiveCamera struct {
	*Node

	Fov    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	projection mgl32.Mat4
}

func NewPerspectiveCamera(fov, aspect, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Node:   NewNode("camera", TypeCamera),
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix must be called after changing Fov, Aspect, Near or Far
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c *PerspectiveCamera) Projection() mgl32.Mat4 { return c.projection }

func (c *PerspectiveCamera) ViewMatrix() mgl32.Mat4 {
	return c.WorldMatrix().Inv()
}

// LookAt turns camera so its -z axis points at target
func (c *PerspectiveCamera) LookAt(target mgl32.Vec3) {
	if target.ApproxEqual(c.Position) {
		return
	}
	view := mgl32.LookAtV(c.Position, target, mgl32.Vec3{0, 1, 0})
	// view rotation is inverse of camera orientation
	c.SetQuaternion(mgl32.Mat4ToQuat(view).Inverse())
}
