package controls

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/spacescene/scene"
)

const (
	minPitch = -89.0
	maxPitch = 89.0
)

type input struct {
	yaw, pitch float32
	zoom       float32
	pan        mgl32.Vec2
}

/*
OrbitController keeps camera on a sphere around Target.
Input can arrive from any goroutine, it is queued and only
applied to the camera by Update.
*/
type OrbitController struct {
	Target      mgl32.Vec3
	Distance    float32
	Pitch       float32 // x rotation, degrees
	Yaw         float32 // y rotation, degrees
	MinDistance float32
	MaxDistance float32

	camera *scene.PerspectiveCamera

	lock    sync.Mutex
	pending input
}

// NewOrbitController derives distance and angles from current camera placement
func NewOrbitController(camera *scene.PerspectiveCamera, target mgl32.Vec3) *OrbitController {
	offset := camera.Position.Sub(target)
	dist := offset.Len()
	c := &OrbitController{
		Target:      target,
		Distance:    dist,
		MinDistance: 1,
		MaxDistance: 500,
		camera:      camera,
		pending:     input{zoom: 1},
	}
	if dist > 0 {
		c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(offset.Y() / dist))))
		c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(offset.X()), float64(offset.Z()))))
	}
	return c
}

func (c *OrbitController) Rotate(dYaw, dPitch float32) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.pending.yaw += dYaw
	c.pending.pitch += dPitch
}

// Zoom scales distance, factor < 1 moves closer
func (c *OrbitController) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.pending.zoom *= factor
}

// Pan moves target in camera screen plane
func (c *OrbitController) Pan(dx, dy float32) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.pending.pan = c.pending.pan.Add(mgl32.Vec2{dx, dy})
}

func (c *OrbitController) Position() mgl32.Vec3 {
	pitch := float64(mgl32.DegToRad(c.Pitch))
	yaw := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{
		c.Distance * float32(math.Cos(pitch)*math.Sin(yaw)),
		c.Distance * float32(math.Sin(pitch)),
		c.Distance * float32(math.Cos(pitch)*math.Cos(yaw)),
	}.Add(c.Target)
}

// Update applies input collected since last call and places camera.
// Returns true if anything changed
func (c *OrbitController) Update() bool {
	c.lock.Lock()
	in := c.pending
	c.pending = input{zoom: 1}
	c.lock.Unlock()

	if in == (input{zoom: 1}) {
		return false
	}

	if in.pan != (mgl32.Vec2{}) {
		q := c.camera.Quaternion()
		right := q.Rotate(mgl32.Vec3{1, 0, 0})
		up := q.Rotate(mgl32.Vec3{0, 1, 0})
		c.Target = c.Target.Add(right.Mul(in.pan.X())).Add(up.Mul(in.pan.Y()))
	}

	c.Yaw += in.yaw
	c.Pitch = mgl32.Clamp(c.Pitch+in.pitch, minPitch, maxPitch)
	c.Distance = mgl32.Clamp(c.Distance*in.zoom, c.MinDistance, c.MaxDistance)

	c.camera.Position = c.Position()
	c.camera.LookAt(c.Target)
	return true
}
