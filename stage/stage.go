package stage

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/spacescene/config"
	"github.com/mogaika/spacescene/controls"
	"github.com/mogaika/spacescene/scene"
)

// Renderer produces frames from scene and camera state
type Renderer interface {
	Render(root *scene.Node, camera *scene.PerspectiveCamera) error
	SetSize(width, height int)
}

// Stage holds everything the handlers and frame loop mutate
type Stage struct {
	Root     *scene.Node
	Camera   *scene.PerspectiveCamera
	Controls *controls.OrbitController
	Renderer Renderer

	Torus  *scene.Node
	Lights [3]*scene.Node
	Moon   *scene.Node
	Model  *scene.Node

	Background string
	ScrollTop  float32

	anim config.Animation
}

func New(cfg *config.Config, r Renderer) (*Stage, error) {
	s := &Stage{
		Renderer:   r,
		Background: cfg.Assets.Background,
		anim:       cfg.Animation,
	}
	if err := s.build(cfg); err != nil {
		return nil, err
	}

	s.Controls = controls.NewOrbitController(s.Camera, mgl32.Vec3{})
	s.OnResize(cfg.Width, cfg.Height)
	s.OnScroll(0)
	return s, nil
}

func (s *Stage) Animation() config.Animation { return s.anim }

// OnResize refits camera and output surface to viewport
func (s *Stage) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		log.Printf("[stage] ignoring viewport size %dx%d", width, height)
		return
	}
	s.Camera.Aspect = float32(width) / float32(height)
	s.Camera.UpdateProjectionMatrix()
	s.Renderer.SetSize(width, height)
}

// OnScroll spins moon by fixed step, scroll distance does not matter
func (s *Stage) OnScroll(top float32) {
	s.ScrollTop = top
	s.Moon.RotateX(s.anim.ScrollRate[0])
	s.Moon.RotateY(s.anim.ScrollRate[1])
	s.Moon.RotateZ(s.anim.ScrollRate[2])
}

func (s *Stage) AttachModel(model *scene.Node) error {
	if err := s.Root.Add(model); err != nil {
		return err
	}
	s.Model = model
	log.Printf("[stage] model loaded:\n%s", scene.DumpString(model))
	return nil
}

func (s *Stage) ModelFailed(err error) {
	log.Printf("[stage] model load error: %v", err)
}
