package stage

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/spacescene/config"
	"github.com/mogaika/spacescene/scene"
)

type fakeRenderer struct {
	width, height int
	resizes       int
}

func (r *fakeRenderer) Render(*scene.Node, *scene.PerspectiveCamera) error { return nil }
func (r *fakeRenderer) SetSize(w, h int) {
	r.width, r.height = w, h
	r.resizes++
}

func newStage(t *testing.T) (*Stage, *fakeRenderer) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 800, 600
	r := &fakeRenderer{}
	s, err := New(cfg, r)
	if err != nil {
		t.Fatal(err)
	}
	return s, r
}

func TestBuild(t *testing.T) {
	s, _ := newStage(t)

	// torus, 3 lights, ambient, 3 helpers, grid, stars, moon
	expected := 1 + 3 + 1 + 3 + 1 + 200 + 1
	if got := len(s.Root.Children()); got != expected {
		t.Errorf("root has %d children; expected %d", got, expected)
	}
	if s.Moon.Position != (mgl32.Vec3{-10, 0, 30}) {
		t.Errorf("moon at %v", s.Moon.Position)
	}
	if s.Camera.Position != (mgl32.Vec3{-3, 0, 30}) {
		t.Errorf("camera at %v", s.Camera.Position)
	}
	if s.Lights[2].Position != (mgl32.Vec3{0, 10, 20}) || s.Lights[2].Light.Color != 0xffff00 {
		t.Errorf("light3 = %v %x", s.Lights[2].Position, s.Lights[2].Light.Color)
	}
}

func TestStarsInsideSpread(t *testing.T) {
	s, _ := newStage(t)
	names := map[string]bool{}
	for _, n := range s.Root.Children() {
		if n.Geometry == nil || n.Geometry.Kind != "sphere" || n == s.Moon {
			continue
		}
		for i := 0; i < 3; i++ {
			if n.Position[i] < -starSpread/2 || n.Position[i] > starSpread/2 {
				t.Errorf("star %q at %v outside spread", n.Name, n.Position)
			}
		}
		if names[n.Name] {
			t.Errorf("duplicate star name %q", n.Name)
		}
		names[n.Name] = true
	}
}

func TestStarsDeterministic(t *testing.T) {
	a, _ := newStage(t)
	b, _ := newStage(t)
	for i, n := range a.Root.Children() {
		if m := b.Root.Children()[i]; n.Name != m.Name || n.Position != m.Position {
			t.Fatalf("child %d differs: %q %v vs %q %v", i, n.Name, n.Position, m.Name, m.Position)
		}
	}
}

func TestOnResize(t *testing.T) {
	s, r := newStage(t)
	if r.width != 800 || r.height != 600 {
		t.Fatalf("initial surface %dx%d; expected 800x600", r.width, r.height)
	}

	s.OnResize(1600, 900)
	if s.Camera.Aspect != float32(1600)/float32(900) {
		t.Errorf("Aspect=%v; expected %v", s.Camera.Aspect, float32(1600)/float32(900))
	}
	if r.width != 1600 || r.height != 900 {
		t.Errorf("surface %dx%d; expected 1600x900", r.width, r.height)
	}
	expected := mgl32.Perspective(mgl32.DegToRad(75), float32(1600)/float32(900), 0.1, 1000)
	if s.Camera.Projection() != expected {
		t.Errorf("projection not refreshed")
	}

	aspect, proj := s.Camera.Aspect, s.Camera.Projection()
	s.OnResize(1600, 900)
	if s.Camera.Aspect != aspect || s.Camera.Projection() != proj || r.width != 1600 || r.height != 900 {
		t.Errorf("repeated resize changed state")
	}
}

func TestOnResizeIgnoresEmpty(t *testing.T) {
	s, r := newStage(t)
	aspect := s.Camera.Aspect
	s.OnResize(0, 900)
	if s.Camera.Aspect != aspect || r.resizes != 1 {
		t.Errorf("zero width resize applied")
	}
}

func TestOnScroll(t *testing.T) {
	s, _ := newStage(t)
	rate := config.Default().Animation.ScrollRate.Vec()

	// New scrolls once eagerly
	if s.Moon.Rotation().Sub(rate).Len() > 1e-6 {
		t.Errorf("initial moon rotation %v; expected %v", s.Moon.Rotation(), rate)
	}

	for _, top := range []float32{-1, -5000} {
		s.OnScroll(top)
	}
	expected := rate.Mul(3)
	if s.Moon.Rotation().Sub(expected).Len() > 1e-5 {
		t.Errorf("moon rotation %v; expected %v", s.Moon.Rotation(), expected)
	}
	if s.ScrollTop != -5000 {
		t.Errorf("ScrollTop=%v; expected -5000", s.ScrollTop)
	}
}

func TestAttachModel(t *testing.T) {
	s, _ := newStage(t)
	model := scene.NewNode("Sketchfab_Scene", scene.TypeGroup)
	model.Add(scene.NewNode("", scene.TypeMesh))

	if err := s.AttachModel(model); err != nil {
		t.Fatal(err)
	}
	if model.Parent() != s.Root || s.Model != model {
		t.Errorf("model not attached to scene")
	}

	// the scene root can never go under the model
	if err := s.AttachModel(s.Root); errors.Cause(err) != scene.ErrCycle {
		t.Errorf("AttachModel(root)=%v; expected %v", err, scene.ErrCycle)
	}
}
