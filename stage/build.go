package stage

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/spacescene/config"
	"github.com/mogaika/spacescene/scene"
	"github.com/mogaika/spacescene/utils"
)

const starSpread = 100

var lightSetup = [3]struct {
	color    uint32
	position mgl32.Vec3
}{
	{0x00ffff, mgl32.Vec3{20, 5, -10}},
	{0xff00ff, mgl32.Vec3{-20, 5, -10}},
	{0xffff00, mgl32.Vec3{0, 10, 20}},
}

func (s *Stage) build(cfg *config.Config) error {
	s.Root = scene.NewNode("", scene.TypeScene)

	s.Camera = scene.NewPerspectiveCamera(75, float32(cfg.Width)/float32(cfg.Height), 0.1, 1000)
	s.Camera.Position = mgl32.Vec3{-3, 0, 30}

	s.Torus = scene.NewMesh("torus",
		&scene.Geometry{Kind: "torus", Params: []float32{10, 3, 16, 100}},
		&scene.Material{Kind: "standard", Color: 0xff6347})

	nodes := []*scene.Node{s.Torus}
	for i, l := range lightSetup {
		light := scene.NewPointLight(fmt.Sprintf("light%d", i+1), l.color)
		light.Position = l.position
		s.Lights[i] = light
		nodes = append(nodes, light)
	}
	nodes = append(nodes, scene.NewAmbientLight("ambient", 0xffffff))
	for _, light := range s.Lights {
		nodes = append(nodes, scene.NewPointLightHelper(light))
	}
	nodes = append(nodes, scene.NewGridHelper(200, 50))

	rs := utils.NewRandomSource(cfg.Seed)
	for i := 0; i < cfg.Stars; i++ {
		star := scene.NewMesh("star-"+rs.RandomName(),
			&scene.Geometry{Kind: "sphere", Params: []float32{0.2, 24, 24}},
			&scene.Material{Kind: "standard", Color: 0xffffff})
		star.Position = mgl32.Vec3{rs.FloatSpread(starSpread), rs.FloatSpread(starSpread), rs.FloatSpread(starSpread)}
		nodes = append(nodes, star)
	}

	s.Moon = scene.NewMesh("moon",
		&scene.Geometry{Kind: "sphere", Params: []float32{3, 32, 32}},
		&scene.Material{Kind: "standard", Color: 0xffffff, Map: cfg.Assets.MoonMap, NormalMap: cfg.Assets.MoonNormal})
	s.Moon.Position = mgl32.Vec3{-10, 0, 30}
	nodes = append(nodes, s.Moon)

	if err := s.Root.Add(nodes...); err != nil {
		return errors.Wrap(err, "building scene")
	}
	return nil
}
