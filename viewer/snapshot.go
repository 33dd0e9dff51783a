package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/spacescene/scene"
)

type NodeState struct {
	Id         int             `json:"id"`
	Parent     int             `json:"parent"` // -1 for root
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Position   mgl32.Vec3      `json:"position"`
	Quaternion [4]float32      `json:"quaternion"` // x y z w
	Scale      mgl32.Vec3      `json:"scale"`
	Geometry   *scene.Geometry `json:"geometry,omitempty"`
	Material   *scene.Material `json:"material,omitempty"`
	Light      *scene.Light    `json:"light,omitempty"`
}

type CameraState struct {
	Fov        float32    `json:"fov"`
	Aspect     float32    `json:"aspect"`
	Near       float32    `json:"near"`
	Far        float32    `json:"far"`
	Position   mgl32.Vec3 `json:"position"`
	Quaternion [4]float32 `json:"quaternion"`
}

type Snapshot struct {
	Type       string      `json:"type"`
	Frame      uint64      `json:"frame"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Background string      `json:"background,omitempty"`
	Camera     CameraState `json:"camera"`
	Nodes      []NodeState `json:"nodes"`
}

func quat(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

// Flatten lists subtree in pre-order, parents always precede children
func Flatten(root *scene.Node) []NodeState {
	var nodes []NodeState
	var walk func(n *scene.Node, parent int)
	walk = func(n *scene.Node, parent int) {
		id := len(nodes)
		nodes = append(nodes, NodeState{
			Id:         id,
			Parent:     parent,
			Name:       n.Name,
			Type:       n.Type,
			Position:   n.Position,
			Quaternion: quat(n.Quaternion()),
			Scale:      n.Scale,
			Geometry:   n.Geometry,
			Material:   n.Material,
			Light:      n.Light,
		})
		for _, c := range n.Children() {
			walk(c, id)
		}
	}
	walk(root, -1)
	return nodes
}

func CameraSnapshot(c *scene.PerspectiveCamera) CameraState {
	return CameraState{
		Fov:        c.Fov,
		Aspect:     c.Aspect,
		Near:       c.Near,
		Far:        c.Far,
		Position:   c.Position,
		Quaternion: quat(c.Quaternion()),
	}
}
