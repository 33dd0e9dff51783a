package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/spacescene/utils"
)

const (
	TypeScene            = "Scene"
	TypeGroup            = "Group"
	TypeObject3D         = "Object3D"
	TypeMesh             = "Mesh"
	TypeBone             = "Bone"
	TypePointLight       = "PointLight"
	TypeAmbientLight     = "AmbientLight"
	TypePointLightHelper = "PointLightHelper"
	TypeGridHelper       = "GridHelper"
	TypeCamera           = "PerspectiveCamera"
)

var ErrCycle = errors.New("node cannot become its own descendant")

/*
Node owns its children. parent is only a back link kept by Add/Remove,
so the graph stays a tree.
*/
type Node struct {
	Name     string
	Type     string
	Position mgl32.Vec3
	Scale    mgl32.Vec3

	// Optional declarative payload for the viewer, core code ignores it
	Geometry *Geometry
	Material *Material
	Light    *Light

	rotation   mgl32.Vec3 // euler XYZ, radians
	quaternion mgl32.Quat

	parent   *Node
	children []*Node
}

func NewNode(name, _type string) *Node {
	return &Node{
		Name:       name,
		Type:       _type,
		Scale:      mgl32.Vec3{1, 1, 1},
		quaternion: mgl32.QuatIdent(),
	}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

func (n *Node) isDescendantOf(other *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}
	return false
}

// Add appends children in order, detaching them from previous parents
func (n *Node) Add(children ...*Node) error {
	for _, c := range children {
		if c == nil {
			continue
		}
		if n.isDescendantOf(c) {
			return errors.Wrapf(ErrCycle, "adding %q to %q", c.Name, n.Name)
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	return nil
}

func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Traverse walks subtree in pre-order
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

func (n *Node) Rotation() mgl32.Vec3   { return n.rotation }
func (n *Node) Quaternion() mgl32.Quat { return n.quaternion }

func (n *Node) SetRotation(euler mgl32.Vec3) {
	n.rotation = euler
	n.quaternion = utils.EulerXYZToQuat(euler)
}

func (n *Node) SetQuaternion(q mgl32.Quat) {
	n.quaternion = q.Normalize()
	n.rotation = utils.QuatToEulerXYZ(n.quaternion)
}

func (n *Node) RotateX(delta float32) { n.rotateEuler(0, delta) }
func (n *Node) RotateY(delta float32) { n.rotateEuler(1, delta) }
func (n *Node) RotateZ(delta float32) { n.rotateEuler(2, delta) }

func (n *Node) rotateEuler(axis int, delta float32) {
	e := n.rotation
	e[axis] += delta
	n.SetRotation(e)
}

// RotateOnAxis spins node around axis given in its own local frame.
// axis must be normalized
func (n *Node) RotateOnAxis(axis mgl32.Vec3, angle float32) {
	n.SetQuaternion(n.quaternion.Mul(mgl32.QuatRotate(angle, axis)))
}

func (n *Node) LocalMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2]).
		Mul4(n.quaternion.Mat4()).
		Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul4(n.LocalMatrix())
}

func (n *Node) LocalToWorld(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(v, n.WorldMatrix())
}

func (n *Node) WorldToLocal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(v, n.WorldMatrix().Inv())
}

// Find returns first node in subtree with given name
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}
