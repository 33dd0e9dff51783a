package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

type Space int

const (
	Local Space = iota // point is in node parent space
	World
)

var ErrNoParent = errors.New("world space pivot requires parent")

/*
RotateAboutPoint orbits n around point by theta on axis and spins
its own orientation by the same amount, so n keeps facing the pivot.
axis must be normalized, it is used as is.
*/
func RotateAboutPoint(n *Node, point, axis mgl32.Vec3, theta float32, space Space) error {
	if space == World && n.parent == nil {
		return errors.Wrapf(ErrNoParent, "rotating %q", n.Name)
	}

	pos := n.Position
	if space == World {
		pos = n.parent.LocalToWorld(pos)
	}

	pos = pos.Sub(point)
	pos = mgl32.QuatRotate(theta, axis).Rotate(pos)
	pos = pos.Add(point)

	if space == World {
		pos = n.parent.WorldToLocal(pos)
	}
	n.Position = pos

	n.RotateOnAxis(axis, theta)
	return nil
}
