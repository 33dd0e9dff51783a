package assets

import (
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/spacescene/scene"
)

var identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// LoadGLTF opens .gltf or .glb and converts its default scene into node tree
func LoadGLTF(path string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	return FromDocument(doc)
}

// LoadAsync calls exactly one of callbacks from new goroutine
func LoadAsync(path string, onLoad func(*scene.Node), onError func(error)) {
	go func() {
		log.Printf("[assets] loading %q", path)
		root, err := LoadGLTF(path)
		if err != nil {
			onError(err)
		} else {
			onLoad(root)
		}
	}()
}

func FromDocument(doc *gltf.Document) (*scene.Node, error) {
	if len(doc.Scenes) == 0 {
		return nil, errors.New("document has no scenes")
	}
	sceneIdx := uint32(0)
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if int(sceneIdx) >= len(doc.Scenes) {
		return nil, errors.Errorf("default scene %d out of range", sceneIdx)
	}
	gs := doc.Scenes[sceneIdx]

	joints := make(map[uint32]bool)
	for _, skin := range doc.Skins {
		for _, j := range skin.Joints {
			joints[j] = true
		}
	}

	root := scene.NewNode(gs.Name, scene.TypeGroup)
	visited := make(map[uint32]bool)
	for _, idx := range gs.Nodes {
		n, err := convertNode(doc, idx, joints, visited)
		if err != nil {
			return nil, err
		}
		if err := root.Add(n); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func convertNode(doc *gltf.Document, idx uint32, joints, visited map[uint32]bool) (*scene.Node, error) {
	if int(idx) >= len(doc.Nodes) {
		return nil, errors.Errorf("node index %d out of range", idx)
	}
	if visited[idx] {
		return nil, errors.Errorf("node %d referenced twice", idx)
	}
	visited[idx] = true

	gn := doc.Nodes[idx]
	_type := scene.TypeObject3D
	if joints[idx] {
		_type = scene.TypeBone
	} else if gn.Mesh != nil {
		_type = scene.TypeMesh
	}

	n := scene.NewNode(gn.Name, _type)
	if gn.Matrix != identityMatrix && gn.Matrix != ([16]float32{}) {
		pos, rot, scale := decompose(mgl32.Mat4(gn.Matrix))
		n.Position, n.Scale = pos, scale
		n.SetQuaternion(rot)
	} else {
		n.Position = gn.Translation
		if gn.Scale != ([3]float32{}) {
			n.Scale = gn.Scale
		}
		if gn.Rotation != ([4]float32{}) {
			r := gn.Rotation
			n.SetQuaternion(mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}})
		}
	}

	for _, c := range gn.Children {
		child, err := convertNode(doc, c, joints, visited)
		if err != nil {
			return nil, errors.Wrapf(err, "child of %q", gn.Name)
		}
		if err := n.Add(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// assumes no shear, column major TRS
func decompose(m mgl32.Mat4) (pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	pos = m.Col(3).Vec3()
	cols := [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	for i := range cols {
		scale[i] = cols[i].Len()
		if scale[i] != 0 {
			cols[i] = cols[i].Mul(1 / scale[i])
		}
	}
	rot = mgl32.Mat4ToQuat(mgl32.Mat3FromCols(cols[0], cols[1], cols[2]).Mat4())
	return pos, rot, scale
}

func FromNode(root *scene.Node) *gltf.Document {
	doc := gltf.NewDocument()
	var add func(n *scene.Node) uint32
	add = func(n *scene.Node) uint32 {
		q := n.Quaternion()
		gn := &gltf.Node{
			Name:        n.Name,
			Translation: n.Position,
			Rotation:    q.V.Vec4(q.W),
			Scale:       n.Scale,
			Matrix:      identityMatrix,
		}
		idx := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, gn)
		for _, c := range n.Children() {
			gn.Children = append(gn.Children, add(c))
		}
		return idx
	}
	rootIdx := add(root)
	doc.Scenes[0].Name = root.Name
	doc.Scenes[0].Nodes = []uint32{rootIdx}
	return doc
}

// ExportGLB writes subtree transforms as binary gltf
func ExportGLB(w io.Writer, root *scene.Node) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	if err := encoder.Encode(FromNode(root)); err != nil {
		return errors.Wrap(err, "Failed to encode glb")
	}
	return nil
}
