package scene

// Geometry describes a primitive for the viewer. Params meaning depends on Kind:
//  torus:  radius, tube, radialSegments, tubularSegments
//  sphere: radius, widthSegments, heightSegments
//  grid:   size, divisions
type Geometry struct {
	Kind   string    `json:"kind"`
	Params []float32 `json:"params"`
}

type Material struct {
	Kind      string `json:"kind"` // standard or basic
	Color     uint32 `json:"color"`
	Map       string `json:"map,omitempty"`
	NormalMap string `json:"normalMap,omitempty"`
}

type Light struct {
	Color     uint32  `json:"color"`
	Intensity float32 `json:"intensity"`
	// Target is the light a helper follows
	Target string `json:"target,omitempty"`
}

func NewMesh(name string, g *Geometry, m *Material) *Node {
	n := NewNode(name, TypeMesh)
	n.Geometry = g
	n.Material = m
	return n
}

func NewPointLight(name string, color uint32) *Node {
	n := NewNode(name, TypePointLight)
	n.Light = &Light{Color: color, Intensity: 1}
	return n
}

func NewAmbientLight(name string, color uint32) *Node {
	n := NewNode(name, TypeAmbientLight)
	n.Light = &Light{Color: color, Intensity: 1}
	return n
}

func NewPointLightHelper(light *Node) *Node {
	n := NewNode(light.Name+"-helper", TypePointLightHelper)
	n.Light = &Light{Color: light.Light.Color, Target: light.Name}
	return n
}

func NewGridHelper(size, divisions float32) *Node {
	n := NewNode("grid", TypeGridHelper)
	n.Geometry = &Geometry{Kind: "grid", Params: []float32{size, divisions}}
	return n
}
