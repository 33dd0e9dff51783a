package viewer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"github.com/mogaika/spacescene/config"
	"github.com/mogaika/spacescene/loop"
	"github.com/mogaika/spacescene/scene"
	"github.com/mogaika/spacescene/stage"
)

func testScene() (*scene.Node, *scene.PerspectiveCamera) {
	root := scene.NewNode("", scene.TypeScene)
	torus := scene.NewMesh("torus", &scene.Geometry{Kind: "torus", Params: []float32{10, 3, 16, 100}}, nil)
	group := scene.NewNode("group", scene.TypeGroup)
	group.Add(scene.NewNode("leaf", scene.TypeObject3D))
	root.Add(torus, group)
	return root, scene.NewPerspectiveCamera(75, 1, 0.1, 1000)
}

func TestFlatten(t *testing.T) {
	root, _ := testScene()
	nodes := Flatten(root)

	expected := []struct {
		name   string
		parent int
	}{{"", -1}, {"torus", 0}, {"group", 0}, {"leaf", 2}}
	if len(nodes) != len(expected) {
		t.Fatalf("Flatten() returned %d nodes; expected %d", len(nodes), len(expected))
	}
	for i, e := range expected {
		if nodes[i].Id != i || nodes[i].Name != e.name || nodes[i].Parent != e.parent {
			t.Errorf("Flatten()[%d]=%+v; expected %s with parent %d", i, nodes[i], e.name, e.parent)
		}
	}
	if nodes[0].Quaternion != [4]float32{0, 0, 0, 1} {
		t.Errorf("root quaternion %v; expected identity xyzw", nodes[0].Quaternion)
	}
}

func TestRenderSendsDeltas(t *testing.T) {
	root, cam := testScene()
	h := NewHub()
	h.SetSize(800, 600)

	if err := h.Render(root, cam); err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(h.Snapshot(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Type != "scene" || snap.Frame != 1 || snap.Width != 800 || len(snap.Nodes) != 4 {
		t.Errorf("snapshot %+v", snap)
	}

	c := &client{hub: h, send: make(chan []byte, sendBuffer)}
	h.clients[c] = true

	root.Children()[0].RotateX(0.01)
	if err := h.Render(root, cam); err != nil {
		t.Fatal(err)
	}
	var fm frameMessage
	if err := json.Unmarshal(<-c.send, &fm); err != nil {
		t.Fatal(err)
	}
	if fm.Type != "frame" || fm.Frame != 2 || len(fm.Transforms) != 1 || fm.Transforms[0].Id != 1 {
		t.Errorf("frame message %+v; expected single torus transform", fm)
	}

	root.Add(scene.NewNode("model", scene.TypeGroup))
	h.Render(root, cam)
	var full Snapshot
	json.Unmarshal(<-c.send, &full)
	if full.Type != "scene" || len(full.Nodes) != 5 {
		t.Errorf("structure change sent %q with %d nodes; expected full scene", full.Type, len(full.Nodes))
	}
}

func TestDecodeMessage(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"type":"resize","width":1600,"height":900}`))
	if err != nil {
		t.Fatal(err)
	}
	if msg.Width != 1600 || msg.Height != 900 {
		t.Errorf("DecodeMessage()=%+v", msg)
	}
	for _, bad := range []string{`{"type":"explode"}`, `not json`} {
		if _, err := DecodeMessage([]byte(bad)); err == nil {
			t.Errorf("DecodeMessage(%q) returned nil error", bad)
		}
	}
}

func newStage(t *testing.T, r stage.Renderer) *stage.Stage {
	cfg := config.Default()
	cfg.Stars = 2
	s, err := stage.New(cfg, r)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDispatch(t *testing.T) {
	h := NewHub()
	s := newStage(t, h)
	d := &Dispatcher{Driver: loop.NewDriver(s), Refresh: loop.NewRequestRefresh()}

	moon := s.Moon.Rotation()
	d.Dispatch(ClientMessage{Type: MsgResize, Width: 1600, Height: 900})
	d.Dispatch(ClientMessage{Type: MsgScroll, Top: -300})
	d.Dispatch(ClientMessage{Type: MsgFrame})

	select {
	case <-d.Refresh.C():
	default:
		t.Errorf("frame message did not request refresh")
	}

	// events wait for the loop
	if w, _ := h.Size(); w == 1600 {
		t.Errorf("resize applied outside loop")
	}
	d.Driver.Step(1)
	if w, ht := h.Size(); w != 1600 || ht != 900 {
		t.Errorf("surface %dx%d; expected 1600x900", w, ht)
	}
	rate := config.Default().Animation.ScrollRate.Vec()
	tick := mgl32.Vec3{config.Default().Animation.MoonRate, 0, 0}
	if got := s.Moon.Rotation().Sub(moon.Add(rate).Add(tick)); got.Len() > 1e-5 {
		t.Errorf("moon rotation %v", s.Moon.Rotation())
	}
}

func TestServeWebsocket(t *testing.T) {
	h := NewHub()
	s := newStage(t, h)
	driver := loop.NewDriver(s)
	driver.Step(1)

	received := make(chan ClientMessage, 1)
	h.OnMessage = func(m ClientMessage) { received <- m }

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		h.Serve(conn)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Type != "scene" || snap.Frame != 1 {
		t.Errorf("first message %q frame %d; expected scene snapshot", snap.Type, snap.Frame)
	}

	if err := conn.WriteJSON(ClientMessage{Type: MsgZoom, Factor: 0.5}); err != nil {
		t.Fatal(err)
	}
	select {
	case m := <-received:
		if m.Type != MsgZoom || m.Factor != 0.5 {
			t.Errorf("received %+v", m)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}
}
