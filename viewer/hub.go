package viewer

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/spacescene/scene"
)

const (
	pingPeriod   = 30 * time.Second
	writeTimeout = 40 * time.Second
	sendBuffer   = 8
)

type TransformState struct {
	Id         int        `json:"id"`
	Position   [3]float32 `json:"position"`
	Quaternion [4]float32 `json:"quaternion"`
	Scale      [3]float32 `json:"scale"`
}

// frame message carries only transforms changed since previous frame
type frameMessage struct {
	Type       string           `json:"type"`
	Frame      uint64           `json:"frame"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Camera     CameraState      `json:"camera"`
	Transforms []TransformState `json:"transforms"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

/*
Hub is a renderer whose output surface is every connected browser.
New clients get full scene snapshot, then per frame deltas.
*/
type Hub struct {
	OnMessage func(ClientMessage)

	Background string

	lock    sync.Mutex
	clients map[*client]bool
	frame   uint64
	width   int
	height  int
	last    *Snapshot
	encoded []byte // last full snapshot
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

func (h *Hub) SetSize(width, height int) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.width, h.height = width, height
}

func (h *Hub) Size() (int, int) {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.width, h.height
}

func (h *Hub) Frame() uint64 {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.frame
}

func sameStructure(a, b []NodeState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Parent != b[i].Parent || a[i].Name != b[i].Name || a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

func transformChanged(a, b *NodeState) bool {
	return a.Position != b.Position || a.Quaternion != b.Quaternion || a.Scale != b.Scale
}

// Render broadcasts frame, must be called from one goroutine
func (h *Hub) Render(root *scene.Node, camera *scene.PerspectiveCamera) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.frame++
	snap := &Snapshot{
		Type:       "scene",
		Frame:      h.frame,
		Width:      h.width,
		Height:     h.height,
		Background: h.Background,
		Camera:     CameraSnapshot(camera),
		Nodes:      Flatten(root),
	}

	full, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal snapshot")
	}

	msg := full
	if h.last != nil && sameStructure(h.last.Nodes, snap.Nodes) {
		fm := frameMessage{
			Type:   "frame",
			Frame:  snap.Frame,
			Width:  snap.Width,
			Height: snap.Height,
			Camera: snap.Camera,
		}
		for i := range snap.Nodes {
			if transformChanged(&h.last.Nodes[i], &snap.Nodes[i]) {
				n := &snap.Nodes[i]
				fm.Transforms = append(fm.Transforms, TransformState{
					Id: n.Id, Position: n.Position, Quaternion: n.Quaternion, Scale: n.Scale,
				})
			}
		}
		if msg, err = json.Marshal(&fm); err != nil {
			return errors.Wrap(err, "Failed to marshal frame")
		}
	}

	h.last = snap
	h.encoded = full
	for c := range h.clients {
		h.push(c, msg)
	}
	return nil
}

// push never blocks loop, slow client resyncs from full snapshot later
func (h *Hub) push(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		log.Printf("[viewer] client %v too slow, dropping frame", c.conn.RemoteAddr())
		// drain one and queue current full state so deltas do not go out of order
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- h.encoded:
		default:
		}
	}
}

// Snapshot returns last rendered full snapshot, nil before first frame
func (h *Hub) Snapshot() []byte {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.encoded
}

func (h *Hub) ClientsCount() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

// Serve owns conn until it is closed
func (h *Hub) Serve(conn *websocket.Conn) {
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}

	h.lock.Lock()
	h.clients[c] = true
	if h.encoded != nil {
		c.send <- h.encoded
	}
	h.lock.Unlock()

	log.Printf("[viewer] client %v connected", conn.RemoteAddr())
	go c.writePump()
	c.readPump()
}

func (h *Hub) unregister(c *client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
		log.Printf("[viewer] client %v disconnected", c.conn.RemoteAddr())
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[viewer] ws read error: %v", err)
			}
			return
		}
		msg, err := DecodeMessage(data)
		if err != nil {
			log.Printf("[viewer] bad message: %v", err)
			continue
		}
		if c.hub.OnMessage != nil {
			c.hub.OnMessage(msg)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[viewer] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[viewer] ws write ping error: %v", err)
				return
			}
		}
	}
}
