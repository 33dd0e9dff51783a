package viewer

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/mogaika/spacescene/loop"
	"github.com/mogaika/spacescene/stage"
)

const (
	MsgFrame  = "frame"
	MsgResize = "resize"
	MsgScroll = "scroll"
	MsgOrbit  = "orbit"
	MsgZoom   = "zoom"
	MsgPan    = "pan"
)

type ClientMessage struct {
	Type   string  `json:"type"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Top    float32 `json:"top,omitempty"`
	Dx     float32 `json:"dx,omitempty"`
	Dy     float32 `json:"dy,omitempty"`
	Factor float32 `json:"factor,omitempty"`
}

func DecodeMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, errors.Wrap(err, "Failed to unmarshal client message")
	}
	switch msg.Type {
	case MsgFrame, MsgResize, MsgScroll, MsgOrbit, MsgZoom, MsgPan:
		return msg, nil
	}
	return msg, errors.Errorf("unknown message type %q", msg.Type)
}

// Dispatcher routes viewer input into the frame loop
type Dispatcher struct {
	Driver  *loop.Driver
	Refresh *loop.RequestRefresh
}

func (d *Dispatcher) Dispatch(msg ClientMessage) {
	switch msg.Type {
	case MsgFrame:
		d.Refresh.Request()
	case MsgResize:
		w, h := msg.Width, msg.Height
		d.Driver.Post(func(s *stage.Stage) { s.OnResize(w, h) })
	case MsgScroll:
		top := msg.Top
		d.Driver.Post(func(s *stage.Stage) { s.OnScroll(top) })
	case MsgOrbit:
		d.Driver.Post(func(s *stage.Stage) { s.Controls.Rotate(-msg.Dx, msg.Dy) })
	case MsgZoom:
		factor := msg.Factor
		d.Driver.Post(func(s *stage.Stage) { s.Controls.Zoom(factor) })
	case MsgPan:
		d.Driver.Post(func(s *stage.Stage) { s.Controls.Pan(-msg.Dx, msg.Dy) })
	}
}
