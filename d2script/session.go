// Package d2script replays a recorded editing session against a diagram. A session is a
// YAML document describing the initial diagram and a sequence of input events. Run
// builds the diagram, registers the default behaviors, feeds it the events and reports
// the resulting geometry.
package d2script

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/d2canvas/lib/geo"
)

type Session struct {
	// Options are decoded over d2diagram.DefaultOptions.
	Options   yaml.Node  `yaml:"options"`
	Container *Rect      `yaml:"container"`
	Zoom      float64    `yaml:"zoom"`
	Pan       *geo.Point `yaml:"pan"`

	Nodes  []NodeSpec  `yaml:"nodes"`
	Groups []GroupSpec `yaml:"groups"`
	Links  []LinkSpec  `yaml:"links"`

	Events []Event `yaml:"events"`
}

type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (r Rect) box() *geo.Box {
	return geo.NewBox(geo.NewPoint(r.X, r.Y), r.Width, r.Height)
}

// NodeSpec describes a node. A node without width and height is unmeasured.
type NodeSpec struct {
	ID        string  `yaml:"id"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	MinWidth  float64 `yaml:"minWidth"`
	MinHeight float64 `yaml:"minHeight"`
	Title     string  `yaml:"title"`
	Shape     string  `yaml:"shape"`
	Parent    string  `yaml:"parent"`
	Order     int     `yaml:"order"`
	Locked    bool    `yaml:"locked"`
	Selected  bool    `yaml:"selected"`

	Ports []PortSpec `yaml:"ports"`
	// Resizers and Controls are lists of alignments.
	Resizers []string `yaml:"resizers"`
	Controls []string `yaml:"controls"`
}

// PortSpec describes a port. A port without width and height is unmeasured.
type PortSpec struct {
	ID        string  `yaml:"id"`
	Alignment string  `yaml:"alignment"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Shape     string  `yaml:"shape"`
	Disabled  bool    `yaml:"disabled"`
}

type GroupSpec struct {
	ID       string   `yaml:"id"`
	Members  []string `yaml:"members"`
	Padding  *float64 `yaml:"padding"`
	AutoSize *bool    `yaml:"autoSize"`
	Locked   bool     `yaml:"locked"`
	Selected bool     `yaml:"selected"`

	Ports    []PortSpec `yaml:"ports"`
	Resizers []string   `yaml:"resizers"`
	Controls []string   `yaml:"controls"`
}

type LinkSpec struct {
	ID       string      `yaml:"id"`
	Source   EndSpec     `yaml:"source"`
	Target   *EndSpec    `yaml:"target"`
	Vertices []geo.Point `yaml:"vertices"`
	Locked   bool        `yaml:"locked"`
	Selected bool        `yaml:"selected"`

	SourceMarker string `yaml:"sourceMarker"`
	TargetMarker string `yaml:"targetMarker"`
}

// EndSpec is one end of a link. Exactly one field must be set.
type EndSpec struct {
	// Port binds the end to a port.
	Port string `yaml:"port"`
	// Node binds the end to the outline of a node.
	Node string `yaml:"node"`
	// Dynamic binds the end to the closest of the corners, edge midpoints and center
	// of a node.
	Dynamic string `yaml:"dynamic"`
	// Position leaves the end at a fixed point.
	Position *geo.Point `yaml:"position"`
}

const (
	EventPointerDown = "pointerdown"
	EventPointerMove = "pointermove"
	EventPointerUp   = "pointerup"
	EventClick       = "click"
	EventWheel       = "wheel"
	EventKeyDown     = "keydown"
	EventZoomToFit   = "zoomtofit"
	EventSendToBack  = "sendtoback"
	EventSendToFront = "sendtofront"
	EventDelete      = "delete"
)

// Event is one step of a session. Which fields apply depends on Type.
type Event struct {
	Type string `yaml:"type"`

	// Target is the ID of the node, group, port or link under the pointer. Empty means
	// the canvas.
	Target string `yaml:"target"`
	// Resizer selects the resizer with this alignment on the Target node.
	Resizer string `yaml:"resizer"`
	// Control selects the resize control with this alignment on the Target node.
	Control string `yaml:"control"`

	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	DX     float64 `yaml:"dx"`
	DY     float64 `yaml:"dy"`
	Button int64   `yaml:"button"`

	Ctrl  bool `yaml:"ctrl"`
	Shift bool `yaml:"shift"`
	Alt   bool `yaml:"alt"`
	Meta  bool `yaml:"meta"`

	Key    string  `yaml:"key"`
	Margin float64 `yaml:"margin"`
}

// Parse decodes a session. Unknown fields are errors.
func Parse(b []byte) (_ *Session, err error) {
	defer xdefer.Errorf(&err, "failed to parse session")

	s := &Session{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	err = dec.Decode(s)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return s, nil
}
