package d2diagram

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"oss.terrastruct.com/xdefer"
)

// WheelAction selects what the mouse wheel does on the canvas.
type WheelAction string

const (
	WheelZoom   WheelAction = "zoom"
	WheelScroll WheelAction = "scroll"
	WheelNone   WheelAction = "none"
)

type (
	// LinkFactory creates the link started by dragging from source. Returning nil cancels
	// the gesture.
	LinkFactory func(d *Diagram, source *Port, target Anchor) *Link
	// GroupFactory creates the group node for members.
	GroupFactory func(d *Diagram, members []*Node) *Node
)

type Options struct {
	Zoom      ZoomOptions     `yaml:"zoom"`
	Links     LinkOptions     `yaml:"links"`
	Groups    GroupOptions    `yaml:"groups"`
	Behaviors BehaviorOptions `yaml:"behaviors"`
	Resize    ResizeOptions   `yaml:"resize"`

	Constraints ConstraintOptions `yaml:"-"`

	// GridSize snaps nodes moved by panning during a drag. 0 disables the grid.
	GridSize         float64 `yaml:"gridSize"`
	GridSnapToCenter bool    `yaml:"gridSnapToCenter"`

	AllowMultiSelection bool `yaml:"allowMultiSelection"`
	// AllowPanning lets a drag on empty canvas pan the view.
	AllowPanning bool `yaml:"allowPanning"`
}

type ZoomOptions struct {
	Enabled     bool    `yaml:"enabled"`
	Inverse     bool    `yaml:"inverse"`
	Minimum     float64 `yaml:"minimum"`
	Maximum     float64 `yaml:"maximum"`
	ScaleFactor float64 `yaml:"scaleFactor"`
}

// SetMinimum sets the lowest zoom level SetZoom accepts without clamping.
func (o *ZoomOptions) SetMinimum(v float64) error {
	if v <= 0 {
		return fmt.Errorf("minimum zoom %v: %w", v, ErrInvalidZoom)
	}
	o.Minimum = v
	return nil
}

type LinkOptions struct {
	EnableSnapping bool    `yaml:"enableSnapping"`
	SnappingRadius float64 `yaml:"snappingRadius"`
	// RequireTarget discards links released away from a port.
	RequireTarget bool `yaml:"requireTarget"`

	Factory LinkFactory `yaml:"-"`
}

type GroupOptions struct {
	Enabled bool    `yaml:"enabled"`
	Padding float64 `yaml:"padding"`

	Factory GroupFactory `yaml:"-"`
}

type BehaviorOptions struct {
	Wheel WheelAction `yaml:"wheel"`
}

type ResizeOptions struct {
	// ScaleByZoom divides pointer deltas by the zoom level while resizing through a
	// resizer handle.
	ScaleByZoom bool `yaml:"scaleByZoom"`
}

// ConstraintOptions hold the predicates consulted before deleting entities.
// A nil predicate allows the deletion.
type ConstraintOptions struct {
	ShouldDeleteNode  func(ctx context.Context, n *Node) (bool, error)
	ShouldDeleteGroup func(ctx context.Context, g *Node) (bool, error)
	ShouldDeleteLink  func(ctx context.Context, l *Link) (bool, error)
}

func DefaultOptions() *Options {
	return &Options{
		Zoom: ZoomOptions{
			Enabled:     true,
			Minimum:     0.1,
			Maximum:     2,
			ScaleFactor: 1.05,
		},
		Links: LinkOptions{
			SnappingRadius: 50,
			RequireTarget:  true,
			Factory:        DefaultLinkFactory,
		},
		Groups: GroupOptions{
			Padding: 30,
			Factory: DefaultGroupFactory,
		},
		Behaviors: BehaviorOptions{
			Wheel: WheelZoom,
		},
		AllowMultiSelection: true,
		AllowPanning:        true,
	}
}

func DefaultLinkFactory(_ *Diagram, source *Port, target Anchor) *Link {
	return NewLink(NewSinglePortAnchor(source), target)
}

func DefaultGroupFactory(d *Diagram, members []*Node) *Node {
	padding := 30.
	if d != nil {
		padding = d.Options.Groups.Padding
	}
	return NewGroup(members, padding, true)
}

func (o *Options) Validate() error {
	if o.Zoom.Minimum <= 0 {
		return fmt.Errorf("minimum zoom %v: %w", o.Zoom.Minimum, ErrInvalidZoom)
	}
	if o.Zoom.Maximum < o.Zoom.Minimum {
		return fmt.Errorf("maximum zoom %v is lower than minimum zoom %v", o.Zoom.Maximum, o.Zoom.Minimum)
	}
	if o.Zoom.ScaleFactor <= 1 {
		return fmt.Errorf("zoom scale factor must be greater than 1, got %v", o.Zoom.ScaleFactor)
	}
	if o.Links.SnappingRadius < 0 {
		return fmt.Errorf("snapping radius must not be negative, got %v", o.Links.SnappingRadius)
	}
	if o.Groups.Padding < 0 {
		return fmt.Errorf("group padding must not be negative, got %v", o.Groups.Padding)
	}
	if o.GridSize < 0 {
		return fmt.Errorf("grid size must not be negative, got %v", o.GridSize)
	}
	switch o.Behaviors.Wheel {
	case WheelZoom, WheelScroll, WheelNone:
	default:
		return fmt.Errorf("unknown wheel behavior %q", o.Behaviors.Wheel)
	}
	return nil
}

// ParseOptions reads YAML options over DefaultOptions. Fields absent from b keep their defaults.
func ParseOptions(b []byte) (_ *Options, err error) {
	defer xdefer.Errorf(&err, "failed to parse options")

	opts := DefaultOptions()
	err = yaml.Unmarshal(b, opts)
	if err != nil {
		return nil, err
	}
	opts.applyDefaults()
	err = opts.Validate()
	if err != nil {
		return nil, err
	}
	return opts, nil
}

// LoadOptions reads options from a YAML file. An empty path returns DefaultOptions.
func LoadOptions(path string) (_ *Options, err error) {
	if path == "" {
		return DefaultOptions(), nil
	}
	defer xdefer.Errorf(&err, "failed to load options from %q", path)

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOptions(b)
}

func (o *Options) applyDefaults() {
	if o.Behaviors.Wheel == "" {
		o.Behaviors.Wheel = WheelZoom
	}
	if o.Links.Factory == nil {
		o.Links.Factory = DefaultLinkFactory
	}
	if o.Groups.Factory == nil {
		o.Groups.Factory = DefaultGroupFactory
	}
}
