package geo

import (
	"fmt"
	"strings"
)

type Orientation int

const (
	TopLeft Orientation = iota
	TopRight
	BottomLeft
	BottomRight

	Top
	Right
	Bottom
	Left

	NONE
)

var orientationNames = map[Orientation]string{
	TopLeft:     "TopLeft",
	TopRight:    "TopRight",
	BottomLeft:  "BottomLeft",
	BottomRight: "BottomRight",
	Top:         "Top",
	Right:       "Right",
	Bottom:      "Bottom",
	Left:        "Left",
}

func (o Orientation) ToString() string {
	return orientationNames[o]
}

func (o Orientation) String() string {
	if s := o.ToString(); s != "" {
		return s
	}
	return "None"
}

// ParseOrientation accepts names like "TopLeft", "top_left" or "top-left".
// The empty string and "none" parse to NONE.
func ParseOrientation(s string) (Orientation, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	if norm == "" || norm == "none" {
		return NONE, nil
	}
	for o, name := range orientationNames {
		if strings.ToLower(name) == norm {
			return o, nil
		}
	}
	return NONE, fmt.Errorf("unknown orientation %q", s)
}

// Degrees is the angle of o measured clockwise from the positive x axis in screen
// coordinates. NONE has no angle and reports ok=false.
func (o Orientation) Degrees() (deg float64, ok bool) {
	switch o {
	case Right:
		return 0, true
	case BottomRight:
		return 45, true
	case Bottom:
		return 90, true
	case BottomLeft:
		return 135, true
	case Left:
		return 180, true
	case TopLeft:
		return 225, true
	case Top:
		return 270, true
	case TopRight:
		return 315, true
	default:
		return 0, false
	}
}

// PointOnBox returns the corner or edge midpoint of b that o names.
// NONE maps to the center.
func (o Orientation) PointOnBox(b *Box) *Point {
	switch o {
	case TopLeft:
		return NewPoint(b.Left(), b.Top())
	case Top:
		return NewPoint(b.Left()+b.Width/2, b.Top())
	case TopRight:
		return NewPoint(b.Right(), b.Top())
	case Right:
		return NewPoint(b.Right(), b.Top()+b.Height/2)
	case BottomRight:
		return NewPoint(b.Right(), b.Bottom())
	case Bottom:
		return NewPoint(b.Left()+b.Width/2, b.Bottom())
	case BottomLeft:
		return NewPoint(b.Left(), b.Bottom())
	case Left:
		return NewPoint(b.Left(), b.Top()+b.Height/2)
	default:
		return b.Center()
	}
}
