package geo

import (
	"fmt"
	"math"
)

type Box struct {
	TopLeft *Point
	Width   float64
	Height  float64
}

func NewBox(tl *Point, width, height float64) *Box {
	return &Box{
		TopLeft: tl,
		Width:   width,
		Height:  height,
	}
}

func (b *Box) Copy() *Box {
	if b == nil {
		return nil
	}
	return NewBox(b.TopLeft.Copy(), b.Width, b.Height)
}

func (b *Box) Equals(o *Box) bool {
	if b == nil {
		return o == nil
	} else if o == nil {
		return false
	}
	return b.TopLeft.Equals(o.TopLeft) && b.Width == o.Width && b.Height == o.Height
}

func (b *Box) Left() float64   { return b.TopLeft.X }
func (b *Box) Top() float64    { return b.TopLeft.Y }
func (b *Box) Right() float64  { return b.TopLeft.X + b.Width }
func (b *Box) Bottom() float64 { return b.TopLeft.Y + b.Height }

func (b *Box) Center() *Point {
	return NewPoint(b.TopLeft.X+b.Width/2, b.TopLeft.Y+b.Height/2)
}

// Contains reports whether p lies inside b or on its border.
func (b *Box) Contains(p *Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() && p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Union returns the smallest box containing both b and o.
func (b *Box) Union(o *Box) *Box {
	left := math.Min(b.Left(), o.Left())
	top := math.Min(b.Top(), o.Top())
	right := math.Max(b.Right(), o.Right())
	bottom := math.Max(b.Bottom(), o.Bottom())
	return NewBox(NewPoint(left, top), right-left, bottom-top)
}

// Inflate returns b grown by dx on the left and right and by dy on the top and bottom.
func (b *Box) Inflate(dx, dy float64) *Box {
	return NewBox(NewPoint(b.Left()-dx, b.Top()-dy), b.Width+2*dx, b.Height+2*dy)
}

// BoundsOf returns the union of boxes, or nil when there are none.
func BoundsOf(boxes ...*Box) *Box {
	var bounds *Box
	for _, b := range boxes {
		if b == nil {
			continue
		}
		if bounds == nil {
			bounds = b.Copy()
			continue
		}
		bounds = bounds.Union(b)
	}
	return bounds
}

func (b *Box) Intersections(s Segment) []*Point {
	pts := []*Point{}

	tl := b.TopLeft
	tr := NewPoint(tl.X+b.Width, tl.Y)
	br := NewPoint(tr.X, tr.Y+b.Height)
	bl := NewPoint(tl.X, br.Y)

	for _, side := range [][2]*Point{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}} {
		if p := IntersectionPoint(s.Start, s.End, side[0], side[1]); p != nil {
			pts = append(pts, p)
		}
	}
	return pts
}

func (b *Box) ToString() string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("{TopLeft: %s, Width: %v, Height: %v}", b.TopLeft.ToString(), b.Width, b.Height)
}
