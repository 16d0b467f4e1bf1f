package geo

import "fmt"

// Dimensions is a measured width and height.
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func NewDimensions(width, height float64) *Dimensions {
	return &Dimensions{Width: width, Height: height}
}

func (d *Dimensions) Equals(o *Dimensions) bool {
	if d == nil {
		return o == nil
	} else if o == nil {
		return false
	}
	return d.Width == o.Width && d.Height == o.Height
}

func (d *Dimensions) Copy() *Dimensions {
	if d == nil {
		return nil
	}
	return NewDimensions(d.Width, d.Height)
}

func (d *Dimensions) ToString() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%vx%v", d.Width, d.Height)
}
