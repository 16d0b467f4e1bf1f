package d2diagram

const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
)

// PointerEvent is a platform independent pointer event. Client coordinates are in screen space.
type PointerEvent struct {
	ClientX float64 `json:"clientX" yaml:"x"`
	ClientY float64 `json:"clientY" yaml:"y"`

	Button  int64 `json:"button" yaml:"button"`
	Buttons int64 `json:"buttons" yaml:"buttons"`

	CtrlKey  bool `json:"ctrlKey" yaml:"ctrl"`
	ShiftKey bool `json:"shiftKey" yaml:"shift"`
	AltKey   bool `json:"altKey" yaml:"alt"`
	MetaKey  bool `json:"metaKey" yaml:"meta"`

	PointerID   int64  `json:"pointerId" yaml:"pointerId"`
	PointerType string `json:"pointerType" yaml:"pointerType"`
	IsPrimary   bool   `json:"isPrimary" yaml:"isPrimary"`
}

// PointerInput is a pointer event and the entity under the pointer. Target is nil
// when the pointer is over empty canvas.
type PointerInput struct {
	Target Model
	PointerEvent
}

type WheelEvent struct {
	ClientX float64 `json:"clientX" yaml:"x"`
	ClientY float64 `json:"clientY" yaml:"y"`

	DeltaX    float64 `json:"deltaX" yaml:"dx"`
	DeltaY    float64 `json:"deltaY" yaml:"dy"`
	DeltaZ    float64 `json:"deltaZ" yaml:"dz"`
	DeltaMode int64   `json:"deltaMode" yaml:"deltaMode"`

	CtrlKey  bool `json:"ctrlKey" yaml:"ctrl"`
	ShiftKey bool `json:"shiftKey" yaml:"shift"`
	AltKey   bool `json:"altKey" yaml:"alt"`
	MetaKey  bool `json:"metaKey" yaml:"meta"`
}

type KeyboardEvent struct {
	Key  string `json:"key" yaml:"key"`
	Code string `json:"code" yaml:"code"`

	CtrlKey  bool `json:"ctrlKey" yaml:"ctrl"`
	ShiftKey bool `json:"shiftKey" yaml:"shift"`
	AltKey   bool `json:"altKey" yaml:"alt"`
	MetaKey  bool `json:"metaKey" yaml:"meta"`
}

// PanChange is the delta applied to the pan by a single pan update.
type PanChange struct {
	DX float64
	DY float64
}

func (d *Diagram) TriggerPointerDown(target Model, e PointerEvent) {
	d.PointerDown.Emit(PointerInput{Target: target, PointerEvent: e})
}

func (d *Diagram) TriggerPointerMove(target Model, e PointerEvent) {
	d.PointerMove.Emit(PointerInput{Target: target, PointerEvent: e})
}

func (d *Diagram) TriggerPointerUp(target Model, e PointerEvent) {
	d.PointerUp.Emit(PointerInput{Target: target, PointerEvent: e})
}

func (d *Diagram) TriggerPointerClick(target Model, e PointerEvent) {
	d.PointerClick.Emit(PointerInput{Target: target, PointerEvent: e})
}

func (d *Diagram) TriggerWheel(e WheelEvent) {
	d.Wheel.Emit(e)
}

func (d *Diagram) TriggerKeyDown(e KeyboardEvent) {
	d.KeyDown.Emit(e)
}
