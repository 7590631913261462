package pinentry

// SlotStatus is the visual directive for one slot.
type SlotStatus int

// Slot status constants
const (
	SlotEmpty  SlotStatus = iota // nothing entered, not receiving input
	SlotFilled                   // shows Text
	SlotActive                   // receiving the next character
	SlotError                    // error styling; Text is kept for filled slots
)

func (s SlotStatus) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotFilled:
		return "filled"
	case SlotActive:
		return "active"
	case SlotError:
		return "error"
	default:
		return "unknown"
	}
}

// SlotState is what a presenter needs to draw one slot.
type SlotState struct {
	Status SlotStatus
	Text   string // entered character, or the mask in secure mode
}

// Insets is the padding between the widget bounds and its slots.
type Insets struct {
	Top    float64 `json:"top" yaml:"top" toml:"top"`
	Left   float64 `json:"left" yaml:"left" toml:"left"`
	Bottom float64 `json:"bottom" yaml:"bottom" toml:"bottom"`
	Right  float64 `json:"right" yaml:"right" toml:"right"`
}

// Geometry describes slot sizes and spacing. Units are up to the presenter;
// the terminal renderer uses cells.
type Geometry struct {
	ItemWidth  float64 `json:"item_width" yaml:"item_width" toml:"item_width"`
	ItemHeight float64 `json:"item_height" yaml:"item_height" toml:"item_height"`
	Spacing    float64 `json:"spacing" yaml:"spacing" toml:"spacing"`
	Insets     Insets  `json:"insets" yaml:"insets" toml:"insets"`
}

// Width returns the total width needed for n slots including insets.
func (g Geometry) Width(n int) float64 {
	w := g.Insets.Left + g.Insets.Right
	if n > 0 {
		w += g.ItemWidth*float64(n) + g.Spacing*float64(n-1)
	}
	return w
}

// Height returns the total height including insets.
func (g Geometry) Height() float64 {
	return g.Insets.Top + g.Insets.Bottom + g.ItemHeight
}

// CaretOffset returns the horizontal position of the caret when it sits in
// slot index: the middle of that slot measured from the widget's left edge.
func CaretOffset(index int, g Geometry) float64 {
	if index < 0 {
		index = 0
	}
	return g.Insets.Left + g.ItemWidth/2 + (g.ItemWidth+g.Spacing)*float64(index)
}

// SlotPresenter draws slots. ApplyVisual is called once per slot for every
// redraw, in index order.
type SlotPresenter interface {
	ApplyVisual(index int, state SlotState, style Style)
}

// CaretPositioner places the caret. One of its methods is always the last
// call of a redraw, so implementations may use it to commit a frame.
type CaretPositioner interface {
	PositionCaret(index int, geometry Geometry)
	HideCaret()
}

// Observer receives entry notifications from a PinEntry.
type Observer interface {
	OnChanged(isComplete bool)
	OnCompleted(value string)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Changed   func(isComplete bool)
	Completed func(value string)
}

// OnChanged implements Observer.
func (o ObserverFuncs) OnChanged(isComplete bool) {
	if o.Changed != nil {
		o.Changed(isComplete)
	}
}

// OnCompleted implements Observer.
func (o ObserverFuncs) OnCompleted(value string) {
	if o.Completed != nil {
		o.Completed(value)
	}
}

// Clipboard provides text for paste operations.
type Clipboard interface {
	ReadText() (string, error)
}

// nopPresenter is used when no presenter is configured.
type nopPresenter struct{}

func (nopPresenter) ApplyVisual(int, SlotState, Style) {}
func (nopPresenter) PositionCaret(int, Geometry)       {}
func (nopPresenter) HideCaret()                        {}
