package pinentry

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ANSI control sequences used by the renderer
const (
	clearLine  = "\r\x1b[K"
	showCursor = "\x1b[?25h"
	hideCursor = "\x1b[?25l"
	underline  = "\x1b[4m"
)

// renderer draws the slots on a single terminal line.
//
// It implements SlotPresenter and CaretPositioner. Slot visuals are
// collected until the caret call that ends every push from PinEntry; only
// then is the line redrawn, so a half-updated row never reaches the screen.
// Nothing is written while the renderer is inactive (outside Prompt.Run).
type renderer struct {
	output   io.Writer
	prefix   string
	geometry Geometry
	style    Style
	slots    []SlotState // visuals collected for the frame in progress
	active   bool
	err      error // first write error, reported by takeError
}

func newRenderer(output io.Writer, prefix string, geometry Geometry) *renderer {
	return &renderer{
		output:   output,
		prefix:   prefix,
		geometry: geometry,
	}
}

// ApplyVisual implements SlotPresenter. Index 0 starts a new frame.
func (r *renderer) ApplyVisual(index int, state SlotState, style Style) {
	if index == 0 {
		r.slots = r.slots[:0]
	}
	for len(r.slots) <= index {
		r.slots = append(r.slots, SlotState{})
	}
	r.slots[index] = state
	r.style = style
}

// PositionCaret implements CaretPositioner.
func (r *renderer) PositionCaret(index int, geometry Geometry) {
	r.geometry = geometry
	if !r.active {
		r.slots = r.slots[:0]
		return
	}
	line, width := r.composeLine()
	col := r.caretColumn(index)

	var sb strings.Builder
	sb.WriteString(line)
	if back := width - col; back > 0 {
		fmt.Fprintf(&sb, "\x1b[%dD", back)
	}
	sb.WriteString(showCursor)
	r.write(sb.String())
}

// HideCaret implements CaretPositioner.
func (r *renderer) HideCaret() {
	if !r.active {
		r.slots = r.slots[:0]
		return
	}
	line, _ := r.composeLine()
	r.write(hideCursor + line)
}

// composeLine renders the prefix and the collected slots and returns the
// line together with its width in cells. The frame is consumed.
func (r *renderer) composeLine() (string, int) {
	var sb strings.Builder
	sb.WriteString(clearLine)
	sb.WriteString(r.prefix)
	width := runewidth.StringWidth(r.prefix)

	left := r.cells(r.geometry.Insets.Left)
	sb.WriteString(strings.Repeat(" ", left))
	width += left

	spacing := r.cells(r.geometry.Spacing)
	for i, slot := range r.slots {
		if i > 0 {
			sb.WriteString(strings.Repeat(" ", spacing))
			width += spacing
		}
		width += r.renderSlot(&sb, slot)
	}

	right := r.cells(r.geometry.Insets.Right)
	sb.WriteString(strings.Repeat(" ", right))
	width += right

	r.slots = r.slots[:0]
	return sb.String(), width
}

// renderSlot writes one slot and returns its width in cells.
func (r *renderer) renderSlot(sb *strings.Builder, slot SlotState) int {
	border := r.style.BorderColor(slot.Status)
	open, closing := r.borderRunes()

	if open != "" {
		sb.WriteString(border.ToANSI())
		sb.WriteString(open)
		sb.WriteString(ResetANSI())
	}

	if bg := r.style.BackgroundColor(slot.Status); bg != nil {
		sb.WriteString(bg.BackgroundANSI())
	}
	if r.style.Underlined && r.style.BorderWidth > 0 {
		sb.WriteString(border.ToANSI())
		sb.WriteString(underline)
	}
	text := r.style.Text
	text.Bold = text.Bold || r.style.Bold
	sb.WriteString(text.ToANSI())
	sb.WriteString(r.center(slot.Text))
	sb.WriteString(ResetANSI())

	if closing != "" {
		sb.WriteString(border.ToANSI())
		sb.WriteString(closing)
		sb.WriteString(ResetANSI())
	}

	return r.slotWidth()
}

// borderRunes returns the left and right border of a slot, empty when the
// style draws no box.
func (r *renderer) borderRunes() (string, string) {
	switch {
	case r.style.BorderWidth <= 0 || r.style.Underlined:
		return "", ""
	case r.style.CornerRadius > 0:
		return "(", ")"
	default:
		return "[", "]"
	}
}

// itemWidth is the number of cells inside a slot.
func (r *renderer) itemWidth() int {
	return max(1, r.cells(r.geometry.ItemWidth))
}

// slotWidth is the number of cells a slot occupies including its borders.
func (r *renderer) slotWidth() int {
	open, closing := r.borderRunes()
	return runewidth.StringWidth(open) + r.itemWidth() + runewidth.StringWidth(closing)
}

// center pads text to the slot's inner width. Text wider than the slot is truncated.
func (r *renderer) center(text string) string {
	w := r.itemWidth()
	text = runewidth.Truncate(text, w, "")
	pad := w - runewidth.StringWidth(text)
	leftPad := pad / 2
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", pad-leftPad)
}

// caretColumn returns the 0-based column of the caret in the active slot.
func (r *renderer) caretColumn(index int) int {
	cellGeometry := Geometry{
		ItemWidth: float64(r.slotWidth()),
		Spacing:   float64(r.cells(r.geometry.Spacing)),
		Insets:    Insets{Left: float64(r.cells(r.geometry.Insets.Left))},
	}
	offset := CaretOffset(index, cellGeometry)
	// even widths have no middle cell; use the left one
	if r.itemWidth()%2 == 0 {
		offset -= 0.5
	}
	return runewidth.StringWidth(r.prefix) + int(offset)
}

// width returns the total line width for n slots.
func (r *renderer) width(n int) int {
	w := runewidth.StringWidth(r.prefix) + r.cells(r.geometry.Insets.Left) + r.cells(r.geometry.Insets.Right)
	if n > 0 {
		w += n*r.slotWidth() + (n-1)*r.cells(r.geometry.Spacing)
	}
	return w
}

func (r *renderer) cells(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(v)
}

func (r *renderer) write(s string) {
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprint(r.output, s); err != nil {
		r.err = err
	}
}

// takeError returns and clears the first write error.
func (r *renderer) takeError() error {
	err := r.err
	r.err = nil
	return err
}
