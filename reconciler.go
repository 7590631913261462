package pinentry

import (
	"errors"
	"fmt"
)

// Edit rejection reasons. A rejected edit leaves the state untouched.
var (
	// ErrEmptyFragment is returned when an insertion carries no characters.
	ErrEmptyFragment = errors.New("empty fragment")
	// ErrFiltered is returned when the fragment contains characters the entry type does not allow.
	ErrFiltered = errors.New("fragment rejected by entry type")
	// ErrNoRoom is returned when the buffer is already full.
	ErrNoRoom = errors.New("no room left")
	// ErrOverflow is returned when the fragment would not fit in the remaining slots.
	ErrOverflow = errors.New("fragment exceeds remaining length")
	// ErrNothingToDelete is returned when deleting from an empty buffer.
	ErrNothingToDelete = errors.New("nothing to delete")
	// ErrNotTrailing is returned when a deletion targets anything but the last character.
	ErrNotTrailing = errors.New("only the last character can be deleted")
	// ErrFocusIndex is returned when focusing a slot other than the first.
	ErrFocusIndex = errors.New("entry can only be activated from the first slot")
	// ErrUnknownOperation is returned for an operation kind the state machine does not know.
	ErrUnknownOperation = errors.New("unknown edit operation")
)

// OpKind identifies an edit operation.
type OpKind int

// Edit operation kinds
const (
	OpInsert OpKind = iota
	OpDelete
	OpReset
	OpSetError
	OpFocusIndex
	OpBlur
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReset:
		return "reset"
	case OpSetError:
		return "set-error"
	case OpFocusIndex:
		return "focus-index"
	case OpBlur:
		return "blur"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// lastChar is the DeleteAt target meaning "whatever the last character is".
const lastChar = -2

// EditOperation is a single edit request fed to the state machine.
type EditOperation struct {
	Kind     OpKind
	Fragment string // Insert: characters to append
	Index    int    // Delete: target index; FocusIndex: slot index
	Flag     bool   // SetError: new error mode
}

// Insert appends fragment to the buffer. Multi-character fragments model a paste.
func Insert(fragment string) EditOperation {
	return EditOperation{Kind: OpInsert, Fragment: fragment}
}

// Delete removes the last character.
func Delete() EditOperation {
	return EditOperation{Kind: OpDelete, Index: lastChar}
}

// DeleteAt removes the character at index i. It is only accepted when i
// addresses the last character; any other index is rejected with ErrNotTrailing.
func DeleteAt(i int) EditOperation {
	return EditOperation{Kind: OpDelete, Index: i}
}

// Reset empties the buffer and clears the error mode.
func Reset() EditOperation {
	return EditOperation{Kind: OpReset}
}

// SetError switches the error styling on or off.
func SetError(flag bool) EditOperation {
	return EditOperation{Kind: OpSetError, Flag: flag}
}

// FocusIndex activates entry at slot i. Only slot 0 is valid.
func FocusIndex(i int) EditOperation {
	return EditOperation{Kind: OpFocusIndex, Index: i}
}

// Blur ends editing and clears the error mode. The buffer is kept.
func Blur() EditOperation {
	return EditOperation{Kind: OpBlur}
}

// Transition describes what an accepted operation did.
type Transition struct {
	Changed   bool   // buffer content may have changed; observers get OnChanged
	Complete  bool   // buffer is full after the operation
	Completed bool   // this operation filled the buffer; observers get OnCompleted
	Value     string // buffer content after the operation
}

// State is the input-reconciliation state machine. It is a value type:
// Apply returns a new State and never mutates the receiver.
type State struct {
	n         int
	buffer    []rune
	errorMode bool
	editing   bool
}

// NewState returns an empty state for n slots. Negative n is treated as 0.
func NewState(n int) State {
	if n < 0 {
		n = 0
	}
	return State{n: n}
}

// N returns the number of slots.
func (s State) N() int { return s.n }

// Len returns the number of entered characters.
func (s State) Len() int { return len(s.buffer) }

// Value returns the entered characters.
func (s State) Value() string { return string(s.buffer) }

// ErrorMode reports whether error styling is on.
func (s State) ErrorMode() bool { return s.errorMode }

// Editing reports whether a slot is currently receiving input.
func (s State) Editing() bool { return s.editing }

// IsComplete reports whether every slot is filled. With zero slots the
// widget is always complete.
func (s State) IsComplete() bool { return len(s.buffer) == s.n }

// ActiveIndex returns the slot receiving the next input or deletion focus.
func (s State) ActiveIndex() int {
	if s.n == 0 {
		return 0
	}
	return min(len(s.buffer), s.n-1)
}

// CaretTarget returns the slot the caret sits in front of. The caret is
// hidden when nothing is being edited or every slot is filled.
func (s State) CaretTarget() (int, bool) {
	if !s.editing || len(s.buffer) >= s.n {
		return 0, false
	}
	return len(s.buffer), true
}

// Slots derives the visual state of every slot. When secure is set filled
// slots show mask instead of the entered character.
func (s State) Slots(secure bool, mask string) []SlotState {
	slots := make([]SlotState, s.n)
	for i := range slots {
		var text string
		if i < len(s.buffer) {
			text = string(s.buffer[i])
			if secure {
				text = mask
			}
		}

		switch {
		case s.errorMode:
			slots[i] = SlotState{Status: SlotError, Text: text}
		case i < len(s.buffer):
			slots[i] = SlotState{Status: SlotFilled, Text: text}
		case i == len(s.buffer) && s.editing:
			slots[i] = SlotState{Status: SlotActive}
		default:
			slots[i] = SlotState{Status: SlotEmpty}
		}
	}
	return slots
}

// Apply runs one edit operation under the given entry type.
//
// On rejection the receiver is returned unchanged together with one of the
// Err* rejection reasons, so a rejected edit is always a no-op.
func (s State) Apply(op EditOperation, entryType EntryType) (State, Transition, error) {
	switch op.Kind {
	case OpInsert:
		return s.insert(op.Fragment, entryType)
	case OpDelete:
		return s.delete(op.Index)
	case OpReset:
		next := State{n: s.n, editing: s.editing}
		return next, next.transition(true, false), nil
	case OpSetError:
		next := s.clone()
		next.errorMode = op.Flag
		return next, next.transition(false, false), nil
	case OpFocusIndex:
		if op.Index != 0 {
			return s, Transition{}, fmt.Errorf("%w: index %d", ErrFocusIndex, op.Index)
		}
		next := s.clone()
		next.editing = true
		next.errorMode = false
		return next, next.transition(false, false), nil
	case OpBlur:
		next := s.clone()
		next.editing = false
		next.errorMode = false
		return next, next.transition(false, false), nil
	default:
		return s, Transition{}, fmt.Errorf("%w: %s", ErrUnknownOperation, op.Kind)
	}
}

func (s State) insert(fragment string, entryType EntryType) (State, Transition, error) {
	if fragment == "" {
		return s, Transition{}, ErrEmptyFragment
	}
	if !entryType.Accepts(fragment) {
		return s, Transition{}, ErrFiltered
	}
	if len(s.buffer) >= s.n {
		return s, Transition{}, ErrNoRoom
	}

	runes := []rune(fragment)
	if len(s.buffer)+len(runes) > s.n {
		return s, Transition{}, ErrOverflow
	}

	next := s.clone()
	next.buffer = append(next.buffer, runes...)
	next.errorMode = false
	next.editing = true
	return next, next.transition(true, next.IsComplete()), nil
}

func (s State) delete(index int) (State, Transition, error) {
	if len(s.buffer) == 0 {
		return s, Transition{}, ErrNothingToDelete
	}
	last := len(s.buffer) - 1
	if index == lastChar {
		index = last
	}
	if index != last {
		return s, Transition{}, fmt.Errorf("%w: index %d, last %d", ErrNotTrailing, index, last)
	}

	next := s.clone()
	next.buffer = next.buffer[:last]
	next.errorMode = false
	next.editing = true
	return next, next.transition(true, false), nil
}

func (s State) transition(changed, completed bool) Transition {
	return Transition{
		Changed:   changed,
		Complete:  s.IsComplete(),
		Completed: completed,
		Value:     s.Value(),
	}
}

// clone copies the buffer so the receiver never shares backing storage with the result.
func (s State) clone() State {
	next := s
	next.buffer = append(make([]rune, 0, s.n), s.buffer...)
	return next
}
