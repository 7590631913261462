package pinentry

// KeyAction represents the action to perform when a key is pressed
type KeyAction int

// Key action constants define the actions that can be performed when keys are pressed
const (
	ActionNone KeyAction = iota
	ActionCancel
	ActionDeleteChar
	ActionClear
	ActionPaste
	ActionEOF
)

// KeyMap holds the key binding configuration
type KeyMap struct {
	bindings  map[rune]KeyAction
	sequences map[string]KeyAction
}

// NewDefaultKeyMap creates the default key bindings for the PIN prompt.
//
// Default key bindings:
//   - Ctrl+C: Cancel (interrupt)
//   - Ctrl+D: EOF when nothing is entered
//   - Backspace: Delete the last character
//   - Ctrl+U: Clear the entry
//   - Ctrl+V: Paste from the configured clipboard
//
// Printable characters are inserted; Enter and arrow keys are ignored since
// entry is strictly left to right. Terminal paste (bracketed paste) is always
// handled as a single paste regardless of bindings.
func NewDefaultKeyMap() *KeyMap {
	km := &KeyMap{
		bindings:  make(map[rune]KeyAction),
		sequences: make(map[string]KeyAction),
	}

	km.bindings['\x03'] = ActionCancel     // Ctrl+C
	km.bindings['\x04'] = ActionEOF        // Ctrl+D
	km.bindings['\x7f'] = ActionDeleteChar // Backspace
	km.bindings['\b'] = ActionDeleteChar   // Backspace
	km.bindings['\x15'] = ActionClear      // Ctrl+U
	km.bindings['\x16'] = ActionPaste      // Ctrl+V

	return km
}

// Bind adds or updates a key binding for a single character.
//
// Example:
//
//	keyMap := pinentry.NewDefaultKeyMap()
//	// Bind Ctrl+L (\x0C) to clear the entry
//	keyMap.Bind('\x0C', pinentry.ActionClear)
func (km *KeyMap) Bind(key rune, action KeyAction) {
	km.bindings[key] = action
}

// BindSequence adds or updates an escape sequence binding.
// The sequence should not include the initial ESC character.
//
// Example:
//
//	keyMap := pinentry.NewDefaultKeyMap()
//	// Bind Delete (ESC + [3~) to delete the last character
//	keyMap.BindSequence("[3~", pinentry.ActionDeleteChar)
func (km *KeyMap) BindSequence(seq string, action KeyAction) {
	km.sequences[seq] = action
}

// GetAction returns the action for a key, or ActionNone if not bound
func (km *KeyMap) GetAction(key rune) KeyAction {
	if km == nil || km.bindings == nil {
		return ActionNone
	}
	if action, exists := km.bindings[key]; exists {
		return action
	}
	return ActionNone
}

// GetSequenceAction returns the action for an escape sequence, or ActionNone if not bound
func (km *KeyMap) GetSequenceAction(seq string) KeyAction {
	if km == nil || km.sequences == nil {
		return ActionNone
	}
	if action, exists := km.sequences[seq]; exists {
		return action
	}
	return ActionNone
}
