package pinentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap(t *testing.T) {
	t.Parallel()

	km := NewDefaultKeyMap()

	tests := []struct {
		key  rune
		want KeyAction
	}{
		{key: '\x03', want: ActionCancel},
		{key: '\x04', want: ActionEOF},
		{key: '\x7f', want: ActionDeleteChar},
		{key: '\b', want: ActionDeleteChar},
		{key: '\x15', want: ActionClear},
		{key: '\x16', want: ActionPaste},
		{key: '\r', want: ActionNone},
		{key: '1', want: ActionNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, km.GetAction(tt.key), "key %q", tt.key)
	}
	assert.Equal(t, ActionNone, km.GetSequenceAction("[D"))
}

func TestKeyMapBind(t *testing.T) {
	t.Parallel()

	km := NewDefaultKeyMap()
	km.Bind('\x0c', ActionClear)
	km.Bind('\x7f', ActionNone)
	km.BindSequence("[3~", ActionDeleteChar)

	assert.Equal(t, ActionClear, km.GetAction('\x0c'))
	assert.Equal(t, ActionNone, km.GetAction('\x7f'))
	assert.Equal(t, ActionDeleteChar, km.GetSequenceAction("[3~"))
}

func TestKeyMapNil(t *testing.T) {
	t.Parallel()

	var km *KeyMap
	assert.Equal(t, ActionNone, km.GetAction('\x03'))
	assert.Equal(t, ActionNone, km.GetSequenceAction("[3~"))
	assert.Equal(t, ActionNone, (&KeyMap{}).GetAction('\x03'))
}
