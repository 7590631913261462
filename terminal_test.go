package pinentry

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalImplementations(_ *testing.T) {
	var _ terminalInterface = (*realTerminal)(nil)
	var _ terminalInterface = (*mockTerminal)(nil)
}

func TestMockTerminal(t *testing.T) {
	t.Parallel()

	m := newMockTerminal("1ä")

	require.NoError(t, m.SetRaw())
	assert.True(t, m.rawMode)

	w, h, err := m.Size()
	require.NoError(t, err)
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	r, _, err := m.ReadRune()
	require.NoError(t, err)
	assert.Equal(t, '1', r)
	r, _, err = m.ReadRune()
	require.NoError(t, err)
	assert.Equal(t, 'ä', r)
	_, _, err = m.ReadRune()
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, m.Restore())
	assert.False(t, m.rawMode)
	require.NoError(t, m.Close())
	assert.Equal(t, 1, m.closeCount)
}

func TestRealTerminalCloseWithoutTTY(t *testing.T) {
	t.Parallel()

	rt := &realTerminal{}
	assert.NoError(t, rt.Close())
	assert.NoError(t, rt.Restore())
}

func TestRealTerminalRefusesNonTerminal(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "input")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rt := &realTerminal{fd: int(f.Fd())}
	assert.ErrorIs(t, rt.SetRaw(), ErrNotTerminal)
	assert.Nil(t, rt.saved)
	assert.NoError(t, rt.Restore())
}
