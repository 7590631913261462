package pinentry

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPromptForTesting creates a prompt that reads input from a mock terminal
// and renders into a buffer.
func newPromptForTesting(t *testing.T, input string, options ...Option) (*Prompt, *mockTerminal, *bytes.Buffer) {
	t.Helper()

	options = append([]Option{WithPrefix("PIN: "), WithLogger(log.New(io.Discard))}, options...)
	s, err := applyOptions(options)
	require.NoError(t, err)

	terminal := newMockTerminal(input)
	var buf bytes.Buffer
	p, err := newPrompt(s, terminal, &buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p, terminal, &buf
}

func TestPromptRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		options []Option
		want    string
	}{
		{name: "digits", input: "1234", want: "1234"},
		{name: "backspace", input: "12\x7f345", want: "1345"},
		{name: "ctrl+h backspace", input: "1\b2345", want: "2345"},
		{name: "filtered keys are ignored", input: "1a2b 34", want: "1234"},
		{name: "ctrl+u clears", input: "12\x151234", want: "1234"},
		{name: "ctrl+d ignored while typing", input: "1\x04234", want: "1234"},
		{name: "enter ignored", input: "12\r34", want: "1234"},
		{name: "arrow keys ignored", input: "1\x1b[D2\x1b[A34", want: "1234"},
		{name: "bracketed paste", input: "\x1b[200~1234\x1b[201~", want: "1234"},
		{name: "bracketed paste with line break", input: "\x1b[200~5678\n\x1b[201~", want: "5678"},
		{name: "rejected paste changes nothing", input: "1\x1b[200~12ab\x1b[201~234", want: "1234"},
		{name: "overflowing paste changes nothing", input: "\x1b[200~12345\x1b[201~4321", want: "4321"},
		{name: "ctrl+v without clipboard", input: "\x161234", want: "1234"},
		{name: "clipboard paste", input: "\x16", options: []Option{WithClipboard(stubClipboard{text: "9876"})}, want: "9876"},
		{name: "clipboard failure", input: "\x161111", options: []Option{WithClipboard(stubClipboard{err: errors.New("no clipboard")})}, want: "1111"},
		{name: "alphanumeric", input: "a-b1c", options: []Option{WithEntryType(EntryAlphanumeric)}, want: "ab1c"},
		{name: "six digits", input: "123456", options: []Option{WithLength(6)}, want: "123456"},
		{name: "zero length", input: "", options: []Option{WithLength(0)}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, terminal, buf := newPromptForTesting(t, tt.input, tt.options...)
			got, err := p.Run()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.False(t, terminal.rawMode, "terminal must be restored")
			assert.Contains(t, buf.String(), "\x1b[?2004h")
			assert.Contains(t, buf.String(), "\x1b[?2004l")
		})
	}
}

func TestPromptRunErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "ctrl+c", input: "12\x03", wantErr: ErrInterrupted},
		{name: "ctrl+d on empty entry", input: "\x04", wantErr: ErrEOF},
		{name: "ctrl+d after clearing", input: "1\x7f\x04", wantErr: ErrEOF},
		{name: "input ends early", input: "12", wantErr: ErrEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, terminal, _ := newPromptForTesting(t, tt.input)
			got, err := p.Run()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, got)
			assert.False(t, terminal.rawMode)
		})
	}
}

func TestPromptInterruptEcho(t *testing.T) {
	t.Parallel()

	p, _, buf := newPromptForTesting(t, "\x03")
	_, err := p.Run()
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Contains(t, buf.String(), "^C\r\n")
}

func TestPromptRunWithCancelledContext(t *testing.T) {
	t.Parallel()

	p, terminal, _ := newPromptForTesting(t, "1234")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.RunWithContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, terminal.rawMode)
	assert.Equal(t, 0, terminal.inputPos, "no key is consumed after cancellation")
}

func TestPromptRetryAfterError(t *testing.T) {
	t.Parallel()

	p, _, _ := newPromptForTesting(t, "12345678")

	first, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, "1234", first)

	p.SetError(true)
	p.start()
	assert.True(t, p.Entry().ErrorMode(), "error styling survives a new run")
	assert.Equal(t, 0, p.Entry().Len(), "previous PIN is discarded")

	second, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, "5678", second)
	assert.False(t, p.Entry().ErrorMode(), "typing clears the error")
}

func TestPromptPasteTooLong(t *testing.T) {
	t.Parallel()

	input := "\x1b[200~" + strings.Repeat("1", maxPasteRunes+10) + "\x1b[201~1234"
	observer := &recordingObserver{}
	p, terminal, _ := newPromptForTesting(t, input, WithObserver(observer))

	got, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, "1234", got)
	assert.Len(t, observer.changed, 4, "the oversized paste is not an edit")
	assert.Equal(t, len(input), terminal.inputPos)
	assert.False(t, terminal.rawMode)
}

func TestReadBracketedPaste(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "short", input: "12\x1b[201~", want: "12", wantOK: true},
		{name: "empty", input: "\x1b[201~", want: "", wantOK: true},
		{name: "at limit", input: strings.Repeat("a", maxPasteRunes) + "\x1b[201~", want: strings.Repeat("a", maxPasteRunes), wantOK: true},
		{name: "over limit", input: strings.Repeat("a", maxPasteRunes+1) + "\x1b[201~", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, terminal, _ := newPromptForTesting(t, tt.input+"9")
			got, ok, err := p.readBracketedPaste()
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len([]rune(tt.input)), terminal.inputPos, "reading stops at the end marker")
		})
	}
}

func TestPromptPasteInterrupted(t *testing.T) {
	t.Parallel()

	p, _, _ := newPromptForTesting(t, "\x1b[200~12")
	_, err := p.Run()
	assert.ErrorIs(t, err, ErrEOF)
}

func TestPromptEscapeDoesNotSwallowKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "lone escape", input: "\x1b1234"},
		{name: "escape between digits", input: "12\x1b34"},
		{name: "double escape", input: "\x1b\x1b[D1234"},
		{name: "ss3 function key", input: "\x1bOP1234"},
		{name: "csi with parameters", input: "\x1b[1;5C1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, _, _ := newPromptForTesting(t, tt.input)
			got, err := p.Run()
			require.NoError(t, err)
			assert.Equal(t, "1234", got)
		})
	}
}

func TestPromptObserver(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	p, _, _ := newPromptForTesting(t, "12\x7f34", WithLength(3), WithObserver(observer))

	got, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, "134", got)
	assert.Equal(t, []string{"134"}, observer.completed)
	assert.Equal(t, []bool{false, false, false, false, true}, observer.changed)
}

func TestPromptSecureOutput(t *testing.T) {
	t.Parallel()

	p, _, buf := newPromptForTesting(t, "1234", WithSecure("*"))
	_, err := p.Run()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, " * ")
	for _, digit := range []string{" 1 ", " 2 ", " 3 ", " 4 "} {
		assert.NotContains(t, out, digit)
	}
}

func TestPromptCustomKeyMap(t *testing.T) {
	t.Parallel()

	km := NewDefaultKeyMap()
	km.Bind('\x0c', ActionClear)
	km.BindSequence("[3~", ActionDeleteChar)

	p, _, _ := newPromptForTesting(t, "99\x0c12\x1b[3~34", WithLength(3), WithKeyMap(km))
	got, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, "134", got)
}

func TestPromptWarnsWhenTooWide(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	p, terminal, _ := newPromptForTesting(t, "1234", WithLogger(log.New(&logs)))
	terminal.terminalSize = [2]int{10, 24}

	_, err := p.Run()
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "wider than the terminal")
}

func TestPromptRenderError(t *testing.T) {
	t.Parallel()

	s, err := applyOptions([]Option{WithLogger(log.New(io.Discard))})
	require.NoError(t, err)
	terminal := newMockTerminal("1234")
	p, err := newPrompt(s, terminal, failingWriter{})
	require.NoError(t, err)

	_, err = p.Run()
	assert.ErrorContains(t, err, "failed to render prompt")
	assert.False(t, terminal.rawMode)
}

func TestPromptConfigure(t *testing.T) {
	t.Parallel()

	p, _, _ := newPromptForTesting(t, "ab")
	geometry := Geometry{ItemWidth: 1}
	cfg := DefaultConfig()
	cfg.Length = 2
	cfg.EntryType = EntryLetters
	cfg.Geometry = geometry
	require.NoError(t, p.Configure(cfg))
	assert.Equal(t, geometry, p.renderer.geometry)

	got, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, "ab", got)

	cfg.Length = -1
	assert.ErrorIs(t, p.Configure(cfg), ErrInvalidLength)
	assert.Equal(t, geometry, p.renderer.geometry)
}

func TestPromptRequiresRawMode(t *testing.T) {
	t.Parallel()

	p, terminal, buf := newPromptForTesting(t, "1234")
	terminal.rawErr = ErrNotTerminal

	_, err := p.Run()
	assert.ErrorIs(t, err, ErrNotTerminal)
	assert.Equal(t, 0, terminal.inputPos, "no key is read without raw mode")
	assert.Empty(t, buf.String(), "nothing is drawn without raw mode")
}

func TestPromptClose(t *testing.T) {
	t.Parallel()

	p, terminal, buf := newPromptForTesting(t, "")
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.Equal(t, 1, terminal.closeCount)
	assert.Contains(t, buf.String(), showCursor)
}

func TestIsPrintable(t *testing.T) {
	t.Parallel()

	assert.True(t, isPrintable('1'))
	assert.True(t, isPrintable(' '))
	assert.True(t, isPrintable('ä'))
	assert.False(t, isPrintable('\x7f'))
	assert.False(t, isPrintable('\r'))
	assert.False(t, isPrintable('\x1b'))
}
