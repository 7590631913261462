package pinentry

import (
	"errors"

	"github.com/mattn/go-tty"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when the prompt cannot switch its input to raw
// mode. Without raw mode the terminal would echo every typed PIN character.
var ErrNotTerminal = errors.New("input is not a terminal")

// terminalInterface is the part of a terminal the prompt needs. realTerminal
// talks to the controlling TTY, mockTerminal replays scripted keys in tests.
type terminalInterface interface {
	SetRaw() error                        // no echo, no line buffering
	Restore() error                       // undo SetRaw
	Size() (width, height int, err error) // falls back to 80x24
	ReadRune() (rune, int, error)
	Close() error
}

// realTerminal reads keys from the controlling TTY opened by go-tty.
//
// Raw mode is applied to the TTY's own input descriptor rather than stdin,
// so echo stays off even when stdin is redirected.
type realTerminal struct {
	tty    *tty.TTY
	fd     int         // input descriptor of tty
	saved  *term.State // mode before SetRaw, nil while not raw
	closed bool
}

func newRealTerminal() (*realTerminal, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}
	return &realTerminal{
		tty: t,
		fd:  int(t.Input().Fd()),
	}, nil
}

// SetRaw switches the TTY to raw mode. It refuses to run on anything that is
// not a terminal, and calling it again while raw is a no-op.
func (t *realTerminal) SetRaw() error {
	if t.saved != nil {
		return nil
	}
	if !term.IsTerminal(t.fd) {
		return ErrNotTerminal
	}
	saved, err := term.MakeRaw(t.fd)
	if err != nil {
		return err
	}
	t.saved = saved
	return nil
}

func (t *realTerminal) Restore() error {
	if t.saved == nil {
		return nil
	}
	err := term.Restore(t.fd, t.saved)
	t.saved = nil
	return err
}

func (t *realTerminal) Size() (width, height int, err error) {
	w, h, err := t.tty.Size()
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24, err
	}
	return w, h, nil
}

func (t *realTerminal) ReadRune() (rune, int, error) {
	r, err := t.tty.ReadRune()
	if err != nil {
		return 0, 0, err
	}
	return r, 1, nil
}

// Close leaves raw mode if needed and releases the TTY. Closing twice is a
// no-op; go-tty panics on a double close on Windows.
func (t *realTerminal) Close() error {
	if t.closed || t.tty == nil {
		return nil
	}
	t.closed = true
	return errors.Join(t.Restore(), t.tty.Close())
}
