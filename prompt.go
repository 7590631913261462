package pinentry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-colorable"
)

// Common errors
var (
	// ErrEOF is returned when the user presses Ctrl+D or EOF is encountered
	ErrEOF = errors.New("EOF")
	// ErrInterrupted is returned when the user presses Ctrl+C
	ErrInterrupted = errors.New("interrupted")
)

// Bracketed paste markers, without the leading ESC
const (
	pasteStart = "[200~"
	pasteEnd   = "\x1b[201~"

	// maxPasteRunes bounds how much of a runaway paste is buffered.
	maxPasteRunes = 4096
)

// Prompt runs a PinEntry in the terminal.
type Prompt struct {
	entry     *PinEntry
	output    io.Writer
	renderer  *renderer
	terminal  terminalInterface
	keyMap    *KeyMap
	clipboard Clipboard
	logger    *log.Logger
	pending   []rune // runes read ahead while looking for an escape sequence
	closed    bool
}

// errNoSequence reports an ESC that does not start an escape sequence.
var errNoSequence = errors.New("not an escape sequence")

// WithPrefix sets the text drawn in front of the slots
func WithPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

// WithClipboard enables Ctrl+V paste from the given clipboard.
// Terminal paste works without it.
func WithClipboard(c Clipboard) Option {
	return func(s *settings) {
		s.clipboard = c
	}
}

// WithKeyMap sets the key bindings
func WithKeyMap(keyMap *KeyMap) Option {
	return func(s *settings) {
		s.keyMap = keyMap
	}
}

// NewPrompt creates a terminal PIN prompt.
//
// Example:
//
//	p, err := pinentry.NewPrompt("PIN: ", pinentry.WithSecure("*"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Close()
//
//	pin, err := p.Run()
//	if err != nil {
//		log.Fatal(err)
//	}
func NewPrompt(prefix string, options ...Option) (*Prompt, error) {
	options = append([]Option{WithPrefix(prefix)}, options...)
	s, err := applyOptions(options)
	if err != nil {
		return nil, err
	}

	var output io.Writer = os.Stdout
	if runtime.GOOS == "windows" {
		// Use colorable for Windows ANSI color support
		output = colorable.NewColorableStdout()
	}

	terminal, err := newRealTerminal()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal: %w", err)
	}

	p, err := newPrompt(s, terminal, output)
	if err != nil {
		_ = terminal.Close()
		return nil, err
	}
	return p, nil
}

func newPrompt(s *settings, terminal terminalInterface, output io.Writer) (*Prompt, error) {
	if s.logger == nil {
		s.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "pinentry",
			Level:  log.WarnLevel,
		})
	}
	if s.keyMap == nil {
		s.keyMap = NewDefaultKeyMap()
	}

	r := newRenderer(output, s.prefix, s.config.Geometry)
	s.presenter = r
	s.caret = r

	entry, err := newFromSettings(s)
	if err != nil {
		return nil, err
	}

	return &Prompt{
		entry:     entry,
		output:    output,
		renderer:  r,
		terminal:  terminal,
		keyMap:    s.keyMap,
		clipboard: s.clipboard,
		logger:    s.logger,
	}, nil
}

// Entry returns the underlying PinEntry, e.g. to register an observer.
func (p *Prompt) Entry() *PinEntry {
	return p.entry
}

// SetError shows error styling, typically after a wrong PIN. The next Run
// starts with an empty entry but keeps the error styling until the user types.
func (p *Prompt) SetError(isError bool) {
	p.entry.SetError(isError)
}

// Configure replaces the configuration; see PinEntry.Configure.
func (p *Prompt) Configure(config Config) error {
	if err := p.entry.Configure(config); err != nil {
		return err
	}
	p.renderer.geometry = config.Geometry
	return nil
}

// Run reads keys until every slot is filled and returns the PIN.
func (p *Prompt) Run() (string, error) {
	return p.RunWithContext(context.Background())
}

// RunWithContext reads keys until every slot is filled and returns the PIN.
//
// Backspace deletes the last character, Ctrl+U clears the entry, terminal
// paste inserts the pasted text as a whole. Ctrl+C returns ErrInterrupted,
// Ctrl+D on an empty entry returns ErrEOF. Cancelling ctx returns ctx.Err()
// once the next key arrives.
func (p *Prompt) RunWithContext(ctx context.Context) (string, error) {
	if err := p.terminal.SetRaw(); err != nil {
		return "", fmt.Errorf("failed to enter raw mode: %w", err)
	}

	restored := false
	defer func() {
		// Only restore if not already restored (prevents double restoration)
		if !restored {
			p.restore()
		}
	}()

	p.warnIfTooWide()
	fmt.Fprint(p.output, "\x1b[?2004h") // enable bracketed paste
	defer fmt.Fprint(p.output, "\x1b[?2004l")

	p.renderer.active = true
	defer func() { p.renderer.active = false }()
	p.start()
	if err := p.renderer.takeError(); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	for !p.entry.IsComplete() {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		r, err := p.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrEOF
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		var action KeyAction
		if r == '\x1b' {
			seq, err := p.readEscapeSequence()
			if err != nil {
				continue
			}
			if seq == pasteStart {
				text, ok, err := p.readBracketedPaste()
				if err != nil {
					if errors.Is(err, io.EOF) {
						return "", ErrEOF
					}
					return "", fmt.Errorf("failed to read paste: %w", err)
				}
				if ok {
					p.entry.Paste(text)
				} else {
					p.logger.Debug("paste rejected", "reason", "too long", "limit", maxPasteRunes)
				}
			} else {
				action = p.keyMap.GetSequenceAction(seq)
			}
		} else {
			action = p.keyMap.GetAction(r)
		}

		switch action {
		case ActionCancel:
			p.restore()
			restored = true // Mark as restored to prevent double restoration in defer
			fmt.Fprint(p.output, "^C\r\n")
			return "", ErrInterrupted

		case ActionEOF:
			if p.entry.Len() == 0 {
				return "", ErrEOF
			}

		case ActionDeleteChar:
			p.entry.DeleteBackward()

		case ActionClear:
			p.entry.Clear()

		case ActionPaste:
			if p.clipboard != nil {
				if _, err := p.entry.PasteFrom(p.clipboard); err != nil {
					p.logger.Warn("paste failed", "error", err)
				}
			}

		default:
			if r != '\x1b' && isPrintable(r) {
				p.entry.Insert(string(r))
			}
		}

		if err := p.renderer.takeError(); err != nil {
			return "", fmt.Errorf("failed to render: %w", err)
		}
	}

	fmt.Fprint(p.output, "\r\n")
	return p.entry.PinAsString(), nil
}

// start prepares the entry for a new run: a previous PIN is discarded,
// error styling survives so the user still sees why they are asked again.
func (p *Prompt) start() {
	keepError := p.entry.ErrorMode()
	if p.entry.Len() > 0 {
		p.entry.HandleEdit(Reset())
	}
	p.entry.Focus()
	if keepError {
		p.entry.SetError(true)
	}
}

func (p *Prompt) warnIfTooWide() {
	cols, _, err := p.terminal.Size()
	if err != nil {
		p.logger.Debug("terminal size unavailable", "error", err)
	}
	if need := p.renderer.width(p.entry.Length()); need > cols {
		p.logger.Warn("pin entry is wider than the terminal", "width", need, "columns", cols)
	}
}

func (p *Prompt) restore() {
	if err := p.terminal.Restore(); err != nil {
		p.logger.Warn("failed to restore terminal state", "error", err)
	}
}

// Close restores the cursor and releases the terminal.
// It is safe to call Close multiple times.
func (p *Prompt) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	fmt.Fprint(p.output, showCursor)
	if p.terminal != nil {
		return p.terminal.Close()
	}
	return nil
}

// readRune returns a rune put back by readEscapeSequence before reading
// from the terminal.
func (p *Prompt) readRune() (rune, error) {
	if len(p.pending) > 0 {
		r := p.pending[0]
		p.pending = p.pending[1:]
		return r, nil
	}
	r, _, err := p.terminal.ReadRune()
	return r, err
}

// readEscapeSequence reads the rest of a sequence after ESC. CSI sequences
// (ESC [) end with a final byte in '@'..'~', SS3 sequences (ESC O) are one
// rune long. Any other rune is put back so it is handled as a normal key.
func (p *Prompt) readEscapeSequence() (string, error) {
	r, err := p.readRune()
	if err != nil {
		return "", err
	}
	switch r {
	case 'O':
		next, err := p.readRune()
		if err != nil {
			return "", err
		}
		return string([]rune{r, next}), nil
	case '[':
	default:
		p.pending = append(p.pending, r)
		return "", errNoSequence
	}

	seq := []rune{r}
	for range 16 {
		r, err := p.readRune()
		if err != nil {
			return "", err
		}
		seq = append(seq, r)
		if r >= '@' && r <= '~' {
			return string(seq), nil
		}
	}
	return string(seq), nil
}

// readBracketedPaste collects runes up to the paste end marker. A paste
// longer than maxPasteRunes is read to its end and discarded; ok is false then.
func (p *Prompt) readBracketedPaste() (text string, ok bool, err error) {
	var (
		sb       strings.Builder
		tail     []rune
		count    int
		overflow bool
	)
	for {
		r, err := p.readRune()
		if err != nil {
			return "", false, err
		}

		tail = append(tail, r)
		if len(tail) > len(pasteEnd) {
			tail = tail[1:]
		}
		if string(tail) == pasteEnd {
			if overflow {
				return "", false, nil
			}
			s := strings.TrimSuffix(sb.String()+string(r), pasteEnd)
			return trimLineBreak(s), true, nil
		}

		if overflow {
			continue
		}
		sb.WriteRune(r)
		count++
		// the end marker passes through sb before it is recognized
		if count > maxPasteRunes+len(pasteEnd)-1 {
			overflow = true
			sb.Reset()
		}
	}
}

func isPrintable(r rune) bool {
	return r >= 32 && r < 127 || r > 127
}
