package pinentry

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
)

// PinEntry owns the entered PIN and keeps the slots and caret in sync with it.
//
// Every accepted edit is processed to completion (state replaced, visuals
// pushed, observer notified) before the call returns. PinEntry is not safe
// for concurrent use; drive it from the goroutine that handles input.
type PinEntry struct {
	config    Config
	state     State
	presenter SlotPresenter
	caret     CaretPositioner
	observer  Observer
	logger    *log.Logger
}

// settings collects everything the options can set.
type settings struct {
	config     Config
	configFile string
	presenter  SlotPresenter
	caret      CaretPositioner
	observer   Observer
	logger     *log.Logger

	// terminal front-end
	prefix    string
	clipboard Clipboard
	keyMap    *KeyMap
}

// Option represents a configuration option for PinEntry and Prompt
type Option func(*settings)

// WithLength sets the number of slots
func WithLength(n int) Option {
	return func(s *settings) {
		s.config.Length = n
	}
}

// WithSecure turns on masking with the given character.
// An empty mask keeps the current one.
func WithSecure(mask string) Option {
	return func(s *settings) {
		s.config.Secure = true
		if mask != "" {
			s.config.SecureCharacter = mask
		}
	}
}

// WithEntryType sets which characters are accepted
func WithEntryType(t EntryType) Option {
	return func(s *settings) {
		s.config.EntryType = t
	}
}

// WithCaretVisible shows or hides the caret
func WithCaretVisible(visible bool) Option {
	return func(s *settings) {
		s.config.CaretVisible = visible
	}
}

// WithStyle sets the cosmetic parameters
func WithStyle(style Style) Option {
	return func(s *settings) {
		s.config.Style = style
	}
}

// WithTheme is an alias of WithStyle
func WithTheme(theme Style) Option {
	return WithStyle(theme)
}

// WithGeometry sets slot sizes and spacing
func WithGeometry(g Geometry) Option {
	return func(s *settings) {
		s.config.Geometry = g
	}
}

// WithConfigFile loads the configuration from a file (see LoadConfig).
// Options given after it override the file.
func WithConfigFile(path string) Option {
	return func(s *settings) {
		s.configFile = path
	}
}

// WithPresenter sets the slot presenter
func WithPresenter(p SlotPresenter) Option {
	return func(s *settings) {
		s.presenter = p
	}
}

// WithCaret sets the caret positioner
func WithCaret(c CaretPositioner) Option {
	return func(s *settings) {
		s.caret = c
	}
}

// WithObserver registers the change/completion observer
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// WithLogger sets the logger. Nothing is logged by default.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// applyOptions resolves options in two passes so that a config file is
// loaded first and every other option overrides it.
func applyOptions(options []Option) (*settings, error) {
	first := &settings{}
	for _, option := range options {
		option(first)
	}

	s := &settings{config: DefaultConfig()}
	if first.configFile != "" {
		cfg, err := LoadConfig(first.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		s.config = cfg
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// New creates a PIN entry with DefaultConfig adjusted by options.
//
// Example:
//
//	entry, err := pinentry.New(
//		pinentry.WithLength(6),
//		pinentry.WithSecure("•"),
//		pinentry.WithObserver(pinentry.ObserverFuncs{
//			Completed: func(pin string) { verify(pin) },
//		}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	entry.Insert("123456")
func New(options ...Option) (*PinEntry, error) {
	s, err := applyOptions(options)
	if err != nil {
		return nil, err
	}
	return newFromSettings(s)
}

// NewFromConfig creates a PIN entry from a complete configuration.
func NewFromConfig(config Config, options ...Option) (*PinEntry, error) {
	return New(append([]Option{func(s *settings) { s.config = config }}, options...)...)
}

func newFromSettings(s *settings) (*PinEntry, error) {
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	var presenter SlotPresenter = nopPresenter{}
	if s.presenter != nil {
		presenter = s.presenter
	}
	var caret CaretPositioner = nopPresenter{}
	if s.caret != nil {
		caret = s.caret
	}

	p := &PinEntry{
		presenter: presenter,
		caret:     caret,
		observer:  s.observer,
		logger:    s.logger,
	}
	if err := p.Configure(s.config); err != nil {
		return nil, err
	}
	return p, nil
}

// Configure replaces the whole configuration, rebuilds every slot and
// empties the buffer. It pushes one complete frame and never notifies the
// observer. On a validation error nothing changes.
func (p *PinEntry) Configure(config Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	p.config = config
	p.state = NewState(config.Length)
	p.logger.Debug("slots rebuilt",
		"length", config.Length,
		"entryType", config.EntryType,
		"secure", config.Secure,
	)
	p.push()
	return nil
}

// Config returns the current configuration.
func (p *PinEntry) Config() Config {
	return p.config
}

// SetObserver registers o as the observer; nil removes it.
// PinEntry does not manage the observer's lifetime.
func (p *PinEntry) SetObserver(o Observer) {
	p.observer = o
}

// HandleEdit applies one edit operation and reports whether it was accepted.
//
// A rejected edit changes nothing and notifies nobody. An accepted Insert,
// Delete or Reset pushes new visuals and calls OnChanged, followed by
// OnCompleted when the edit filled the last slot.
func (p *PinEntry) HandleEdit(op EditOperation) bool {
	next, tr, err := p.state.Apply(op, p.config.EntryType)
	if err != nil {
		p.logger.Debug("edit rejected",
			"op", op.Kind,
			"length", p.state.Len(),
			"reason", err,
		)
		return false
	}

	p.state = next
	p.push()

	if !tr.Changed || p.observer == nil {
		return true
	}
	p.observer.OnChanged(tr.Complete)
	if tr.Completed {
		p.observer.OnCompleted(tr.Value)
	}
	return true
}

// HandleTextChange translates a raw text-field edit (replace the range
// [location, location+length) with replacement) and applies it.
// Callers should veto the raw edit when it returns false.
func (p *PinEntry) HandleTextChange(location, length int, replacement string) bool {
	return p.HandleEdit(TranslateEdit(p.state.Len(), location, length, replacement))
}

// Insert appends characters; see HandleEdit.
func (p *PinEntry) Insert(fragment string) bool {
	return p.HandleEdit(Insert(fragment))
}

// DeleteBackward removes the last character.
func (p *PinEntry) DeleteBackward() bool {
	return p.HandleEdit(Delete())
}

// Paste inserts text as a single fragment. Text that does not fit or does not
// pass the entry-type filter is rejected as a whole.
func (p *PinEntry) Paste(text string) bool {
	if text == "" {
		return false
	}
	return p.HandleEdit(Insert(text))
}

// PasteFrom reads the clipboard and pastes its content.
func (p *PinEntry) PasteFrom(c Clipboard) (bool, error) {
	text, err := c.ReadText()
	if err != nil {
		return false, fmt.Errorf("failed to read clipboard: %w", err)
	}
	return p.Paste(text), nil
}

// SetError switches error styling on or off. The buffer is untouched.
func (p *PinEntry) SetError(isError bool) {
	p.HandleEdit(SetError(isError))
}

// Clear empties the buffer, clears error styling and activates the first slot.
func (p *PinEntry) Clear() {
	p.HandleEdit(Reset())
	p.HandleEdit(FocusIndex(0))
}

// Focus activates entry: the first slot when nothing is entered, otherwise
// the slot at ActiveIndex.
func (p *PinEntry) Focus() {
	p.HandleEdit(FocusIndex(0))
}

// Blur ends editing and clears error styling.
func (p *PinEntry) Blur() {
	p.HandleEdit(Blur())
}

// String returns the entered PIN.
func (p *PinEntry) String() string {
	return p.state.Value()
}

// PinAsString returns the entered characters, never the mask.
func (p *PinEntry) PinAsString() string {
	return p.state.Value()
}

// PinAsInt returns the PIN as an integer. ok is false when the buffer is
// empty, contains anything but ASCII digits, or does not fit in an int.
func (p *PinEntry) PinAsInt() (value int, ok bool) {
	s := p.state.Value()
	if s == "" || !EntryNumerical.Accepts(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			p.logger.Debug("pin does not fit in int", "length", len(s))
		}
		return 0, false
	}
	return n, true
}

// Len returns the number of entered characters.
func (p *PinEntry) Len() int { return p.state.Len() }

// Length returns the number of slots.
func (p *PinEntry) Length() int { return p.config.Length }

// IsComplete reports whether every slot is filled.
func (p *PinEntry) IsComplete() bool { return p.state.IsComplete() }

// ErrorMode reports whether error styling is on.
func (p *PinEntry) ErrorMode() bool { return p.state.ErrorMode() }

// ActiveIndex returns the slot receiving the next input.
func (p *PinEntry) ActiveIndex() int { return p.state.ActiveIndex() }

// Slots returns the current visual state of every slot.
func (p *PinEntry) Slots() []SlotState {
	return p.state.Slots(p.config.Secure, p.config.SecureCharacter)
}

// push sends a full frame: every slot in order, then the caret.
func (p *PinEntry) push() {
	for i, slot := range p.Slots() {
		p.presenter.ApplyVisual(i, slot, p.config.Style)
	}

	target, visible := p.state.CaretTarget()
	if visible && p.config.CaretVisible {
		p.caret.PositionCaret(target, p.config.Geometry)
		return
	}
	p.caret.HideCaret()
}
