package pinentry

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnknownEntryType is returned when an entry type name cannot be parsed.
var ErrUnknownEntryType = errors.New("unknown entry type")

// EntryType selects which characters the widget accepts.
type EntryType int

// Entry type constants
const (
	EntryAny EntryType = iota
	EntryNumerical
	EntryAlphanumeric
	EntryLetters
)

var entryTypeNames = [...]string{
	EntryAny:          "any",
	EntryNumerical:    "numerical",
	EntryAlphanumeric: "alphanumeric",
	EntryLetters:      "letters",
}

// String returns the configuration name of the entry type.
func (t EntryType) String() string {
	if t < 0 || int(t) >= len(entryTypeNames) {
		return fmt.Sprintf("EntryType(%d)", int(t))
	}
	return entryTypeNames[t]
}

// ParseEntryType converts a name such as "numerical" into an EntryType.
// Matching is case-insensitive.
func ParseEntryType(name string) (EntryType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range entryTypeNames {
		if n == name {
			return EntryType(i), nil
		}
	}
	return EntryAny, fmt.Errorf("%w: %q", ErrUnknownEntryType, name)
}

// MarshalText implements encoding.TextMarshaler.
func (t EntryType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(entryTypeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntryType, int(t))
	}
	return []byte(entryTypeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EntryType) UnmarshalText(text []byte) error {
	parsed, err := ParseEntryType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Accepts reports whether every character of fragment is allowed by the entry type.
//
// The fragment is judged as a whole: one disallowed character rejects the
// entire fragment, so a paste is either taken completely or not at all.
// An empty fragment is always accepted because filtering only applies to insertions.
func (t EntryType) Accepts(fragment string) bool {
	if fragment == "" {
		return true
	}

	var allowed func(rune) bool
	switch t {
	case EntryNumerical:
		allowed = isASCIIDigit
	case EntryLetters:
		allowed = unicode.IsLetter
	case EntryAlphanumeric:
		allowed = isAlphanumeric
	default:
		return true
	}

	for _, r := range fragment {
		if !allowed(r) {
			return false
		}
	}
	return true
}

// Accepts is the function form of EntryType.Accepts.
func Accepts(fragment string, t EntryType) bool {
	return t.Accepts(fragment)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
