package pinentry

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard tool could be run.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// rejected is a deletion target no buffer ever has.
const rejected = -1

// TranslateEdit maps a raw text-field edit onto an EditOperation.
//
// Platforms report edits as "replace length characters at location with
// replacement". Entry is strictly sequential, so:
//   - an insertion (non-empty replacement over an empty range) is accepted only
//     at the end of the buffer
//   - removing exactly one character becomes DeleteAt(location), which the
//     state machine only accepts for the last character
//   - anything else (inserting mid buffer, replacing a selection, deleting
//     several characters) becomes a deletion that is always rejected
func TranslateEdit(bufferLen, location, length int, replacement string) EditOperation {
	switch {
	case replacement != "" && length == 0 && location == bufferLen:
		return Insert(replacement)
	case replacement == "" && length == 1 && location >= 0 && location < bufferLen:
		return DeleteAt(location)
	default:
		return DeleteAt(rejected)
	}
}

// SystemClipboard reads text from the operating system clipboard by running
// the platform's clipboard tool.
type SystemClipboard struct{}

// clipboardCommands lists the tools tried in order for each platform.
func clipboardCommands(goos string) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"pbpaste"}}
	case "windows":
		return [][]string{{"powershell", "-NoProfile", "-Command", "Get-Clipboard"}}
	default:
		return [][]string{
			{"wl-paste", "--no-newline"},
			{"xclip", "-selection", "clipboard", "-o"},
			{"xsel", "--clipboard", "--output"},
		}
	}
}

// ReadText implements Clipboard. A single trailing line break is removed.
func (SystemClipboard) ReadText() (string, error) {
	var lastErr error
	for _, cmd := range clipboardCommands(runtime.GOOS) {
		out, err := exec.Command(cmd[0], cmd[1:]...).Output()
		if err != nil {
			lastErr = err
			continue
		}
		return trimLineBreak(string(out)), nil
	}
	if lastErr != nil {
		return "", errors.Join(ErrClipboardUnavailable, lastErr)
	}
	return "", ErrClipboardUnavailable
}

func trimLineBreak(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
