// Package pinentry provides a fixed-length PIN/OTP entry widget for Go.
//
// A PIN entry is a row of slots that together behave as one text input.
// Characters fill the slots strictly left to right, every slot shows one
// character (or a mask), and the widget reports when the last slot is
// filled.
//
// Key Features:
//
//   - Headless state machine (State.Apply) that can back any front-end
//   - Entry-type filtering: any, numerical, alphanumeric, letters
//   - Secure mode that masks entered characters
//   - Error styling for a rejected PIN, cleared by the next keystroke
//   - Paste as a single all-or-nothing edit
//   - Terminal prompt with bracketed paste and clipboard support
//   - Configuration from TOML, YAML or JSON files
//
// Quick Start:
//
// Read a PIN in the terminal:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//		"github.com/nao1215/pinentry"
//	)
//
//	func main() {
//		p, err := pinentry.NewPrompt("PIN: ", pinentry.WithSecure("•"))
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer p.Close()
//
//		pin, err := p.Run()
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("Got %d digits\n", len(pin))
//	}
//
// Embedding in Another UI:
//
// PinEntry talks to the surrounding UI through small interfaces. Implement
// SlotPresenter and CaretPositioner to draw the slots, and translate the
// toolkit's text-change callbacks with HandleTextChange:
//
//	entry, err := pinentry.New(
//		pinentry.WithLength(6),
//		pinentry.WithPresenter(view),
//		pinentry.WithCaret(view),
//		pinentry.WithObserver(pinentry.ObserverFuncs{
//			Completed: func(pin string) { verify(pin) },
//		}),
//	)
//
//	// in the toolkit's "should change characters" callback
//	accepted := entry.HandleTextChange(location, length, replacement)
//
// Rejected edits (wrong character class, overflow, deletes that are not
// at the end) change nothing and notify nobody.
//
// Key Bindings:
//
//   - Digits/letters: Insert into the next slot (filtered by entry type)
//   - Backspace: Delete the last character
//   - Ctrl+U: Clear the entry
//   - Ctrl+V: Paste from the clipboard given with WithClipboard
//   - Ctrl+C: Cancel and return ErrInterrupted
//   - Ctrl+D: EOF when nothing is entered
//
// Run returns as soon as every slot is filled; there is no Enter key.
//
// Configuration Files:
//
//	entry, err := pinentry.New(pinentry.WithConfigFile("pin.toml"))
//
// Options given next to WithConfigFile override the file.
//
// Logging:
//
// PinEntry logs through github.com/charmbracelet/log and discards output
// unless WithLogger is given. Entered characters are never logged.
//
// Thread Safety:
//
// PinEntry and Prompt are not thread-safe. Drive each from a single
// goroutine; cancel a running prompt through RunWithContext.
//
// Resource Management:
//
// Always call Close() on a Prompt to release the terminal. Close is safe to
// call multiple times.
package pinentry
