package pinentry

import "io"

// mockTerminal implements terminalInterface for tests. It replays a fixed
// key sequence and reports io.EOF once the sequence is exhausted.
type mockTerminal struct {
	input        []rune // Scripted key sequence
	inputPos     int    // Next rune to return
	rawMode      bool   // Raw mode state for test verification
	rawErr       error  // Returned by SetRaw when set
	closeCount   int    // Number of Close calls
	terminalSize [2]int // Fixed terminal dimensions [width, height]
}

func newMockTerminal(input string) *mockTerminal {
	return &mockTerminal{
		input:        []rune(input),
		terminalSize: [2]int{80, 24},
	}
}

func (m *mockTerminal) SetRaw() error {
	if m.rawErr != nil {
		return m.rawErr
	}
	m.rawMode = true
	return nil
}

func (m *mockTerminal) Restore() error {
	m.rawMode = false
	return nil
}

func (m *mockTerminal) Size() (width, height int, err error) {
	return m.terminalSize[0], m.terminalSize[1], nil
}

func (m *mockTerminal) ReadRune() (rune, int, error) {
	if m.inputPos >= len(m.input) {
		return 0, 0, io.EOF
	}
	r := m.input[m.inputPos]
	m.inputPos++
	return r, 1, nil
}

func (m *mockTerminal) Close() error {
	m.closeCount++
	return nil
}
