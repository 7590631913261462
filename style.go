package pinentry

import (
	"fmt"
	"strings"
)

// Style holds the cosmetic parameters of the slots. It never influences
// which edits are accepted.
type Style struct {
	Name              string `json:"name" yaml:"name" toml:"name"`
	// idle slot border
	Border            Color  `json:"border" yaml:"border" toml:"border"`
	// border of the slot being edited
	ActiveBorder      Color  `json:"active_border" yaml:"active_border" toml:"active_border"`
	// border in error mode
	ErrorBorder       Color  `json:"error_border" yaml:"error_border" toml:"error_border"`
	// nil for transparent
	Background        *Color `json:"background" yaml:"background" toml:"background"`
	EditingBackground *Color `json:"editing_background" yaml:"editing_background" toml:"editing_background"`
	Text              Color  `json:"text" yaml:"text" toml:"text"`
	// 0 hides borders
	BorderWidth       int    `json:"border_width" yaml:"border_width" toml:"border_width"`
	// > 0 draws rounded borders
	CornerRadius      int    `json:"corner_radius" yaml:"corner_radius" toml:"corner_radius"`
	// underline instead of a full border
	Underlined        bool   `json:"underlined" yaml:"underlined" toml:"underlined"`
	// font weight of entered characters
	Bold              bool   `json:"bold" yaml:"bold" toml:"bold"`
}

// Color represents an RGB color with optional formatting.
type Color struct {
	R    uint8 `json:"r" yaml:"r" toml:"r"`
	G    uint8 `json:"g" yaml:"g" toml:"g"`
	B    uint8 `json:"b" yaml:"b" toml:"b"`
	Bold bool  `json:"bold" yaml:"bold" toml:"bold"`
}

// ThemeDefault has gray idle borders, a blue active border and red errors.
var ThemeDefault = Style{
	Name:              "default",
	Border:            Color{R: 128, G: 128, B: 128},
	ActiveBorder:      Color{R: 0, G: 122, B: 255, Bold: true},
	ErrorBorder:       Color{R: 255, G: 59, B: 48, Bold: true},
	EditingBackground: &Color{R: 40, G: 40, B: 40},
	Text:              Color{R: 255, G: 255, B: 255},
	BorderWidth:       1,
	Bold:              true,
}

// ThemeDark is a dark theme with light blue accents
var ThemeDark = Style{
	Name:              "Dark",
	Border:            Color{R: 98, G: 114, B: 164},
	ActiveBorder:      Color{R: 102, G: 217, B: 239, Bold: true},
	ErrorBorder:       Color{R: 255, G: 85, B: 85, Bold: true},
	Background:        &Color{R: 40, G: 42, B: 54},
	EditingBackground: &Color{R: 68, G: 71, B: 90},
	Text:              Color{R: 248, G: 248, B: 242},
	BorderWidth:       1,
	CornerRadius:      4,
}

// ThemeLight is a light theme with blue accents and dark gray text
var ThemeLight = Style{
	Name:              "Light",
	Border:            Color{R: 149, G: 157, B: 165},
	ActiveBorder:      Color{R: 0, G: 119, B: 187, Bold: true},
	ErrorBorder:       Color{R: 215, G: 58, B: 73, Bold: true},
	Background:        &Color{R: 255, G: 255, B: 255},
	EditingBackground: &Color{R: 230, G: 240, B: 250},
	Text:              Color{R: 36, G: 41, B: 46},
	BorderWidth:       1,
}

// ThemeAccessible is a colorblind-safe theme with high contrast
var ThemeAccessible = Style{
	Name:         "Accessible",
	Border:       Color{R: 204, G: 204, B: 204},
	ActiveBorder: Color{R: 0, G: 114, B: 178, Bold: true},
	ErrorBorder:  Color{R: 230, G: 159, B: 0, Bold: true},
	Text:         Color{R: 255, G: 255, B: 255},
	BorderWidth:  1,
	Underlined:   true,
	Bold:         true,
}

// ThemeDracula is the Dracula color scheme
var ThemeDracula = Style{
	Name:              "Dracula",
	Border:            Color{R: 98, G: 114, B: 164},
	ActiveBorder:      Color{R: 255, G: 121, B: 198, Bold: true},
	ErrorBorder:       Color{R: 255, G: 85, B: 85, Bold: true},
	Background:        &Color{R: 40, G: 42, B: 54},
	EditingBackground: &Color{R: 68, G: 71, B: 90},
	Text:              Color{R: 241, G: 250, B: 140},
	BorderWidth:       1,
	CornerRadius:      8,
}

// BorderColor returns the border color for a slot status.
func (s Style) BorderColor(status SlotStatus) Color {
	switch status {
	case SlotActive:
		return s.ActiveBorder
	case SlotError:
		return s.ErrorBorder
	default:
		return s.Border
	}
}

// BackgroundColor returns the background for a slot status, nil for transparent.
func (s Style) BackgroundColor(status SlotStatus) *Color {
	if status == SlotActive && s.EditingBackground != nil {
		return s.EditingBackground
	}
	return s.Background
}

// ToANSI converts a Color to an ANSI foreground escape sequence.
func (c Color) ToANSI() string {
	var codes []string

	// Bold formatting comes first
	if c.Bold {
		codes = append(codes, "1")
	}

	// RGB color (true color support)
	codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B))

	return fmt.Sprintf("\x1b[%sm", strings.Join(codes, ";"))
}

// BackgroundANSI converts a Color to an ANSI background escape sequence.
func (c Color) BackgroundANSI() string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// ResetANSI returns the ANSI reset sequence.
func ResetANSI() string {
	return "\x1b[0m"
}
