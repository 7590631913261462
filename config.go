package pinentry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Configuration errors
var (
	// ErrInvalidLength is returned when the slot count is negative.
	ErrInvalidLength = errors.New("length must not be negative")
	// ErrEmptyMask is returned when secure mode is on without a mask character.
	ErrEmptyMask = errors.New("secure mode requires a mask character")
	// ErrInvalidGeometry is returned when a size or spacing is negative.
	ErrInvalidGeometry = errors.New("geometry values must not be negative")
)

// Config holds the configuration of a PIN entry widget.
//
// A Config is applied as a whole: changing any field through
// PinEntry.Configure rebuilds every slot and empties the buffer.
type Config struct {
	Length          int       `json:"length" yaml:"length" toml:"length"`                               // number of slots
	Secure          bool      `json:"secure" yaml:"secure" toml:"secure"`                               // show SecureCharacter instead of entered characters
	SecureCharacter string    `json:"secure_character" yaml:"secure_character" toml:"secure_character"` // mask shown in secure mode
	EntryType       EntryType `json:"entry_type" yaml:"entry_type" toml:"entry_type"`                   // accepted characters
	CaretVisible    bool      `json:"caret_visible" yaml:"caret_visible" toml:"caret_visible"`          // draw the caret in the active slot
	Style           Style     `json:"style" yaml:"style" toml:"style"`
	Geometry        Geometry  `json:"geometry" yaml:"geometry" toml:"geometry"`
}

// DefaultConfig returns a four digit, numerical, visible-caret configuration.
func DefaultConfig() Config {
	return Config{
		Length:          4,
		Secure:          false,
		SecureCharacter: "•",
		EntryType:       EntryNumerical,
		CaretVisible:    true,
		Style:           ThemeDefault,
		Geometry: Geometry{
			ItemWidth:  3,
			ItemHeight: 1,
			Spacing:    1,
		},
	}
}

// Validate checks the configuration for values the widget cannot honor.
func (c Config) Validate() error {
	if c.Length < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, c.Length)
	}
	if c.Secure && c.SecureCharacter == "" {
		return ErrEmptyMask
	}
	if _, err := c.EntryType.MarshalText(); err != nil {
		return err
	}
	g := c.Geometry
	if g.ItemWidth < 0 || g.ItemHeight < 0 || g.Spacing < 0 ||
		g.Insets.Top < 0 || g.Insets.Left < 0 || g.Insets.Bottom < 0 || g.Insets.Right < 0 {
		return ErrInvalidGeometry
	}
	return nil
}

// LoadConfig reads a configuration file and lays it over DefaultConfig.
//
// The format follows the file extension: .toml, .yaml/.yml or .json.
// A missing file yields the defaults.
//
// Example (pin.toml):
//
//	length = 6
//	secure = true
//	entry_type = "alphanumeric"
//
//	[style]
//	underlined = true
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode JSON: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}
