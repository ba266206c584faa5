package pangu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Settings is the persisted form of the user configuration. Field names
// follow the editor plugin settings they replace.
type Settings struct {
	TabWidth                   TabWidth `toml:"tabWidth"`                   // "2" or "4"
	EmbeddedLanguageFormatting bool     `toml:"embeddedLanguageFormatting"` // Re-space code span interiors
}

// TabWidth is stored as a string but also accepts a bare integer in the file.
type TabWidth string

// UnmarshalTOML implements toml.Unmarshaler.
func (w *TabWidth) UnmarshalTOML(v interface{}) error {
	switch x := v.(type) {
	case string:
		*w = TabWidth(x)
	case int64:
		*w = TabWidth(strconv.FormatInt(x, 10))
	default:
		return fmt.Errorf("tabWidth: unsupported value %v (%T)", v, v)
	}
	return nil
}

// DefaultSettings returns the settings used when nothing has been saved yet.
func DefaultSettings() Settings {
	cfg := DefaultConfig()
	return Settings{
		TabWidth:                   TabWidth(strconv.Itoa(cfg.IndentWidth)),
		EmbeddedLanguageFormatting: cfg.FormatEmbeddedCode,
	}
}

// Config resolves the settings into an engine configuration.
func (s Settings) Config() (Config, error) {
	n, err := strconv.Atoi(string(s.TabWidth))
	if err != nil {
		return Config{}, fmt.Errorf("tabWidth %q: %w", s.TabWidth, ErrInvalidIndentWidth)
	}
	cfg := Config{
		IndentWidth:        n,
		FormatEmbeddedCode: s.EmbeddedLanguageFormatting,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("tabWidth %q: %w", s.TabWidth, err)
	}
	return cfg, nil
}

// SettingsPath returns the settings file location under the XDG config
// directory, creating the parent directory if needed.
func SettingsPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("pangu", "settings.toml"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve settings path: %w", err)
	}
	return path, nil
}

// LoadSettings reads settings from path on top of the defaults: keys missing
// from the file keep their default value, and a missing file yields the
// defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			Logger.Debug().Str("path", path).Msg("no settings file, using defaults")
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("failed to load settings from %s: %w", path, err)
	}
	Logger.Debug().Str("path", path).Str("tabWidth", string(s.TabWidth)).
		Bool("embeddedLanguageFormatting", s.EmbeddedLanguageFormatting).
		Msg("settings loaded")
	return s, nil
}

// SaveSettings writes s to path as TOML, replacing any previous content.
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
