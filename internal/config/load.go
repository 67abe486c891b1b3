package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/unitshield/unitshield/internal/messages"
	"github.com/unitshield/unitshield/internal/templates"
)

// ErrSettingsValidation is a sentinel that wraps settings validation
// failures (as opposed to TOML syntax or filesystem errors). Callers can
// use errors.Is(err, ErrSettingsValidation) to tell a bad value apart from
// an unreadable file.
var ErrSettingsValidation = errors.New("settings validation failed")

// LoadSettings reads path and validates it. A missing file is not an
// error: the built-in defaults are returned instead, so a bare system
// needs no configuration at all.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf(messages.SettingsReadFmt, path, err)
	}
	return ParseSettings(data, path)
}

// LoadTemplateSettings parses the embedded config.toml template, proving
// the shipped defaults stay valid.
func LoadTemplateSettings() (Settings, error) {
	data, err := templates.Read("config.toml")
	if err != nil {
		return Settings{}, fmt.Errorf(messages.SettingsTemplateFmt, err)
	}
	return ParseSettings(data, "template config.toml")
}

// ParseSettings parses and validates settings TOML data. Keys absent from
// the document keep their default values; unknown keys are rejected.
// source is used in error messages.
func ParseSettings(data []byte, source string) (Settings, error) {
	s := DefaultSettings()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf(messages.SettingsInvalidFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return Settings{}, fmt.Errorf("%w: "+messages.SettingsUnknownKeysFmt+" "+messages.SettingsGuidance, ErrSettingsValidation, source, err)
	}
	if err := s.Validate(source); err != nil {
		return Settings{}, fmt.Errorf("%w: %w. "+messages.SettingsGuidance, ErrSettingsValidation, err)
	}
	return s, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field
// rejection. This catches keys that toml.Unmarshal silently ignores,
// typically typos like treshold.
func decodeStrict(data []byte) error {
	var s Settings
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&s)
}
