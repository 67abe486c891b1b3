// Package config loads and validates unitshield's own settings, as opposed
// to the profile catalog, which lives in package catalog.
package config

import (
	"fmt"
	"time"

	"github.com/unitshield/unitshield/internal/messages"
)

// Settings mirrors config.toml.
type Settings struct {
	Analysis AnalysisSettings `toml:"analysis"`
	Apply    ApplySettings    `toml:"apply"`
}

// AnalysisSettings controls how exposure scores are interpreted.
type AnalysisSettings struct {
	// Threshold is the exposure score at or above which a service is
	// considered in need of hardening.
	Threshold float64 `toml:"threshold"`
}

// ApplySettings controls the apply and rollback sequence.
type ApplySettings struct {
	SettleDelaySeconds    int `toml:"settle_delay_seconds"`
	CommandTimeoutSeconds int `toml:"command_timeout_seconds"`
}

// DefaultSettings returns the built-in defaults, matching the embedded
// config.toml template.
func DefaultSettings() Settings {
	return Settings{
		Analysis: AnalysisSettings{Threshold: 8.0},
		Apply: ApplySettings{
			SettleDelaySeconds:    2,
			CommandTimeoutSeconds: 10,
		},
	}
}

// SettleDelay returns the post-restart settle delay as a duration.
func (s Settings) SettleDelay() time.Duration {
	return time.Duration(s.Apply.SettleDelaySeconds) * time.Second
}

// CommandTimeout returns the per-operation timeout as a duration.
func (s Settings) CommandTimeout() time.Duration {
	return time.Duration(s.Apply.CommandTimeoutSeconds) * time.Second
}

// Validate ensures the settings are usable. path is used in error messages.
func (s Settings) Validate(path string) error {
	if s.Analysis.Threshold < 0 || s.Analysis.Threshold > 10 {
		return fmt.Errorf(messages.SettingsThresholdFmt, path)
	}
	if s.Apply.SettleDelaySeconds < 0 {
		return fmt.Errorf(messages.SettingsSettleDelayFmt, path)
	}
	if s.Apply.CommandTimeoutSeconds <= 0 {
		return fmt.Errorf(messages.SettingsTimeoutFmt, path)
	}
	return nil
}
