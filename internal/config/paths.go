package config

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/unitshield/unitshield/internal/messages"
)

// SystemOverrideBase is where drop-in overrides for system units live.
const SystemOverrideBase = "/etc/systemd/system"

// SystemConfigDir is the default location of the catalog and settings
// files when operating on the system instance.
const SystemConfigDir = "/etc/unitshield"

// Paths holds resolved locations for the settings file, the catalog files
// and the override output directory.
type Paths struct {
	ConfigDir      string
	SettingsPath   string
	ProfilesPath   string
	ExclusionsPath string
	OverrideBase   string
}

// SystemPaths resolves paths for the system systemd instance. An empty
// configDir selects the default.
func SystemPaths(configDir string) Paths {
	if configDir == "" {
		configDir = SystemConfigDir
	}
	return pathsIn(configDir, SystemOverrideBase)
}

// UserPaths resolves paths for the per-user systemd instance. Overrides go
// to ~/.config/systemd/user, where systemd --user reads drop-ins from.
func UserPaths(configDir string) (Paths, error) {
	home, err := homedir.Dir()
	if err != nil {
		return Paths{}, fmt.Errorf(messages.SettingsHomeDirFmt, err)
	}
	if configDir == "" {
		configDir = filepath.Join(home, ".config", "unitshield")
	}
	return pathsIn(configDir, filepath.Join(home, ".config", "systemd", "user")), nil
}

func pathsIn(configDir, overrideBase string) Paths {
	return Paths{
		ConfigDir:      configDir,
		SettingsPath:   filepath.Join(configDir, "config.toml"),
		ProfilesPath:   filepath.Join(configDir, "profiles.yaml"),
		ExclusionsPath: filepath.Join(configDir, "exclusions.yaml"),
		OverrideBase:   overrideBase,
	}
}
