package cli

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/dpvgen/pkg/machine"
)

// configDir returns the config directory using XDG standard (~/.config/dpvgen/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// builtinProfile names the default profile in messages.
const builtinProfile = "built-in"

// resolveProfile returns the machine profile to use and where it came from.
//
// An explicit path must exist. Without one, machine.toml in the config
// directory is used when present, otherwise the built-in defaults.
func resolveProfile(explicit string) (machine.Profile, string, error) {
	if explicit != "" {
		p, err := machine.LoadProfile(explicit)
		return p, explicit, err
	}

	dir, err := configDir()
	if err == nil {
		path := filepath.Join(dir, profileFile)
		if _, statErr := os.Stat(path); statErr == nil {
			p, err := machine.LoadProfile(path)
			return p, path, err
		}
	}
	return machine.DefaultProfile(), builtinProfile, nil
}
