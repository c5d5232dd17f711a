package config

import (
	"os"
	"path/filepath"
)

// subdir is the product namespace under both XDG roots (spec §6:
// `<config_home>/seot/config.yml`, `<data_home>/seot/state.yml`).
const subdir = "seot"

// ConfigPath returns the default configuration file path, preferring
// os.UserConfigDir and falling back to the original's literal
// ~/.config/seot when os.UserConfigDir returns an error.
func ConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, subdir, "config.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", subdir, "config.yml")
}

// StatePath returns the default state file path under the XDG data
// directory (spec §6: `<data_home>/seot/state.yml`).
func StatePath() string {
	if dir := dataHome(); dir != "" {
		return filepath.Join(dir, subdir, "state.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", subdir, "state.yml")
}

// CertDir returns the directory holding the agent's TLS material (spec
// §6: `<data_home>/seot/cert/{cert.key,privkey.pem}`).
func CertDir() string {
	if dir := dataHome(); dir != "" {
		return filepath.Join(dir, subdir, "cert")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", subdir, "cert")
}

// dataHome resolves $XDG_DATA_HOME the way os.UserConfigDir resolves
// $XDG_CONFIG_HOME — there is no os.UserDataDir, so this mirrors its
// logic for the data half of the XDG base directory spec.
func dataHome() string {
	if env := os.Getenv("XDG_DATA_HOME"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share")
}
