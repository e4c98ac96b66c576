// Package xdg resolves XDG Base Directory paths for needles.
// Configuration lives under $XDG_CONFIG_HOME/needles and the file keyring
// under $XDG_STATE_HOME/needles, each created with private permissions.
package xdg

import (
	"os"
	"path/filepath"
)

const appDir = "needles"

// ConfigDir returns the XDG config directory for needles.
// It falls back to ~/.config/needles when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for needles.
// It falls back to ~/.local/state/needles when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func resolve(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
