package main

import (
	"errors"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Config carries defaults for the check command, read from srcmark.toml in
// the working directory when present. Flags win over config values.
type Config struct {
	TabWidth       uint8  `toml:"tab_width"`
	Extension      string `toml:"extension"`
	PathMode       string `toml:"path_mode"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

func defaultConfig() Config {
	return Config{
		Extension:      ".txt",
		PathMode:       "auto",
		MaxDiagnostics: 100,
	}
}

// loadConfig reads path into the defaults; a missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	return cfg, nil
}
