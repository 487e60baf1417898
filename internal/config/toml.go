// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Session  SessionConfig  `toml:"session"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lang         *string  `toml:"lang"`
	Words        *int     `toml:"words"`
	WordList     *string  `toml:"wordlist"`
	CapsPct      *float64 `toml:"caps"`
	PunctPct     *float64 `toml:"punct"`
	PunctSet     *string  `toml:"punct-set"`
	FocusMissed  *bool    `toml:"focus-missed"`
	MissedTop    *int     `toml:"missed-top"`
	MissedFactor *float64 `toml:"missed-factor"`
	MissedWindow *int     `toml:"missed-window"`
}

// SessionConfig maps scoring settings.
type SessionConfig struct {
	Formula *string `toml:"wpm-formula"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	File   *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
