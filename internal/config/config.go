// Package config provides YAML-based configuration loading and difficulty
// presets for the 2048 game and its servers.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Rules   RulesConfig   `yaml:"rules"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
	Web     WebConfig     `yaml:"web"`
	Log     LogConfig     `yaml:"log"`
}

// RulesConfig defines the game rules.
type RulesConfig struct {
	WinTile              int     `yaml:"win_tile"`
	SpawnFourProbability float64 `yaml:"spawn_four_probability"`
}

// StorageConfig defines where scores and save slots live.
type StorageConfig struct {
	DBPath string `yaml:"db_path"` // "~" is expanded by storage.Open
}

// SSHConfig defines the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// WebConfig defines the HTTP/websocket server.
type WebConfig struct {
	Address string `yaml:"address"`
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Validate checks values that the game cannot normalize on its own.
func (c Config) Validate() error {
	if c.Rules.WinTile < 4 || c.Rules.WinTile&(c.Rules.WinTile-1) != 0 {
		return fmt.Errorf("%w: win_tile %d is not a power of two >= 4", ErrInvalidConfig, c.Rules.WinTile)
	}
	if c.Rules.SpawnFourProbability < 0 || c.Rules.SpawnFourProbability > 1 {
		return fmt.Errorf("%w: spawn_four_probability %v outside [0,1]", ErrInvalidConfig, c.Rules.SpawnFourProbability)
	}
	if c.SSH.IdleTimeout < 0 {
		return fmt.Errorf("%w: negative ssh idle_timeout", ErrInvalidConfig)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty validates a preset name. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, s)
}

// SpawnFourForPreset returns the chance of a spawned 4 for a preset.
func SpawnFourForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.05
	case DifficultyHard:
		return 0.25
	default:
		return 0.10
	}
}

// ApplyPreset modifies the rules based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	cfg.Rules.SpawnFourProbability = SpawnFourForPreset(preset)
}

// RulesFor returns the rules for a preset. Normal keeps the configured spawn
// probability; easy and hard replace it.
func (c Config) RulesFor(preset DifficultyPreset) RulesConfig {
	rules := c.Rules
	if preset == DifficultyEasy || preset == DifficultyHard {
		rules.SpawnFourProbability = SpawnFourForPreset(preset)
	}
	return rules
}
