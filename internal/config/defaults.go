package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration, used when the embedded YAML
// cannot be parsed.
func Default() Config {
	return Config{
		Rules: RulesConfig{
			WinTile:              2048,
			SpawnFourProbability: 0.1,
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/t2048.db",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			HostKey:     ".ssh/t2048_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Web: WebConfig{
			Address: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
