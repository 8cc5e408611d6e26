package config

import (
	_ "embed"
)

//go:embed defaults/config.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Args: []string{"doom"},
		},
		Host: HostConfig{
			Mode:   ModeTerm,
			TPS:    35,
			HoldMs: 150,
			Scale:  2,
			Status: true,
		},
		Headless: HeadlessConfig{
			MaxFrames:     350,
			SnapshotScale: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the built-in configuration as YAML, suitable as a
// starting point for a config file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}
