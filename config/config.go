// Package config loads the YAML configuration for the doomed CLI.
package config

// Config is the complete runtime configuration.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Host     HostConfig     `yaml:"host"`
	Headless HeadlessConfig `yaml:"headless"`
	Log      LogConfig      `yaml:"log"`
}

// EngineConfig selects and sets up the guest.
type EngineConfig struct {
	// Wasm is the path to a doomgeneric build. Empty runs the demo guest.
	Wasm string `yaml:"wasm"`
	// WADDir is mounted read-only at the guest's filesystem root.
	WADDir string   `yaml:"wad_dir"`
	Args   []string `yaml:"args"`
	Env    []string `yaml:"env"`
	// Width and Height override the geometry exported by the guest.
	// Both zero means use the guest's.
	Width            int    `yaml:"width"`
	Height           int    `yaml:"height"`
	MemoryLimitPages uint32 `yaml:"memory_limit_pages"`
}

// HostConfig selects the host panel.
type HostConfig struct {
	Mode       string `yaml:"mode"` // term, window or headless
	TPS        int    `yaml:"tps"`
	HoldMs     uint64 `yaml:"hold_ms"`
	MaxSleepMs uint64 `yaml:"max_sleep_ms"`
	Scale      int    `yaml:"scale"`
	Status     bool   `yaml:"status"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// HeadlessConfig applies to the headless host.
type HeadlessConfig struct {
	MaxFrames     uint64 `yaml:"max_frames"`
	Snapshot      string `yaml:"snapshot"`
	SnapshotScale int    `yaml:"snapshot_scale"`
	RealTime      bool   `yaml:"real_time"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives log output. The terminal host requires one, since
	// stderr shares the screen with the TUI.
	File string `yaml:"file"`
}

// Host modes.
const (
	ModeTerm     = "term"
	ModeWindow   = "window"
	ModeHeadless = "headless"
)
