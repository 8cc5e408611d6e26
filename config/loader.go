package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-doom/errors"
)

const (
	appDir    = "wasm-doom"
	userFile  = "config.yaml"
	localFile = "wasm-doom.yaml"
)

// Load reads the configuration.
// Search order: customPath -> $XDG_CONFIG_HOME/wasm-doom/config.yaml ->
// ./wasm-doom.yaml -> built-in defaults. It returns the path that was read,
// or "" for the defaults. A custom path must exist; the others are optional.
func Load(customPath string) (Config, string, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		return cfg, customPath, err
	}

	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := loadFile(path)
		return cfg, path, err
	}

	cfg := Default()
	return cfg, "", nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse yaml")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field ranges and combinations.
func (c Config) Validate() error {
	if !slices.Contains([]string{ModeTerm, ModeWindow, ModeHeadless}, c.Host.Mode) {
		return invalid([]string{"host", "mode"}, "unknown host mode %q", c.Host.Mode)
	}
	if c.Host.TPS < 1 || c.Host.TPS > 1000 {
		return invalid([]string{"host", "tps"}, "tps %d outside 1..1000", c.Host.TPS)
	}
	if c.Host.Scale < 1 {
		return invalid([]string{"host", "scale"}, "scale %d must be positive", c.Host.Scale)
	}
	if c.Engine.Width < 0 || c.Engine.Height < 0 {
		return invalid([]string{"engine", "width"}, "negative geometry %dx%d", c.Engine.Width, c.Engine.Height)
	}
	if (c.Engine.Width == 0) != (c.Engine.Height == 0) {
		return invalid([]string{"engine", "height"}, "width and height must be set together, got %dx%d", c.Engine.Width, c.Engine.Height)
	}
	if c.Headless.SnapshotScale < 1 {
		return invalid([]string{"headless", "snapshot_scale"}, "snapshot scale %d must be positive", c.Headless.SnapshotScale)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return invalid([]string{"log", "level"}, "unknown log level %q", c.Log.Level)
	}
	return nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "encode yaml")
	}
	return data, nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), errors.New(errors.PhaseConfig, errors.KindNotFound).
			Symbol(path).
			Cause(err).
			Detail("read config").
			Build()
	}
	cfg, err := Parse(data)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Symbol == "" {
			e.Symbol = path
		}
		return cfg, err
	}
	return cfg, nil
}

// searchPaths returns the optional config locations in priority order.
func searchPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, appDir, userFile))
	}
	return append(paths, localFile)
}

func invalid(path []string, format string, args ...any) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Path(path...).
		Detail(format, args...).
		Build()
}
