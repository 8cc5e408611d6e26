package engine

import (
	"context"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"

	"github.com/wippyai/wasm-doom/errors"
)

// instantiateWASI registers wasi_snapshot_preview1 unless the runtime already
// has it. doomgeneric builds use it for WAD file access and stdio.
func (e *WazeroEngine) instantiateWASI(ctx context.Context) error {
	if e.runtime.Module(ModuleWASI) != nil {
		return nil
	}
	builder := e.runtime.NewHostModuleBuilder(ModuleWASI)
	wasi_snapshot_preview1.NewFunctionExporter().ExportFunctions(builder)
	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Wrap(errors.PhaseLink, errors.KindInstantiation, err, "instantiate WASI")
	}
	return nil
}

// moduleConfig builds the guest configuration: real clocks, the WAD
// directory mounted read-only at "/", and stdio routed to the logger unless
// the caller supplied writers.
func (e *WazeroEngine) moduleConfig() wazero.ModuleConfig {
	cfg := wazero.NewModuleConfig().
		WithName(e.cfg.Name).
		WithStartFunctions(ExportInitialize).
		WithSysWalltime().
		WithSysNanotime().
		WithSysNanosleep()

	if e.cfg.WADDir != "" {
		cfg = cfg.WithFSConfig(wazero.NewFSConfig().WithReadOnlyDirMount(e.cfg.WADDir, "/"))
	}

	if e.cfg.Stdout != nil {
		cfg = cfg.WithStdout(e.cfg.Stdout)
	} else {
		w := &zapio.Writer{Log: Logger().With(zap.String("stream", "stdout")), Level: zapcore.InfoLevel}
		e.closers = append(e.closers, w)
		cfg = cfg.WithStdout(w)
	}
	if e.cfg.Stderr != nil {
		cfg = cfg.WithStderr(e.cfg.Stderr)
	} else {
		w := &zapio.Writer{Log: Logger().With(zap.String("stream", "stderr")), Level: zapcore.WarnLevel}
		e.closers = append(e.closers, w)
		cfg = cfg.WithStderr(w)
	}

	for _, arg := range e.cfg.Env {
		if k, v, ok := strings.Cut(arg, "="); ok && k != "" {
			cfg = cfg.WithEnv(k, v)
		}
	}
	return cfg
}
