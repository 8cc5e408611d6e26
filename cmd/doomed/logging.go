package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-doom/bridge"
	"github.com/wippyai/wasm-doom/config"
	"github.com/wippyai/wasm-doom/engine"
)

// newLogger builds the process logger. Without a log file the terminal host
// gets no logger at all, since stderr is the screen.
func newLogger(lc config.LogConfig, mode string) (*zap.Logger, error) {
	if lc.File == "" && mode == config.ModeTerm {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	if lc.File != "" {
		zc.OutputPaths = []string{lc.File}
		zc.Encoding = "json"
		zc.EncoderConfig = zap.NewProductionEncoderConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return zc.Build()
}

// installLogger routes library logging through l.
func installLogger(l *zap.Logger) {
	log = l
	bridge.SetLogger(l)
	engine.SetLogger(l)
}
