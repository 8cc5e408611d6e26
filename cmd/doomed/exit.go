package main

import (
	"github.com/wippyai/wasm-doom/engine"
	"github.com/wippyai/wasm-doom/errors"
)

// exitStatus maps an error to a process exit status. A guest that called
// exit(n) keeps its status.
func exitStatus(err error) int {
	if code, ok := engine.ExitCode(err); ok && code != 0 {
		return int(code)
	}
	if e, ok := err.(*errors.Error); ok {
		switch e.Phase {
		case errors.PhaseConfig:
			return 2
		case errors.PhaseLoad, errors.PhaseLink:
			return 3
		}
	}
	return 1
}
