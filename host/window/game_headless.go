//go:build headless

package window

import (
	"context"

	"github.com/wippyai/wasm-doom/errors"
)

// Run reports that windows are unavailable in headless builds.
func Run(ctx context.Context, panel *Panel, tick TickFunc, opts Options) error {
	return errors.Unavailable(errors.PhaseHost, "window (built with the headless tag)")
}
