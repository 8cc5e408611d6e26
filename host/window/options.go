package window

import "context"

// TickFunc advances the engine by one step.
type TickFunc func(ctx context.Context) error

// Options configures the window.
type Options struct {
	// Scale multiplies the frame size for the initial window size.
	Scale int
	// TPS is the engine tick rate. Zero uses 35, the doom tic rate.
	TPS int
	// Status draws a status line with the frame counter.
	Status bool
	// Fullscreen starts in fullscreen mode.
	Fullscreen bool
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if o.TPS <= 0 {
		o.TPS = 35
	}
	return o
}
