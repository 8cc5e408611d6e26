package bridge

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-doom/errors"
)

// Guard enforces a single bridge per guard and orders Create before Tick.
type Guard struct {
	ctx *Context
	mu  sync.Mutex
}

// NewGuard returns an empty guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Create binds host to eng, marshals argc items of args into engine memory
// and starts the engine. It fails if the guard already holds a context.
func (g *Guard) Create(ctx context.Context, argc int, host Host, args ArgSource, eng Engine) (*Context, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ctx != nil {
		return nil, errors.AlreadyCreated("bridge")
	}
	if host == nil {
		return nil, errors.New(errors.PhaseCreate, errors.KindMissingHandle).
			Detail("host is nil").
			Build()
	}
	if eng == nil {
		return nil, errors.InvalidInput(errors.PhaseCreate, "engine is nil")
	}

	geom := eng.Geometry()
	if !geom.Valid() {
		return nil, errors.New(errors.PhaseCreate, errors.KindInvalidInput).
			Value(geom).
			Detail("invalid frame geometry %dx%dx%d", geom.Width, geom.Height, geom.BytesPerPixel).
			Build()
	}

	c := newContext(host, eng, geom)
	if err := eng.Bind(c.dispatcher); err != nil {
		return nil, errors.Wrap(errors.PhaseCreate, errors.KindMissingHandle, err, "bind engine callbacks")
	}

	argv, err := MarshalArgs(eng.Memory(), eng.Allocator(ctx), argc, args)
	if err != nil {
		return nil, err
	}
	c.argv = argv

	// The engine may start running inside Create; the guard is consumed first.
	g.ctx = c

	Logger().Info("starting engine",
		zap.Int("argc", argv.Count()),
		zap.Int("requested", argc),
		zap.Int("width", geom.Width),
		zap.Int("height", geom.Height))

	if err := eng.Create(ctx, int32(argv.Count()), argv.Ptr); err != nil {
		return c, err
	}
	return c, nil
}

// Tick advances the engine by one step.
func (g *Guard) Tick(ctx context.Context) error {
	g.mu.Lock()
	c := g.ctx
	g.mu.Unlock()

	if c == nil {
		return errors.NotInitialized(errors.PhaseCreate, "bridge")
	}
	return c.engine.Tick(ctx)
}

// Context returns the created context, or nil.
func (g *Guard) Context() *Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctx
}

var process Guard

// Create creates the process-wide bridge. See Guard.Create.
func Create(ctx context.Context, argc int, host Host, args ArgSource, eng Engine) (*Context, error) {
	return process.Create(ctx, argc, host, args, eng)
}

// Tick advances the process-wide bridge. See Guard.Tick.
func Tick(ctx context.Context) error {
	return process.Tick(ctx)
}

// Current returns the process-wide context, or nil before Create.
func Current() *Context {
	return process.Context()
}
