// Package bridge connects a tick-driven engine to a host panel.
//
// The engine calls six host services synchronously through Callbacks, which
// the Dispatcher forwards to a Host bound once at creation. The host drives
// the engine by calling Tick. Frames cross the boundary through a single
// FrameBuffer allocated on the first draw and overwritten in place on every
// subsequent one.
//
// # Lifecycle
//
// A Guard creates at most one Context. Create binds the engine's callbacks
// to the dispatcher, marshals the host arguments into an argv vector inside
// engine memory and starts the engine. Tick advances the engine by one step
// and fails when called before Create. The package-level Create and Tick use
// a process-wide guard.
//
//	args := bridge.Args{"doom", "-iwad", "doom1.wad"}
//	if _, err := bridge.Create(ctx, len(args), panel, args, eng); err != nil {
//	    return err
//	}
//	for running {
//	    if err := bridge.Tick(ctx); err != nil {
//	        return err
//	    }
//	}
//
// # Failure policy
//
// Structural violations (double creation, an unbound host) are fatal: Create
// returns an error, and a dispatcher call with no host panics so the engine
// call that triggered it fails. Unreadable arguments are logged and skipped.
// A frame whose buffer cannot be obtained is logged and dropped.
//
// # Thread Safety
//
// Nothing here is safe for concurrent driving. Tick and every callback run on
// the caller's goroutine and return before the next one starts.
package bridge
