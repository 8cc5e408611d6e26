// Package wasmdoom runs a doomgeneric engine compiled to WebAssembly and
// bridges it to a Go host surface.
//
// The engine calls a small fixed set of host services synchronously (init,
// draw a frame, sleep, read elapsed time, poll a key, set a title). The host
// drives the engine by calling Tick and receives frames through a single
// reusable buffer that is overwritten in place on every draw.
//
// # Architecture Overview
//
//	wasmdoom/          Root package with Memory and Allocator interfaces
//	├── bridge/        Bridge context, lifecycle guard, argv marshaling,
//	│                  frame transfer and callback dispatch
//	├── engine/        wazero integration and the doomgeneric ABI
//	├── keys/          Key event encoding and doom key codes
//	├── wasm/          Minimal WebAssembly binary encoder
//	├── demo/          Self-contained demo guest built with the encoder
//	├── host/          Host panels: term (bubbletea), window (ebiten), headless
//	├── config/        YAML configuration
//	├── errors/        Structured error types
//	└── cmd/doomed/    Command line front end
//
// # Quick Start
//
//	eng, err := engine.New(ctx, engine.Config{Wasm: wasmBytes})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	panel := headless.New(headless.Options{MaxFrames: 100})
//	args := bridge.Args{"doom", "-iwad", "doom1.wad"}
//	if _, err := bridge.Create(ctx, len(args), panel, args, eng); err != nil {
//	    log.Fatal(err)
//	}
//	for !panel.Done() {
//	    if err := bridge.Tick(ctx); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Threading
//
// The bridge is single-threaded and synchronous. The host calls Tick from one
// goroutine; every host callback runs on that goroutine before Tick returns.
// Only one bridge may be created per process.
//
// # Frame Buffer
//
// The FrameBuffer handed to Host.DrawFrame is overwritten by the next draw.
// Hosts that render asynchronously must copy it before returning.
package wasmdoom
