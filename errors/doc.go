// Package errors provides structured error types for the wasm-doom bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the guest or host symbol involved, a location path and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLink, errors.KindSignature).
//		Symbol("doomgeneric_Create").
//		Detail("want (i32, i32) -> (), got (i32) -> ()").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MissingExport("doomgeneric_Tick")
//	err := errors.OutOfBounds(errors.PhaseFrame, ptr, size, memSize)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
