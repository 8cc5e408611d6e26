// Package host holds the pieces shared by the host panels: a monotonic
// clock, a key event queue and pixel conversion from the engine's XRGB8888
// frames.
//
// Panels live in subpackages:
//
//	term/      bubbletea terminal panel
//	window/    ebiten desktop window
//	headless/  recording panel for tests and CI
//
// Every panel implements bridge.Host and copies the frame inside DrawFrame.
package host
