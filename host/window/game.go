//go:build !headless

package window

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/wippyai/wasm-doom/bridge"
)

var (
	statusColor = color.RGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}
	statusFace  = text.NewGoXFace(basicfont.Face7x13)
)

// statusMargin is the gap between the status line and the window edges.
const statusMargin = 4

// statusOptions places the status line in the bottom-left corner of a
// screen screenHeight pixels tall.
func statusOptions(screenHeight int) *text.DrawOptions {
	op := &text.DrawOptions{}
	lineHeight := statusFace.Metrics().HAscent + statusFace.Metrics().HDescent
	op.GeoM.Translate(statusMargin, float64(screenHeight)-statusMargin-lineHeight)
	op.ColorScale.ScaleWithColor(statusColor)
	return op
}

// Game is the ebiten game that drives the engine.
type Game struct {
	ctx    context.Context
	panel  *Panel
	tick   TickFunc
	opts   Options
	frame  *ebiten.Image
	pixels []byte
	err    error
	ticks  uint64
}

// NewGame returns a game that ticks the engine once per update.
func NewGame(ctx context.Context, panel *Panel, tick TickFunc, opts Options) *Game {
	w, h := panel.Size()
	return &Game{
		ctx:    ctx,
		panel:  panel,
		tick:   tick,
		opts:   opts.withDefaults(),
		pixels: make([]byte, w*h*4),
	}
}

// Err returns the engine error that ended the game, if any.
func (g *Game) Err() error {
	return g.err
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) && ebiten.IsKeyPressed(ebiten.KeyAlt) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if code, ok := keyCode(k); ok {
			g.panel.Press(code)
		}
	}
	for _, k := range inpututil.AppendJustReleasedKeys(nil) {
		if code, ok := keyCode(k); ok {
			g.panel.Release(code)
		}
	}

	if err := g.tick(g.ctx); err != nil {
		bridge.Logger().Named("window").Info("engine stopped", zap.Error(err), zap.Uint64("ticks", g.ticks))
		g.err = err
		return ebiten.Termination
	}
	g.ticks++

	if title, ok := g.panel.takeTitle(); ok {
		ebiten.SetWindowTitle(title)
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	w, h := g.panel.Size()
	if g.frame == nil {
		g.frame = ebiten.NewImage(w, h)
	}
	g.panel.copyPixels(g.pixels)
	g.frame.WritePixels(g.pixels)

	bounds := screen.Bounds()
	scale, offX, offY := fitRect(w, h, bounds.Dx(), bounds.Dy())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offX, offY)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(g.frame, op)

	if g.opts.Status {
		status := fmt.Sprintf("%s  tick %d  frame %d  %.0f tps",
			g.panel.Title(), g.ticks, g.panel.Frames(), ebiten.ActualTPS())
		text.Draw(screen, status, statusFace, statusOptions(bounds.Dy()))
	}
}

// Layout implements ebiten.Game. The screen matches the window so Draw can
// scale the frame itself.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens the window and drives the engine until the window closes or the
// engine stops. It returns the engine's error, if any.
func Run(ctx context.Context, panel *Panel, tick TickFunc, opts Options) error {
	g := NewGame(ctx, panel, tick, opts)
	w, h := panel.Size()

	ebiten.SetWindowTitle(panel.Title())
	ebiten.SetWindowSize(w*g.opts.Scale, h*g.opts.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(g.opts.TPS)
	ebiten.SetFullscreen(g.opts.Fullscreen)

	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.Err()
}
