package term

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// upperHalf draws the top pixel in the foreground and the bottom pixel in
// the background, giving two pixel rows per terminal row.
const upperHalf = "▀"

// fitCells returns the terminal cell grid that shows a width x height frame
// inside cols x rows cells with the aspect ratio preserved.
func fitCells(width, height, cols, rows int) (cw, ch int) {
	if width <= 0 || height <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	// Each cell covers one pixel column and two pixel rows.
	cw = cols
	ch = cw * height / width / 2
	if ch > rows {
		ch = rows
		cw = ch * 2 * width / height
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	return cw, ch
}

func hexColor(rgba []byte, o int) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgba[o], rgba[o+1], rgba[o+2]))
}

// renderFrame scales an RGBA frame into cw x ch half-block cells using
// nearest-neighbour sampling. Adjacent cells with equal colours share one
// styled run.
func renderFrame(rgba []byte, width, height, cw, ch int) string {
	if cw == 0 || ch == 0 || len(rgba) < width*height*4 {
		return ""
	}
	var b strings.Builder
	rows := ch * 2
	for cy := 0; cy < ch; cy++ {
		ty := (cy * 2) * height / rows
		by := (cy*2 + 1) * height / rows

		var run strings.Builder
		var runTop, runBot lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(runTop).Background(runBot)
			b.WriteString(style.Render(run.String()))
			run.Reset()
		}

		for cx := 0; cx < cw; cx++ {
			sx := cx * width / cw
			top := hexColor(rgba, (ty*width+sx)*4)
			bot := hexColor(rgba, (by*width+sx)*4)
			if run.Len() > 0 && (top != runTop || bot != runBot) {
				flush()
			}
			runTop, runBot = top, bot
			run.WriteString(upperHalf)
		}
		flush()
		if cy < ch-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
