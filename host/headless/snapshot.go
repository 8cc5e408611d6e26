package headless

import (
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/wippyai/wasm-doom/errors"
	"github.com/wippyai/wasm-doom/host"
)

// Image returns the last frame as an RGBA image of the given size in pixels.
func (p *Panel) Image(width, height int) (*image.RGBA, error) {
	frame := p.Frame()
	if frame == nil {
		return nil, errors.NotInitialized(errors.PhaseHost, "frame")
	}
	if width <= 0 || height <= 0 || len(frame) < width*height*4 {
		return nil, errors.New(errors.PhaseHost, errors.KindInvalidInput).
			Detail("frame of %d bytes does not hold %dx%d pixels", len(frame), width, height).
			Build()
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	host.XRGBToRGBA(img.Pix, frame)
	return img, nil
}

// WritePNG encodes the last frame, scaled by an integer factor with
// nearest-neighbour sampling, to w.
func (p *Panel) WritePNG(w io.Writer, width, height, scale int) error {
	img, err := p.Image(width, height)
	if err != nil {
		return err
	}
	var out image.Image = img
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		out = dst
	}
	if err := png.Encode(w, out); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "encode snapshot")
	}
	return nil
}

// SavePNG writes the last frame to path. See WritePNG.
func (p *Panel) SavePNG(path string, width, height, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindUnavailable, err, "create snapshot file")
	}
	if err := p.WritePNG(f, width, height, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
