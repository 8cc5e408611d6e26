package host

// XRGBToRGBA converts little-endian XRGB8888 pixels (B, G, R, X in memory)
// into RGBA bytes with opaque alpha. dst must hold len(src) bytes; a trailing
// partial pixel is ignored. It returns the number of pixels converted.
func XRGBToRGBA(dst, src []byte) int {
	n := len(src) / 4
	if m := len(dst) / 4; m < n {
		n = m
	}
	for i := 0; i < n; i++ {
		o := i * 4
		b, g, r := src[o], src[o+1], src[o+2]
		dst[o] = r
		dst[o+1] = g
		dst[o+2] = b
		dst[o+3] = 0xFF
	}
	return n
}

// PixelRGB returns the red, green and blue channels of pixel i in an
// XRGB8888 frame.
func PixelRGB(frame []byte, i int) (r, g, b uint8) {
	o := i * 4
	return frame[o+2], frame[o+1], frame[o]
}
