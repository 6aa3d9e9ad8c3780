package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

const iconSize = 36

// inMic reports whether pixel (x, y) lies on the microphone glyph: a capsule,
// a U-shaped cradle, a stem and a base.
func inMic(x, y float64) bool {
	const cx = iconSize / 2

	// capsule: points within 6px of the vertical segment (cx,10)-(cx,16)
	dy := math.Max(10, math.Min(16, y))
	if math.Hypot(x-cx, y-dy) <= 6 {
		return true
	}

	// cradle: lower half of a ring around the capsule
	if y >= 16 {
		r := math.Hypot(x-cx, y-16)
		if r >= 9 && r <= 11 {
			return true
		}
	}

	// stem and base
	if y >= 27 && y <= 31 && math.Abs(x-cx) <= 1 {
		return true
	}
	return y >= 31 && y <= 33 && math.Abs(x-cx) <= 6
}

// Icon renders the menu bar template icon as PNG. Only the alpha channel
// matters to macOS for template images.
func Icon() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			if inMic(float64(x)+0.5, float64(y)+0.5) {
				img.SetNRGBA(x, y, color.NRGBA{A: 0xff})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory NRGBA image cannot fail.
		panic(err)
	}
	return buf.Bytes()
}
