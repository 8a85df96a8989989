package render

import (
	"image"

	"document-diff/internal/diff"
)

// Overlay colour-codes changed pixels on top of document A. The tint for a
// changed pixel follows the brightness of document B at that coordinate:
// dark regions get a strong warm highlight, light regions a cooler and
// slightly more transparent one.
func Overlay(a *image.RGBA, b *image.RGBA, result *diff.Result) *image.RGBA {
	out := cloneRGBA(a)
	mask := result.Mask

	for y := 0; y < mask.Height; y++ {
		bRowStart := b.PixOffset(b.Bounds().Min.X, b.Bounds().Min.Y+y)
		outRowStart := out.PixOffset(0, y)
		maskRow := y * mask.Width

		for x := 0; x < mask.Width; x++ {
			if !mask.Bits[maskRow+x] {
				continue
			}

			bOffset := bRowStart + x*4
			sum := int(b.Pix[bOffset]) + int(b.Pix[bOffset+1]) + int(b.Pix[bOffset+2])

			// mean(R,G,B) < 128
			if sum < 128*3 {
				blend(out.Pix, outRowStart+x*4, 255, 50, 50, 180)
			} else {
				blend(out.Pix, outRowStart+x*4, 50, 50, 255, 140)
			}
		}
	}

	return out
}
