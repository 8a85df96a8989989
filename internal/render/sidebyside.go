package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"document-diff/internal/diff"
)

const (
	sideBySideGap    = 20
	sideBySideHeader = 40
	// Radius 3 gives the 7-pixel-wide max filter used to grow the change
	// mask into a highlight ring.
	highlightRadius = 3
)

var canvasBackground = color.RGBA{R: 245, G: 245, B: 245, A: 255}

// SideBySide renders document A and document B next to each other under a
// header strip, with a translucent red ring drawn around the changed
// regions of document B.
func SideBySide(a *image.RGBA, b *image.RGBA, result *diff.Result) *image.RGBA {
	width := result.Mask.Width
	height := result.Mask.Height

	canvasWidth := 2*width + sideBySideGap
	canvas := image.NewRGBA(image.Rect(0, 0, canvasWidth, height+sideBySideHeader))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: canvasBackground}, image.Point{}, draw.Src)

	drawLabel(canvas, 10, 10, "ORIGINAL (Doc A)")
	drawLabel(canvas, width+sideBySideGap+10, 10, "REVISED (Doc B) - Changes Highlighted")

	draw.Draw(canvas, image.Rect(0, sideBySideHeader, width, height+sideBySideHeader), a, a.Bounds().Min, draw.Src)

	revised := b
	if result.Mask.Any() {
		revised = highlightBorders(b, result.Mask)
	}
	draw.Draw(canvas, image.Rect(width+sideBySideGap, sideBySideHeader, canvasWidth, height+sideBySideHeader), revised, revised.Bounds().Min, draw.Src)

	return canvas
}

// highlightBorders tints the ring around each changed blob, excluding the
// blob interior itself, translucent red.
func highlightBorders(b *image.RGBA, mask *diff.Mask) *image.RGBA {
	out := cloneRGBA(b)
	ring := mask.Outline(highlightRadius)

	for y := 0; y < ring.Height; y++ {
		rowStart := out.PixOffset(out.Bounds().Min.X, out.Bounds().Min.Y+y)
		ringRow := y * ring.Width

		for x := 0; x < ring.Width; x++ {
			if ring.Bits[ringRow+x] {
				blend(out.Pix, rowStart+x*4, 255, 0, 0, 100)
			}
		}
	}

	return out
}

func drawLabel(dst *image.RGBA, x int, y int, text string) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		// Dot sits on the baseline; offset by the ascent so (x, y) is the
		// top-left corner of the text.
		Dot: fixed.P(x, y+face.Ascent),
	}
	drawer.DrawString(text)
}
