package render

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"golang.org/x/xerrors"
)

// Output describes one written visualization, as reported in the JSON
// summary.
type Output struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	OutputPath string `json:"output_path"`
}

// EncodePNG serializes a bitmap as a PNG at the best compression level.
func EncodePNG(img image.Image) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buffer, img); err != nil {
		return nil, xerrors.Errorf("failed to encode PNG: %w", err)
	}
	return buffer.Bytes(), nil
}

// blend composites a straight-alpha foreground color onto the pixel at the
// given offset of an opaque RGBA bitmap:
//
//	out_rgb = (fg_rgb*alpha_f + bg_rgb*alpha_b*(1-alpha_f)) / out_alpha
//	out_alpha = alpha_f + alpha_b*(1-alpha_f)
//
// The background alpha is 1 throughout this package, so out_alpha is 1 and
// stays opaque; a zero out_alpha would use divisor 1 instead.
func blend(pix []uint8, offset int, r uint8, g uint8, b uint8, alpha uint8) {
	af := float64(alpha) / 255
	ab := float64(pix[offset+3]) / 255

	outAlpha := af + ab*(1-af)
	divisor := outAlpha
	if divisor == 0 {
		divisor = 1
	}

	pix[offset] = clamp((float64(r)*af + float64(pix[offset])*ab*(1-af)) / divisor)
	pix[offset+1] = clamp((float64(g)*af + float64(pix[offset+1])*ab*(1-af)) / divisor)
	pix[offset+2] = clamp((float64(b)*af + float64(pix[offset+2])*ab*(1-af)) / divisor)
	pix[offset+3] = clamp(outAlpha * 255)
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}
