package diff

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

// Result holds the change mask and the aggregate statistics for one
// comparison. It is computed once per run and read-only afterwards.
type Result struct {
	Mask             *Mask
	TotalPixels      int
	ChangedPixels    int
	ChangePercentage float64
}

// Normalize pads both bitmaps to a common canvas of (max width, max height),
// anchored top-left and filled with white. Documents of different page sizes
// are padded rather than scaled, so they are compared pixel-for-pixel with
// no alignment. A bitmap that already matches the target size is returned
// unchanged.
func Normalize(a *image.RGBA, b *image.RGBA) (*image.RGBA, *image.RGBA) {
	width := a.Bounds().Dx()
	if b.Bounds().Dx() > width {
		width = b.Bounds().Dx()
	}
	height := a.Bounds().Dy()
	if b.Bounds().Dy() > height {
		height = b.Bounds().Dy()
	}

	return pad(a, width, height), pad(b, width, height)
}

func pad(img *image.RGBA, width int, height int) *image.RGBA {
	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height && bounds.Min == (image.Point{}) {
		return img
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, bounds.Dx(), bounds.Dy()), img, bounds.Min, draw.Src)
	return canvas
}

// Compute derives the change mask and statistics from two equal-sized
// bitmaps. The per-pixel difference is the maximum absolute difference
// across the R, G and B channels; a pixel is changed when that maximum
// strictly exceeds sensitivity. The mask is purely pointwise, with no
// smoothing or connected-component filtering.
func Compute(a *image.RGBA, b *image.RGBA, sensitivity int) *Result {
	bounds := a.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	mask := NewMask(width, height)
	totalPixels := width * height

	var changedPixels int64

	// Use GOMAXPROCS instead of runtime.NumCPU() to consider cgroup.
	// https://tip.golang.org/doc/go1.25#container-aware-gomaxprocs
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > height {
		numWorkers = height
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	rowsPerWorker := height / numWorkers

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if i == numWorkers-1 {
			endY = height
		}

		go func(startY int, endY int) {
			defer wg.Done()
			processRows(a, b, mask, sensitivity, startY, endY, &changedPixels)
		}(startY, endY)
	}

	wg.Wait()

	changePercentage := 0.0
	if totalPixels > 0 {
		changePercentage = roundTo2(float64(changedPixels) / float64(totalPixels) * 100)
	}

	return &Result{
		Mask:             mask,
		TotalPixels:      totalPixels,
		ChangedPixels:    int(changedPixels),
		ChangePercentage: changePercentage,
	}
}

func processRows(a *image.RGBA, b *image.RGBA, mask *Mask, sensitivity int, startY int, endY int, changedCount *int64) {
	var localChanged int64
	width := mask.Width

	for y := startY; y < endY; y++ {
		aRowStart := a.PixOffset(a.Bounds().Min.X, a.Bounds().Min.Y+y)
		bRowStart := b.PixOffset(b.Bounds().Min.X, b.Bounds().Min.Y+y)
		maskRow := y * width

		for x := 0; x < width; x++ {
			aOffset := aRowStart + x*4
			bOffset := bRowStart + x*4

			dr := absDiff(a.Pix[aOffset], b.Pix[bOffset])
			dg := absDiff(a.Pix[aOffset+1], b.Pix[bOffset+1])
			db := absDiff(a.Pix[aOffset+2], b.Pix[bOffset+2])

			d := dr
			if dg > d {
				d = dg
			}
			if db > d {
				d = db
			}

			if d > sensitivity {
				mask.Bits[maskRow+x] = true
				localChanged++
			}
		}
	}

	atomic.AddInt64(changedCount, localChanged)
}

func absDiff(a uint8, b uint8) int {
	if a > b {
		return int(a) - int(b)
	}
	return int(b) - int(a)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
