package compare

import (
	"context"
	"image"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"document-diff/internal/diff"
	"document-diff/internal/document"
	"document-diff/internal/render"
	"document-diff/internal/storage"
)

type Mode string

const (
	ModeOverlay    Mode = "overlay"
	ModeSideBySide Mode = "side-by-side"
	ModeBoth       Mode = "both"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOverlay, ModeSideBySide, ModeBoth:
		return Mode(s), nil
	default:
		return "", xerrors.Errorf("unknown comparison mode: %s", s)
	}
}

// Options is the immutable configuration for one comparison run.
type Options struct {
	File1       string
	File2       string
	OutputPath  string
	DPI         int
	Sensitivity int
	Page        int
	Mode        Mode
}

// Report is the JSON summary printed on stdout after a successful run.
type Report struct {
	Success          bool        `json:"success"`
	PagesDoc1        int         `json:"pages_doc1"`
	PagesDoc2        int         `json:"pages_doc2"`
	ComparedPage     int         `json:"compared_page"`
	TotalPixels      int         `json:"total_pixels"`
	ChangedPixels    int         `json:"changed_pixels"`
	ChangePercentage float64     `json:"change_percentage"`
	Sensitivity      int         `json:"sensitivity"`
	DPI              int         `json:"dpi"`
	OutputFiles      OutputFiles `json:"output_files"`
}

type OutputFiles struct {
	Overlay    *render.Output `json:"overlay,omitempty"`
	SideBySide *render.Output `json:"side_by_side,omitempty"`
}

type Comparer struct {
	Loader document.Loader
	Log    logr.Logger
}

func NewComparer(loader document.Loader, log logr.Logger) *Comparer {
	return &Comparer{
		Loader: loader,
		Log:    log,
	}
}

// Run executes the pipeline: load both documents, normalize sizes, compute
// the change mask, render the selected visualization(s) and store them.
func (c *Comparer) Run(ctx context.Context, options Options) (*Report, error) {
	pages1, err := c.Loader.PageCount(ctx, options.File1)
	if err != nil {
		return nil, err
	}
	pages2, err := c.Loader.PageCount(ctx, options.File2)
	if err != nil {
		return nil, err
	}

	var img1 *image.RGBA
	var img2 *image.RGBA
	{
		eg, ctx := errgroup.WithContext(ctx)

		eg.Go(func() error {
			img, err := c.Loader.Load(ctx, options.File1, options.Page, options.DPI)
			if err != nil {
				return err
			}
			img1 = img
			return nil
		})

		eg.Go(func() error {
			img, err := c.Loader.Load(ctx, options.File2, options.Page, options.DPI)
			if err != nil {
				return err
			}
			img2 = img
			return nil
		})

		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	img1, img2 = diff.Normalize(img1, img2)
	c.Log.V(1).Info("normalized bitmaps", "width", img1.Bounds().Dx(), "height", img1.Bounds().Dy())

	result := diff.Compute(img1, img2, options.Sensitivity)
	c.Log.V(1).Info("computed change mask", "changedPixels", result.ChangedPixels, "totalPixels", result.TotalPixels)

	report := &Report{
		PagesDoc1:        pages1,
		PagesDoc2:        pages2,
		ComparedPage:     options.Page,
		TotalPixels:      result.TotalPixels,
		ChangedPixels:    result.ChangedPixels,
		ChangePercentage: result.ChangePercentage,
		Sensitivity:      options.Sensitivity,
		DPI:              options.DPI,
	}

	if options.Mode == ModeOverlay || options.Mode == ModeBoth {
		output, err := c.store(ctx, render.Overlay(img1, img2, result), options.OutputPath)
		if err != nil {
			return nil, xerrors.Errorf("failed to generate overlay: %w", err)
		}
		report.OutputFiles.Overlay = output
	}

	if options.Mode == ModeSideBySide || options.Mode == ModeBoth {
		output, err := c.store(ctx, render.SideBySide(img1, img2, result), SideBySidePath(options.OutputPath))
		if err != nil {
			return nil, xerrors.Errorf("failed to generate side-by-side: %w", err)
		}
		report.OutputFiles.SideBySide = output
	}

	return report, nil
}

func (c *Comparer) store(ctx context.Context, img *image.RGBA, path string) (*render.Output, error) {
	data, err := render.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	backend, key, err := storage.ForPath(ctx, path)
	if err != nil {
		return nil, err
	}

	url, err := backend.Put(ctx, key, data)
	if err != nil {
		return nil, err
	}
	c.Log.V(1).Info("wrote visualization", "path", url)

	return &render.Output{
		Width:      img.Bounds().Dx(),
		Height:     img.Bounds().Dy(),
		OutputPath: url,
	}, nil
}

// SideBySidePath derives the side-by-side output path by inserting _sbs
// before the final extension; a path without an extension gets _sbs.png
// appended.
func SideBySidePath(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return path + "_sbs.png"
	}
	return strings.TrimSuffix(path, ext) + "_sbs" + ext
}
