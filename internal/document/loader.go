package document

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/xerrors"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

type Loader interface {
	// Load renders the given page of a document to an opaque RGB bitmap.
	// For PDFs the page is rasterized at the given DPI; raster images are
	// decoded, ignore the page/dpi arguments and are flattened over white.
	Load(ctx context.Context, path string, page int, dpi int) (*image.RGBA, error)
	// PageCount returns the number of pages in a PDF, or 1 for a raster image.
	PageCount(ctx context.Context, path string) (int, error)
}

type loader struct{}

func NewLoader() Loader {
	return &loader{}
}

func (l *loader) Load(ctx context.Context, path string, page int, dpi int) (*image.RGBA, error) {
	t, err := TypeOf(path)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypePDF:
		return l.renderPDFPage(path, page, dpi)
	default:
		return l.decodeRaster(path)
	}
}

func (l *loader) PageCount(ctx context.Context, path string) (int, error) {
	t, err := TypeOf(path)
	if err != nil {
		return 0, err
	}

	if t != TypePDF {
		return 1, nil
	}

	doc, err := fitz.New(path)
	if err != nil {
		return 0, xerrors.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}

func (l *loader) renderPDFPage(path string, page int, dpi int) (*image.RGBA, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to open PDF %s: %w", path, err)
	}
	// The document handle must not outlive the call.
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return nil, &PageOutOfRangeError{
			Path:      path,
			Page:      page,
			PageCount: doc.NumPage(),
		}
	}

	img, err := doc.ImageDPI(page, float64(dpi))
	if err != nil {
		return nil, xerrors.Errorf("failed to render page %d of %s: %w", page, path, err)
	}

	return flatten(img), nil
}

func (l *loader) decodeRaster(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode image %s: %w", path, err)
	}

	return flatten(img), nil
}

// flatten composites an image over a white background, yielding a fully
// opaque RGBA bitmap anchored at the origin. White matches the padding used
// during size normalization and the background of rasterized PDF pages.
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Over)
	return out
}
