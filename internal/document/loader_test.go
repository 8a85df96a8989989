package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write test PNG: %v", err)
	}
}

// writeTestPDF writes a minimal single-page PDF with a 72x72pt media box,
// tracking object offsets so the cross-reference table is valid.
func writeTestPDF(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 72 72] >>\nendobj\n",
	}

	offsets := make([]int, 0, len(objects))
	for _, object := range objects {
		offsets = append(offsets, buf.Len())
		buf.WriteString(object)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write test PDF: %v", err)
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		path string
		want Type
	}{
		{"report.pdf", TypePDF},
		{"REPORT.PDF", TypePDF},
		{"scan.png", TypeRaster},
		{"scan.JPG", TypeRaster},
		{"scan.jpeg", TypeRaster},
		{"scan.tiff", TypeRaster},
		{"scan.tif", TypeRaster},
		{"scan.bmp", TypeRaster},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := TypeOf(tt.path)
			if err != nil {
				t.Fatalf("Expected nil error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected type %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("UnsupportedExtension", func(t *testing.T) {
		_, err := TypeOf("notes.docx")

		var unsupported *UnsupportedFileTypeError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Expected UnsupportedFileTypeError, got %v", err)
		}
		if !strings.Contains(err.Error(), ".docx") {
			t.Errorf("Expected error message to name the extension, got %q", err.Error())
		}
	})
}

func TestLoaderRaster(t *testing.T) {
	loader := NewLoader()
	ctx := context.Background()

	t.Run("DecodesPNG", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 40, 30))
		for y := 0; y < 30; y++ {
			for x := 0; x < 40; x++ {
				img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
			}
		}
		path := filepath.Join(t.TempDir(), "input.png")
		writeTestPNG(t, path, img)

		got, err := loader.Load(ctx, path, 0, 150)
		if err != nil {
			t.Fatalf("Expected nil error, got %v", err)
		}
		if got.Bounds().Dx() != 40 || got.Bounds().Dy() != 30 {
			t.Errorf("Expected 40x30, got %dx%d", got.Bounds().Dx(), got.Bounds().Dy())
		}
		want := color.RGBA{R: 10, G: 20, B: 30, A: 255}
		if pixel := got.RGBAAt(5, 5); pixel != want {
			t.Errorf("Expected %v, got %v", want, pixel)
		}
	})

	t.Run("FlattensAlphaOverWhite", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
		// Fully transparent everywhere; must flatten to white.
		path := filepath.Join(t.TempDir(), "transparent.png")
		writeTestPNG(t, path, img)

		got, err := loader.Load(ctx, path, 0, 150)
		if err != nil {
			t.Fatalf("Expected nil error, got %v", err)
		}
		want := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if pixel := got.RGBAAt(3, 3); pixel != want {
			t.Errorf("Expected transparent pixel to flatten to %v, got %v", want, pixel)
		}
	})

	t.Run("PageCountIsOne", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "single.png")
		writeTestPNG(t, path, image.NewRGBA(image.Rect(0, 0, 1, 1)))

		count, err := loader.PageCount(ctx, path)
		if err != nil {
			t.Fatalf("Expected nil error, got %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 page, got %d", count)
		}
	})

	t.Run("UnsupportedFileType", func(t *testing.T) {
		_, err := loader.Load(ctx, "input.txt", 0, 150)

		var unsupported *UnsupportedFileTypeError
		if !errors.As(err, &unsupported) {
			t.Errorf("Expected UnsupportedFileTypeError, got %v", err)
		}
	})
}

func TestLoaderPDF(t *testing.T) {
	loader := NewLoader()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "single.pdf")
	writeTestPDF(t, path)

	t.Run("PageCount", func(t *testing.T) {
		count, err := loader.PageCount(ctx, path)
		if err != nil {
			t.Fatalf("Expected nil error, got %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 page, got %d", count)
		}
	})

	t.Run("RendersPageAtDPI", func(t *testing.T) {
		got, err := loader.Load(ctx, path, 0, 72)
		if err != nil {
			t.Fatalf("Expected nil error, got %v", err)
		}
		// 72x72pt media box at 72 DPI is a 72x72px bitmap.
		if got.Bounds().Dx() != 72 || got.Bounds().Dy() != 72 {
			t.Errorf("Expected 72x72, got %dx%d", got.Bounds().Dx(), got.Bounds().Dy())
		}
	})

	t.Run("PageOutOfRange", func(t *testing.T) {
		_, err := loader.Load(ctx, path, 5, 150)

		var outOfRange *PageOutOfRangeError
		if !errors.As(err, &outOfRange) {
			t.Fatalf("Expected PageOutOfRangeError, got %v", err)
		}
		if outOfRange.PageCount != 1 {
			t.Errorf("Expected page count 1 in error, got %d", outOfRange.PageCount)
		}
		if !strings.Contains(err.Error(), "page 5 does not exist") || !strings.Contains(err.Error(), "has 1 pages") {
			t.Errorf("Expected message to reference the page and count, got %q", err.Error())
		}
	})
}
