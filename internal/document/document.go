package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Type distinguishes the two ways a document becomes a bitmap: PDFs are
// rasterized page by page, raster images are decoded as a single page.
type Type int

const (
	TypePDF Type = iota
	TypeRaster
)

var rasterExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".tiff": {},
	".tif":  {},
	".bmp":  {},
}

type UnsupportedFileTypeError struct {
	Ext string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Ext)
}

type PageOutOfRangeError struct {
	Path      string
	Page      int
	PageCount int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("page %d does not exist in %s (has %d pages)", e.Page, e.Path, e.PageCount)
}

// TypeOf infers the document type from the file extension,
// case-insensitively.
func TypeOf(path string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return TypePDF, nil
	}
	if _, ok := rasterExtensions[ext]; ok {
		return TypeRaster, nil
	}
	return 0, &UnsupportedFileTypeError{Ext: ext}
}
