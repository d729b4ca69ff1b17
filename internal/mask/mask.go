// Package mask provides the boolean grids used by mask zones, plus decoding
// of mask images with a caller-chosen threshold.
package mask

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrEmptyMask is returned when a mask would have no cells.
var ErrEmptyMask = errors.New("mask has no cells")

// Mask is a row-major grid of booleans.
type Mask struct {
	rows, cols int
	bits       []bool
}

// New creates an all-false mask.
func New(rows, cols int) (*Mask, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyMask, cols, rows)
	}
	return &Mask{rows: rows, cols: cols, bits: make([]bool, rows*cols)}, nil
}

// Rows returns the number of rows.
func (m *Mask) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Mask) Cols() int { return m.cols }

// At reports the cell at (row, col). Indices outside the grid read as false.
func (m *Mask) At(row, col int) bool {
	if row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return false
	}
	return m.bits[row*m.cols+col]
}

// Set writes the cell at (row, col). Indices outside the grid are ignored.
func (m *Mask) Set(row, col int, v bool) {
	if row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return
	}
	m.bits[row*m.cols+col] = v
}

// Count returns the number of true cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// FromImage thresholds img: a pixel whose gray level is strictly above
// threshold becomes true.
func FromImage(img image.Image, threshold uint8) (*Mask, error) {
	b := img.Bounds()
	m, err := New(b.Dy(), b.Dx())
	if err != nil {
		return nil, err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if g.Y > threshold {
				m.bits[(y-b.Min.Y)*m.cols+(x-b.Min.X)] = true
			}
		}
	}
	return m, nil
}

// Decode reads a PNG, JPEG, BMP or TIFF image and thresholds it.
func Decode(r io.Reader, threshold uint8) (*Mask, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode mask image: %w", err)
	}
	slog.Debug("decoded mask image", "format", format, "bounds", img.Bounds())
	return FromImage(img, threshold)
}

// ReadImage opens path and decodes it as a PNG, JPEG, BMP or TIFF image.
func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: decode image: %w", path, err)
	}
	slog.Debug("decoded image", "path", path, "format", format, "bounds", img.Bounds())
	return img, nil
}

// Load opens path and decodes it as a mask.
func Load(path string, threshold uint8) (*Mask, error) {
	img, err := ReadImage(path)
	if err != nil {
		return nil, fmt.Errorf("open mask: %w", err)
	}
	m, err := FromImage(img, threshold)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("loaded mask", "path", path, "cols", m.cols, "rows", m.rows, "threshold", threshold)
	return m, nil
}

// Loader loads a mask from a file with a threshold. Load satisfies it, as
// does the OpenCV-backed loader.
type Loader func(path string, threshold uint8) (*Mask, error)
