// Package pixelscan decides whether a grayscale image holds a pixel brighter
// than a threshold. Every representation the scanner accepts is reached
// through the Grid interface; adapters exist for raw rows, image.Image values
// and gonum matrices.
package pixelscan

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedInputType is returned when a value cannot be read as a
	// single-channel intensity grid (colour images, ragged rows, nil).
	ErrUnsupportedInputType = errors.New("unsupported input type")

	// ErrInvalidPixelFormat is returned when a pixel is not a plain 8-bit
	// intensity scalar.
	ErrInvalidPixelFormat = errors.New("invalid pixel format")
)

// Grid is anything readable as an 8-bit grayscale intensity grid.
// x addresses columns in [0, Width), y addresses rows in [0, Height).
type Grid interface {
	Width() int
	Height() int
	At(x, y int) uint8
}

// Rows is a raw intensity grid stored row by row.
type Rows [][]uint8

// NewRows validates that every row has the same length.
func NewRows(rows [][]uint8) (Rows, error) {
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d pixels, want %d",
				ErrUnsupportedInputType, i, len(row), len(rows[0]))
		}
	}
	return Rows(rows), nil
}

func (r Rows) Width() int {
	if len(r) == 0 {
		return 0
	}
	return len(r[0])
}

func (r Rows) Height() int { return len(r) }

func (r Rows) At(x, y int) uint8 { return r[y][x] }
