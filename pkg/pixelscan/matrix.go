package pixelscan

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FromMatrix copies a gonum matrix into a Grid. Matrix rows become image
// rows. Each element must be a whole number in [0, 255].
func FromMatrix(m mat.Matrix) (Grid, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrUnsupportedInputType)
	}

	r, c := m.Dims()
	rows := make(Rows, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]uint8, c)
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || v != math.Trunc(v) || v < 0 || v > float64(MaxThreshold) {
				return nil, fmt.Errorf("%w: element (%d, %d) = %v is not an 8-bit intensity",
					ErrInvalidPixelFormat, i, j, v)
			}
			rows[i][j] = uint8(v)
		}
	}
	return rows, nil
}
