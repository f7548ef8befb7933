package pixelscan

import (
	"fmt"
	"image"
	"image/color"
)

// grayImage reads an *image.Gray without copying. Pix[0] is always the
// pixel at Rect.Min, sub-images included.
type grayImage struct {
	img *image.Gray
}

func (g grayImage) Width() int  { return g.img.Rect.Dx() }
func (g grayImage) Height() int { return g.img.Rect.Dy() }

func (g grayImage) At(x, y int) uint8 {
	return g.img.Pix[y*g.img.Stride+x]
}

// FromImage adapts a decoded image to a Grid.
//
// *image.Gray is read in place. Any other image must use color.GrayModel and
// return color.Gray pixels; it is copied into Rows. Colour images fail with
// ErrUnsupportedInputType rather than being reduced to a single channel, and
// a gray-model image yielding a non color.Gray pixel fails with
// ErrInvalidPixelFormat.
func FromImage(img image.Image) (Grid, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrUnsupportedInputType)
	}

	if gray, ok := img.(*image.Gray); ok {
		return grayImage{img: gray}, nil
	}

	if img.ColorModel() != color.GrayModel {
		return nil, fmt.Errorf("%w: %T is not single-channel 8-bit grayscale",
			ErrUnsupportedInputType, img)
	}

	b := img.Bounds()
	rows := make(Rows, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		rows[y] = make([]uint8, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			px := img.At(b.Min.X+x, b.Min.Y+y)
			g, ok := px.(color.Gray)
			if !ok {
				return nil, fmt.Errorf("%w: pixel (%d, %d) is %T, expected an intensity",
					ErrInvalidPixelFormat, x, y, px)
			}
			rows[y][x] = g.Y
		}
	}
	return rows, nil
}
