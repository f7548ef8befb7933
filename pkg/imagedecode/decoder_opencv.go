//go:build gocv

package imagedecode

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// OpenCVBackend reads files with OpenCV in grayscale mode. It is only built
// with the gocv tag since it needs the OpenCV shared libraries.
const OpenCVBackend = "opencv"

func init() {
	backends[OpenCVBackend] = func(options) Decoder { return OpenCVDecoder{} }
}

// OpenCVDecoder decodes any format OpenCV understands straight to 8-bit gray.
type OpenCVDecoder struct{}

func (OpenCVDecoder) Decode(path string) (image.Image, error) {
	m := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer m.Close() // nolint: errcheck

	if m.Empty() {
		return nil, &DecodeError{Path: path, Err: errors.New("opencv could not read the file")}
	}

	img, err := m.ToImage()
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}
