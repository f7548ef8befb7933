// Package imagedecode loads image files for the classifier. Decoding
// failures are always returned to the caller; a file that cannot be read is
// never treated as an untagged image.
package imagedecode

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"

	"github.com/Hanaasagi/beetag/pkg/pixelscan"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultBackend decodes with the standard image package and x/image.
const DefaultBackend = "go"

// Decoder turns an image file into a decoded image.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// DecodeError wraps any failure to read or decode an image file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Option configures a decoder backend.
type Option func(*options)

type options struct {
	toGray bool
}

// WithGrayConversion converts colour images to 8-bit gray after decoding,
// the same reduction a grayscale imread performs. Without it colour images
// are handed on unchanged and rejected by the classifier.
func WithGrayConversion(enabled bool) Option {
	return func(o *options) {
		o.toGray = enabled
	}
}

var backends = map[string]func(options) Decoder{
	DefaultBackend: func(o options) Decoder { return &FileDecoder{toGray: o.toGray} },
}

// New returns the decoder backend registered under name.
func New(name string, opts ...Option) (Decoder, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown decoder backend %q (available: %v)", name, Backends())
	}
	return factory(o), nil
}

// Backends lists the registered backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP files.
type FileDecoder struct {
	toGray bool
}

// NewFileDecoder returns the default decoder.
func NewFileDecoder(opts ...Option) *FileDecoder {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &FileDecoder{toGray: o.toGray}
}

func (d *FileDecoder) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close() // nolint: errcheck

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	if d.toGray {
		return toGray(img), nil
	}
	return img, nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			gray.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return gray
}

// DecodeGrid decodes path and adapts the result to a pixel grid.
func DecodeGrid(d Decoder, path string) (pixelscan.Grid, error) {
	img, err := d.Decode(path)
	if err != nil {
		return nil, err
	}

	g, err := pixelscan.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
