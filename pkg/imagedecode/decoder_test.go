package imagedecode

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Hanaasagi/beetag/pkg/pixelscan"
	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close() // nolint: errcheck
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeGrayPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bee.png")
	img := image.NewGray(image.Rect(0, 0, 3, 3))
	img.SetGray(1, 1, color.Gray{Y: 230})
	writePNG(t, path, img)

	g, err := DecodeGrid(NewFileDecoder(), path)
	if err != nil {
		t.Fatalf("DecodeGrid: %v", err)
	}
	if brightest, _ := pixelscan.MaxIntensity(g); brightest != 230 {
		t.Errorf("max intensity = %d, want 230", brightest)
	}
}

func TestDecodeColourPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colour.png")
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	writePNG(t, path, img)

	_, err := DecodeGrid(NewFileDecoder(), path)
	if !errors.Is(err, pixelscan.ErrUnsupportedInputType) {
		t.Fatalf("expected ErrUnsupportedInputType, got %v", err)
	}

	g, err := DecodeGrid(NewFileDecoder(WithGrayConversion(true)), path)
	if err != nil {
		t.Fatalf("DecodeGrid with conversion: %v", err)
	}
	if g.At(0, 0) != 255 || g.At(1, 1) != 0 {
		t.Errorf("converted pixels = %d, %d", g.At(0, 0), g.At(1, 1))
	}
}

func TestDecodeBMPWithConversion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bee.bmp")
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 0, color.Gray{Y: 99})

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close() // nolint: errcheck

	g, err := DecodeGrid(NewFileDecoder(WithGrayConversion(true)), path)
	if err != nil {
		t.Fatalf("DecodeGrid: %v", err)
	}
	if g.At(1, 0) != 99 {
		t.Errorf("At(1, 0) = %d, want 99", g.At(1, 0))
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.png"), garbage} {
		_, err := NewFileDecoder().Decode(path)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Errorf("Decode(%s) error = %v, want *DecodeError", path, err)
			continue
		}
		if decodeErr.Path != path {
			t.Errorf("DecodeError.Path = %q, want %q", decodeErr.Path, path)
		}
	}
}

func TestNewBackend(t *testing.T) {
	d, err := New(DefaultBackend, WithGrayConversion(true))
	if err != nil {
		t.Fatalf("New(%q): %v", DefaultBackend, err)
	}
	if fd, ok := d.(*FileDecoder); !ok || !fd.toGray {
		t.Errorf("unexpected decoder %#v", d)
	}

	if _, err := New("imagemagick"); err == nil {
		t.Error("expected error for unknown backend")
	}
}
