package classifier

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Hanaasagi/beetag/pkg/pixelscan"
	"gonum.org/v1/gonum/mat"
)

func TestClassify(t *testing.T) {
	img := pixelscan.Rows{{10, 10}, {10, 10}}

	tests := []struct {
		threshold pixelscan.Threshold
		want      TagStatus
	}{
		{5, Tagged},
		{9, Tagged},
		{10, Untagged},
		{255, Untagged},
	}

	for _, tt := range tests {
		c := &Classifier{Threshold: tt.threshold}
		if got := c.Classify(img); got != tt.want {
			t.Errorf("Classify at %d = %v, want %v", tt.threshold, got, tt.want)
		}
	}
}

func TestClassifyAtMaxThresholdIsAlwaysUntagged(t *testing.T) {
	c := &Classifier{Threshold: pixelscan.MaxThreshold}
	for v := 0; v <= 255; v++ {
		img := pixelscan.Rows{{uint8(v), 0}, {0, uint8(v)}}
		if got := c.Classify(img); got != Untagged {
			t.Fatalf("pixel %d classified %v at threshold 255", v, got)
		}
	}
}

func TestNewValidatesThreshold(t *testing.T) {
	if _, err := New(256); err == nil {
		t.Error("expected error for threshold 256")
	}
	c, err := New(DefaultThreshold)
	if err != nil {
		t.Fatalf("New(DefaultThreshold): %v", err)
	}
	if c.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %d, want %d", c.Threshold, DefaultThreshold)
	}
}

func TestClassifyImage(t *testing.T) {
	c := &Classifier{Threshold: 100}

	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	if got, err := c.ClassifyImage(gray); err != nil || got != Untagged {
		t.Errorf("dark image = %v, %v; want untagged", got, err)
	}

	gray.SetGray(1, 3, color.Gray{Y: 101})
	if got, err := c.ClassifyImage(gray); err != nil || got != Tagged {
		t.Errorf("bright image = %v, %v; want tagged", got, err)
	}

	_, err := c.ClassifyImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, pixelscan.ErrUnsupportedInputType) {
		t.Errorf("colour image error = %v, want ErrUnsupportedInputType", err)
	}
}

func TestClassifyMatrix(t *testing.T) {
	c := &Classifier{Threshold: 100}
	got, err := c.ClassifyMatrix(mat.NewDense(1, 2, []float64{0, 200}))
	if err != nil || got != Tagged {
		t.Errorf("ClassifyMatrix = %v, %v; want tagged", got, err)
	}

	_, err = c.ClassifyMatrix(mat.NewDense(1, 1, []float64{12.5}))
	if !errors.Is(err, pixelscan.ErrInvalidPixelFormat) {
		t.Errorf("fractional intensity error = %v, want ErrInvalidPixelFormat", err)
	}
}

func TestTagStatusRoundTrip(t *testing.T) {
	for _, s := range Statuses() {
		got, err := ParseTagStatus(s.String())
		if err != nil || got != s {
			t.Errorf("ParseTagStatus(%q) = %v, %v", s.String(), got, err)
		}
	}

	for _, bad := range []string{"", "Tagged", "unknown"} {
		if _, err := ParseTagStatus(bad); !errors.Is(err, ErrInvalidLabel) {
			t.Errorf("ParseTagStatus(%q) error = %v, want ErrInvalidLabel", bad, err)
		}
	}
}

func TestLabelColumn(t *testing.T) {
	if got := LabelColumn(47); got != "pixel_threshold_label_at_47" {
		t.Errorf("LabelColumn(47) = %q", got)
	}
}
