package pixelscan

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxThreshold is the largest threshold value. Because the comparison is a
// strict "greater than", no 8-bit pixel can ever exceed it, so scanning at
// MaxThreshold always reports no bright pixel.
const MaxThreshold Threshold = 255

// Threshold is an intensity cut-off in [0, 255].
type Threshold int

// Validate reports whether t lies in [0, 255].
func (t Threshold) Validate() error {
	if t < 0 || t > MaxThreshold {
		return fmt.Errorf("threshold %d out of range [0, %d]", int(t), int(MaxThreshold))
	}
	return nil
}

// ParseThreshold parses a decimal threshold and validates its range.
func ParseThreshold(s string) (Threshold, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing threshold %q: %w", s, err)
	}
	t := Threshold(v)
	if err := t.Validate(); err != nil {
		return 0, err
	}
	return t, nil
}

// ContainsBrightPixel scans g row by row and returns true as soon as one
// pixel is strictly greater than threshold. Empty grids yield false.
func ContainsBrightPixel(g Grid, threshold Threshold) bool {
	w, h := g.Width(), g.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if Threshold(g.At(x, y)) > threshold {
				return true
			}
		}
	}
	return false
}

// MaxIntensity returns the brightest pixel of g and false for an empty grid.
func MaxIntensity(g Grid) (uint8, bool) {
	w, h := g.Width(), g.Height()
	if w == 0 || h == 0 {
		return 0, false
	}

	var brightest uint8
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if v := g.At(x, y); v > brightest {
				brightest = v
			}
		}
	}
	return brightest, true
}
