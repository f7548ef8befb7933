// Package classifier turns a pixel scan into a tagged/untagged decision.
package classifier

import (
	"fmt"
	"image"

	"github.com/Hanaasagi/beetag/pkg/pixelscan"
	"gonum.org/v1/gonum/mat"
)

// DefaultThreshold is used when neither the config file nor a flag sets one.
const DefaultThreshold pixelscan.Threshold = 47

// Classifier labels an image tagged when any pixel exceeds Threshold.
type Classifier struct {
	Threshold pixelscan.Threshold
}

// New returns a classifier after validating the threshold range.
func New(threshold pixelscan.Threshold) (*Classifier, error) {
	if err := threshold.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{Threshold: threshold}, nil
}

// Classify labels an intensity grid.
func (c *Classifier) Classify(g pixelscan.Grid) TagStatus {
	if pixelscan.ContainsBrightPixel(g, c.Threshold) {
		return Tagged
	}
	return Untagged
}

// ClassifyImage labels a decoded image. Images that are not 8-bit
// single-channel grayscale are rejected, never scanned on one channel.
func (c *Classifier) ClassifyImage(img image.Image) (TagStatus, error) {
	g, err := pixelscan.FromImage(img)
	if err != nil {
		return Untagged, fmt.Errorf("classifying image: %w", err)
	}
	return c.Classify(g), nil
}

// ClassifyMatrix labels a gonum matrix of intensities.
func (c *Classifier) ClassifyMatrix(m mat.Matrix) (TagStatus, error) {
	g, err := pixelscan.FromMatrix(m)
	if err != nil {
		return Untagged, fmt.Errorf("classifying matrix: %w", err)
	}
	return c.Classify(g), nil
}

// LabelColumn names the sample-table column holding labels predicted at
// threshold t.
func LabelColumn(t pixelscan.Threshold) string {
	return fmt.Sprintf("pixel_threshold_label_at_%d", int(t))
}
