package evaluate

import (
	"fmt"

	"github.com/Hanaasagi/beetag/pkg/classifier"
)

// ConfusionMatrix counts predictions against ground truth, with tagged as
// the positive class.
type ConfusionMatrix struct {
	TruePositive  int `json:"true_positive"`
	FalseNegative int `json:"false_negative"`
	FalsePositive int `json:"false_positive"`
	TrueNegative  int `json:"true_negative"`
}

// Add counts one prediction.
func (m *ConfusionMatrix) Add(predicted, truth classifier.TagStatus) {
	switch {
	case predicted == classifier.Tagged && truth == classifier.Tagged:
		m.TruePositive++
	case predicted == classifier.Untagged && truth == classifier.Tagged:
		m.FalseNegative++
	case predicted == classifier.Tagged && truth == classifier.Untagged:
		m.FalsePositive++
	default:
		m.TrueNegative++
	}
}

// Total is the number of counted samples.
func (m ConfusionMatrix) Total() int {
	return m.TruePositive + m.FalseNegative + m.FalsePositive + m.TrueNegative
}

// Mistakes is the number of wrong predictions.
func (m ConfusionMatrix) Mistakes() int {
	return m.FalseNegative + m.FalsePositive
}

// Accuracy returns the share of correct predictions, 0 for an empty matrix.
func (m ConfusionMatrix) Accuracy() float64 {
	return ratio(m.TruePositive+m.TrueNegative, m.Total())
}

func (m ConfusionMatrix) Precision() float64 {
	return ratio(m.TruePositive, m.TruePositive+m.FalsePositive)
}

func (m ConfusionMatrix) Recall() float64 {
	return ratio(m.TruePositive, m.TruePositive+m.FalseNegative)
}

// F1 is the harmonic mean of precision and recall.
func (m ConfusionMatrix) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func (m ConfusionMatrix) String() string {
	return fmt.Sprintf("{true_positive: %d, false_negative: %d, false_positive: %d, true_negative: %d}",
		m.TruePositive, m.FalseNegative, m.FalsePositive, m.TrueNegative)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
