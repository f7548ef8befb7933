package search

import (
	"github.com/Hanaasagi/beetag/pkg/classifier"
	"github.com/Hanaasagi/beetag/pkg/pixelscan"
)

// MistakeKind tells a false positive from a false negative.
type MistakeKind int

const (
	// FalsePositive is an untagged bee classified as tagged.
	FalsePositive MistakeKind = iota
	// FalseNegative is a tagged bee classified as untagged.
	FalseNegative
)

func (k MistakeKind) String() string {
	if k == FalsePositive {
		return "FALSE POSITIVE"
	}
	return "FALSE NEGATIVE"
}

// Mistake is one misclassified corpus image.
type Mistake struct {
	Path      string
	Kind      MistakeKind
	Threshold pixelscan.Threshold
}

// Reporter receives every mistake found while counting. Reports are
// diagnostics only; counts are always taken from return values.
type Reporter interface {
	ReportMistake(m Mistake)
}

type nopReporter struct{}

func (nopReporter) ReportMistake(Mistake) {}

// judge compares a prediction against the subset an image came from.
func judge(predicted, truth classifier.TagStatus) (MistakeKind, bool) {
	switch {
	case predicted == truth:
		return 0, false
	case predicted == classifier.Tagged:
		return FalsePositive, true
	default:
		return FalseNegative, true
	}
}
