package search

import (
	"github.com/Hanaasagi/beetag/pkg/pixelscan"
	"gonum.org/v1/gonum/floats"
)

// Tally holds the mistake count of every threshold in a sweep.
type Tally [int(pixelscan.MaxThreshold) + 1]int

// Best returns the threshold with the fewest mistakes. Ties go to the lowest
// threshold since floats.MinIdx returns the first minimal index.
func (t *Tally) Best() (pixelscan.Threshold, int) {
	counts := make([]float64, len(t))
	for i, c := range t {
		counts[i] = float64(c)
	}
	idx := floats.MinIdx(counts)
	return pixelscan.Threshold(idx), t[idx]
}

// ZeroMistakeRange returns the first run of thresholds with no mistakes.
// ok is false when every threshold makes at least one mistake.
func (t *Tally) ZeroMistakeRange() (lo, hi pixelscan.Threshold, ok bool) {
	start := -1
	for i, c := range t {
		switch {
		case c == 0 && start < 0:
			start = i
		case c != 0 && start >= 0:
			return pixelscan.Threshold(start), pixelscan.Threshold(i - 1), true
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	return pixelscan.Threshold(start), pixelscan.MaxThreshold, true
}
