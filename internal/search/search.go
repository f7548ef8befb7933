// Package search finds the threshold that best separates tagged from
// untagged bees on a labeled corpus, and counts mistakes of a fixed threshold
// on held-out corpora.
package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Hanaasagi/beetag/pkg/classifier"
	"github.com/Hanaasagi/beetag/pkg/corpus"
	"github.com/Hanaasagi/beetag/pkg/imagedecode"
	"github.com/Hanaasagi/beetag/pkg/pixelscan"
)

// LabeledGrid is a decoded corpus image with its ground truth.
type LabeledGrid struct {
	Path  string
	Label classifier.TagStatus
	Grid  pixelscan.Grid
}

// Result is the outcome of a threshold sweep.
type Result struct {
	Threshold pixelscan.Threshold
	Mistakes  int
	Images    int
	Tally     Tally
	// Misclassified lists the mistakes made at Threshold.
	Misclassified []Mistake
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithReporter sets where per-image mistakes are reported.
func WithReporter(r Reporter) Option {
	return func(s *Searcher) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithWorkers sweeps thresholds on n goroutines. Values below 2 keep the
// sweep sequential.
func WithWorkers(n int) Option {
	return func(s *Searcher) {
		s.workers = n
	}
}

// WithProgress installs a callback invoked after each swept threshold.
// Calls are serialized.
func WithProgress(fn func(done, total int)) Option {
	return func(s *Searcher) {
		s.progress = fn
	}
}

// Searcher runs threshold sweeps and mistake counts over scanned corpora.
type Searcher struct {
	decoder  imagedecode.Decoder
	reporter Reporter
	workers  int
	progress func(done, total int)
}

// New creates a Searcher decoding images with d.
func New(d imagedecode.Decoder, opts ...Option) *Searcher {
	s := &Searcher{
		decoder:  d,
		reporter: nopReporter{},
		workers:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load decodes every image of set once. The first failure aborts loading.
func (s *Searcher) Load(set *corpus.LabeledImageSet) ([]LabeledGrid, error) {
	entries := set.Entries()
	grids := make([]LabeledGrid, 0, len(entries))
	for _, e := range entries {
		g, err := imagedecode.DecodeGrid(s.decoder, e.Path)
		if err != nil {
			return nil, err
		}
		grids = append(grids, LabeledGrid{Path: e.Path, Label: e.Label, Grid: g})
	}
	slog.Debug("Loaded corpus", "root", set.Root, "tagged", len(set.Tagged), "untagged", len(set.Untagged))
	return grids, nil
}

// FindBestThreshold sweeps all 256 thresholds over set and returns the one
// with the fewest mistakes, the lowest on ties. Mistakes at the chosen
// threshold are sent to the reporter.
func (s *Searcher) FindBestThreshold(set *corpus.LabeledImageSet) (*Result, error) {
	grids, err := s.Load(set)
	if err != nil {
		return nil, fmt.Errorf("loading corpus %s: %w", set.Root, err)
	}

	res := s.Sweep(grids)
	for _, m := range res.Misclassified {
		s.reporter.ReportMistake(m)
	}

	slog.Info("Threshold search finished", "root", set.Root, "threshold", int(res.Threshold),
		"mistakes", res.Mistakes, "images", res.Images)
	return res, nil
}

// Sweep classifies every grid at every threshold and picks the best one.
func (s *Searcher) Sweep(grids []LabeledGrid) *Result {
	var tally Tally
	total := len(tally)

	var (
		mu   sync.Mutex
		done int
	)
	tick := func() {
		if s.progress == nil {
			return
		}
		mu.Lock()
		done++
		s.progress(done, total)
		mu.Unlock()
	}

	if s.workers < 2 {
		for th := range tally {
			tally[th] = countAt(grids, pixelscan.Threshold(th))
			tick()
		}
	} else {
		thresholds := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < s.workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for th := range thresholds {
					// Each threshold owns its slot, so no lock is needed here.
					tally[th] = countAt(grids, pixelscan.Threshold(th))
					tick()
				}
			}()
		}
		for th := range tally {
			thresholds <- th
		}
		close(thresholds)
		wg.Wait()
	}

	best, mistakes := tally.Best()
	return &Result{
		Threshold:     best,
		Mistakes:      mistakes,
		Images:        len(grids),
		Tally:         tally,
		Misclassified: mistakesAt(grids, best),
	}
}

// CountMistakes classifies set at a fixed threshold, reports each mistake and
// returns the total along with the individual mistakes.
func (s *Searcher) CountMistakes(set *corpus.LabeledImageSet, threshold pixelscan.Threshold) (int, []Mistake, error) {
	if err := threshold.Validate(); err != nil {
		return 0, nil, err
	}

	grids, err := s.Load(set)
	if err != nil {
		return 0, nil, fmt.Errorf("loading corpus %s: %w", set.Root, err)
	}

	mistakes := mistakesAt(grids, threshold)
	for _, m := range mistakes {
		s.reporter.ReportMistake(m)
	}

	slog.Info("Counted mistakes", "root", set.Root, "threshold", int(threshold), "mistakes", len(mistakes))
	return len(mistakes), mistakes, nil
}

func countAt(grids []LabeledGrid, threshold pixelscan.Threshold) int {
	c := classifier.Classifier{Threshold: threshold}
	n := 0
	for _, g := range grids {
		if _, wrong := judge(c.Classify(g.Grid), g.Label); wrong {
			n++
		}
	}
	return n
}

func mistakesAt(grids []LabeledGrid, threshold pixelscan.Threshold) []Mistake {
	c := classifier.Classifier{Threshold: threshold}
	var mistakes []Mistake
	for _, g := range grids {
		if kind, wrong := judge(c.Classify(g.Grid), g.Label); wrong {
			mistakes = append(mistakes, Mistake{Path: g.Path, Kind: kind, Threshold: threshold})
		}
	}
	return mistakes
}
