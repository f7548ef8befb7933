package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Hanaasagi/beetag/internal/search"
	"github.com/Hanaasagi/beetag/pkg/evaluate"
	"github.com/Hanaasagi/beetag/pkg/pixelscan"
	"github.com/mattn/go-runewidth"
)

// Printer writes human readable summaries.
type Printer struct {
	w       io.Writer
	palette *Palette
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer, palette *Palette) *Printer {
	return &Printer{w: w, palette: palette}
}

// Search prints the selected threshold and its mistake count.
func (p *Printer) Search(name string, res *search.Result) {
	p.palette.Title.Fprintf(p.w, "%s: ", name)
	fmt.Fprintf(p.w, "best threshold %d with ", int(res.Threshold))
	p.mistakes(res.Mistakes)
	fmt.Fprintf(p.w, " over %d images", res.Images)
	if lo, hi, ok := res.Tally.ZeroMistakeRange(); ok {
		fmt.Fprintf(p.w, " (error free on %d..%d)", int(lo), int(hi))
	}
	fmt.Fprintln(p.w)
}

// Mistakes prints the mistake count of a fixed threshold on a corpus.
func (p *Printer) Mistakes(name string, threshold pixelscan.Threshold, mistakes, images int) {
	p.palette.Title.Fprintf(p.w, "%s: ", name)
	fmt.Fprintf(p.w, "threshold %d, ", int(threshold))
	p.mistakes(mistakes)
	fmt.Fprintf(p.w, " over %d images\n", images)
}

func (p *Printer) mistakes(n int) {
	text := fmt.Sprintf("%d mistakes", n)
	if n == 0 {
		p.palette.Clean.Fprint(p.w, text)
		return
	}
	p.palette.Mistake.Fprint(p.w, text)
}

// Tally prints the sweep as runs of consecutive thresholds sharing the same
// mistake count.
func (p *Printer) Tally(tally *search.Tally) {
	type run struct {
		lo, hi, count int
	}
	var runs []run
	for th, c := range tally {
		if n := len(runs); n > 0 && runs[n-1].count == c {
			runs[n-1].hi = th
			continue
		}
		runs = append(runs, run{lo: th, hi: th, count: c})
	}

	rows := [][]string{{"thresholds", "mistakes"}}
	for _, r := range runs {
		span := strconv.Itoa(r.lo)
		if r.hi != r.lo {
			span = fmt.Sprintf("%d-%d", r.lo, r.hi)
		}
		rows = append(rows, []string{span, strconv.Itoa(r.count)})
	}
	p.table(rows)
}

// Confusion prints one confusion matrix per ground-truth column.
func (p *Printer) Confusion(predictedColumn string, results []evaluate.ColumnMatrix) {
	for _, r := range results {
		p.palette.Title.Fprintf(p.w, "%s vs %s\n", predictedColumn, r.GroundTruth)

		cm := r.Matrix
		p.table([][]string{
			{"", "truth tagged", "truth untagged"},
			{"predicted tagged", strconv.Itoa(cm.TruePositive), strconv.Itoa(cm.FalsePositive)},
			{"predicted untagged", strconv.Itoa(cm.FalseNegative), strconv.Itoa(cm.TrueNegative)},
		})
		fmt.Fprintf(p.w, "accuracy %.3f  precision %.3f  recall %.3f  f1 %.3f  (n=%d)\n\n",
			cm.Accuracy(), cm.Precision(), cm.Recall(), cm.F1(), cm.Total())
	}
}

// Label prints the label assigned to one image.
func (p *Printer) Label(path, label string) {
	c := p.palette.Untagged
	if label == "tagged" {
		c = p.palette.Tagged
	}
	c.Fprint(p.w, runewidth.FillRight(label, len("untagged")))
	fmt.Fprintf(p.w, "  %s\n", path)
}

// table prints rows with columns padded to their display width.
func (p *Printer) table(rows [][]string) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(p.w, "  ")
			}
			if i == len(row)-1 {
				fmt.Fprint(p.w, cell)
				continue
			}
			fmt.Fprint(p.w, runewidth.FillRight(cell, widths[i]))
		}
		fmt.Fprintln(p.w)
	}
}
