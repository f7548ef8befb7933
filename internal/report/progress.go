package report

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Progress draws a single updating status line. It stays silent unless the
// destination is a terminal, so redirected output is not polluted.
type Progress struct {
	w       io.Writer
	label   string
	enabled bool
}

// NewProgress returns a progress line on w, enabled only for terminals.
func NewProgress(w io.Writer, label string) *Progress {
	return &Progress{
		w:       w,
		label:   label,
		enabled: IsTerminal(w),
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Update redraws the line. It matches the search.WithProgress callback.
func (p *Progress) Update(done, total int) {
	if !p.enabled {
		return
	}
	fmt.Fprintf(p.w, "\r%s %d/%d", p.label, done, total)
	if done == total {
		fmt.Fprint(p.w, "\r\033[K")
	}
}
