// Package report renders threshold searches, mistake counts and confusion
// matrices for the terminal.
package report

import (
	"io"

	"github.com/Hanaasagi/beetag/internal/search"
	"github.com/rs/zerolog"
)

// MistakeLogger writes one diagnostic line per misclassified image. It is
// meant for stderr; summaries go to stdout.
type MistakeLogger struct {
	logger zerolog.Logger
}

// NewMistakeLogger logs to w, pretty-printed when pretty is set and as JSON
// lines otherwise.
func NewMistakeLogger(w io.Writer, pretty bool) *MistakeLogger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return &MistakeLogger{logger: zerolog.New(w)}
}

// ForSplit returns a logger tagging every line with a dataset split name.
func (l *MistakeLogger) ForSplit(split string) *MistakeLogger {
	return &MistakeLogger{logger: l.logger.With().Str("split", split).Logger()}
}

func (l *MistakeLogger) ReportMistake(m search.Mistake) {
	l.logger.Warn().
		Str("kind", m.Kind.String()).
		Int("threshold", int(m.Threshold)).
		Str("path", m.Path).
		Msg("misclassified")
}
