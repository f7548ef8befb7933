// Package workflow strings the classifier, sample store and evaluator
// together into the sample-table relabelling run.
package workflow

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/Hanaasagi/beetag/pkg/classifier"
	"github.com/Hanaasagi/beetag/pkg/evaluate"
	"github.com/Hanaasagi/beetag/pkg/imagedecode"
	"github.com/Hanaasagi/beetag/pkg/samplestore"
)

// Labeler classifies the image of every sample in a table and stores the
// label in the classifier's label column.
type Labeler struct {
	Decoder    imagedecode.Decoder
	Classifier *classifier.Classifier
	// PathColumn names the column holding image paths.
	PathColumn string
	// OnLabel, when set, is called after each sample is labelled.
	OnLabel func(path string, status classifier.TagStatus)
}

// Column returns the column the labeler writes.
func (l *Labeler) Column() string {
	return classifier.LabelColumn(l.Classifier.Threshold)
}

// LabelTable labels the table at tablePath in place.
//
// Every labelled row is appended to a journal next to the table and synced
// before the next image is decoded. The table itself is only replaced once
// all samples are done, after which the journal is removed. A journal left
// by an interrupted run is merged first and its rows are not classified
// again.
func (l *Labeler) LabelTable(tablePath string) (*samplestore.Table, error) {
	table, recovered, err := l.LoadTable(tablePath)
	if err != nil {
		return nil, err
	}
	if recovered > 0 {
		slog.Info("Resuming from journal", "table", tablePath, "rows", recovered)
	}

	journalPath := samplestore.JournalPath(tablePath)
	column := l.Column()
	columns := table.Columns()
	if !slices.Contains(columns, column) {
		columns = append(columns, column)
	}

	journal, err := samplestore.CreateJournal(journalPath, columns)
	if err != nil {
		return nil, err
	}
	defer journal.Close() // nolint: errcheck

	for i, s := range table.Samples {
		// The journal was truncated, so recovered rows are appended again.
		// A recovered value that is not a label is classified afresh.
		if i < recovered {
			if v, ok := s.Get(column); ok && validLabel(v) {
				if err := journal.Append(s); err != nil {
					return nil, err
				}
				continue
			}
		}

		status, err := l.labelSample(i, s)
		if err != nil {
			return nil, err
		}
		s.Set(column, status.String())

		if err := journal.Append(s); err != nil {
			return nil, err
		}
	}

	if err := journal.Close(); err != nil {
		return nil, err
	}
	if err := samplestore.Save(table, tablePath); err != nil {
		return nil, fmt.Errorf("saving %s: %w", tablePath, err)
	}
	if err := os.Remove(journalPath); err != nil {
		slog.Warn("Could not remove journal", "journal", journalPath, "error", err)
	}

	slog.Info("Labelled samples", "table", tablePath, "column", column, "samples", len(table.Samples))
	return table, nil
}

// LoadTable reads the table at tablePath with the rows of a journal left by
// an interrupted run merged in. Neither file is modified. recovered is the
// number of journal rows merged.
func (l *Labeler) LoadTable(tablePath string) (table *samplestore.Table, recovered int, err error) {
	table, err = samplestore.Load(tablePath)
	if err != nil {
		return nil, 0, err
	}

	journalPath := samplestore.JournalPath(tablePath)
	recovered, err = samplestore.Recover(table, journalPath, l.PathColumn)
	if err != nil {
		return nil, 0, fmt.Errorf("recovering %s: %w", journalPath, err)
	}
	return table, recovered, nil
}

func validLabel(v string) bool {
	_, err := classifier.ParseTagStatus(v)
	return err == nil
}

func (l *Labeler) labelSample(row int, s *samplestore.Sample) (classifier.TagStatus, error) {
	path, ok := s.Get(l.PathColumn)
	if !ok {
		return classifier.Untagged, &evaluate.MissingColumnError{Column: l.PathColumn, Row: row}
	}

	g, err := imagedecode.DecodeGrid(l.Decoder, path)
	if err != nil {
		return classifier.Untagged, fmt.Errorf("sample %d: %w", row, err)
	}

	status := l.Classifier.Classify(g)
	slog.Debug("Labelled sample", "row", row, "path", path, "label", status.String())
	if l.OnLabel != nil {
		l.OnLabel(path, status)
	}
	return status, nil
}

// Evaluate scores the labeler's column against each ground-truth column.
func (l *Labeler) Evaluate(table *samplestore.Table, groundTruthColumns []string) ([]evaluate.ColumnMatrix, error) {
	return evaluate.EvaluateAll(table.Samples, l.Column(), groundTruthColumns...)
}
