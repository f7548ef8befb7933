// Package samplestore persists sample tables: CSV files with a header row,
// one row per bee crop, holding the image path, ground-truth labels and
// predicted labels in columns referenced by name.
//
// Save writes "\n" line endings and quotes only the fields encoding/csv
// requires, so loading and saving a file Save wrote leaves it byte for byte
// unchanged. Files from other tools are normalized to that form on their
// first save; values are preserved.
package samplestore

// DefaultPathColumn holds the image path of a sample.
const DefaultPathColumn = "sample_path"

// Sample is one table row. Columns keep the order they were first set in.
type Sample struct {
	keys   []string
	values map[string]string
}

// NewSample returns an empty sample.
func NewSample() *Sample {
	return &Sample{values: make(map[string]string)}
}

// Get returns the value of column and whether the sample has it.
func (s *Sample) Get(column string) (string, bool) {
	v, ok := s.values[column]
	return v, ok
}

// Set stores a value, appending column to the sample's keys when new.
func (s *Sample) Set(column, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[column]; !ok {
		s.keys = append(s.keys, column)
	}
	s.values[column] = value
}

// Keys returns the sample's columns in insertion order.
func (s *Sample) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Table is an ordered set of samples plus the header they were loaded with.
type Table struct {
	Header  []string
	Samples []*Sample
}

// Columns returns the union of all columns: the header first, then columns
// introduced by later samples in the order they are first seen.
func (t *Table) Columns() []string {
	seen := make(map[string]bool, len(t.Header))
	cols := make([]string, 0, len(t.Header))
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}

	for _, c := range t.Header {
		add(c)
	}
	for _, s := range t.Samples {
		for _, c := range s.keys {
			add(c)
		}
	}
	return cols
}

// row renders s in the given column order. Absent columns become empty cells.
func (s *Sample) row(columns []string) []string {
	record := make([]string, len(columns))
	for i, c := range columns {
		record[i] = s.values[c]
	}
	return record
}
