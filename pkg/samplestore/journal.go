package samplestore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// JournalPath returns the journal file kept next to a sample table while it
// is being relabelled.
func JournalPath(tablePath string) string {
	return tablePath + ".journal"
}

// Journal writes sample rows one at a time, flushing and syncing after each
// row so that every appended sample survives an interrupted run.
type Journal struct {
	f       *os.File
	w       *csv.Writer
	columns []string
	known   map[string]bool
	rows    int
}

// CreateJournal truncates path and writes the header row.
func CreateJournal(path string, columns []string) (*Journal, error) {
	if err := checkHeader(columns); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	j := &Journal{
		f:       f,
		w:       csv.NewWriter(f),
		columns: append([]string(nil), columns...),
		known:   make(map[string]bool, len(columns)),
	}
	for _, c := range columns {
		j.known[c] = true
	}

	if err := j.writeRecord(columns); err != nil {
		f.Close() // nolint: errcheck
		return nil, err
	}
	return j, nil
}

// Append writes s and makes it durable before returning. Samples carrying a
// column the journal was not created with are rejected rather than
// truncated.
func (j *Journal) Append(s *Sample) error {
	for _, c := range s.keys {
		if !j.known[c] {
			return fmt.Errorf("journal row %d: column %q not in journal header", j.rows, c)
		}
	}
	if err := j.writeRecord(s.row(j.columns)); err != nil {
		return err
	}
	j.rows++
	return nil
}

func (j *Journal) writeRecord(record []string) error {
	if err := j.w.Write(record); err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return fmt.Errorf("flushing journal: %w", err)
	}
	return j.f.Sync()
}

// Rows returns the number of appended samples.
func (j *Journal) Rows() int { return j.rows }

// Close closes the journal file.
func (j *Journal) Close() error {
	return j.f.Close()
}

// Recover merges a journal left by an interrupted run into t. Journal row i
// updates sample i; keyColumn must agree between both so that a journal is
// never applied to a different table. Every appended row ends with a
// newline, so an unterminated tail is a torn write and is dropped, as is a
// row that fails to parse. It returns the number of recovered rows and 0
// when no journal exists.
func Recover(t *Table, journalPath, keyColumn string) (int, error) {
	data, err := os.ReadFile(journalPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading journal: %w", err)
	}

	if end := bytes.LastIndexByte(data, '\n') + 1; end < len(data) {
		slog.Warn("Ignoring unterminated journal row", "journal", journalPath, "bytes", len(data)-end)
		data = data[:end]
	}

	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading journal header: %w", err)
	}
	cr.FieldsPerRecord = len(header)

	n := 0
	for ; ; n++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Ignoring torn journal row", "journal", journalPath, "row", n, "error", err)
			break
		}
		if n >= len(t.Samples) {
			return n, fmt.Errorf("journal has more rows than the table (%d)", len(t.Samples))
		}

		s := t.Samples[n]
		want, _ := s.Get(keyColumn)
		for i, c := range header {
			if c == keyColumn && record[i] != want {
				return n, fmt.Errorf("journal row %d: %s %q does not match table value %q",
					n, keyColumn, record[i], want)
			}
		}
		for i, c := range header {
			s.Set(c, record[i])
		}
	}
	return n, nil
}
