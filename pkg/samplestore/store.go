package samplestore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Read parses a CSV sample table. Every row must have as many fields as the
// header, and header names must be unique.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("sample table is empty: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}
	cr.FieldsPerRecord = len(header)

	t := &Table{Header: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading sample %d: %w", len(t.Samples), err)
		}

		s := NewSample()
		for i, c := range header {
			s.Set(c, record[i])
		}
		t.Samples = append(t.Samples, s)
	}
	return t, nil
}

func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, c := range header {
		if seen[c] {
			return fmt.Errorf("duplicate column %q in header", c)
		}
		seen[c] = true
	}
	return nil
}

// Write renders t as CSV with "\n" line endings.
func Write(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	columns := t.Columns()

	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, s := range t.Samples {
		if err := cw.Write(s.row(columns)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads the sample table at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sample table: %w", err)
	}
	defer f.Close() // nolint: errcheck

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Save replaces the file at path with t. The table is written to a
// temporary file in the same directory, synced and renamed over path, so a
// crash leaves either the old or the new table.
func Save(t *Table, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()        // nolint: errcheck
			os.Remove(tmpName) // nolint: errcheck
		}
	}()

	if err := Write(tmp, t); err != nil {
		return fmt.Errorf("writing sample table: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true

	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close() // nolint: errcheck
	return d.Sync()
}
