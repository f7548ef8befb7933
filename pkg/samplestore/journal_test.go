package samplestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadTable(t *testing.T, content string) *Table {
	t.Helper()
	table, err := Read(strings.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestJournalAppendIsImmediatelyVisible(t *testing.T) {
	table := loadTable(t, "sample_path,truth\na.png,tagged\nb.png,untagged\n")
	path := JournalPath(filepath.Join(t.TempDir(), "samples.csv"))

	columns := append(table.Columns(), "label")
	j, err := CreateJournal(path, columns)
	if err != nil {
		t.Fatalf("CreateJournal: %v", err)
	}
	defer j.Close() // nolint: errcheck

	table.Samples[0].Set("label", "tagged")
	if err := j.Append(table.Samples[0]); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Read while the journal is still open: the row must already be on disk.
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "sample_path,truth,label\na.png,tagged,tagged\n"; string(got) != want {
		t.Errorf("journal = %q, want %q", got, want)
	}
	if j.Rows() != 1 {
		t.Errorf("Rows = %d, want 1", j.Rows())
	}

	table.Samples[1].Set("surprise", "x")
	if err := j.Append(table.Samples[1]); err == nil {
		t.Error("expected error for column outside the journal header")
	}
}

func TestRecover(t *testing.T) {
	dir := t.TempDir()
	path := JournalPath(filepath.Join(dir, "samples.csv"))
	journal := "sample_path,truth,label\na.png,tagged,tagged\nb.png,untagged,untagged\n"
	if err := os.WriteFile(path, []byte(journal), 0o644); err != nil {
		t.Fatal(err)
	}

	table := loadTable(t, "sample_path,truth\na.png,tagged\nb.png,untagged\nc.png,tagged\n")
	n, err := Recover(table, path, DefaultPathColumn)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if n != 2 {
		t.Errorf("recovered %d rows, want 2", n)
	}
	if v, _ := table.Samples[0].Get("label"); v != "tagged" {
		t.Errorf("sample 0 label = %q", v)
	}
	if _, ok := table.Samples[2].Get("label"); ok {
		t.Error("sample 2 should not have been touched")
	}
}

func TestRecoverStopsAtShortRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.csv")
	if err := os.WriteFile(path, []byte("sample_path,label\na.png,tagged\nb.p"), 0o644); err != nil {
		t.Fatal(err)
	}

	table := loadTable(t, "sample_path\na.png\nb.png\n")
	n, err := Recover(table, path, DefaultPathColumn)
	if err != nil || n != 1 {
		t.Errorf("Recover = %d, %v; want 1, nil", n, err)
	}
}

func TestRecoverDropsUnterminatedRow(t *testing.T) {
	tests := []struct {
		name    string
		journal string
		want    int
	}{
		{"cut inside last field", "sample_path,label\na.png,tagged\nb.png,untag", 1},
		{"cut inside quoted field", "sample_path,label\na.png,tagged\n\"b.png\",\"untag", 1},
		{"cut inside header", "sample_path,lab", 0},
		{"complete", "sample_path,label\na.png,tagged\nb.png,untagged\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "j.csv")
			if err := os.WriteFile(path, []byte(tt.journal), 0o644); err != nil {
				t.Fatal(err)
			}

			table := loadTable(t, "sample_path\na.png\nb.png\n")
			n, err := Recover(table, path, DefaultPathColumn)
			if err != nil || n != tt.want {
				t.Fatalf("Recover = %d, %v; want %d, nil", n, err, tt.want)
			}
			if _, ok := table.Samples[1].Get("label"); ok != (tt.want == 2) {
				t.Errorf("sample 1 has label = %v", ok)
			}
		})
	}
}

func TestRecoverRejectsForeignJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.csv")
	if err := os.WriteFile(path, []byte("sample_path,label\nother.png,tagged\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	table := loadTable(t, "sample_path\na.png\n")
	if _, err := Recover(table, path, DefaultPathColumn); err == nil {
		t.Error("expected key mismatch error")
	}
}

func TestRecoverWithoutJournal(t *testing.T) {
	table := loadTable(t, "sample_path\na.png\n")
	n, err := Recover(table, filepath.Join(t.TempDir(), "missing"), DefaultPathColumn)
	if err != nil || n != 0 {
		t.Errorf("Recover = %d, %v; want 0, nil", n, err)
	}
}
