package samplestore

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `sample_path,manual_evaluation_based_on_first_frame,manual_evaluation_based_on_video
/data/a.png,tagged,tagged
/data/b.png,untagged,tagged
"/data/c,d.png",untagged,untagged
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	table, err := Load(writeFile(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantHeader := []string{DefaultPathColumn, "manual_evaluation_based_on_first_frame", "manual_evaluation_based_on_video"}
	if !reflect.DeepEqual(table.Header, wantHeader) {
		t.Errorf("Header = %v, want %v", table.Header, wantHeader)
	}
	if len(table.Samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(table.Samples))
	}

	var paths []string
	for _, s := range table.Samples {
		p, _ := s.Get(DefaultPathColumn)
		paths = append(paths, p)
	}
	if want := []string{"/data/a.png", "/data/b.png", "/data/c,d.png"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("row order = %v, want %v", paths, want)
	}
	if !reflect.DeepEqual(table.Samples[1].Keys(), wantHeader) {
		t.Errorf("sample keys = %v", table.Samples[1].Keys())
	}
}

func TestSaveLoadRoundTripIsByteStable(t *testing.T) {
	path := writeFile(t, sampleCSV)

	table, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(table, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != sampleCSV {
		t.Errorf("round trip changed file:\n%s\nwant:\n%s", got, sampleCSV)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestSaveNormalizesForeignFormatting(t *testing.T) {
	// Written by another tool: CRLF endings, redundant quotes and a field
	// with a leading space.
	foreign := "sample_path,note\r\n\"a.png\", leading space\r\n"
	want := "sample_path,note\na.png,\" leading space\"\n"

	path := writeFile(t, foreign)
	for i := 0; i < 2; i++ {
		table, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := table.Samples[0].Get("note"); v != " leading space" {
			t.Errorf("note = %q", v)
		}
		if err := Save(table, path); err != nil {
			t.Fatal(err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Errorf("pass %d: got %q, want %q", i, got, want)
		}
	}
}

func TestSaveWritesColumnUnion(t *testing.T) {
	table, err := Read(strings.NewReader("sample_path,truth\na.png,tagged\nb.png,untagged\n"))
	if err != nil {
		t.Fatal(err)
	}
	// Only the second sample gains a new column.
	table.Samples[1].Set("pixel_threshold_label_at_47", "tagged")

	var buf bytes.Buffer
	if err := Write(&buf, table); err != nil {
		t.Fatal(err)
	}

	want := "sample_path,truth,pixel_threshold_label_at_47\na.png,tagged,\nb.png,untagged,tagged\n"
	if buf.String() != want {
		t.Errorf("Write =\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"duplicate header", "a,a\n1,2\n"},
		{"ragged row", "a,b\n1,2\n3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadHeaderOnly(t *testing.T) {
	table, err := Read(strings.NewReader("sample_path\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Samples) != 0 || !reflect.DeepEqual(table.Columns(), []string{"sample_path"}) {
		t.Errorf("unexpected table %+v", table)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSampleSetKeepsOrder(t *testing.T) {
	s := NewSample()
	s.Set("b", "1")
	s.Set("a", "2")
	s.Set("b", "3")

	if !reflect.DeepEqual(s.Keys(), []string{"b", "a"}) {
		t.Errorf("Keys = %v", s.Keys())
	}
	if v, ok := s.Get("b"); !ok || v != "3" {
		t.Errorf("Get(b) = %q, %v", v, ok)
	}
	if _, ok := s.Get("c"); ok {
		t.Error("Get(c) should be absent")
	}

	var zero Sample
	zero.Set("x", "y")
	if v, _ := zero.Get("x"); v != "y" {
		t.Error("zero Sample should be usable")
	}
}
