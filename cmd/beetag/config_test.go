package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(config, NewDefaultConfig()) {
		t.Errorf("got %+v, want defaults", config)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
[core]
threshold = 60
workers = 4
extensions = [".png", ".tif"]

[dataset]
root = "/data/bees"
test = "holdout"

[samples]
path = "/data/samples.csv"
ground_truth_columns = ["manual_evaluation_based_on_video"]

[colors]
tagged = "#00ff00"
`)

	config, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := NewDefaultConfig()
	want.Core.Threshold = 60
	want.Core.Workers = 4
	want.Core.Extensions = []string{".png", ".tif"}
	want.Dataset.Root = "/data/bees"
	want.Dataset.Test = "holdout"
	want.Samples.Path = "/data/samples.csv"
	want.Samples.GroundTruthColumns = []string{"manual_evaluation_based_on_video"}
	want.Colors.Tagged = "#00ff00"

	if !reflect.DeepEqual(config, want) {
		t.Errorf("got %+v\nwant %+v", config, want)
	}
	if got := config.SplitRoot(config.Dataset.Test); got != filepath.Join("/data/bees", "holdout") {
		t.Errorf("SplitRoot = %q", got)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[core\nthreshold = 1", "decode"},
		{"unknown key", "[core]\nthreshhold = 10", "unknown config keys"},
		{"threshold range", "[core]\nthreshold = 256", "core.threshold"},
		{"negative threshold", "[core]\nthreshold = -1", "core.threshold"},
		{"workers", "[core]\nworkers = 0", "core.workers"},
		{"extensions", "[core]\nextensions = []", "core.extensions"},
		{"path column", "[samples]\npath_column = \"\"", "samples.path_column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}
