package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/Hanaasagi/beetag/pkg/classifier"
	"github.com/Hanaasagi/beetag/pkg/corpus"
	"github.com/Hanaasagi/beetag/pkg/evaluate"
	"github.com/Hanaasagi/beetag/pkg/imagedecode"
	"github.com/Hanaasagi/beetag/pkg/pixelscan"
	"github.com/Hanaasagi/beetag/pkg/samplestore"
)

type Config struct {
	Core    CoreConfig    `toml:"core"`
	Dataset DatasetConfig `toml:"dataset"`
	Samples SamplesConfig `toml:"samples"`
	Colors  ColorConfig   `toml:"colors"`
}

type CoreConfig struct {
	Threshold      int      `toml:"threshold"`
	LogLevel       string   `toml:"log_level"`
	Workers        int      `toml:"workers"`
	Decoder        string   `toml:"decoder"`
	GrayConversion bool     `toml:"gray_conversion"`
	Extensions     []string `toml:"extensions"`
}

// DatasetConfig locates the train/validation/test splits, each a corpus
// root with tagged and untagged subdirectories.
type DatasetConfig struct {
	Root       string `toml:"root"`
	Train      string `toml:"train"`
	Validation string `toml:"validation"`
	Test       string `toml:"test"`
}

type SamplesConfig struct {
	Path               string   `toml:"path"`
	PathColumn         string   `toml:"path_column"`
	GroundTruthColumns []string `toml:"ground_truth_columns"`
}

type ColorConfig struct {
	Tagged   string `toml:"tagged"`
	Untagged string `toml:"untagged"`
	Mistake  string `toml:"mistake"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			Threshold:  int(classifier.DefaultThreshold),
			LogLevel:   "info",
			Workers:    1,
			Decoder:    imagedecode.DefaultBackend,
			Extensions: append([]string(nil), corpus.DefaultExtensions...),
		},
		Dataset: DatasetConfig{
			Root:       filepath.Join("data", "cropped", "50x50"),
			Train:      corpus.TrainSplit,
			Validation: corpus.ValidationSplit,
			Test:       corpus.TestSplit,
		},
		Samples: SamplesConfig{
			Path:               filepath.Join("output", "samples.csv"),
			PathColumn:         samplestore.DefaultPathColumn,
			GroundTruthColumns: append([]string(nil), evaluate.DefaultGroundTruthColumns...),
		},
		Colors: ColorConfig{
			Tagged:   "green",
			Untagged: "blue",
			Mistake:  "red",
		},
	}
}

func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config, nil // no config file, return defaults
	}

	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if err := pixelscan.Threshold(c.Core.Threshold).Validate(); err != nil {
		return fmt.Errorf("core.threshold: %w", err)
	}
	if c.Core.Workers < 1 {
		return fmt.Errorf("core.workers must be at least 1, got %d", c.Core.Workers)
	}
	if len(c.Core.Extensions) == 0 {
		return errors.New("core.extensions must not be empty")
	}
	if c.Samples.PathColumn == "" {
		return errors.New("samples.path_column must not be empty")
	}
	return nil
}

// SplitRoot returns the corpus root of a named split.
func (c *Config) SplitRoot(split string) string {
	return corpus.SplitRoot(c.Dataset.Root, split)
}
