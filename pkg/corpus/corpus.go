// Package corpus scans a labeled image directory: a root holding one
// "tagged" and one "untagged" subdirectory of images.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hanaasagi/beetag/pkg/classifier"
)

const (
	TaggedDir   = "tagged"
	UntaggedDir = "untagged"
)

// Dataset split directory names used under the dataset root.
const (
	TrainSplit      = "train"
	ValidationSplit = "validation"
	TestSplit       = "test"
)

// DefaultExtensions lists the image extensions picked up by Scan.
var DefaultExtensions = []string{".png"}

// Entry is one image with the label implied by the subset it was found in.
type Entry struct {
	Path  string
	Label classifier.TagStatus
}

// LabeledImageSet partitions a corpus into tagged and untagged image paths.
// Membership is fixed at scan time.
type LabeledImageSet struct {
	Root     string
	Tagged   []string
	Untagged []string
}

// LayoutError reports a corpus root that does not hold the expected
// tagged/untagged subdirectories with images in them.
type LayoutError struct {
	Root   string
	Subset string
	Reason string
	Err    error
}

func (e *LayoutError) Error() string {
	msg := fmt.Sprintf("corpus layout error in %s: %s %s", e.Root, e.Subset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LayoutError) Unwrap() error { return e.Err }

type scanConfig struct {
	extensions []string
}

// Option configures Scan.
type Option func(*scanConfig)

// WithExtensions replaces the accepted file extensions. Matching ignores case.
func WithExtensions(exts ...string) Option {
	return func(c *scanConfig) {
		if len(exts) > 0 {
			c.extensions = exts
		}
	}
}

// Scan lists the images of root/tagged and root/untagged. Subdirectories are
// not descended into and paths are sorted by file name.
func Scan(root string, opts ...Option) (*LabeledImageSet, error) {
	cfg := scanConfig{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(&cfg)
	}

	tagged, err := scanSubset(root, TaggedDir, cfg.extensions)
	if err != nil {
		return nil, err
	}
	untagged, err := scanSubset(root, UntaggedDir, cfg.extensions)
	if err != nil {
		return nil, err
	}

	return &LabeledImageSet{Root: root, Tagged: tagged, Untagged: untagged}, nil
}

func scanSubset(root, subset string, exts []string) ([]string, error) {
	dir := filepath.Join(root, subset)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LayoutError{Root: root, Subset: subset, Reason: "is missing", Err: err}
	}
	if !info.IsDir() {
		return nil, &LayoutError{Root: root, Subset: subset, Reason: "is not a directory"}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LayoutError{Root: root, Subset: subset, Reason: "is unreadable", Err: err}
	}

	// os.ReadDir returns entries sorted by filename.
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !hasExtension(e.Name(), exts) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	if len(paths) == 0 {
		return nil, &LayoutError{
			Root:   root,
			Subset: subset,
			Reason: fmt.Sprintf("holds no images (%s)", strings.Join(exts, ", ")),
		}
	}
	return paths, nil
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Entries returns the tagged images followed by the untagged ones.
func (s *LabeledImageSet) Entries() []Entry {
	entries := make([]Entry, 0, s.Len())
	for _, p := range s.Tagged {
		entries = append(entries, Entry{Path: p, Label: classifier.Tagged})
	}
	for _, p := range s.Untagged {
		entries = append(entries, Entry{Path: p, Label: classifier.Untagged})
	}
	return entries
}

// Len returns the number of images in both subsets.
func (s *LabeledImageSet) Len() int {
	return len(s.Tagged) + len(s.Untagged)
}

// SplitRoot returns the corpus root of a dataset split.
func SplitRoot(datasetRoot, split string) string {
	return filepath.Join(datasetRoot, split)
}

// ScanSplits scans each named split under datasetRoot, keyed by split name.
func ScanSplits(datasetRoot string, splits []string, opts ...Option) (map[string]*LabeledImageSet, error) {
	sets := make(map[string]*LabeledImageSet, len(splits))
	for _, split := range splits {
		set, err := Scan(SplitRoot(datasetRoot, split), opts...)
		if err != nil {
			return nil, fmt.Errorf("scanning %s split: %w", split, err)
		}
		sets[split] = set
	}
	return sets, nil
}
