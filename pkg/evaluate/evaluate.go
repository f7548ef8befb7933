// Package evaluate scores predicted labels in a sample table against one or
// more ground-truth columns.
package evaluate

import (
	"errors"
	"fmt"

	"github.com/Hanaasagi/beetag/pkg/classifier"
)

// Default ground-truth columns of the sample table: a verdict made from the
// first video frame, and one made after watching the whole video.
const (
	FirstFrameColumn = "manual_evaluation_based_on_first_frame"
	VideoColumn      = "manual_evaluation_based_on_video"
)

// DefaultGroundTruthColumns lists the ground-truth columns scored by default.
var DefaultGroundTruthColumns = []string{FirstFrameColumn, VideoColumn}

// ErrMissingColumn is matched by every MissingColumnError.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError reports a sample lacking a requested column.
type MissingColumnError struct {
	Column string
	Row    int
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sample %d has no column %q", e.Row, e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// Record is a single sample row, looked up by column name.
type Record interface {
	Get(column string) (string, bool)
}

// Evaluate builds the confusion matrix of predictedColumn against
// groundTruthColumn. Every record must hold both columns with a valid
// tag status, so the four counters always add up to len(records).
func Evaluate[R Record](records []R, predictedColumn, groundTruthColumn string) (ConfusionMatrix, error) {
	var cm ConfusionMatrix
	for i, r := range records {
		predicted, err := status(r, i, predictedColumn)
		if err != nil {
			return ConfusionMatrix{}, err
		}
		truth, err := status(r, i, groundTruthColumn)
		if err != nil {
			return ConfusionMatrix{}, err
		}
		cm.Add(predicted, truth)
	}
	return cm, nil
}

// ColumnMatrix pairs a ground-truth column with its confusion matrix.
type ColumnMatrix struct {
	GroundTruth string
	Matrix      ConfusionMatrix
}

// EvaluateAll scores predictedColumn against each ground-truth column
// independently, in the order given.
func EvaluateAll[R Record](records []R, predictedColumn string, groundTruthColumns ...string) ([]ColumnMatrix, error) {
	results := make([]ColumnMatrix, 0, len(groundTruthColumns))
	for _, col := range groundTruthColumns {
		cm, err := Evaluate(records, predictedColumn, col)
		if err != nil {
			return nil, fmt.Errorf("evaluating against %s: %w", col, err)
		}
		results = append(results, ColumnMatrix{GroundTruth: col, Matrix: cm})
	}
	return results, nil
}

func status(r Record, row int, column string) (classifier.TagStatus, error) {
	v, ok := r.Get(column)
	if !ok {
		return classifier.Untagged, &MissingColumnError{Column: column, Row: row}
	}
	s, err := classifier.ParseTagStatus(v)
	if err != nil {
		return classifier.Untagged, fmt.Errorf("sample %d column %q: %w", row, column, err)
	}
	return s, nil
}
