package classifier

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLabel is returned when a string is not a TagStatus name.
var ErrInvalidLabel = errors.New("invalid tag status")

// TagStatus is the outcome of classifying a bee crop.
type TagStatus int

const (
	Tagged TagStatus = iota
	Untagged
)

// String returns the name used in directory layouts and sample tables.
func (s TagStatus) String() string {
	switch s {
	case Tagged:
		return "tagged"
	case Untagged:
		return "untagged"
	default:
		return fmt.Sprintf("TagStatus(%d)", int(s))
	}
}

// ParseTagStatus parses "tagged" or "untagged". Surrounding whitespace is
// ignored, case is not.
func ParseTagStatus(s string) (TagStatus, error) {
	switch strings.TrimSpace(s) {
	case "tagged":
		return Tagged, nil
	case "untagged":
		return Untagged, nil
	default:
		return Untagged, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
	}
}

// Statuses lists every TagStatus in declaration order.
func Statuses() []TagStatus {
	return []TagStatus{Tagged, Untagged}
}
