package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExtraction    = errors.New("extraction failed")
	ErrProcessing    = errors.New("summary processing failed")
	ErrEmptySummary  = errors.New("summary has no points")
	ErrTransport     = errors.New("provider unreachable")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// FailureKind enumerates the terminal failure states of one page load.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureExtraction FailureKind = "extraction"
	FailureSummary    FailureKind = "summary"
	FailureEmpty      FailureKind = "empty"
	FailureTransport  FailureKind = "transport"
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrProcessing
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error onto the failure kind the overlay should display.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrExtraction):
		return FailureExtraction
	case errors.Is(err, ErrEmptySummary):
		return FailureEmpty
	case errors.Is(err, ErrTransport):
		return FailureTransport
	default:
		return FailureSummary
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{component, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
