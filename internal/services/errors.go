package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks failures of the external cutting tool.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks sessions whose persisted inputs are unusable.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks misconfiguration detected at runtime.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks missing sessions, lessons, or source artifacts.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks failures worth reattempting on a later poll
	// (downloads, uploads, store writes).
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorKind labels a failure for structured logs and session diagnostics.
type ErrorKind string

const (
	KindExternalTool  ErrorKind = "external_tool"
	KindValidation    ErrorKind = "validation"
	KindConfiguration ErrorKind = "configuration"
	KindNotFound      ErrorKind = "not_found"
	KindTransient     ErrorKind = "transient"
)

// Classify maps an error to its kind based on the sentinel it wraps.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrExternalTool):
		return KindExternalTool
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindTransient
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
