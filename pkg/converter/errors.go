package converter

import (
	"fmt"

	"github.com/pkg/errors"
)

// Category classifies pipeline failures so callers can decide whether a
// failure is per-entry (decode, encode) or per-run (config).
type Category string

const (
	CategoryDecode Category = "decode"
	CategoryEncode Category = "encode"
	CategoryConfig Category = "config"
)

// ProcessingError is the structured error returned by every pipeline stage.
type ProcessingError struct {
	Category Category
	Op       string
	Entry    string // archive entry path, empty for config errors
	Err      error
}

func (e *ProcessingError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] %s %s: %v", e.Category, e.Op, e.Entry, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// DecodeError reports a byte buffer that is not a recognised raster image.
func DecodeError(entry string, err error) error {
	return &ProcessingError{Category: CategoryDecode, Op: "decode", Entry: entry, Err: errors.WithStack(err)}
}

// EncodeError reports an encoder rejecting an in-memory page.
func EncodeError(op string, err error) error {
	return &ProcessingError{Category: CategoryEncode, Op: op, Err: errors.WithStack(err)}
}

// ConfigError reports an out-of-range configuration value.
func ConfigError(field string, err error) error {
	return &ProcessingError{Category: CategoryConfig, Op: field, Err: err}
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEmptyInput        = errors.New("empty input")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrNoPages           = errors.New("no pages to convert")
)
