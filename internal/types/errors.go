package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds returned by the loader and the exporter. Empty input is not an
// error and has no kind.
var (
	ErrNotFound = errors.New("source file not found")
	ErrParse    = errors.New("source file is not readable tabular data")
	ErrExport   = errors.New("report could not be written")
)

// KindError attaches a path to an underlying failure and classifies it as one
// of the error kinds above.
type KindError struct {
	Kind error  // ErrNotFound, ErrParse or ErrExport
	Path string // file the operation was working on
	Err  error  // underlying cause, may be nil
}

// Error implements the error interface.
func (e *KindError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Error(), e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Path)
}

// Unwrap returns the underlying cause.
func (e *KindError) Unwrap() error {
	return e.Err
}

// Is matches the error kind so errors.Is(err, ErrNotFound) works through wrapping.
func (e *KindError) Is(target error) bool {
	return target == e.Kind
}

// NewNotFound builds an ErrNotFound-kind error.
func NewNotFound(path string, cause error) error {
	return &KindError{Kind: ErrNotFound, Path: path, Err: cause}
}

// NewParseError builds an ErrParse-kind error.
func NewParseError(path string, cause error) error {
	return &KindError{Kind: ErrParse, Path: path, Err: cause}
}

// NewExportError builds an ErrExport-kind error.
func NewExportError(path string, cause error) error {
	return &KindError{Kind: ErrExport, Path: path, Err: cause}
}

// KindOf returns the kind sentinel of err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrParse, ErrExport} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
