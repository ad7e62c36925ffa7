// Package ags holds the error kinds and warning collection shared by the
// asset codecs of go-ags.
//
// Codecs return these wrapped with github.com/pkg/errors context; use the Is*
// helpers (or errors.As) to classify a failure regardless of how much context
// was added on the way up.
package ags

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FormatError reports data that is not in the expected format: a signature
// mismatch, a malformed record, or a reference that cannot be resolved.
type FormatError struct {
	What   string // format name, e.g. "script module"
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("not a valid %s", e.What)
	}
	return fmt.Sprintf("not a valid %s: %s", e.What, e.Reason)
}

// UnsupportedVersionError reports a file version this reader cannot handle.
type UnsupportedVersionError struct {
	What string
	Got  int
	Want string // human readable, e.g. "1" or "5 or 6" or "<= 2"
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported %s version; got %d, want %s", e.What, e.Got, e.Want)
}

// ResourceLimitError reports an entity too large for a legacy format. It is
// always returned before anything was written.
type ResourceLimitError struct {
	What  string
	Got   int
	Limit int
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("%s: got %d, limit is %d", e.What, e.Got, e.Limit)
}

// StructuralError reports inconsistent cross-record structure, such as a
// sprite folder whose parent does not exist.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "invalid structure: " + e.Reason
}

// Formatf returns a FormatError for the named format.
func Formatf(what, format string, args ...interface{}) error {
	return &FormatError{What: what, Reason: fmt.Sprintf(format, args...)}
}

// IsFormat reports whether err (or anything it wraps) is a FormatError.
func IsFormat(err error) bool {
	var e *FormatError
	return errors.As(err, &e)
}

// IsUnsupportedVersion reports whether err wraps an UnsupportedVersionError.
func IsUnsupportedVersion(err error) bool {
	var e *UnsupportedVersionError
	return errors.As(err, &e)
}

// IsResourceLimit reports whether err wraps a ResourceLimitError.
func IsResourceLimit(err error) bool {
	var e *ResourceLimitError
	return errors.As(err, &e)
}

// IsStructural reports whether err wraps a StructuralError.
func IsStructural(err error) bool {
	var e *StructuralError
	return errors.As(err, &e)
}

// Warning is a non-fatal problem noticed during an import. The operation
// carried on without the offending item.
type Warning struct {
	Message string
	// SpriteID is the missing sprite, when the warning is about one.
	SpriteID int
}

func (w Warning) String() string {
	return w.Message
}

// Warnings collects the non-fatal problems of one operation.
type Warnings []Warning

// Addf appends a formatted warning.
func (ws *Warnings) Addf(format string, args ...interface{}) {
	*ws = append(*ws, Warning{Message: fmt.Sprintf(format, args...)})
}

// AddMissingSprite appends a warning about an absent sprite id.
func (ws *Warnings) AddMissingSprite(id int, format string, args ...interface{}) {
	*ws = append(*ws, Warning{Message: fmt.Sprintf(format, args...), SpriteID: id})
}

func (ws Warnings) String() string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Message)
	}
	return strings.Join(out, "\n")
}
