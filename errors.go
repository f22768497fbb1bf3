package strata

import (
	"fmt"
	"strings"
)

// MergeError reports the first required field that no source provided.
// Resolution aborts on the first such field in schema-declared order; the
// engine never returns a partially filled struct alongside one.
type MergeError struct {
	// FieldPath is the dotted path of the unresolved field, e.g. "server.port".
	FieldPath string

	// Sources lists the source names consulted for the field, ordered lowest
	// to highest precedence. Empty when no source carried the enclosing
	// section at all.
	Sources []string
}

// Error formats the failure with the consulted sources.
func (e *MergeError) Error() string {
	if len(e.Sources) == 0 {
		return fmt.Sprintf("strata: required field %q not provided by any source", e.FieldPath)
	}
	return fmt.Sprintf("strata: required field %q not provided by any source (consulted: %s)",
		e.FieldPath, strings.Join(e.Sources, ", "))
}

// DecodeError reports that a raw source could not be turned into a partial.
// The merge engine never sees sources that failed to decode; whether the
// failure is fatal is the caller's decision.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("strata: decode: %v", e.Err)
	}
	return fmt.Sprintf("strata: decode source %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
