package strata

import (
	"context"
	"errors"
	"time"
)

// Kind classifies a schema field for merge resolution.
type Kind int

const (
	// KindScalar is a plain required value: string, numeric, bool, duration.
	KindScalar Kind = iota

	// KindOptional is an Optional[T] field; absence resolves to unset, never
	// a failure.
	KindOptional

	// KindNested is a struct field with its own schema, merged recursively.
	KindNested

	// KindCollection is an ordered sequence merged by its declared strategy.
	KindCollection
)

// Strategy declares how values for the same field combine across sources.
type Strategy int

const (
	// Override takes the value from the highest-precedence source that sets
	// the field, discarding lower-precedence values entirely.
	Override Strategy = iota

	// Append concatenates collection values from lowest to highest
	// precedence, preserving within-source order.
	Append

	// MergeNested merges nested struct fields recursively, preserving
	// precedence order at the nested level.
	MergeNested
)

// Field describes one schema field: its normalized key, classification, and
// merge strategy. Sub is set only for KindNested.
type Field struct {
	Name     string
	Kind     Kind
	Strategy Strategy
	Required bool
	Sub      *Schema
}

// Schema is the compile-time-derived descriptor for one configuration
// struct: its fields in declaration order plus the Build function that
// materializes the resolved struct from per-field resolved values.
// Schemas are produced by stratagen, immutable thereafter, and safe to
// share across concurrent resolutions.
type Schema struct {
	Name   string
	Fields []Field

	// Build constructs the resolved struct from one value per field, in
	// field order. A nil value means the field resolved to absent (optional
	// fields and empty collections only; the engine never hands a nil for a
	// required scalar).
	Build func(values []any) any
}

// Partial is one source's present/absent view of a schema's fields. Partial
// types are generated by stratagen alongside the schema they mirror.
type Partial interface {
	// Schema returns the descriptor this partial is shaped by.
	Schema() *Schema

	// Get returns the decoded value for field index i and whether this
	// source sets it. Nested fields return a Partial for the sub-schema.
	Get(i int) (any, bool)
}

// Source provides raw configuration data from backends (files, env vars,
// remote stores). Load returns a nested map mirroring the config structure;
// keys a source does not specify are simply missing, never zero-filled.
type Source interface {
	// Load returns the source's raw data. Missing optional sources should
	// return an empty map.
	Load(ctx context.Context) (map[string]any, error)

	// Name identifies the source in diagnostics (e.g. "file:config.yaml").
	Name() string

	// Watch emits a ChangeEvent when the underlying data changes. Returns
	// ErrWatchNotSupported if the source cannot watch.
	Watch(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeEvent notifies of a source data change.
type ChangeEvent struct {
	At    time.Time
	Cause string
}

// ErrWatchNotSupported is returned when watching is not supported.
var ErrWatchNotSupported = errors.New("strata: watch not supported by this source")
