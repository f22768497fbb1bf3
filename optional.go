package strata

// Optional distinguishes "not set" from "zero value". It is the per-field
// unit the merge engine operates on: a partial holds one Optional per field,
// and the engine only falls through to a lower-precedence source when Set is
// false.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Of returns an Optional holding v with Set true.
func Of[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// OrDefault returns the wrapped value or the provided default.
func (o Optional[T]) OrDefault(defaultVal T) T {
	if o.Set {
		return o.Value
	}
	return defaultVal
}

// setDecoded populates the Optional from a raw decoded value. Used by the
// Decode hook so that a key's mere presence in a source marks the field set.
func (o *Optional[T]) setDecoded(raw any) error {
	var v T
	if err := decodeValue(raw, &v); err != nil {
		return err
	}
	o.Value = v
	o.Set = true
	return nil
}

// AsOptional converts an engine-resolved field value (nil when no source set
// the field) back into an Optional. Used by generated Build functions.
func AsOptional[T any](v any) Optional[T] {
	if v == nil {
		return Optional[T]{}
	}
	return Of(v.(T))
}

// AsSlice converts an engine-resolved collection value (nil when no source
// set the field) into a typed slice. Used by generated Build functions.
func AsSlice[T any](v any) []T {
	if v == nil {
		return nil
	}
	return v.([]T)
}
