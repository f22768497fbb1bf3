package strata

import (
	"fmt"
	"reflect"
)

// ResolveOption configures a resolution session.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	reporter Reporter
}

// WithReporter attaches a diagnostics sink to the resolution session.
// Reporters never change the outcome, only its observability.
func WithReporter(r Reporter) ResolveOption {
	return func(cfg *resolveConfig) {
		if r != nil {
			cfg.reporter = r
		}
	}
}

// Resolve merges the given partials, ordered lowest to highest precedence,
// into the struct described by schema. names identifies each partial for
// diagnostics and must be the same length as partials.
//
// The engine walks fields in schema-declared order: scalar and optional
// fields take the highest-precedence present value, nested fields merge
// recursively over only the sub-partials that are present, and collections
// combine by their declared strategy. The first required field absent from
// every source aborts resolution with a *MergeError; there is no partial
// output.
//
// Resolve is a pure function of its inputs: partials are read-only, nothing
// is retained beyond the call, and repeated resolution with identical inputs
// yields identical results. Concurrent sessions need no coordination.
func Resolve(schema *Schema, partials []Partial, names []string, opts ...ResolveOption) (any, error) {
	if schema == nil {
		return nil, fmt.Errorf("strata: resolve: schema is nil")
	}
	if len(partials) != len(names) {
		return nil, fmt.Errorf("strata: resolve: %d partials but %d names", len(partials), len(names))
	}

	cfg := resolveConfig{reporter: nopReporter{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	values, err := resolveFields(schema, partials, names, "", &cfg)
	if err != nil {
		return nil, err
	}
	return schema.Build(values), nil
}

// resolveFields produces one resolved value per schema field, or the first
// failure encountered in declared field order.
func resolveFields(schema *Schema, partials []Partial, names []string, prefix string, cfg *resolveConfig) ([]any, error) {
	values := make([]any, len(schema.Fields))

	for i, field := range schema.Fields {
		path := joinPath(prefix, field.Name)

		switch field.Kind {
		case KindScalar, KindOptional:
			v, source, ok := pickHighest(partials, names, i)
			if ok {
				values[i] = v
				cfg.reporter.Report(Event{Path: path, Source: source, Action: ActionResolved})
				continue
			}
			if field.Kind == KindScalar && field.Required {
				cfg.reporter.Report(Event{Path: path, Action: ActionMissing})
				return nil, &MergeError{FieldPath: path, Sources: copyNames(names)}
			}
			cfg.reporter.Report(Event{Path: path, Action: ActionDefaulted})

		case KindNested:
			v, err := resolveNested(field, i, partials, names, path, cfg)
			if err != nil {
				return nil, err
			}
			values[i] = v

		case KindCollection:
			values[i] = resolveCollection(field, i, partials, names, path, cfg)

		default:
			return nil, fmt.Errorf("strata: resolve: field %q has unknown kind %d", path, field.Kind)
		}
	}

	return values, nil
}

// resolveNested recursively resolves a nested field over the sub-partials
// present in each source. Absent sub-partials are skipped, not zero-filled,
// so precedence order is preserved at the nested level. With the Override
// strategy the highest-precedence present sub-partial wins wholesale.
func resolveNested(field Field, idx int, partials []Partial, names []string, path string, cfg *resolveConfig) (any, error) {
	subPartials := make([]Partial, 0, len(partials))
	subNames := make([]string, 0, len(names))
	for j, p := range partials {
		v, ok := p.Get(idx)
		if !ok {
			continue
		}
		sub, isPartial := v.(Partial)
		if !isPartial {
			return nil, fmt.Errorf("strata: resolve: nested field %q in source %s is not a partial (got %T)", path, names[j], v)
		}
		subPartials = append(subPartials, sub)
		subNames = append(subNames, names[j])
	}

	if field.Strategy == Override && len(subPartials) > 1 {
		subPartials = subPartials[len(subPartials)-1:]
		subNames = subNames[len(subNames)-1:]
	}

	subValues, err := resolveFields(field.Sub, subPartials, subNames, path, cfg)
	if err != nil {
		return nil, err
	}
	return field.Sub.Build(subValues), nil
}

// resolveCollection combines collection values by the field's strategy:
// Override takes the highest-precedence present slice, Append concatenates
// all present slices from lowest to highest precedence.
func resolveCollection(field Field, idx int, partials []Partial, names []string, path string, cfg *resolveConfig) any {
	if field.Strategy == Override {
		v, source, ok := pickHighest(partials, names, idx)
		if !ok {
			cfg.reporter.Report(Event{Path: path, Action: ActionDefaulted})
			return nil
		}
		cfg.reporter.Report(Event{Path: path, Source: source, Action: ActionResolved})
		// Copy, as in the append branch, so the engine never aliases a
		// source's slice.
		rv := reflect.ValueOf(v)
		return reflect.AppendSlice(reflect.MakeSlice(rv.Type(), 0, rv.Len()), rv).Interface()
	}

	var merged reflect.Value
	for j, p := range partials {
		v, ok := p.Get(idx)
		if !ok {
			continue
		}
		rv := reflect.ValueOf(v)
		if !merged.IsValid() {
			// Always copy so the engine never aliases a source's slice.
			merged = reflect.MakeSlice(rv.Type(), 0, rv.Len())
		}
		merged = reflect.AppendSlice(merged, rv)
		cfg.reporter.Report(Event{Path: path, Source: names[j], Action: ActionAppended})
	}

	if !merged.IsValid() {
		cfg.reporter.Report(Event{Path: path, Action: ActionDefaulted})
		return nil
	}
	return merged.Interface()
}

// pickHighest scans sources from highest to lowest precedence and returns
// the first present value for the field at index i.
func pickHighest(partials []Partial, names []string, i int) (any, string, bool) {
	for j := len(partials) - 1; j >= 0; j-- {
		if v, ok := partials[j].Get(i); ok {
			return v, names[j], true
		}
	}
	return nil, "", false
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func copyNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
