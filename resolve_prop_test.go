package strata

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

// genEndpointLayers draws a random stack of partial layers. Every layer may
// or may not set each field.
func genEndpointLayers(t *rapid.T) ([]*endpointPartial, []string) {
	count := rapid.IntRange(1, 6).Draw(t, "layers")
	partials := make([]*endpointPartial, count)
	names := make([]string, count)

	for i := 0; i < count; i++ {
		p := &endpointPartial{}
		if rapid.Bool().Draw(t, fmt.Sprintf("hostSet%d", i)) {
			p.Host = Of(rapid.String().Draw(t, fmt.Sprintf("host%d", i)))
		}
		if rapid.Bool().Draw(t, fmt.Sprintf("portSet%d", i)) {
			p.Port = Of(rapid.IntRange(1, 65535).Draw(t, fmt.Sprintf("port%d", i)))
		}
		if rapid.Bool().Draw(t, fmt.Sprintf("tagsSet%d", i)) {
			p.Tags = Of(rapid.SliceOfN(rapid.String(), 0, 4).Draw(t, fmt.Sprintf("tags%d", i)))
		}
		partials[i] = p
		names[i] = fmt.Sprintf("layer-%d", i)
	}
	return partials, names
}

// TestResolveProp_HighestPrecedenceWins checks the precedence property: a
// scalar field always resolves to the value from the highest-precedence
// layer that sets it, and fails exactly when no layer sets it.
func TestResolveProp_HighestPrecedenceWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		partials, names := genEndpointLayers(t)

		var wantHost *string
		var wantPort *int
		for _, p := range partials { // ascending precedence; later wins
			if p.Host.Set {
				host := p.Host.Value
				wantHost = &host
			}
			if p.Port.Set {
				port := p.Port.Value
				wantPort = &port
			}
		}

		v, err := Resolve(endpointSchema, endpointPartials(partials...), names)
		if wantHost == nil || wantPort == nil {
			var mergeErr *MergeError
			if !errors.As(err, &mergeErr) {
				t.Fatalf("expected *MergeError, got %v", err)
			}
			if wantHost == nil && mergeErr.FieldPath != "host" {
				t.Fatalf("failed field = %q, want host (first in schema order)", mergeErr.FieldPath)
			}
			if wantHost != nil && mergeErr.FieldPath != "port" {
				t.Fatalf("failed field = %q, want port", mergeErr.FieldPath)
			}
			return
		}
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		got := v.(endpoint)
		if got.Host != *wantHost {
			t.Fatalf("Host = %q, want %q", got.Host, *wantHost)
		}
		if got.Port != *wantPort {
			t.Fatalf("Port = %d, want %d", got.Port, *wantPort)
		}
	})
}

// TestResolveProp_AppendOrder checks the append-order property: the
// resolved collection equals the concatenation of each layer's slice in
// ascending precedence order with intra-layer order preserved.
func TestResolveProp_AppendOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		partials, names := genEndpointLayers(t)

		// Pin the required scalars so only the collection varies.
		partials[0].Host = Of("h")
		partials[0].Port = Of(1)

		var wantTags []string
		for _, p := range partials {
			if p.Tags.Set {
				wantTags = append(wantTags, p.Tags.Value...)
			}
		}

		v, err := Resolve(endpointSchema, endpointPartials(partials...), names)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		got := v.(endpoint)
		if len(wantTags) == 0 {
			if got.Tags != nil && len(got.Tags) != 0 {
				t.Fatalf("Tags = %v, want empty", got.Tags)
			}
			return
		}
		if !reflect.DeepEqual(got.Tags, wantTags) {
			t.Fatalf("Tags = %v, want %v", got.Tags, wantTags)
		}
	})
}

// TestResolveProp_Deterministic checks that resolving the same inputs twice
// yields identical outcomes, error or value.
func TestResolveProp_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		partials, names := genEndpointLayers(t)

		v1, err1 := Resolve(endpointSchema, endpointPartials(partials...), names)
		v2, err2 := Resolve(endpointSchema, endpointPartials(partials...), names)

		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("one run failed, the other did not: %v vs %v", err1, err2)
		}
		if err1 != nil {
			if err1.Error() != err2.Error() {
				t.Fatalf("errors differ: %v vs %v", err1, err2)
			}
			return
		}
		if !reflect.DeepEqual(v1, v2) {
			t.Fatalf("values differ: %+v vs %+v", v1, v2)
		}
	})
}
