package normalize

import (
	"reflect"
	"testing"
)

func TestToLowerDotPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "double underscore to dot",
			input:    "FOO__BAR",
			expected: "foo.bar",
		},
		{
			name:     "single underscore preserved",
			input:    "DB_MAX_CONNECTIONS",
			expected: "db_max_connections",
		},
		{
			name:     "mixed double and single underscores",
			input:    "API__RATE_LIMIT",
			expected: "api.rate_limit",
		},
		{
			name:     "multiple levels",
			input:    "APP__DATABASE__HOST",
			expected: "app.database.host",
		},
		{
			name:     "already lowercase",
			input:    "simple",
			expected: "simple",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToLowerDotPath(tt.input); got != tt.expected {
				t.Errorf("ToLowerDotPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNest(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected map[string]any
	}{
		{
			name:     "flat keys stay flat",
			input:    map[string]any{"host": "a", "port": 80},
			expected: map[string]any{"host": "a", "port": 80},
		},
		{
			name:  "dotted keys nest",
			input: map[string]any{"server.host": "a", "server.port": 443},
			expected: map[string]any{
				"server": map[string]any{"host": "a", "port": 443},
			},
		},
		{
			name:  "deep nesting",
			input: map[string]any{"a.b.c": 1},
			expected: map[string]any{
				"a": map[string]any{"b": map[string]any{"c": 1}},
			},
		},
		{
			name:  "siblings share a branch",
			input: map[string]any{"db.host": "h", "db.port": 5432, "debug": true},
			expected: map[string]any{
				"db":    map[string]any{"host": "h", "port": 5432},
				"debug": true,
			},
		},
		{
			name:     "empty input",
			input:    map[string]any{},
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nest(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Nest(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
