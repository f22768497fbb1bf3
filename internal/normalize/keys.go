package normalize

import (
	"strings"
)

// ToLowerDotPath normalizes a configuration key to a lowercase dot-separated
// path. Double underscores (__) are treated as level separators and converted
// to dots. Single underscores within a level are preserved.
// Examples:
//   - "FOO__BAR" → "foo.bar"
//   - "DB_MAX_CONNECTIONS" → "db_max_connections"
//   - "API__RATE_LIMIT" → "api.rate_limit"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// Nest expands flat dot-separated keys into a nested map, the raw shape
// source adapters hand to decoding.
// Example: {"server.port": 443} → {"server": {"port": 443}}
//
// A scalar value already occupying an intermediate path is replaced by the
// deeper structure; flat sources cannot express both at once anyway.
func Nest(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for key, value := range flat {
		setPath(out, strings.Split(key, "."), value)
	}
	return out
}

func setPath(m map[string]any, segments []string, value any) {
	if len(segments) == 1 {
		m[segments[0]] = value
		return
	}
	child, ok := m[segments[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[segments[0]] = child
	}
	setPath(child, segments[1:], value)
}
