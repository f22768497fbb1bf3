package sourcefile

import (
	"os"
	"strings"
)

// expandTree walks a parsed raw tree and substitutes environment variable
// references in every string value. Maps and slices are rewritten in place.
//
// References take the form ${VAR} or ${VAR:default}. A set variable wins;
// with a default the default fills in for an unset variable; without one the
// reference is left as written so a typo surfaces in the resolved value
// instead of silently becoming empty. A backslash escapes the reference:
// `\${VAR}` stays literal, `\\${VAR}` keeps one backslash and substitutes.
func expandTree(raw map[string]any) map[string]any {
	for key, value := range raw {
		raw[key] = expandValue(value)
	}
	return raw
}

func expandValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return expandTree(v)
	case []any:
		for i, item := range v {
			v[i] = expandValue(item)
		}
		return v
	case string:
		return substEnv(v)
	default:
		return value
	}
}

func substEnv(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}

	split := strings.Split(s, "${")
	acc := split[0]
	for _, part := range split[1:] {
		if strings.HasSuffix(acc, `\\`) {
			// escaped escape: keep a single backslash and substitute
			acc = acc[:len(acc)-1]
		} else if strings.HasSuffix(acc, `\`) {
			acc = acc[:len(acc)-1] + "${" + part
			continue
		}

		name, tail, closed := strings.Cut(part, "}")
		if !closed {
			acc += "${" + part
			continue
		}

		name, fallback, hasDefault := strings.Cut(name, ":")
		if v, ok := os.LookupEnv(name); ok {
			acc += v
		} else if hasDefault {
			acc += fallback
		} else {
			acc += "${" + name + "}"
		}
		acc += tail
	}
	return acc
}
