package sourceenv

import (
	"context"
	"os"
	"strings"

	"github.com/strataconf/strata"
	"github.com/strataconf/strata/internal/normalize"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before
	// normalization). Empty = load all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_,
	// App_, etc.). When true, prefix must match exactly.
	// Keys are always normalized to lowercase after prefix stripping.
	CaseSensitive bool
}

type envSource struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) strata.Source {
	return &envSource{opts: opts}
}

// Load scans environment variables, filters by prefix, normalizes keys, and
// expands them into a nested raw map. Values stay strings; weak typing in
// the decode step converts them.
func (e *envSource) Load(ctx context.Context) (map[string]any, error) {
	flat := make(map[string]any)

	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := parts[0]
		value := parts[1]

		if e.opts.Prefix != "" {
			var hasPrefix bool
			if e.opts.CaseSensitive {
				hasPrefix = strings.HasPrefix(key, e.opts.Prefix)
			} else {
				hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(e.opts.Prefix))
			}

			if !hasPrefix {
				continue
			}
			key = key[len(e.opts.Prefix):]
		}

		if key == "" {
			continue
		}

		// Normalize: FOO__BAR → foo.bar
		flat[normalize.ToLowerDotPath(key)] = value
	}

	return normalize.Nest(flat), nil
}

// Watch returns ErrWatchNotSupported (env vars don't change at runtime).
func (e *envSource) Watch(ctx context.Context) (<-chan strata.ChangeEvent, error) {
	return nil, strata.ErrWatchNotSupported
}

// Name returns a human-readable identifier for this source.
func (e *envSource) Name() string {
	if e.opts.Prefix != "" {
		return "env:" + e.opts.Prefix + "*"
	}
	return "env"
}
