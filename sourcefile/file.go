package sourcefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/strataconf/strata"
)

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false
	// (returns empty map, so the source contributes nothing to the merge).
	Required bool

	// PathEnv: if set and the named environment variable is non-empty, its
	// value replaces the configured path. Lets deployments point the same
	// binary at a different config file.
	PathEnv string
}

type fileSource struct {
	path string
	opts Options
}

// New creates a file-based configuration source.
func New(path string, opts Options) strata.Source {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file, returning its nested raw structure.
// Keys the file does not specify are simply missing from the map.
// String values may reference environment variables as ${VAR} or
// ${VAR:default}; see expandTree for the substitution and escaping rules.
func (f *fileSource) Load(ctx context.Context) (map[string]any, error) {
	path := f.effectivePath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, fmt.Errorf("required config file not found: %s: %w", path, err)
			}
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}

	if raw == nil {
		raw = make(map[string]any)
	}
	return expandTree(stringifyKeys(raw)), nil
}

// Watch emits a ChangeEvent whenever the file is written, created, renamed,
// or removed. The parent directory is watched rather than the file itself so
// that editors and orchestrators that replace the file atomically are still
// observed. Events are coalesced within a short window.
func (f *fileSource) Watch(ctx context.Context) (<-chan strata.ChangeEvent, error) {
	path := f.effectivePath()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory %s: %w", dir, err)
	}

	base := filepath.Base(path)
	events := make(chan strata.ChangeEvent, 1)

	go func() {
		defer watcher.Close()
		defer close(events)

		const coalesce = 100 * time.Millisecond
		var last time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if !ev.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
					continue
				}
				now := time.Now()
				if now.Sub(last) < coalesce {
					continue
				}
				last = now

				select {
				case events <- strata.ChangeEvent{At: now, Cause: "file-changed:" + base}:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, nil
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	return "file:" + filepath.Base(f.effectivePath())
}

func (f *fileSource) effectivePath() string {
	if f.opts.PathEnv != "" {
		if p := os.Getenv(f.opts.PathEnv); p != "" {
			return p
		}
	}
	return f.path
}

// stringifyKeys rewrites map[any]any nodes (produced by some YAML inputs)
// into map[string]any so decoding sees a uniform shape. Non-string keys are
// dropped.
func stringifyKeys(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		out[key] = stringifyValue(value)
	}
	return out
}

func stringifyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return stringifyKeys(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			out[keyStr] = stringifyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = stringifyValue(item)
		}
		return out
	default:
		return value
	}
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
