// Package sourcefile loads raw configuration from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .json, .toml). The source
// returns the file's nested structure untouched; decoding into a partial is
// the caller's step.
//
// Example:
//
//	source := sourcefile.New("config.yaml", sourcefile.Options{Required: true})
//	raw, err := source.Load(ctx)
package sourcefile
