// Package sourceenv loads raw configuration from environment variables.
//
// Key normalization: FOO__BAR → foo.bar, FOO_BAR → foo_bar. The flat keys
// are expanded into the nested shape decoding expects.
//
// Example:
//
//	source := sourceenv.New(sourceenv.Options{Prefix: "APP_"})
//	raw, err := source.Load(ctx)
package sourceenv
