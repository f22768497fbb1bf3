package sourceenv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataconf/strata"
)

func TestEnvSource_Load_PrefixAndNesting(t *testing.T) {
	t.Setenv("APP_HOST", "localhost")
	t.Setenv("APP_SERVER__PORT", "443")
	t.Setenv("APP_DB__MAX_CONNECTIONS", "10")
	t.Setenv("OTHER_HOST", "ignored")

	src := New(Options{Prefix: "APP_"})
	raw, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "localhost", raw["host"])

	server, ok := raw["server"].(map[string]any)
	require.True(t, ok, "double underscore should nest")
	assert.Equal(t, "443", server["port"], "env values stay strings")

	db, ok := raw["db"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10", db["max_connections"], "single underscore stays within the level")

	assert.NotContains(t, raw, "other_host", "unprefixed vars are filtered out")
}

func TestEnvSource_Load_CaseInsensitivePrefix(t *testing.T) {
	t.Setenv("app_host", "lower")

	src := New(Options{Prefix: "APP_"})
	raw, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lower", raw["host"])
}

func TestEnvSource_Load_CaseSensitivePrefix(t *testing.T) {
	t.Setenv("app_host", "lower")

	src := New(Options{Prefix: "APP_", CaseSensitive: true})
	raw, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, raw, "host")
}

func TestEnvSource_Name(t *testing.T) {
	assert.Equal(t, "env:APP_*", New(Options{Prefix: "APP_"}).Name())
	assert.Equal(t, "env", New(Options{}).Name())
}

func TestEnvSource_WatchNotSupported(t *testing.T) {
	_, err := New(Options{}).Watch(context.Background())
	assert.True(t, errors.Is(err, strata.ErrWatchNotSupported))
}
