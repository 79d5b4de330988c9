package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 12, d.InfoCap)
	assert.Equal(t, 7, d.FreshnessWindowDays)
	assert.Equal(t, 10, d.HeaviestN)
	assert.NotEmpty(t, d.CacheRoot)
}

func TestFromEnvironment(t *testing.T) {
	t.Run("unset environment falls back to defaults", func(t *testing.T) {
		opts := FromEnvironment()
		assert.Equal(t, Defaults().InfoCap, opts.InfoCap)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("CACHE_ROOT", "/tmp/custom-cache")
		t.Setenv("MASTERLIST_FRESHNESS_DAYS", "3")
		t.Setenv("ANALYSIS_INFO_CAP", "20")
		t.Setenv("ANALYSIS_HEAVIEST_N", "5")

		opts := FromEnvironment()
		assert.Equal(t, "/tmp/custom-cache", opts.CacheRoot)
		assert.Equal(t, 3, opts.FreshnessWindowDays)
		assert.Equal(t, 20, opts.InfoCap)
		assert.Equal(t, 5, opts.HeaviestN)
	})

	t.Run("malformed integer environment variables are ignored", func(t *testing.T) {
		t.Setenv("ANALYSIS_INFO_CAP", "not-a-number")
		opts := FromEnvironment()
		assert.Equal(t, Defaults().InfoCap, opts.InfoCap)
	})
}

func TestOverride(t *testing.T) {
	base := Defaults()

	t.Run("zero-value fields in the partial do not override the base", func(t *testing.T) {
		result := base.Override(Options{})
		assert.Equal(t, base, result)
	})

	t.Run("non-zero fields in the partial win", func(t *testing.T) {
		result := base.Override(Options{InfoCap: 99, CacheRoot: "/custom"})
		assert.Equal(t, 99, result.InfoCap)
		assert.Equal(t, "/custom", result.CacheRoot)
		assert.Equal(t, base.FreshnessWindowDays, result.FreshnessWindowDays)
	})
}
