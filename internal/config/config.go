// Package config resolves the fixed options record from defaults,
// environment variables, and CLI overrides, in that priority order:
// flags win over environment, environment wins over documented defaults.
package config

import (
	"os"
	"strconv"
)

// Options is the fixed set of tunables analysis and masterlist handling
// accept, with documented defaults.
type Options struct {
	InfoCap            int
	FreshnessWindowDays int
	HeaviestN          int
	CacheRoot          string
}

// Defaults returns the documented baseline before env/flag overrides apply.
func Defaults() Options {
	return Options{
		InfoCap:             12,
		FreshnessWindowDays: 7,
		HeaviestN:           10,
		CacheRoot:           defaultCacheRoot(),
	}
}

// FromEnvironment layers CACHE_ROOT, MASTERLIST_FRESHNESS_DAYS,
// ANALYSIS_INFO_CAP, and ANALYSIS_HEAVIEST_N over the defaults.
func FromEnvironment() Options {
	opts := Defaults()

	if v := os.Getenv("CACHE_ROOT"); v != "" {
		opts.CacheRoot = v
	}
	if v, ok := envInt("MASTERLIST_FRESHNESS_DAYS"); ok {
		opts.FreshnessWindowDays = v
	}
	if v, ok := envInt("ANALYSIS_INFO_CAP"); ok {
		opts.InfoCap = v
	}
	if v, ok := envInt("ANALYSIS_HEAVIEST_N"); ok {
		opts.HeaviestN = v
	}

	return opts
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func defaultCacheRoot() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return dir + "/loadwright"
	}
	return ".loadwright-cache"
}

// Override applies non-zero fields from a CLI-supplied partial options
// record on top of the base, giving flags the final word.
func (o Options) Override(partial Options) Options {
	if partial.InfoCap != 0 {
		o.InfoCap = partial.InfoCap
	}
	if partial.FreshnessWindowDays != 0 {
		o.FreshnessWindowDays = partial.FreshnessWindowDays
	}
	if partial.HeaviestN != 0 {
		o.HeaviestN = partial.HeaviestN
	}
	if partial.CacheRoot != "" {
		o.CacheRoot = partial.CacheRoot
	}
	return o
}
