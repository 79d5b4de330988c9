// Package diagnostics provides a structured, non-fatal diagnostics
// channel for logging discarded self-referential edges, broken
// load-after cycles, and degraded-freshness events without raising an
// error.
package diagnostics

import (
	"sync"

	"go.uber.org/zap"
)

// Channel wraps a zap.SugaredLogger scoped to one analysis or one
// masterlist operation.
type Channel struct {
	log *zap.SugaredLogger
}

var (
	baseOnce sync.Once
	base     *zap.Logger
)

func baseLogger() *zap.Logger {
	baseOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		l, err := cfg.Build()
		if err != nil {
			l = zap.NewNop()
		}
		base = l
	})
	return base
}

// New creates a diagnostics channel tagged with a component name, e.g.
// "masterlist" or "analysis".
func New(component string) *Channel {
	return &Channel{log: baseLogger().Sugar().With("component", component)}
}

// With returns a derived channel carrying an additional structured field,
// e.g. the game ID or the analysis request ID.
func (c *Channel) With(key string, value interface{}) *Channel {
	return &Channel{log: c.log.With(key, value)}
}

// DroppedEdge logs a self-referential requirement/incompatibility or a
// cycle-breaking drop.
func (c *Channel) DroppedEdge(reason, from, to string) {
	c.log.Warnw("dropped masterlist edge", "reason", reason, "from", from, "to", to)
}

// Degraded logs a fetch/parse failure that was recovered from cache.
func (c *Channel) Degraded(game string, err error) {
	c.log.Warnw("masterlist refresh degraded, serving cached view", "game", game, "error", err)
}

// Notice logs a non-fatal, informational event.
func (c *Channel) Notice(msg string, keysAndValues ...interface{}) {
	c.log.Infow(msg, keysAndValues...)
}

// Sync flushes buffered log entries; call before process exit.
func (c *Channel) Sync() {
	_ = c.log.Sync()
}
