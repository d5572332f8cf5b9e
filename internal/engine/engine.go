// Package engine is the day-simulation core of the Games: event
// selection, team coordination, effect application and outcome
// recording.
//
// ARCHITECTURAL RULE: the engine performs no I/O and never sleeps. All
// randomness flows through the random.Source the caller injects, so a
// fixed seed replays a whole game. Serialization of access to a game
// instance is the manager's job; the engine assumes it is the sole
// mutator for the duration of a call.
package engine

import (
	"github.com/panembot/games-server/internal/platform/logger"
	"github.com/panembot/games-server/internal/platform/metrics"
)

// Engine runs day simulations. It is stateless across calls and safe to
// share between game instances.
type Engine struct {
	log     *logger.Logger
	metrics *metrics.Collector
}

// New creates an engine. The metrics collector may be nil.
func New(log *logger.Logger, m *metrics.Collector) *Engine {
	return &Engine{log: log, metrics: m}
}
