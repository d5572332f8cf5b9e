// Package metrics provides observability counters for the games server.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Collector gathers simulation and transport metrics. All counters are
// updated with atomics; a nil *Collector is a valid no-op sink so the
// engine can run without observability wired up (e.g. in tests).
type Collector struct {
	// Simulation metrics
	daysSimulated      int64
	eventsSelected     int64
	selectorRejections int64
	selectorFailures   int64
	revealsServed      int64

	// Transport metrics
	wsConnectionsActive int64
	wsMessagesOut       int64
}

// NewCollector creates an empty metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// DaySimulated records one completed StartDay.
func (c *Collector) DaySimulated() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.daysSimulated, 1)
}

// EventSelected records one accepted event draw.
func (c *Collector) EventSelected() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.eventsSelected, 1)
}

// SelectorRejection records one rejected event draw.
func (c *Collector) SelectorRejection() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.selectorRejections, 1)
}

// SelectorFailure records an exhausted retry budget (a fatal day error).
func (c *Collector) SelectorFailure() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.selectorFailures, 1)
}

// RevealServed records one reveal step served to the host.
func (c *Collector) RevealServed() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.revealsServed, 1)
}

// WSConnected / WSDisconnected track active spectator connections.
func (c *Collector) WSConnected() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.wsConnectionsActive, 1)
}

func (c *Collector) WSDisconnected() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.wsConnectionsActive, -1)
}

// WSMessageOut records one broadcast message.
func (c *Collector) WSMessageOut() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.wsMessagesOut, 1)
}

// Snapshot returns the current counter values.
func (c *Collector) Snapshot() map[string]int64 {
	if c == nil {
		return nil
	}
	return map[string]int64{
		"days_simulated":        atomic.LoadInt64(&c.daysSimulated),
		"events_selected":       atomic.LoadInt64(&c.eventsSelected),
		"selector_rejections":   atomic.LoadInt64(&c.selectorRejections),
		"selector_failures":     atomic.LoadInt64(&c.selectorFailures),
		"reveals_served":        atomic.LoadInt64(&c.revealsServed),
		"ws_connections_active": atomic.LoadInt64(&c.wsConnectionsActive),
		"ws_messages_out":       atomic.LoadInt64(&c.wsMessagesOut),
	}
}

// ServeHTTP exposes the counters as JSON for scraping.
func (c *Collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c.Snapshot())
}
