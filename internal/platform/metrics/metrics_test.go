package metrics

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.DaySimulated()
	c.EventSelected()
	c.EventSelected()
	c.SelectorRejection()
	c.WSConnected()
	c.WSConnected()
	c.WSDisconnected()

	snap := c.Snapshot()
	if snap["days_simulated"] != 1 {
		t.Errorf("days_simulated = %d, want 1", snap["days_simulated"])
	}
	if snap["events_selected"] != 2 {
		t.Errorf("events_selected = %d, want 2", snap["events_selected"])
	}
	if snap["ws_connections_active"] != 1 {
		t.Errorf("ws_connections_active = %d, want 1", snap["ws_connections_active"])
	}
}

func TestNilCollectorIsANoOp(t *testing.T) {
	var c *Collector
	c.DaySimulated()
	c.EventSelected()
	c.SelectorRejection()
	c.SelectorFailure()
	c.RevealServed()
	c.WSConnected()
	c.WSDisconnected()
	c.WSMessageOut()
	if c.Snapshot() != nil {
		t.Error("nil collector snapshot should be nil")
	}
}

func TestServeHTTP(t *testing.T) {
	c := NewCollector()
	c.RevealServed()

	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var snap map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snap["reveals_served"] != 1 {
		t.Errorf("reveals_served = %d, want 1", snap["reveals_served"])
	}
}
