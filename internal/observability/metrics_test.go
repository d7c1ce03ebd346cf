package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, 30*time.Millisecond)
	m.RecordError("/tickets/:id", "PUT", "CONFLICT")

	snap := m.Snapshot()
	if got := snap.Requests["/tickets|GET|200"]; got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
	if got := snap.AverageDurationMs["/tickets|GET|200"]; got != 20 {
		t.Fatalf("expected 20ms average, got %d", got)
	}
	if got := snap.Errors["/tickets/:id|PUT|CONFLICT"]; got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	if snap := m.Snapshot(); len(snap.Requests) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap.Requests)
	}
}
