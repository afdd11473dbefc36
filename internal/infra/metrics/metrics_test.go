package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewActions(reg)
	a.Observe("login", "ok", 10*time.Millisecond)
	a.Observe("login", "error", time.Millisecond)
	a.Observe("nope", "unknown", 0)
	a.UnmatchedMovement("in")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	counts := map[string]int{}
	for _, f := range families {
		counts[f.GetName()] = len(f.GetMetric())
	}
	if counts["estoque_actions_total"] != 3 {
		t.Errorf("actions series = %d, want 3", counts["estoque_actions_total"])
	}
	if counts["estoque_action_duration_seconds"] != 1 {
		t.Errorf("duration series = %d, want 1", counts["estoque_action_duration_seconds"])
	}
	if counts["estoque_unmatched_movements_total"] != 1 {
		t.Errorf("unmatched series = %d, want 1", counts["estoque_unmatched_movements_total"])
	}

	var nilActions *Actions
	nilActions.Observe("login", "ok", 0)
}
