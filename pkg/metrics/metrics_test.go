package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveDiff("sync", time.Millisecond)
	m.RecordOps("Insert", 2)
	m.RecordCommit()
	m.RecordCleanup(3)
	m.RecordRender("inline")
}

func TestRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithNamespace("test"), WithRegistry(reg))

	m.ObserveDiff("sync", time.Millisecond)
	m.ObserveDiff("sync", time.Millisecond)
	m.ObserveDiff("rejected", time.Millisecond)
	m.RecordOps("Insert", 2)
	m.RecordOps("Insert", 0)
	m.RecordOps("Truncate", 1)
	m.RecordCommit()
	m.RecordCleanup(4)
	m.RecordRender("stateful")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"diff sync", testutil.ToFloat64(m.diffs.WithLabelValues("sync")), 2},
		{"diff rejected", testutil.ToFloat64(m.diffs.WithLabelValues("rejected")), 1},
		{"ops insert", testutil.ToFloat64(m.journalOps.WithLabelValues("Insert")), 2},
		{"ops truncate", testutil.ToFloat64(m.journalOps.WithLabelValues("Truncate")), 1},
		{"commits", testutil.ToFloat64(m.commits), 1},
		{"cleanup", testutil.ToFloat64(m.cleanups), 4},
		{"renders", testutil.ToFloat64(m.renders.WithLabelValues("stateful")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if n := histogramCount(t, m.diffDuration); n != 3 {
		t.Errorf("diff duration samples = %d, want 3", n)
	}
}

func TestNamespaceApplied(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithNamespace("app"), WithSubsystem("ui"), WithRegistry(reg))
	m.RecordCommit()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "app_ui_commits_total" {
			found = true
		}
	}
	if !found {
		t.Error("app_ui_commits_total not registered")
	}
}
