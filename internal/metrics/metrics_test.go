package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Record("payment", "create")
	m.Record("payment", "create")
	m.Record("expense", "delete")
	m.Failure("summary")
	m.ReminderSent()

	if got := testutil.ToFloat64(m.records.WithLabelValues("payment", "create")); got != 2 {
		t.Fatalf("payment creates = %v", got)
	}
	if got := testutil.ToFloat64(m.records.WithLabelValues("expense", "delete")); got != 1 {
		t.Fatalf("expense deletes = %v", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("summary")); got != 1 {
		t.Fatalf("failures = %v", got)
	}
	if got := testutil.ToFloat64(m.reminders); got != 1 {
		t.Fatalf("reminders = %v", got)
	}
}

func TestNilSafe(t *testing.T) {
	var m *Bot
	m.Update("ok")
	m.Record("payment", "create")
	m.Failure("x")
	m.ReminderSent()
}
