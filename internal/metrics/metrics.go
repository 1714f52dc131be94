package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Bot holds the counters the conversation flows and reminder worker report.
type Bot struct {
	updates   *prometheus.CounterVec
	records   *prometheus.CounterVec
	failures  *prometheus.CounterVec
	reminders prometheus.Counter
}

// New registers bot metrics on registerer. A nil registerer uses the
// Prometheus default.
func New(registerer prometheus.Registerer) *Bot {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Bot{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alquiler_bot_updates_total",
			Help: "Updates handled, by resulting outcome.",
		}, []string{"outcome"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alquiler_bot_records_total",
			Help: "Record mutations, by kind and action.",
		}, []string{"kind", "action"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alquiler_bot_failures_total",
			Help: "Backend failures surfaced to users, by operation.",
		}, []string{"op"}),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alquiler_bot_reminders_sent_total",
			Help: "Reminder messages delivered.",
		}),
	}
	registerer.MustRegister(m.updates, m.records, m.failures, m.reminders)
	return m
}

func (m *Bot) Update(outcome string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(outcome).Inc()
}

func (m *Bot) Record(kind, action string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(kind, action).Inc()
}

func (m *Bot) Failure(op string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(op).Inc()
}

func (m *Bot) ReminderSent() {
	if m == nil {
		return
	}
	m.reminders.Inc()
}
