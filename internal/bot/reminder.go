package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/ledger"
	"github.com/yourname/alquiler-bot/internal/logger"
)

// RunReminderWorker sends pay-day reminders once a day at the configured
// local time until ctx is done.
func (h *Handler) RunReminderWorker(ctx context.Context) {
	if h.cfg.ReminderOnStart {
		h.remind(ctx)
	}

	for {
		now := h.now()
		next := nextRun(now, h.cfg.ReminderHour, h.cfg.ReminderMinute, h.cfg.Location)
		h.log.WithField("next_run", next).Debug("reminder scheduled")

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			h.remind(ctx)
		}
	}
}

func (h *Handler) remind(ctx context.Context) {
	sent, err := h.SendReminders(ctx, h.now())
	if err != nil {
		logger.ErrorWithTraceID(h.log, logger.Fields{"op": "reminder", "error": err.Error()}, "reminder run failed")
		h.metrics.Failure("reminder")
		return
	}
	h.log.WithField("sent", sent).Info("reminder run finished")
}

// SendReminders messages every authorized user about tenants whose pay day
// is ledger.ReminderLead days after now and who have not paid that month.
// It returns the number of messages delivered.
func (h *Handler) SendReminders(ctx context.Context, now time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	ref := domain.Today(now, h.cfg.Location)
	due := ledger.DueDate(ref)

	tenants, err := h.tenantsByStatus(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("list tenants: %w", err)
	}
	payers, err := h.stores.Payments.PayersInMonth(ctx, domain.PeriodOf(due))
	if err != nil {
		return 0, fmt.Errorf("payers in month: %w", err)
	}
	paid := make(map[string]bool, len(payers))
	for _, p := range payers {
		paid[ledger.NormalizeName(p)] = true
	}

	names := ledger.DueTenants(tenants, paid, ref)
	if len(names) == 0 {
		return 0, nil
	}

	text := reminderText(names, due)
	sent := 0
	for _, id := range h.cfg.AuthorizedUsers {
		if h.send(tgbotapi.NewMessage(id, text)) {
			sent++
			h.metrics.ReminderSent()
		} else {
			h.log.WithFields(logrus.Fields{"user_id": id}).Warn("reminder not delivered")
		}
	}
	return sent, nil
}

func reminderText(names []string, due time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Recordatorio: el %s vence el pago de:\n", formatDate(due))
	for _, n := range names {
		b.WriteString("• " + n + "\n")
	}
	return b.String()
}

// nextRun returns the first hour:minute in loc strictly after now.
func nextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	n := now.In(loc)
	at := time.Date(n.Year(), n.Month(), n.Day(), hour, minute, 0, 0, loc)
	if !at.After(n) {
		at = time.Date(n.Year(), n.Month(), n.Day()+1, hour, minute, 0, 0, loc)
	}
	return at
}
