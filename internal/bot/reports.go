package bot

import (
	"context"
	"fmt"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/ledger"
	"github.com/yourname/alquiler-bot/internal/report"
	"github.com/yourname/alquiler-bot/internal/session"
)

const (
	latestCount = 3
	// Telegram caps messages at 4096 characters; leave room for entities.
	maxMessageLen = 4000
)

func (h *Handler) showSummary(t *turn) session.State {
	ov, err := h.overview(t.ctx)
	if err != nil {
		return h.fail(t, "summary", err)
	}
	h.replyMarkdown(t.chatID, h.format.SummaryText(ov), mainKeyboard())
	return StateMenu
}

func (h *Handler) overview(ctx context.Context) (domain.Overview, error) {
	income, err := h.stores.Payments.Total(ctx, nil)
	if err != nil {
		return domain.Overview{}, fmt.Errorf("total payments: %w", err)
	}
	expenses, err := h.stores.Expenses.Total(ctx, nil)
	if err != nil {
		return domain.Overview{}, fmt.Errorf("total expenses: %w", err)
	}
	payments, err := h.stores.Payments.Latest(ctx, latestCount)
	if err != nil {
		return domain.Overview{}, fmt.Errorf("latest payments: %w", err)
	}
	spent, err := h.stores.Expenses.Latest(ctx, latestCount)
	if err != nil {
		return domain.Overview{}, fmt.Errorf("latest expenses: %w", err)
	}
	return domain.Overview{
		Summary:        ledger.Summarize(income, expenses, h.cfg.CommissionRate),
		LatestPayments: payments,
		LatestExpenses: spent,
	}, nil
}

func (h *Handler) monthlyReport(ctx context.Context, p domain.Period) (domain.MonthlyReport, error) {
	income, err := h.stores.Payments.Total(ctx, &p)
	if err != nil {
		return domain.MonthlyReport{}, fmt.Errorf("total payments: %w", err)
	}
	expenses, err := h.stores.Expenses.Total(ctx, &p)
	if err != nil {
		return domain.MonthlyReport{}, fmt.Errorf("total expenses: %w", err)
	}
	payments, err := h.stores.Payments.InPeriod(ctx, p)
	if err != nil {
		return domain.MonthlyReport{}, fmt.Errorf("payments in period: %w", err)
	}
	spent, err := h.stores.Expenses.InPeriod(ctx, p)
	if err != nil {
		return domain.MonthlyReport{}, fmt.Errorf("expenses in period: %w", err)
	}
	return domain.MonthlyReport{
		Period:   p,
		Summary:  ledger.Summarize(income, expenses, h.cfg.CommissionRate),
		Payments: payments,
		Expenses: spent,
	}, nil
}

func (h *Handler) startReport(t *turn) session.State {
	h.reply(t.chatID, "📈 ¿Qué informe quieres generar?", reportKeyboard())
	return StateReportMenu
}

func (h *Handler) reportCurrentMonth(t *turn) session.State {
	return h.sendReport(t, domain.PeriodOf(h.today()))
}

func (h *Handler) askReportMonth(t *turn) session.State {
	h.reply(t.chatID, "📅 Escribe el mes (1-12 o nombre, ej: marzo):", cancelKeyboard())
	return StateReportMonth
}

func (h *Handler) reportMonth(t *turn) session.State {
	m, err := ParseMonth(t.text)
	if err != nil {
		h.reply(t.chatID, "❌ Mes inválido. Escribe un número del 1 al 12 o el nombre del mes:", nil)
		return t.sess.State
	}
	t.sess.ReportMonth = m
	h.reply(t.chatID, "📅 Escribe el año (ej: 2025):", nil)
	return StateReportYear
}

func (h *Handler) reportYear(t *turn) session.State {
	y, err := ParseYear(t.text)
	if err != nil {
		h.reply(t.chatID, fmt.Sprintf("❌ Año inválido. Escribe un año entre %d y %d:", domain.MinYear, domain.MaxYear), nil)
		return t.sess.State
	}
	p, err := domain.NewPeriod(y, t.sess.ReportMonth)
	if err != nil {
		return h.showMenu(t, msgExpired)
	}
	return h.sendReport(t, p)
}

// sendReport posts the monthly report. When the itemized text would not fit
// in one message, a summary goes to the chat and the full tables follow as an
// HTML document.
func (h *Handler) sendReport(t *turn, p domain.Period) session.State {
	r, err := h.monthlyReport(t.ctx, p)
	if err != nil {
		return h.fail(t, "monthly_report", err)
	}

	text := h.format.MonthlyText(r, true)
	if utf8.RuneCountInString(text) <= maxMessageLen {
		h.replyMarkdown(t.chatID, text, mainKeyboard())
		return StateMenu
	}

	body, err := h.document.Render(r)
	if err != nil {
		return h.fail(t, "render_report", err)
	}
	h.replyMarkdown(t.chatID, h.format.MonthlyText(r, false), mainKeyboard())

	doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FileBytes{Name: report.FileName(p), Bytes: body})
	doc.Caption = fmt.Sprintf("Informe %s %d", report.MonthName(p.Month), p.Year)
	h.send(doc)
	return StateMenu
}
