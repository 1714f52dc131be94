package report

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
)

const DateLayout = "02/01/2006"

// Format carries presentation settings shared by chat texts and documents.
type Format struct {
	Currency       string
	CommissionRate decimal.Decimal
}

func (f Format) Money(d decimal.Decimal) string {
	return f.Currency + d.StringFixed(2)
}

func (f Format) commissionLabel() string {
	return fmt.Sprintf("Comisión (%s%%)", f.CommissionRate.Mul(decimal.NewFromInt(100)).String())
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthName returns the capitalized Spanish name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	n := monthNames[m-1]
	return strings.ToUpper(n[:1]) + n[1:]
}

// MonthFromName accepts full Spanish month names and their three-letter
// abbreviations, case-insensitively.
func MonthFromName(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for i, n := range monthNames {
		if s == n || s == n[:3] {
			return time.Month(i + 1), true
		}
	}
	if s == "setiembre" {
		return time.September, true
	}
	return 0, false
}

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + esc(s) + "*"
}

func (f Format) writeSummary(b *strings.Builder, s domain.Summary) {
	fmt.Fprintf(b, "💰 %s %s\n", bold("Total Ingresos:"), esc(f.Money(s.Income)))
	fmt.Fprintf(b, "💼 %s %s\n", bold(f.commissionLabel()+":"), esc(f.Money(s.Commission)))
	fmt.Fprintf(b, "💸 %s %s\n", bold("Total Gastos:"), esc(f.Money(s.Expenses)))
	fmt.Fprintf(b, "🏦 %s %s\n", bold("Monto Neto:"), esc(f.Money(s.Net)))
}

func (f Format) writeRecords(b *strings.Builder, title, empty string, recs []domain.Record, dateFirst bool) {
	fmt.Fprintf(b, "\n%s\n", title)
	if len(recs) == 0 {
		b.WriteString(esc(empty) + "\n")
		return
	}
	for i, r := range recs {
		var line string
		if dateFirst {
			line = fmt.Sprintf("%d. %s %s: %s", i+1, r.Date.Format(DateLayout), r.Label, f.Money(r.Amount))
		} else {
			line = fmt.Sprintf("%d. %s: %s (%s)", i+1, r.Label, f.Money(r.Amount), r.Date.Format(DateLayout))
		}
		b.WriteString(esc(line) + "\n")
	}
}

// SummaryText renders the all-time overview as MarkdownV2.
func (f Format) SummaryText(ov domain.Overview) string {
	var b strings.Builder
	b.WriteString("📊 " + bold("RESUMEN DE ALQUILERES") + "\n\n")
	f.writeSummary(&b, ov.Summary)
	f.writeRecords(&b, "📥 "+bold("Últimos Pagos:"), "No hay pagos registrados", paymentRecords(ov.LatestPayments), false)
	f.writeRecords(&b, "💸 "+bold("Últimos Gastos:"), "No hay gastos registrados", expenseRecords(ov.LatestExpenses), false)
	return b.String()
}

// MonthlyText renders a monthly report as MarkdownV2. Without itemized the
// record lists are left out and a pointer to the attachment is added.
func (f Format) MonthlyText(r domain.MonthlyReport, itemized bool) string {
	var b strings.Builder
	title := fmt.Sprintf("INFORME MENSUAL %s %d", strings.ToUpper(MonthName(r.Period.Month)), r.Period.Year)
	b.WriteString("📈 " + bold(title) + "\n\n")
	f.writeSummary(&b, r.Summary)
	if !itemized {
		b.WriteString("\n" + esc("📎 El detalle de pagos y gastos va en el documento adjunto.") + "\n")
		return b.String()
	}
	f.writeRecords(&b, "📥 "+bold("Pagos del mes:"), "No hay pagos registrados", paymentRecords(r.Payments), true)
	f.writeRecords(&b, "💸 "+bold("Gastos del mes:"), "No hay gastos registrados", expenseRecords(r.Expenses), true)
	return b.String()
}

func paymentRecords(ps []domain.Payment) []domain.Record {
	out := make([]domain.Record, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Record())
	}
	return out
}

func expenseRecords(es []domain.Expense) []domain.Record {
	out := make([]domain.Record, 0, len(es))
	for _, e := range es {
		out = append(out, e.Record())
	}
	return out
}
