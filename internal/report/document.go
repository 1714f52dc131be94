package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/ledger"
)

const monthlyHTMLTemplate = `<!doctype html>
<html lang="es">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 32px; font-family: "Helvetica Neue", Arial, sans-serif; color: #111827; }
    .report { max-width: 820px; margin: 0 auto; }
    h1 { border-bottom: 2px solid #1e3a8a; padding-bottom: 12px; }
    h2 { margin-top: 28px; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 8px 10px; border: 1px solid #d1d5db; }
    th { color: #ffffff; text-align: center; }
    .payments th { background: #1e3a8a; }
    .payments td { background: #dbeafe; }
    .expenses th { background: #7f1d1d; }
    .expenses td { background: #fee2e2; }
    .summary td:last-child, td.amount { text-align: right; }
    .net td { font-weight: bold; }
    .empty { color: #6b7280; font-style: italic; }
  </style>
</head>
<body>
  <div class="report">
    <h1>{{.Title}}</h1>

    <h2>Resumen Financiero</h2>
    <table class="summary">
      <tr><td><b>Ingresos Totales:</b></td><td>{{money .Summary.Income}}</td></tr>
      <tr><td><b>Gastos Totales:</b></td><td>{{money .Summary.Expenses}}</td></tr>
      <tr><td><b>{{.CommissionLabel}}:</b></td><td>{{money .Summary.Commission}}</td></tr>
      <tr class="net"><td>Monto Neto a Entregar:</td><td>{{money .Summary.Net}}</td></tr>
    </table>

    <h2>Detalle de Pagos Recibidos</h2>
    {{if .Payments}}
    <table class="payments">
      <thead><tr><th>Fecha</th><th>Inquilino</th><th>Monto</th></tr></thead>
      <tbody>
        {{range .Payments}}
        <tr><td>{{date .Date}}</td><td>{{.Label}}</td><td class="amount">{{money .Amount}}</td></tr>
        {{end}}
        <tr><td colspan="2"><b>Total</b></td><td class="amount"><b>{{money .PaymentsTotal}}</b></td></tr>
      </tbody>
    </table>
    {{else}}
    <p class="empty">No hay pagos registrados.</p>
    {{end}}

    <h2>Detalle de Gastos Realizados</h2>
    {{if .Expenses}}
    <table class="expenses">
      <thead><tr><th>Fecha</th><th>Descripción</th><th>Monto</th></tr></thead>
      <tbody>
        {{range .Expenses}}
        <tr><td>{{date .Date}}</td><td>{{.Label}}</td><td class="amount">{{money .Amount}}</td></tr>
        {{end}}
        <tr><td colspan="2"><b>Total</b></td><td class="amount"><b>{{money .ExpensesTotal}}</b></td></tr>
      </tbody>
    </table>
    {{else}}
    <p class="empty">No hay gastos registrados.</p>
    {{end}}
  </div>
</body>
</html>
`

type documentView struct {
	Title           string
	CommissionLabel string
	Summary         domain.Summary
	Payments        []domain.Record
	Expenses        []domain.Record
	PaymentsTotal   decimal.Decimal
	ExpensesTotal   decimal.Decimal
}

// Document renders monthly reports as standalone HTML files.
type Document struct {
	format Format
	tpl    *template.Template
}

func NewDocument(f Format) *Document {
	printer := message.NewPrinter(language.English)
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return groupedMoney(printer, f.Currency, d) },
		"date": func(t time.Time) string { return t.Format(DateLayout) },
	}
	return &Document{
		format: f,
		tpl:    template.Must(template.New("monthly").Funcs(funcs).Parse(monthlyHTMLTemplate)),
	}
}

// groupedMoney rounds exactly like Format.Money and only then inserts
// thousands separators, so both renderings show the same cents.
func groupedMoney(p *message.Printer, currency string, d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, cents, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return currency + sign + fixed
	}
	return currency + sign + p.Sprint(number.Decimal(n)) + "." + cents
}

// FileName is the attachment name for a period, e.g. informe-2025-03.html.
func FileName(p domain.Period) string {
	return fmt.Sprintf("informe-%04d-%02d.html", p.Year, int(p.Month))
}

func (d *Document) Render(r domain.MonthlyReport) ([]byte, error) {
	payments := paymentRecords(r.Payments)
	expenses := expenseRecords(r.Expenses)
	view := documentView{
		Title:           fmt.Sprintf("Informe de Gestión Mensual - %s %d", MonthName(r.Period.Month), r.Period.Year),
		CommissionLabel: d.format.commissionLabel(),
		Summary:         r.Summary,
		Payments:        payments,
		Expenses:        expenses,
		PaymentsTotal:   ledger.Total(payments),
		ExpensesTotal:   ledger.Total(expenses),
	}

	var buf bytes.Buffer
	if err := d.tpl.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
