package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
)

// Summarize derives commission and net from income and expenses.
// Results are exact; rounding happens only when formatting.
func Summarize(income, expenses, rate decimal.Decimal) domain.Summary {
	commission := income.Mul(rate)
	return domain.Summary{
		Income:     income,
		Commission: commission,
		Expenses:   expenses,
		Net:        income.Sub(commission).Sub(expenses),
	}
}

// Total sums record amounts.
func Total(records []domain.Record) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	return sum
}
