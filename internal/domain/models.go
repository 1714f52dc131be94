package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID        int64
	PaidOn    time.Time // date-only semantics
	Payer     string          `validate:"required,max=100"`
	Amount    decimal.Decimal `validate:"gte=0"`
	CreatedBy int64
	CreatedAt time.Time
}

type Expense struct {
	ID          int64
	SpentOn     time.Time // date-only semantics
	Description string          `validate:"required,max=200"`
	Amount      decimal.Decimal `validate:"gte=0"`
	CreatedBy   int64
	CreatedAt   time.Time
}

type Tenant struct {
	ID     int64
	Name   string `validate:"required,max=100"`
	Active bool
	PayDay *int `validate:"omitempty,min=1,max=31"`
}

// Summary is derived from the record sets and never stored.
type Summary struct {
	Income     decimal.Decimal
	Commission decimal.Decimal
	Expenses   decimal.Decimal
	Net        decimal.Decimal
}

// RecordKind tells payments and expenses apart for undo and edit.
type RecordKind string

const (
	KindPayment RecordKind = "payment"
	KindExpense RecordKind = "expense"
)

// RecordRef points at a stored payment or expense.
type RecordRef struct {
	Kind RecordKind `json:"kind"`
	ID   int64      `json:"id"`
}

// Record is the common view of a payment or expense used by undo and reports.
type Record struct {
	Ref    RecordRef
	Date   time.Time
	Label  string // payer or description
	Amount decimal.Decimal
}

func (p Payment) Record() Record {
	return Record{Ref: RecordRef{Kind: KindPayment, ID: p.ID}, Date: p.PaidOn, Label: p.Payer, Amount: p.Amount}
}

func (e Expense) Record() Record {
	return Record{Ref: RecordRef{Kind: KindExpense, ID: e.ID}, Date: e.SpentOn, Label: e.Description, Amount: e.Amount}
}

// Overview is the all-time summary with the most recent records, newest first.
type Overview struct {
	Summary        Summary
	LatestPayments []Payment
	LatestExpenses []Expense
}

// MonthlyReport holds one month's summary with chronological record lists.
type MonthlyReport struct {
	Period   Period
	Summary  Summary
	Payments []Payment
	Expenses []Expense
}
