package ledger

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummarize(t *testing.T) {
	cases := []struct {
		name                    string
		income, expenses, rate  string
		wantCommission, wantNet string
	}{
		{"zeros", "0", "0", "0.05", "0", "0"},
		{"single payment", "3000", "0", "0.05", "150", "2850"},
		{"with expenses", "2000", "150", "0.10", "200", "1650"},
		{"zero rate", "1000", "50", "0", "0", "950"},
		{"full rate", "1000", "0", "1", "1000", "0"},
		{"fractional", "1234.56", "34.56", "0.05", "61.728", "1138.272"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Summarize(dec(tc.income), dec(tc.expenses), dec(tc.rate))
			if !s.Income.Equal(dec(tc.income)) {
				t.Fatalf("income = %s", s.Income)
			}
			if !s.Expenses.Equal(dec(tc.expenses)) {
				t.Fatalf("expenses = %s", s.Expenses)
			}
			if !s.Commission.Equal(dec(tc.wantCommission)) {
				t.Fatalf("commission = %s, want %s", s.Commission, tc.wantCommission)
			}
			if !s.Net.Equal(dec(tc.wantNet)) {
				t.Fatalf("net = %s, want %s", s.Net, tc.wantNet)
			}
		})
	}
}

func TestSummarizeExampleFormatting(t *testing.T) {
	s := Summarize(dec("3000"), decimal.Zero, dec("0.05"))
	got := []string{s.Income.StringFixed(2), s.Commission.StringFixed(2), s.Expenses.StringFixed(2), s.Net.StringFixed(2)}
	want := []string{"3000.00", "150.00", "0.00", "2850.00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTotal(t *testing.T) {
	recs := []domain.Record{{Amount: dec("10.50")}, {Amount: dec("4.50")}}
	if got := Total(recs); !got.Equal(dec("15")) {
		t.Fatalf("total = %s", got)
	}
	if got := Total(nil); !got.IsZero() {
		t.Fatalf("empty total = %s", got)
	}
}

func day(d int) *int { return &d }

func TestDueTenants(t *testing.T) {
	ref := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC) // due date is March 15
	tenants := []domain.Tenant{
		{ID: 1, Name: "Juan", Active: true, PayDay: day(15)},
		{ID: 2, Name: "María", Active: true, PayDay: day(15)},
		{ID: 3, Name: "Pedro", Active: false, PayDay: day(15)},
		{ID: 4, Name: "Luis", Active: true, PayDay: day(20)},
		{ID: 5, Name: "Ana", Active: true},
	}
	paid := map[string]bool{NormalizeName("maria"): true}

	got := DueTenants(tenants, paid, ref)
	if !reflect.DeepEqual(got, []string{"Juan"}) {
		t.Fatalf("due = %v", got)
	}
}

func TestDueTenantsShortMonth(t *testing.T) {
	// Feb 26 + 2 days = Feb 28, the last day of a non-leap February.
	ref := time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC)
	tenants := []domain.Tenant{
		{Name: "Juan", Active: true, PayDay: day(31)},
		{Name: "Ana", Active: true, PayDay: day(28)},
		{Name: "Luis", Active: true, PayDay: day(1)},
	}
	got := DueTenants(tenants, nil, ref)
	if !reflect.DeepEqual(got, []string{"Juan", "Ana"}) {
		t.Fatalf("due = %v", got)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"José  Pérez": "jose perez",
		"  MARÍA ":    "maria",
		"Núñez":       "nunez",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
