package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
)

func TestResetKeepsLastRecord(t *testing.T) {
	amount := decimal.NewFromInt(3000)
	s := Session{
		UserID:        1,
		State:         "PAYMENT_AWAIT_NAME",
		PendingAmount: &amount,
		ReportMonth:   4,
		TenantID:      9,
		Target:        &domain.RecordRef{Kind: domain.KindExpense, ID: 2},
		LastRecord:    &domain.RecordRef{Kind: domain.KindPayment, ID: 7},
	}
	s.Reset()

	if s.State != "" || s.PendingAmount != nil || s.ReportMonth != 0 || s.TenantID != 0 || s.Target != nil {
		t.Fatalf("in-progress data kept: %+v", s)
	}
	if s.LastRecord == nil || s.LastRecord.ID != 7 {
		t.Fatalf("last record lost: %+v", s.LastRecord)
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)

	if err := st.Save(ctx, Session{UserID: 1, State: "EXPENSE_AWAIT_DESC"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	other, err := st.Get(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if other.State != "" || other.UserID != 2 {
		t.Fatalf("user 2 sees foreign state: %+v", other)
	}
	mine, _ := st.Get(ctx, 1)
	if mine.State != "EXPENSE_AWAIT_DESC" {
		t.Fatalf("state = %q", mine.State)
	}

	if err := st.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	mine, _ = st.Get(ctx, 1)
	if mine.State != "" {
		t.Fatalf("state after delete = %q", mine.State)
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	_ = st.Save(ctx, Session{UserID: 5, State: "REPORT_AWAIT_YEAR"})

	now = now.Add(30 * time.Second)
	s, _ := st.Get(ctx, 5)
	if s.State != "REPORT_AWAIT_YEAR" {
		t.Fatalf("expired too early: %+v", s)
	}

	now = now.Add(2 * time.Minute)
	s, _ = st.Get(ctx, 5)
	if s.State != "" {
		t.Fatalf("expected expiry, got %+v", s)
	}
}

func TestSessionJSONKeepsDecimal(t *testing.T) {
	amount := decimal.RequireFromString("1500.50")
	raw, err := json.Marshal(Session{UserID: 3, PendingAmount: &amount})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Session
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.PendingAmount == nil || !back.PendingAmount.Equal(amount) {
		t.Fatalf("amount = %v", back.PendingAmount)
	}
}
