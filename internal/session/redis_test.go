package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	st, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), ttl)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st, mr
}

func TestRedisStoreMissingKeyIsFresh(t *testing.T) {
	st, _ := newTestRedis(t, time.Hour)
	s, err := st.Get(context.Background(), 9)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.UserID != 9 || s.State != "" || s.LastRecord != nil {
		t.Fatalf("expected fresh session, got %+v", s)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	st, mr := newTestRedis(t, time.Hour)
	ctx := context.Background()

	amount := decimal.RequireFromString("3000.50")
	in := Session{
		UserID:        1,
		State:         "PAYMENT_AWAIT_NAME",
		PendingAmount: &amount,
		LastRecord:    &domain.RecordRef{Kind: domain.KindExpense, ID: 12},
	}
	if err := st.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL(key(1)); ttl != time.Hour {
		t.Fatalf("ttl = %v", ttl)
	}

	out, err := st.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.State != in.State || out.PendingAmount == nil || !out.PendingAmount.Equal(amount) {
		t.Fatalf("round trip lost data: %+v", out)
	}
	if out.LastRecord == nil || *out.LastRecord != *in.LastRecord {
		t.Fatalf("last record = %+v", out.LastRecord)
	}
	if out.UpdatedAt.IsZero() {
		t.Fatal("updated_at not stamped")
	}

	other, _ := st.Get(ctx, 2)
	if other.State != "" {
		t.Fatalf("user 2 sees foreign state: %+v", other)
	}

	if err := st.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(key(1)) {
		t.Fatal("key still present after delete")
	}
}

func TestRedisStoreExpires(t *testing.T) {
	st, mr := newTestRedis(t, time.Minute)
	ctx := context.Background()

	_ = st.Save(ctx, Session{UserID: 5, State: "REPORT_AWAIT_YEAR"})
	mr.FastForward(30 * time.Second)
	if s, _ := st.Get(ctx, 5); s.State != "REPORT_AWAIT_YEAR" {
		t.Fatalf("expired too early: %+v", s)
	}

	mr.FastForward(time.Minute)
	s, err := st.Get(ctx, 5)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if s.State != "" {
		t.Fatalf("expected expiry, got %+v", s)
	}
}

func TestRedisStoreCorruptEntry(t *testing.T) {
	st, mr := newTestRedis(t, time.Hour)
	if err := mr.Set(key(3), "{not json"); err != nil {
		t.Fatal(err)
	}

	s, err := st.Get(context.Background(), 3)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	if s.UserID != 3 || s.State != "" {
		t.Fatalf("expected fresh session, got %+v", s)
	}
	if mr.Exists(key(3)) {
		t.Fatal("corrupt entry kept")
	}

	if _, err := st.Get(context.Background(), 3); err != nil {
		t.Fatalf("second read should be clean: %v", err)
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), "redis://"+addr, time.Minute)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}
