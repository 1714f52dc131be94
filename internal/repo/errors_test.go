package repo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourname/alquiler-bot/internal/domain"
)

func TestMapErr(t *testing.T) {
	if mapErr(nil) != nil {
		t.Fatal("nil should stay nil")
	}
	if err := mapErr(pgx.ErrNoRows); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("no rows mapped to %v", err)
	}
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if err := mapErr(dup); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("unique violation mapped to %v", err)
	}
	other := &pgconn.PgError{Code: "23514"}
	if err := mapErr(other); err != other {
		t.Fatalf("check violation should pass through, got %v", err)
	}
}

func TestLocalDate(t *testing.T) {
	loc := time.FixedZone("AST", -4*3600)
	scanned := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	got := localDate(scanned, loc)
	if got.Day() != 30 || got.Month() != time.June || got.Location() != loc {
		t.Fatalf("local date = %v", got)
	}
}
