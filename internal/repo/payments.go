package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
)

type Payments struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

func NewPayments(p *pgxpool.Pool, loc *time.Location) *Payments {
	return &Payments{pool: p, loc: loc}
}

const paymentColumns = `id, paid_on, payer, amount, created_by, created_at`

func (r *Payments) scan(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.PaidOn, &p.Payer, &p.Amount, &p.CreatedBy, &p.CreatedAt); err != nil {
		return domain.Payment{}, mapErr(err)
	}
	p.PaidOn = localDate(p.PaidOn, r.loc)
	return p, nil
}

func (r *Payments) scanAll(rows pgx.Rows) ([]domain.Payment, error) {
	defer rows.Close()
	out := make([]domain.Payment, 0, 8)
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create stores a payment. A second payment from the same payer on the same
// date fails with domain.ErrDuplicate.
func (r *Payments) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	if err := domain.Validate(p); err != nil {
		return domain.Payment{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments(paid_on, payer, amount, created_by)
		VALUES($1,$2,$3,$4)
		RETURNING `+paymentColumns,
		p.PaidOn.Format(dateLayout), p.Payer, p.Amount, p.CreatedBy)
	created, err := r.scan(row)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	return created, nil
}

func (r *Payments) Get(ctx context.Context, id int64) (domain.Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id)
	return r.scan(row)
}

// Delete removes a payment under a row lock and returns what was removed.
func (r *Payments) Delete(ctx context.Context, id int64) (domain.Payment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Payment{}, err
	}
	defer tx.Rollback(ctx)

	p, err := r.scan(tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return domain.Payment{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id); err != nil {
		return domain.Payment{}, fmt.Errorf("delete payment %d: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}

func (r *Payments) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) (domain.Payment, error) {
	if amount.IsNegative() {
		return domain.Payment{}, fmt.Errorf("%w: negative amount", domain.ErrInvalid)
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE payments SET amount=$2
		WHERE id=$1
		RETURNING `+paymentColumns, id, amount)
	return r.scan(row)
}

// Latest returns the n most recently created payments, newest first.
func (r *Payments) Latest(ctx context.Context, n int) ([]domain.Payment, error) {
	if n <= 0 {
		n = 3
	}
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY id DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

// InPeriod returns the payments of one month in chronological order.
func (r *Payments) InPeriod(ctx context.Context, period domain.Period) ([]domain.Payment, error) {
	from, to := period.Bounds(r.loc)
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE paid_on >= $1 AND paid_on < $2
		ORDER BY paid_on, id
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

// Total sums all payments, or only one month's when period is not nil.
func (r *Payments) Total(ctx context.Context, period *domain.Period) (decimal.Decimal, error) {
	var total decimal.Decimal
	var err error
	if period == nil {
		err = r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount),0) FROM payments`).Scan(&total)
	} else {
		from, to := period.Bounds(r.loc)
		err = r.pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount),0) FROM payments
			WHERE paid_on >= $1 AND paid_on < $2
		`, from.Format(dateLayout), to.Format(dateLayout)).Scan(&total)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}

// PayersInMonth lists distinct payer names with a payment in the period.
func (r *Payments) PayersInMonth(ctx context.Context, period domain.Period) ([]string, error) {
	from, to := period.Bounds(r.loc)
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT payer FROM payments
		WHERE paid_on >= $1 AND paid_on < $2
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
