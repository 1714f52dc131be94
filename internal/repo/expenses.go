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

type Expenses struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

func NewExpenses(p *pgxpool.Pool, loc *time.Location) *Expenses {
	return &Expenses{pool: p, loc: loc}
}

const expenseColumns = `id, spent_on, description, amount, created_by, created_at`

func (r *Expenses) scan(row pgx.Row) (domain.Expense, error) {
	var e domain.Expense
	if err := row.Scan(&e.ID, &e.SpentOn, &e.Description, &e.Amount, &e.CreatedBy, &e.CreatedAt); err != nil {
		return domain.Expense{}, mapErr(err)
	}
	e.SpentOn = localDate(e.SpentOn, r.loc)
	return e, nil
}

func (r *Expenses) scanAll(rows pgx.Rows) ([]domain.Expense, error) {
	defer rows.Close()
	out := make([]domain.Expense, 0, 8)
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Expenses) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	if err := domain.Validate(e); err != nil {
		return domain.Expense{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses(spent_on, description, amount, created_by)
		VALUES($1,$2,$3,$4)
		RETURNING `+expenseColumns,
		e.SpentOn.Format(dateLayout), e.Description, e.Amount, e.CreatedBy)
	created, err := r.scan(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return created, nil
}

func (r *Expenses) Get(ctx context.Context, id int64) (domain.Expense, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id=$1`, id))
}

// Delete removes an expense under a row lock and returns what was removed.
func (r *Expenses) Delete(ctx context.Context, id int64) (domain.Expense, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Expense{}, err
	}
	defer tx.Rollback(ctx)

	e, err := r.scan(tx.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return domain.Expense{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM expenses WHERE id=$1`, id); err != nil {
		return domain.Expense{}, fmt.Errorf("delete expense %d: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Expense{}, err
	}
	return e, nil
}

func (r *Expenses) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) (domain.Expense, error) {
	if amount.IsNegative() {
		return domain.Expense{}, fmt.Errorf("%w: negative amount", domain.ErrInvalid)
	}
	return r.scan(r.pool.QueryRow(ctx, `
		UPDATE expenses SET amount=$2
		WHERE id=$1
		RETURNING `+expenseColumns, id, amount))
}

func (r *Expenses) Latest(ctx context.Context, n int) ([]domain.Expense, error) {
	if n <= 0 {
		n = 3
	}
	rows, err := r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY id DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *Expenses) InPeriod(ctx context.Context, period domain.Period) ([]domain.Expense, error) {
	from, to := period.Bounds(r.loc)
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE spent_on >= $1 AND spent_on < $2
		ORDER BY spent_on, id
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *Expenses) Total(ctx context.Context, period *domain.Period) (decimal.Decimal, error) {
	var total decimal.Decimal
	var err error
	if period == nil {
		err = r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount),0) FROM expenses`).Scan(&total)
	} else {
		from, to := period.Bounds(r.loc)
		err = r.pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount),0) FROM expenses
			WHERE spent_on >= $1 AND spent_on < $2
		`, from.Format(dateLayout), to.Format(dateLayout)).Scan(&total)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}
