package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/ledger"
)

type Tenants struct{ pool *pgxpool.Pool }

func NewTenants(p *pgxpool.Pool) *Tenants { return &Tenants{pool: p} }

func scanTenant(row pgx.Row) (domain.Tenant, error) {
	var t domain.Tenant
	var payDay *int16
	if err := row.Scan(&t.ID, &t.Name, &t.Active, &payDay); err != nil {
		return domain.Tenant{}, mapErr(err)
	}
	if payDay != nil {
		d := int(*payDay)
		t.PayDay = &d
	}
	return t, nil
}

// TenantKey is the value stored in tenants.name_key. Two names with the same
// key are the same tenant.
func TenantKey(name string) string {
	return ledger.NormalizeName(name)
}

// Create adds an active tenant. Names are unique ignoring case and accents
// across active and inactive tenants; a clash returns domain.ErrDuplicate.
func (r *Tenants) Create(ctx context.Context, name string) (domain.Tenant, error) {
	t := domain.Tenant{Name: strings.Join(strings.Fields(name), " "), Active: true}
	if err := domain.Validate(t); err != nil {
		return domain.Tenant{}, err
	}
	created, err := scanTenant(r.pool.QueryRow(ctx, `
		INSERT INTO tenants(name, name_key) VALUES($1, $2)
		RETURNING id, name, active, pay_day
	`, t.Name, TenantKey(t.Name)))
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("insert tenant: %w", err)
	}
	return created, nil
}

// BackfillKeys sets name_key on tenants stored before the column existed and
// returns how many rows it filled. A row whose key is already taken is
// reported as domain.ErrDuplicate and left empty.
func (r *Tenants) BackfillKeys(ctx context.Context) (int, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM tenants WHERE name_key IS NULL ORDER BY id`)
	if err != nil {
		return 0, err
	}
	type pendingKey struct {
		id   int64
		name string
	}
	var pending []pendingKey
	for rows.Next() {
		var p pendingKey
		if err := rows.Scan(&p.id, &p.name); err != nil {
			rows.Close()
			return 0, err
		}
		pending = append(pending, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	filled := 0
	var clashes []string
	for _, p := range pending {
		_, err := r.pool.Exec(ctx, `UPDATE tenants SET name_key=$2 WHERE id=$1`, p.id, TenantKey(p.name))
		if err = mapErr(err); errors.Is(err, domain.ErrDuplicate) {
			clashes = append(clashes, p.name)
			continue
		}
		if err != nil {
			return filled, fmt.Errorf("backfill tenant %d: %w", p.id, err)
		}
		filled++
	}
	if len(clashes) > 0 {
		return filled, fmt.Errorf("%w: tenant names %s", domain.ErrDuplicate, strings.Join(clashes, ", "))
	}
	return filled, nil
}

func (r *Tenants) Get(ctx context.Context, id int64) (domain.Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx, `SELECT id, name, active, pay_day FROM tenants WHERE id=$1`, id))
}

// List returns tenants ordered by name; active filters by status when set.
func (r *Tenants) List(ctx context.Context, active *bool) ([]domain.Tenant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, active, pay_day
		FROM tenants
		WHERE $1::boolean IS NULL OR active = $1
		ORDER BY name_key, id
	`, active)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Tenant, 0, 16)
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Tenants) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tenants SET active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Tenants) SetPayDay(ctx context.Context, id int64, day int) error {
	if day < 1 || day > 31 {
		return fmt.Errorf("%w: pay day %d", domain.ErrInvalid, day)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE tenants SET pay_day=$2 WHERE id=$1`, id, day)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
