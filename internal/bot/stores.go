package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
)

// Sender delivers outgoing chat messages. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)
	Get(ctx context.Context, id int64) (domain.Payment, error)
	Delete(ctx context.Context, id int64) (domain.Payment, error)
	UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) (domain.Payment, error)
	Latest(ctx context.Context, n int) ([]domain.Payment, error)
	InPeriod(ctx context.Context, period domain.Period) ([]domain.Payment, error)
	Total(ctx context.Context, period *domain.Period) (decimal.Decimal, error)
	PayersInMonth(ctx context.Context, period domain.Period) ([]string, error)
}

type ExpenseStore interface {
	Create(ctx context.Context, e domain.Expense) (domain.Expense, error)
	Get(ctx context.Context, id int64) (domain.Expense, error)
	Delete(ctx context.Context, id int64) (domain.Expense, error)
	UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) (domain.Expense, error)
	Latest(ctx context.Context, n int) ([]domain.Expense, error)
	InPeriod(ctx context.Context, period domain.Period) ([]domain.Expense, error)
	Total(ctx context.Context, period *domain.Period) (decimal.Decimal, error)
}

type TenantStore interface {
	Create(ctx context.Context, name string) (domain.Tenant, error)
	Get(ctx context.Context, id int64) (domain.Tenant, error)
	List(ctx context.Context, active *bool) ([]domain.Tenant, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SetPayDay(ctx context.Context, id int64, day int) error
}

// Stores groups the persistence dependencies of the handler.
type Stores struct {
	Payments PaymentStore
	Expenses ExpenseStore
	Tenants  TenantStore
}
