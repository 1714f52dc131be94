package bot

import (
	"context"
	"sort"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/repo"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) messages() []tgbotapi.MessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range s.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *fakeSender) documents() []tgbotapi.DocumentConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tgbotapi.DocumentConfig
	for _, c := range s.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok {
			out = append(out, d)
		}
	}
	return out
}

func (s *fakeSender) lastText() string {
	msgs := s.messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Text
}

type fakePayments struct {
	mu     sync.Mutex
	items  map[int64]domain.Payment
	nextID int64
	err    error
	panics bool
}

func newFakePayments() *fakePayments {
	return &fakePayments{items: map[int64]domain.Payment{}}
}

func (f *fakePayments) Create(_ context.Context, p domain.Payment) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Payment{}, f.err
	}
	for _, x := range f.items {
		if strings.EqualFold(x.Payer, p.Payer) && x.PaidOn.Equal(p.PaidOn) {
			return domain.Payment{}, domain.ErrDuplicate
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.items[p.ID] = p
	return p, nil
}

func (f *fakePayments) Get(_ context.Context, id int64) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(id)
}

func (f *fakePayments) get(id int64) (domain.Payment, error) {
	if f.err != nil {
		return domain.Payment{}, f.err
	}
	p, ok := f.items[id]
	if !ok {
		return domain.Payment{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePayments) Delete(_ context.Context, id int64) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return p, err
	}
	delete(f.items, id)
	return p, nil
}

func (f *fakePayments) UpdateAmount(_ context.Context, id int64, amount decimal.Decimal) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return p, err
	}
	p.Amount = amount
	f.items[id] = p
	return p, nil
}

func (f *fakePayments) sorted() []domain.Payment {
	out := make([]domain.Payment, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaidOn.Equal(out[j].PaidOn) {
			return out[i].PaidOn.Before(out[j].PaidOn)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakePayments) Latest(_ context.Context, n int) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	all := f.sorted()
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (f *fakePayments) InPeriod(_ context.Context, p domain.Period) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Payment
	for _, x := range f.sorted() {
		if domain.PeriodOf(x.PaidOn) == p {
			out = append(out, x)
		}
	}
	return out, nil
}

func (f *fakePayments) Total(_ context.Context, p *domain.Period) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return decimal.Zero, f.err
	}
	sum := decimal.Zero
	for _, x := range f.items {
		if p == nil || domain.PeriodOf(x.PaidOn) == *p {
			sum = sum.Add(x.Amount)
		}
	}
	return sum, nil
}

func (f *fakePayments) PayersInMonth(_ context.Context, p domain.Period) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for _, x := range f.items {
		if domain.PeriodOf(x.PaidOn) == p {
			out = append(out, x.Payer)
		}
	}
	return out, nil
}

type fakeExpenses struct {
	mu     sync.Mutex
	items  map[int64]domain.Expense
	nextID int64
}

func newFakeExpenses() *fakeExpenses {
	return &fakeExpenses{items: map[int64]domain.Expense{}}
}

func (f *fakeExpenses) Create(_ context.Context, e domain.Expense) (domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	f.items[e.ID] = e
	return e, nil
}

func (f *fakeExpenses) Get(_ context.Context, id int64) (domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(id)
}

func (f *fakeExpenses) get(id int64) (domain.Expense, error) {
	e, ok := f.items[id]
	if !ok {
		return domain.Expense{}, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeExpenses) Delete(_ context.Context, id int64) (domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, err := f.get(id)
	if err != nil {
		return e, err
	}
	delete(f.items, id)
	return e, nil
}

func (f *fakeExpenses) UpdateAmount(_ context.Context, id int64, amount decimal.Decimal) (domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, err := f.get(id)
	if err != nil {
		return e, err
	}
	e.Amount = amount
	f.items[id] = e
	return e, nil
}

func (f *fakeExpenses) all() []domain.Expense {
	out := make([]domain.Expense, 0, len(f.items))
	for _, e := range f.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeExpenses) Latest(_ context.Context, n int) ([]domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.all()
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (f *fakeExpenses) InPeriod(_ context.Context, p domain.Period) ([]domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Expense
	for _, e := range f.all() {
		if domain.PeriodOf(e.SpentOn) == p {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenses) Total(_ context.Context, p *domain.Period) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := decimal.Zero
	for _, e := range f.items {
		if p == nil || domain.PeriodOf(e.SpentOn) == *p {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// fakeTenants enforces the same uniqueness as the tenants.name_key column.
type fakeTenants struct {
	mu     sync.Mutex
	items  map[int64]domain.Tenant
	nextID int64
}

func newFakeTenants() *fakeTenants {
	return &fakeTenants{items: map[int64]domain.Tenant{}}
}

func (f *fakeTenants) Create(_ context.Context, name string) (domain.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.items {
		if repo.TenantKey(x.Name) == repo.TenantKey(name) {
			return domain.Tenant{}, domain.ErrDuplicate
		}
	}
	f.nextID++
	tn := domain.Tenant{ID: f.nextID, Name: name, Active: true}
	f.items[tn.ID] = tn
	return tn, nil
}

func (f *fakeTenants) Get(_ context.Context, id int64) (domain.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tn, ok := f.items[id]
	if !ok {
		return domain.Tenant{}, domain.ErrNotFound
	}
	return tn, nil
}

func (f *fakeTenants) List(_ context.Context, active *bool) ([]domain.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Tenant
	for _, tn := range f.items {
		if active == nil || tn.Active == *active {
			out = append(out, tn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTenants) SetActive(_ context.Context, id int64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tn, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	tn.Active = active
	f.items[id] = tn
	return nil
}

func (f *fakeTenants) SetPayDay(_ context.Context, id int64, day int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tn, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	tn.PayDay = &day
	f.items[id] = tn
	return nil
}
