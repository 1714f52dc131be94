package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/ledger"
	"github.com/yourname/alquiler-bot/internal/session"
)

const msgBadAmount = "❌ Monto inválido. Escribe solo números, por ejemplo 3000 o 3,000.50:"

func (h *Handler) startPayment(t *turn) session.State {
	h.reply(t.chatID, "💵 Escribe el monto del pago recibido (ej: 3000):", cancelKeyboard())
	return StatePaymentAmount
}

func (h *Handler) paymentAmount(t *turn) session.State {
	amount, err := ParseAmount(t.text)
	if err != nil {
		h.reply(t.chatID, msgBadAmount, nil)
		return t.sess.State
	}
	t.sess.PendingAmount = &amount

	tenants, err := h.tenantsByStatus(t.ctx, true)
	if err != nil {
		return h.fail(t, "list_tenants", err)
	}
	kb := cancelKeyboard()
	if len(tenants) > 0 {
		kb = namesKeyboard(tenantNames(tenants))
	}
	h.reply(t.chatID, fmt.Sprintf("Monto: %s\n👤 Escribe o selecciona el nombre del inquilino:", h.format.Money(amount)), kb)
	return StatePaymentName
}

func (h *Handler) paymentName(t *turn) session.State {
	if t.sess.PendingAmount == nil {
		return h.showMenu(t, msgExpired)
	}
	name, err := CleanText(t.text, maxNameLen)
	if err != nil {
		h.reply(t.chatID, "❌ Nombre inválido: "+err.Error()+". Escribe el nombre del inquilino:", nil)
		return t.sess.State
	}

	// with a tenant directory in place only known active tenants may pay
	tenants, err := h.tenantsByStatus(t.ctx, true)
	if err != nil {
		return h.fail(t, "list_tenants", err)
	}
	if len(tenants) > 0 {
		tn, ok := matchTenant(tenants, name)
		if !ok {
			h.reply(t.chatID, "❌ No encontré un inquilino activo con ese nombre. Selecciónalo de la lista:", namesKeyboard(tenantNames(tenants)))
			return t.sess.State
		}
		name = tn.Name
	}

	today := h.today()
	p, err := h.stores.Payments.Create(t.ctx, domain.Payment{
		PaidOn:    today,
		Payer:     name,
		Amount:    *t.sess.PendingAmount,
		CreatedBy: t.userID,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return h.showMenu(t, fmt.Sprintf("⚠️ Ya existe un pago de %s con fecha %s.", name, formatDate(today)))
	}
	if err != nil {
		return h.fail(t, "create_payment", err)
	}

	rec := p.Record()
	t.sess.LastRecord = &rec.Ref
	h.metrics.Record(string(domain.KindPayment), "create")
	h.log.WithFields(logrus.Fields{"user_id": t.userID, "payment_id": p.ID}).Info("payment registered")

	return h.showMenu(t, "✅ Pago registrado correctamente:\n"+h.describe(rec))
}

func (h *Handler) startExpense(t *turn) session.State {
	h.reply(t.chatID, "💸 Escribe el monto del gasto (ej: 500):", cancelKeyboard())
	return StateExpenseAmount
}

func (h *Handler) expenseAmount(t *turn) session.State {
	amount, err := ParseAmount(t.text)
	if err != nil {
		h.reply(t.chatID, msgBadAmount, nil)
		return t.sess.State
	}
	t.sess.PendingAmount = &amount
	h.reply(t.chatID, fmt.Sprintf("Monto: %s\n📝 Escribe la descripción del gasto:", h.format.Money(amount)), cancelKeyboard())
	return StateExpenseDesc
}

func (h *Handler) expenseDescription(t *turn) session.State {
	if t.sess.PendingAmount == nil {
		return h.showMenu(t, msgExpired)
	}
	desc, err := CleanText(t.text, maxDescriptionLen)
	if err != nil {
		h.reply(t.chatID, "❌ Descripción inválida: "+err.Error()+". Escribe la descripción del gasto:", nil)
		return t.sess.State
	}

	e, err := h.stores.Expenses.Create(t.ctx, domain.Expense{
		SpentOn:     h.today(),
		Description: desc,
		Amount:      *t.sess.PendingAmount,
		CreatedBy:   t.userID,
	})
	if err != nil {
		return h.fail(t, "create_expense", err)
	}

	rec := e.Record()
	t.sess.LastRecord = &rec.Ref
	h.metrics.Record(string(domain.KindExpense), "create")
	h.log.WithFields(logrus.Fields{"user_id": t.userID, "expense_id": e.ID}).Info("expense registered")

	return h.showMenu(t, "✅ Gasto registrado correctamente:\n"+h.describe(rec))
}

// describe renders a record as a few labelled plain-text lines.
func (h *Handler) describe(r domain.Record) string {
	label := "👤 Inquilino"
	if r.Ref.Kind == domain.KindExpense {
		label = "📝 Descripción"
	}
	return fmt.Sprintf("📅 Fecha: %s\n%s: %s\n💵 Monto: %s", formatDate(r.Date), label, r.Label, h.format.Money(r.Amount))
}

func (h *Handler) loadRecord(ctx context.Context, ref domain.RecordRef) (domain.Record, error) {
	switch ref.Kind {
	case domain.KindPayment:
		p, err := h.stores.Payments.Get(ctx, ref.ID)
		return p.Record(), err
	case domain.KindExpense:
		e, err := h.stores.Expenses.Get(ctx, ref.ID)
		return e.Record(), err
	}
	return domain.Record{}, fmt.Errorf("%w: record kind %q", domain.ErrInvalid, ref.Kind)
}

func (h *Handler) deleteRecord(ctx context.Context, ref domain.RecordRef) (domain.Record, error) {
	switch ref.Kind {
	case domain.KindPayment:
		p, err := h.stores.Payments.Delete(ctx, ref.ID)
		return p.Record(), err
	case domain.KindExpense:
		e, err := h.stores.Expenses.Delete(ctx, ref.ID)
		return e.Record(), err
	}
	return domain.Record{}, fmt.Errorf("%w: record kind %q", domain.ErrInvalid, ref.Kind)
}

func (h *Handler) updateRecordAmount(ctx context.Context, ref domain.RecordRef, amount decimal.Decimal) (domain.Record, error) {
	switch ref.Kind {
	case domain.KindPayment:
		p, err := h.stores.Payments.UpdateAmount(ctx, ref.ID, amount)
		return p.Record(), err
	case domain.KindExpense:
		e, err := h.stores.Expenses.UpdateAmount(ctx, ref.ID, amount)
		return e.Record(), err
	}
	return domain.Record{}, fmt.Errorf("%w: record kind %q", domain.ErrInvalid, ref.Kind)
}

// matchTenant resolves name to a tenant. An exact match wins over a folded
// one so a keyboard tap always selects the row it shows.
func matchTenant(tenants []domain.Tenant, name string) (domain.Tenant, bool) {
	for _, tn := range tenants {
		if tn.Name == name {
			return tn, true
		}
	}
	key := ledger.NormalizeName(name)
	for _, tn := range tenants {
		if ledger.NormalizeName(tn.Name) == key {
			return tn, true
		}
	}
	return domain.Tenant{}, false
}

func tenantNames(tenants []domain.Tenant) []string {
	out := make([]string, 0, len(tenants))
	for _, tn := range tenants {
		out = append(out, tn.Name)
	}
	return out
}
