package bot

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/session"
)

func recordNoun(k domain.RecordKind) string {
	if k == domain.KindExpense {
		return "gasto"
	}
	return "pago"
}

func recordTitle(k domain.RecordKind) string {
	if k == domain.KindExpense {
		return "Gasto"
	}
	return "Pago"
}

func (h *Handler) showUndoMenu(t *turn) session.State {
	h.reply(t.chatID, "🗑️ ¿Qué quieres deshacer?", undoKeyboard())
	return StateUndoMenu
}

func (h *Handler) undoLastPayment(t *turn) session.State {
	return h.pickLastRecord(t, domain.KindPayment)
}

func (h *Handler) undoLastExpense(t *turn) session.State {
	return h.pickLastRecord(t, domain.KindExpense)
}

// pickLastRecord shows the user's last registered record of kind and asks
// whether to delete it or correct its amount.
func (h *Handler) pickLastRecord(t *turn, kind domain.RecordKind) session.State {
	ref := t.sess.LastRecord
	if ref == nil || ref.Kind != kind {
		return h.showMenu(t, fmt.Sprintf("ℹ️ No tienes ningún %s reciente para deshacer.", recordNoun(kind)))
	}

	rec, err := h.loadRecord(t.ctx, *ref)
	if errors.Is(err, domain.ErrNotFound) {
		t.sess.LastRecord = nil
		return h.showMenu(t, "⚠️ Ese registro ya no existe.")
	}
	if err != nil {
		return h.fail(t, "load_record", err)
	}

	target := rec.Ref
	t.sess.Target = &target
	h.reply(t.chatID, fmt.Sprintf("Último %s registrado:\n%s\n\n¿Qué quieres hacer?", recordNoun(kind), h.describe(rec)), confirmKeyboard())
	return StateConfirmDelete
}

func (h *Handler) confirmDelete(t *turn) session.State {
	if t.sess.Target == nil {
		return h.showMenu(t, msgExpired)
	}
	ref := *t.sess.Target

	rec, err := h.deleteRecord(t.ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		h.forget(t, ref)
		return h.showMenu(t, "⚠️ Ese registro ya no existe.")
	}
	if err != nil {
		return h.fail(t, "delete_record", err)
	}

	h.forget(t, ref)
	h.metrics.Record(string(ref.Kind), "delete")
	h.log.WithFields(logrus.Fields{"user_id": t.userID, "kind": ref.Kind, "id": ref.ID}).Info("record deleted")

	return h.showMenu(t, fmt.Sprintf("🗑️ %s eliminado:\n%s", recordTitle(ref.Kind), h.describe(rec)))
}

func (h *Handler) askNewAmount(t *turn) session.State {
	if t.sess.Target == nil {
		return h.showMenu(t, msgExpired)
	}
	h.reply(t.chatID, "✏️ Escribe el monto correcto:", cancelKeyboard())
	return StateEditAmount
}

func (h *Handler) editAmount(t *turn) session.State {
	if t.sess.Target == nil {
		return h.showMenu(t, msgExpired)
	}
	amount, err := ParseAmount(t.text)
	if err != nil {
		h.reply(t.chatID, msgBadAmount, nil)
		return t.sess.State
	}
	ref := *t.sess.Target

	before, err := h.loadRecord(t.ctx, ref)
	if err == nil {
		_, err = h.updateRecordAmount(t.ctx, ref, amount)
	}
	if errors.Is(err, domain.ErrNotFound) {
		h.forget(t, ref)
		return h.showMenu(t, "⚠️ Ese registro ya no existe.")
	}
	if err != nil {
		return h.fail(t, "edit_record", err)
	}

	h.metrics.Record(string(ref.Kind), "edit")
	return h.showMenu(t, fmt.Sprintf("✏️ Monto corregido: %s → %s", h.format.Money(before.Amount), h.format.Money(amount)))
}

// forget drops ref from the undo slot if it is still there.
func (h *Handler) forget(t *turn, ref domain.RecordRef) {
	if t.sess.LastRecord != nil && *t.sess.LastRecord == ref {
		t.sess.LastRecord = nil
	}
}
