package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/session"
)

func (h *Handler) tenantsByStatus(ctx context.Context, active bool) ([]domain.Tenant, error) {
	return h.stores.Tenants.List(ctx, &active)
}

func (h *Handler) showTenantMenu(t *turn) session.State {
	h.reply(t.chatID, "👤 Gestión de inquilinos. Elige una opción:", tenantKeyboard())
	return StateTenantMenu
}

func (h *Handler) askTenantName(t *turn) session.State {
	h.reply(t.chatID, "➕ Escribe el nombre del nuevo inquilino:", cancelKeyboard())
	return StateTenantName
}

func (h *Handler) addTenant(t *turn) session.State {
	name, err := CleanText(t.text, maxNameLen)
	if err != nil {
		h.reply(t.chatID, "❌ Nombre inválido: "+err.Error()+". Escribe el nombre del inquilino:", nil)
		return t.sess.State
	}
	if isReserved(name) {
		h.reply(t.chatID, "❌ Ese nombre coincide con un botón o comando del bot. Escribe otro nombre:", nil)
		return t.sess.State
	}

	tn, err := h.stores.Tenants.Create(t.ctx, name)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return h.showMenu(t, fmt.Sprintf("⚠️ Ya existe un inquilino llamado %s.", name))
	case errors.Is(err, domain.ErrInvalid):
		h.reply(t.chatID, "❌ Nombre inválido. Escribe el nombre del inquilino:", nil)
		return t.sess.State
	case err != nil:
		return h.fail(t, "create_tenant", err)
	}

	h.metrics.Record("tenant", "create")
	return h.showMenu(t, fmt.Sprintf("✅ Inquilino %s añadido.", tn.Name))
}

func (h *Handler) listTenants(t *turn) session.State {
	tenants, err := h.stores.Tenants.List(t.ctx, nil)
	if err != nil {
		return h.fail(t, "list_tenants", err)
	}
	if len(tenants) == 0 {
		h.reply(t.chatID, "No hay inquilinos registrados.", tenantKeyboard())
		return StateTenantMenu
	}

	var b strings.Builder
	b.WriteString("📋 Inquilinos:\n")
	for _, tn := range tenants {
		mark := "✅"
		if !tn.Active {
			mark = "❌"
		}
		b.WriteString(mark + " " + tn.Name)
		if tn.PayDay != nil {
			fmt.Fprintf(&b, " (día de pago: %d)", *tn.PayDay)
		}
		if !tn.Active {
			b.WriteString(" [inactivo]")
		}
		b.WriteString("\n")
	}
	h.reply(t.chatID, b.String(), tenantKeyboard())
	return StateTenantMenu
}

// pickTenant offers tenants with the given status as buttons and moves to
// next. With none available it stays in the tenant menu.
func (h *Handler) pickTenant(t *turn, active bool, prompt, none string, next session.State) session.State {
	tenants, err := h.tenantsByStatus(t.ctx, active)
	if err != nil {
		return h.fail(t, "list_tenants", err)
	}
	if len(tenants) == 0 {
		h.reply(t.chatID, none, tenantKeyboard())
		return StateTenantMenu
	}
	h.reply(t.chatID, prompt, namesKeyboard(tenantNames(tenants)))
	return next
}

func (h *Handler) pickTenantToDeactivate(t *turn) session.State {
	return h.pickTenant(t, true, "Selecciona el inquilino a desactivar:", "No hay inquilinos activos.", StateTenantDeactivate)
}

func (h *Handler) pickTenantToActivate(t *turn) session.State {
	return h.pickTenant(t, false, "Selecciona el inquilino a activar:", "No hay inquilinos inactivos.", StateTenantActivate)
}

func (h *Handler) pickTenantForPayDay(t *turn) session.State {
	return h.pickTenant(t, true, "Selecciona el inquilino:", "No hay inquilinos activos.", StateTenantPayDaySelect)
}

// chosenTenant resolves the typed or tapped name among tenants with the given
// status. On a miss it re-prompts and reports ok=false.
func (h *Handler) chosenTenant(t *turn, active bool) (tn domain.Tenant, ok bool, err error) {
	tenants, err := h.tenantsByStatus(t.ctx, active)
	if err != nil {
		return domain.Tenant{}, false, err
	}
	tn, ok = matchTenant(tenants, t.text)
	if !ok {
		h.reply(t.chatID, "❌ No encontré ese inquilino. Selecciónalo de la lista:", namesKeyboard(tenantNames(tenants)))
	}
	return tn, ok, nil
}

func (h *Handler) deactivateTenant(t *turn) session.State {
	return h.setTenantActive(t, false)
}

func (h *Handler) activateTenant(t *turn) session.State {
	return h.setTenantActive(t, true)
}

func (h *Handler) setTenantActive(t *turn, active bool) session.State {
	tn, ok, err := h.chosenTenant(t, !active)
	if err != nil {
		return h.fail(t, "list_tenants", err)
	}
	if !ok {
		return t.sess.State
	}

	err = h.stores.Tenants.SetActive(t.ctx, tn.ID, active)
	if errors.Is(err, domain.ErrNotFound) {
		return h.showMenu(t, "⚠️ Ese inquilino ya no existe.")
	}
	if err != nil {
		return h.fail(t, "set_tenant_active", err)
	}

	if active {
		h.metrics.Record("tenant", "activate")
		return h.showMenu(t, fmt.Sprintf("✅ Inquilino %s activado.", tn.Name))
	}
	h.metrics.Record("tenant", "deactivate")
	return h.showMenu(t, fmt.Sprintf("❌ Inquilino %s desactivado.", tn.Name))
}

func (h *Handler) tenantForPayDay(t *turn) session.State {
	tn, ok, err := h.chosenTenant(t, true)
	if err != nil {
		return h.fail(t, "list_tenants", err)
	}
	if !ok {
		return t.sess.State
	}
	t.sess.TenantID = tn.ID
	h.reply(t.chatID, fmt.Sprintf("📅 Escribe el día de pago (1-31) para %s:", tn.Name), cancelKeyboard())
	return StateTenantPayDayAwait
}

func (h *Handler) setTenantPayDay(t *turn) session.State {
	if t.sess.TenantID == 0 {
		return h.showMenu(t, msgExpired)
	}
	day, err := ParseDay(t.text)
	if err != nil {
		h.reply(t.chatID, "❌ Día inválido. Escribe un número del 1 al 31:", nil)
		return t.sess.State
	}

	tn, err := h.stores.Tenants.Get(t.ctx, t.sess.TenantID)
	if err == nil {
		err = h.stores.Tenants.SetPayDay(t.ctx, tn.ID, day)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return h.showMenu(t, "⚠️ Ese inquilino ya no existe.")
	}
	if err != nil {
		return h.fail(t, "set_pay_day", err)
	}

	h.metrics.Record("tenant", "pay_day")
	return h.showMenu(t, fmt.Sprintf("📅 Día de pago de %s: %d.", tn.Name, day))
}
