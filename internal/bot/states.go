package bot

import (
	"strings"

	"github.com/yourname/alquiler-bot/internal/ledger"
	"github.com/yourname/alquiler-bot/internal/session"
)

const (
	StateMenu               session.State = ""
	StatePaymentAmount      session.State = "payment_await_amount"
	StatePaymentName        session.State = "payment_await_name"
	StateExpenseAmount      session.State = "expense_await_amount"
	StateExpenseDesc        session.State = "expense_await_desc"
	StateReportMenu         session.State = "report_menu"
	StateReportMonth        session.State = "report_await_month"
	StateReportYear         session.State = "report_await_year"
	StateUndoMenu           session.State = "undo_menu"
	StateConfirmDelete      session.State = "confirm_delete"
	StateEditAmount         session.State = "edit_await_amount"
	StateTenantMenu         session.State = "tenant_menu"
	StateTenantName         session.State = "tenant_await_name"
	StateTenantDeactivate   session.State = "tenant_deactivate_select"
	StateTenantActivate     session.State = "tenant_activate_select"
	StateTenantPayDaySelect session.State = "tenant_payday_select"
	StateTenantPayDayAwait  session.State = "tenant_payday_await_day"
)

// Button labels. Matching is exact.
const (
	LabelPayment = "📥 Registrar Pago"
	LabelExpense = "💸 Registrar Gasto"
	LabelSummary = "📊 Ver Resumen"
	LabelReport  = "📈 Generar Informe"
	LabelTenants = "👤 Gestionar Inquilinos"
	LabelUndo    = "🗑️ Deshacer"

	LabelCancel = "❌ Cancelar"
	LabelBack   = "⬅️ Volver al Menú"

	LabelReportCurrent = "Informe Mes Actual"
	LabelReportPick    = "Elegir Mes y Año"

	LabelUndoPayment = "🗑️ Deshacer Último Pago"
	LabelUndoExpense = "🗑️ Deshacer Último Gasto"
	LabelConfirm     = "✅ Confirmar Eliminación"
	LabelEditAmount  = "✏️ Corregir Monto"

	LabelTenantAdd        = "➕ Añadir Inquilino"
	LabelTenantList       = "📋 Listar Inquilinos"
	LabelTenantDeactivate = "❌ Desactivar Inquilino"
	LabelTenantActivate   = "✅ Activar Inquilino"
	LabelTenantPayDay     = "📅 Día de Pago"

	cmdStart  = "/start"
	cmdCancel = "/cancel"
)

// anyText matches every input that no labelled row of the same state claimed.
const anyText = ""

type stepFunc func(h *Handler, t *turn) session.State

type transition struct {
	state session.State
	label string
	step  stepFunc
}

// transitions is the conversation machine. Rows are tried in order; the first
// row whose state matches and whose label equals the input (or is anyText)
// handles the update and returns the next state.
var transitions = []transition{
	{StateMenu, LabelPayment, (*Handler).startPayment},
	{StateMenu, LabelExpense, (*Handler).startExpense},
	{StateMenu, LabelSummary, (*Handler).showSummary},
	{StateMenu, LabelReport, (*Handler).startReport},
	{StateMenu, LabelTenants, (*Handler).showTenantMenu},
	{StateMenu, LabelUndo, (*Handler).showUndoMenu},
	{StateMenu, anyText, (*Handler).unknownChoice},

	{StatePaymentAmount, anyText, (*Handler).paymentAmount},
	{StatePaymentName, anyText, (*Handler).paymentName},

	{StateExpenseAmount, anyText, (*Handler).expenseAmount},
	{StateExpenseDesc, anyText, (*Handler).expenseDescription},

	{StateReportMenu, LabelReportCurrent, (*Handler).reportCurrentMonth},
	{StateReportMenu, LabelReportPick, (*Handler).askReportMonth},
	{StateReportMenu, anyText, (*Handler).unknownChoice},
	{StateReportMonth, anyText, (*Handler).reportMonth},
	{StateReportYear, anyText, (*Handler).reportYear},

	{StateUndoMenu, LabelUndoPayment, (*Handler).undoLastPayment},
	{StateUndoMenu, LabelUndoExpense, (*Handler).undoLastExpense},
	{StateUndoMenu, anyText, (*Handler).unknownChoice},
	{StateConfirmDelete, LabelConfirm, (*Handler).confirmDelete},
	{StateConfirmDelete, LabelEditAmount, (*Handler).askNewAmount},
	{StateConfirmDelete, anyText, (*Handler).unknownChoice},
	{StateEditAmount, anyText, (*Handler).editAmount},

	{StateTenantMenu, LabelTenantAdd, (*Handler).askTenantName},
	{StateTenantMenu, LabelTenantList, (*Handler).listTenants},
	{StateTenantMenu, LabelTenantDeactivate, (*Handler).pickTenantToDeactivate},
	{StateTenantMenu, LabelTenantActivate, (*Handler).pickTenantToActivate},
	{StateTenantMenu, LabelTenantPayDay, (*Handler).pickTenantForPayDay},
	{StateTenantMenu, anyText, (*Handler).unknownChoice},
	{StateTenantName, anyText, (*Handler).addTenant},
	{StateTenantDeactivate, anyText, (*Handler).deactivateTenant},
	{StateTenantActivate, anyText, (*Handler).activateTenant},
	{StateTenantPayDaySelect, anyText, (*Handler).tenantForPayDay},
	{StateTenantPayDayAwait, anyText, (*Handler).setTenantPayDay},
}

func lookup(state session.State, text string) (stepFunc, bool) {
	for _, tr := range transitions {
		if tr.state != state {
			continue
		}
		if tr.label == anyText || tr.label == text {
			return tr.step, true
		}
	}
	return nil, false
}

func isCancel(text string) bool {
	switch text {
	case LabelCancel, LabelBack, cmdCancel:
		return true
	}
	return false
}

// buttonLabels lists every keyboard label. A tenant named after one of them
// could never be picked from a name keyboard.
var buttonLabels = []string{
	LabelPayment, LabelExpense, LabelSummary, LabelReport, LabelTenants, LabelUndo,
	LabelCancel, LabelBack,
	LabelReportCurrent, LabelReportPick,
	LabelUndoPayment, LabelUndoExpense, LabelConfirm, LabelEditAmount,
	LabelTenantAdd, LabelTenantList, LabelTenantDeactivate, LabelTenantActivate, LabelTenantPayDay,
}

// isReserved reports whether text is a command or reads as a button label
// once case, accents and spacing are folded.
func isReserved(text string) bool {
	if strings.HasPrefix(strings.TrimSpace(text), "/") || isCancel(text) {
		return true
	}
	key := ledger.NormalizeName(text)
	for _, l := range buttonLabels {
		if ledger.NormalizeName(l) == key {
			return true
		}
	}
	return false
}
