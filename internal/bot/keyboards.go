package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourname/alquiler-bot/internal/session"
)

func keyboard(rows ...[]string) tgbotapi.ReplyKeyboardMarkup {
	kb := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, r := range rows {
		row := make([]tgbotapi.KeyboardButton, 0, len(r))
		for _, label := range r {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		kb = append(kb, row)
	}
	m := tgbotapi.NewReplyKeyboard(kb...)
	m.ResizeKeyboard = true
	return m
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard(
		[]string{LabelPayment, LabelExpense},
		[]string{LabelSummary, LabelReport},
		[]string{LabelTenants, LabelUndo},
	)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard([]string{LabelCancel})
}

func reportKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard([]string{LabelReportCurrent, LabelReportPick}, []string{LabelCancel})
}

func undoKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard([]string{LabelUndoPayment}, []string{LabelUndoExpense}, []string{LabelBack})
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard([]string{LabelConfirm}, []string{LabelEditAmount}, []string{LabelCancel})
}

func tenantKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard(
		[]string{LabelTenantAdd, LabelTenantList},
		[]string{LabelTenantDeactivate, LabelTenantActivate},
		[]string{LabelTenantPayDay},
		[]string{LabelBack},
	)
}

// namesKeyboard lays names out two per row with a cancel row at the end.
func namesKeyboard(names []string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]string
	for i := 0; i < len(names); i += 2 {
		end := i + 2
		if end > len(names) {
			end = len(names)
		}
		rows = append(rows, names[i:end])
	}
	rows = append(rows, []string{LabelCancel})
	return keyboard(rows...)
}

func keyboardFor(state session.State) tgbotapi.ReplyKeyboardMarkup {
	switch state {
	case StateReportMenu:
		return reportKeyboard()
	case StateUndoMenu:
		return undoKeyboard()
	case StateConfirmDelete:
		return confirmKeyboard()
	case StateTenantMenu:
		return tenantKeyboard()
	default:
		return mainKeyboard()
	}
}
