package ledger

import (
	"time"

	"github.com/yourname/alquiler-bot/internal/domain"
)

// ReminderLead is how many days before the pay day a reminder goes out.
const ReminderLead = 2

// DueDate returns the date ReminderLead days after ref.
func DueDate(ref time.Time) time.Time {
	return ref.AddDate(0, 0, ReminderLead)
}

// DueTenants returns names of active tenants whose pay day falls on
// DueDate(ref) and who have no payment yet in that date's month. paid holds
// normalized payer names for that month (see NormalizeName).
//
// A pay day past the end of a short month falls on its last day.
func DueTenants(tenants []domain.Tenant, paid map[string]bool, ref time.Time) []string {
	due := DueDate(ref)
	last := lastDayOfMonth(due)

	var out []string
	for _, t := range tenants {
		if !t.Active || t.PayDay == nil {
			continue
		}
		day := *t.PayDay
		if day > last {
			day = last
		}
		if day != due.Day() {
			continue
		}
		if paid[NormalizeName(t.Name)] {
			continue
		}
		out = append(out, t.Name)
	}
	return out
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
