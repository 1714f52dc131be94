package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/report"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 200
)

var (
	// up to NUMERIC(12,2): ten integer digits, two decimals
	reAmount = regexp.MustCompile(`^[0-9]{1,10}(?:\.[0-9]{1,2})?$`)

	amountCleaner = strings.NewReplacer("RD$", "", "rd$", "", "Rd$", "", "$", "", ",", "", " ", "", " ", "")

	errAmount = errors.New("monto inválido")
)

// ParseAmount accepts inputs like "3000", "3,000", "RD$500.50" or " 1200 ".
// Negative values, letters and more than two decimals are rejected.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := amountCleaner.Replace(strings.TrimSpace(text))
	if !reAmount.MatchString(s) {
		return decimal.Decimal{}, errAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, errAmount
	}
	return d, nil
}

// ParseMonth accepts 1-12 or a Spanish month name.
func ParseMonth(text string) (int, error) {
	s := strings.TrimSpace(text)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("mes fuera de rango: %d", n)
		}
		return n, nil
	}
	if m, ok := report.MonthFromName(s); ok {
		return int(m), nil
	}
	return 0, fmt.Errorf("mes inválido: %q", s)
}

func ParseYear(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("año inválido: %q", text)
	}
	if n < domain.MinYear || n > domain.MaxYear {
		return 0, fmt.Errorf("año fuera de rango: %d", n)
	}
	return n, nil
}

func ParseDay(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > 31 {
		return 0, fmt.Errorf("día inválido: %q", text)
	}
	return n, nil
}

// CleanText collapses whitespace and enforces a non-empty value of at most
// max characters.
func CleanText(text string, max int) (string, error) {
	s := strings.Join(strings.Fields(text), " ")
	if s == "" {
		return "", errors.New("texto vacío")
	}
	if utf8.RuneCountInString(s) > max {
		return "", fmt.Errorf("texto demasiado largo (máximo %d caracteres)", max)
	}
	return s, nil
}

func formatDate(t time.Time) string {
	return t.Format(report.DateLayout)
}
