package session

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourname/alquiler-bot/internal/domain"
)

// State names a node of the conversation machine. The empty state is the
// root menu.
type State string

// Session is the per-user conversation context. In-progress fields are
// dropped by Reset; LastRecord survives until undone or replaced.
type Session struct {
	UserID int64 `json:"user_id"`
	State  State `json:"state"`

	PendingAmount *decimal.Decimal  `json:"pending_amount,omitempty"`
	ReportMonth   int               `json:"report_month,omitempty"`
	TenantID      int64             `json:"tenant_id,omitempty"`
	Target        *domain.RecordRef `json:"target,omitempty"`

	LastRecord *domain.RecordRef `json:"last_record,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Reset returns the session to root, discarding in-progress data.
func (s *Session) Reset() {
	s.State = ""
	s.PendingAmount = nil
	s.ReportMonth = 0
	s.TenantID = 0
	s.Target = nil
}

var ErrStoreUnavailable = errors.New("session store unavailable")

// ErrCorrupt is returned with a fresh session when the stored entry could not
// be decoded. The entry has already been dropped.
var ErrCorrupt = errors.New("corrupt session entry")

// Store keeps sessions between updates. Get returns a fresh session when none
// is stored for the user, and a fresh session plus ErrCorrupt when the stored
// one was unreadable.
type Store interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, userID int64) error
}
