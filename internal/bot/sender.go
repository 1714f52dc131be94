package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// DefaultSendRate stays under Telegram's global limit of about 30 messages
// per second.
const DefaultSendRate = 25

const sendWait = 30 * time.Second

// LimitedSender throttles outgoing messages with a token bucket shared by
// every goroutine.
type LimitedSender struct {
	next    Sender
	limiter *rate.Limiter
}

func NewLimitedSender(next Sender, perSecond float64, burst int) *LimitedSender {
	return &LimitedSender{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (s *LimitedSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sendWait)
	defer cancel()
	if err := s.limiter.Wait(ctx); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("send rate limit: %w", err)
	}
	return s.next.Send(c)
}
