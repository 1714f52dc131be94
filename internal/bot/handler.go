package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourname/alquiler-bot/internal/config"
	"github.com/yourname/alquiler-bot/internal/domain"
	"github.com/yourname/alquiler-bot/internal/logger"
	"github.com/yourname/alquiler-bot/internal/metrics"
	"github.com/yourname/alquiler-bot/internal/report"
	"github.com/yourname/alquiler-bot/internal/session"
)

// updateTimeout bounds the store calls made while handling one update.
const updateTimeout = 15 * time.Second

const (
	msgUnauthorized = "❌ No tienes permiso para usar este bot."
	msgExpired      = "⚠️ La operación expiró. Empieza de nuevo desde el menú."
)

type Handler struct {
	api      Sender
	cfg      config.Config
	stores   Stores
	sessions session.Store
	log      logrus.FieldLogger
	metrics  *metrics.Bot

	format   report.Format
	document *report.Document

	queues *userQueues
	now    func() time.Time
}

func NewHandler(api Sender, cfg config.Config, stores Stores, sessions session.Store, log logrus.FieldLogger, m *metrics.Bot) *Handler {
	f := report.Format{Currency: cfg.CurrencySymbol, CommissionRate: cfg.CommissionRate}
	h := &Handler{
		api:      api,
		cfg:      cfg,
		stores:   stores,
		sessions: sessions,
		log:      log,
		metrics:  m,
		format:   f,
		document: report.NewDocument(f),
		now:      time.Now,
	}
	h.queues = newUserQueues(h.HandleUpdate)
	return h
}

// turn is one inbound text message routed through the conversation machine.
type turn struct {
	ctx    context.Context
	chatID int64
	userID int64
	text   string
	sess   *session.Session
}

// HandleUpdate runs one update to completion. Callers must not run two
// updates of the same user at once; Dispatch orders them.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}
	// private chats only
	if !msg.Chat.IsPrivate() {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	userID := msg.From.ID
	log := h.log.WithField("user_id", userID)

	if !h.cfg.IsAuthorized(userID) {
		log.Warn("unauthorized access attempt")
		h.metrics.Update("unauthorized")
		h.reply(msg.Chat.ID, msgUnauthorized, tgbotapi.NewRemoveKeyboard(true))
		if err := h.sessions.Delete(ctx, userID); err != nil {
			log.WithError(err).Warn("delete session")
		}
		return
	}

	ctx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	sess, err := h.sessions.Get(ctx, userID)
	if errors.Is(err, session.ErrCorrupt) {
		log.WithError(err).Warn("discarded unreadable session")
		h.metrics.Failure("corrupt_session")
		err = nil
	}
	if err != nil {
		trace := logger.ErrorWithTraceID(log, logger.Fields{"op": "load_session", "error": err.Error()}, "session load failed")
		h.metrics.Failure("load_session")
		h.reply(msg.Chat.ID, errorText(trace), mainKeyboard())
		return
	}
	sess.UserID = userID

	t := &turn{ctx: ctx, chatID: msg.Chat.ID, userID: userID, text: text, sess: &sess}
	next := h.step(t)
	if next == StateMenu {
		sess.Reset()
	} else {
		sess.State = next
	}
	sess.UpdatedAt = h.now()

	if err := h.sessions.Save(ctx, sess); err != nil {
		logger.ErrorWithTraceID(log, logger.Fields{"op": "save_session", "error": err.Error()}, "session save failed")
		h.metrics.Failure("save_session")
	}
	h.metrics.Update("handled")
}

func (h *Handler) step(t *turn) (next session.State) {
	defer func() {
		if r := recover(); r != nil {
			h.metrics.Update("panic")
			next = h.fail(t, "panic", fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
		}
	}()

	switch {
	case t.text == cmdStart || strings.HasPrefix(t.text, cmdStart+" "):
		return h.welcome(t)
	case isCancel(t.text):
		return h.cancel(t)
	}

	fn, ok := lookup(t.sess.State, t.text)
	if !ok {
		h.log.WithFields(logrus.Fields{"user_id": t.userID, "state": t.sess.State}).Warn("unknown session state, resetting")
		return h.showMenu(t, "Selecciona una opción:")
	}
	return fn(h, t)
}

func (h *Handler) welcome(t *turn) session.State {
	return h.showMenu(t, "👋 ¡Hola! Soy el bot de gestión de alquileres.\n\nSelecciona una opción del menú:")
}

func (h *Handler) cancel(t *turn) session.State {
	if t.sess.State == StateMenu {
		return h.showMenu(t, "Selecciona una opción:")
	}
	return h.showMenu(t, "❌ Operación cancelada.")
}

func (h *Handler) showMenu(t *turn, text string) session.State {
	h.reply(t.chatID, text, mainKeyboard())
	return StateMenu
}

func (h *Handler) unknownChoice(t *turn) session.State {
	h.reply(t.chatID, "Selecciona una opción del menú.", keyboardFor(t.sess.State))
	return t.sess.State
}

// fail logs err under a trace id, shows the id to the user and returns to
// the main menu.
func (h *Handler) fail(t *turn, op string, err error) session.State {
	trace := logger.ErrorWithTraceID(h.log, logger.Fields{
		"op":      op,
		"user_id": t.userID,
		"state":   string(t.sess.State),
		"error":   err.Error(),
	}, "operation failed")
	h.metrics.Failure(op)
	return h.showMenu(t, errorText(trace))
}

func errorText(trace string) string {
	return fmt.Sprintf("❌ Ocurrió un error. Intenta de nuevo más tarde. (ref: %s)", trace)
}

func (h *Handler) today() time.Time {
	return domain.Today(h.now(), h.cfg.Location)
}

func (h *Handler) reply(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	h.send(msg)
}

func (h *Handler) replyMarkdown(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) bool {
	if _, err := h.api.Send(c); err != nil {
		h.log.WithError(err).Warn("telegram send failed")
		return false
	}
	return true
}
