// Package admin — handlers.go routes private-chat messages from
// administrators. Flow: password prompt, then plain text commands.
package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/sessions"
)

const usage = `Admin panel commands:
grant <chat_id> <user_id> <amount> - credit Astral Coins
deduct <chat_id> <user_id> <amount> - remove Astral Coins
logout - end the session`

// Handler serves the admin panel in private chats.
type Handler struct {
	service  *Service
	bot      *tgbotapi.BotAPI
	awaiting *sessions.Store[struct{}]
}

func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:  service,
		bot:      bot,
		awaiting: sessions.New[struct{}](5 * time.Minute),
	}
}

// HandleMessage consumes any private message from a configured admin.
// Returns false when the sender is not an admin, so the caller can
// route the message elsewhere.
func (h *Handler) HandleMessage(ctx context.Context, chatID, userID int64, text string) bool {
	if !h.service.cfg.IsAdmin(userID) {
		return false
	}

	key := sessions.Key(chatID, userID)
	if _, ok := h.awaiting.Get(key); ok {
		h.awaiting.Delete(key)
		h.handlePassword(ctx, chatID, userID, text)
		return true
	}

	if !h.service.Authorized(userID) {
		h.awaiting.Put(key, struct{}{})
		h.sendMessage(chatID, "🔐 Enter the admin password:")
		return true
	}

	h.handleCommand(ctx, chatID, userID, text)
	return true
}

func (h *Handler) handlePassword(ctx context.Context, chatID, userID int64, password string) {
	if err := h.service.Login(ctx, userID, password); err != nil {
		switch err {
		case common.ErrTooManyAttempts:
			h.sendMessage(chatID, "⛔ Too many attempts. Wait an hour and try again.")
		case common.ErrWrongPassword:
			h.sendMessage(chatID, "❌ Wrong password. Send any message to retry.")
		case common.ErrNotAdmin:
			// Unreachable behind the IsAdmin gate.
		default:
			log.WithError(err).Error("admin login failed")
			h.sendMessage(chatID, "❌ Login failed.")
		}
		return
	}
	h.sendMessage(chatID, "✅ Logged in for 24 hours.\n\n"+usage)
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		h.sendMessage(chatID, usage)
		return
	}

	switch strings.ToLower(fields[0]) {
	case "grant", "deduct":
		h.handleTransfer(ctx, chatID, userID, fields)
	case "logout":
		h.service.Logout(userID)
		h.sendMessage(chatID, "👋 Logged out.")
	default:
		h.sendMessage(chatID, usage)
	}
}

func (h *Handler) handleTransfer(ctx context.Context, chatID, userID int64, fields []string) {
	if len(fields) != 4 {
		h.sendMessage(chatID, fmt.Sprintf("Usage: %s <chat_id> <user_id> <amount>", fields[0]))
		return
	}
	group, err1 := strconv.ParseInt(fields[1], 10, 64)
	target, err2 := strconv.ParseInt(fields[2], 10, 64)
	amount, err3 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		h.sendMessage(chatID, "❌ chat_id and user_id must be integers, amount a number.")
		return
	}

	var balance float64
	var err error
	if strings.EqualFold(fields[0], "grant") {
		balance, err = h.service.Grant(ctx, userID, group, target, amount)
	} else {
		balance, err = h.service.Deduct(ctx, userID, group, target, amount)
	}
	if err != nil {
		switch err {
		case common.ErrSessionExpired:
			h.sendMessage(chatID, "🔐 Session expired. Send any message to log in again.")
		case common.ErrInvalidAmount:
			h.sendMessage(chatID, "❌ Amount must be positive.")
		default:
			log.WithError(err).Error("admin transfer failed")
			h.sendMessage(chatID, "❌ The operation failed.")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Done. User %d in chat %d now holds %s Astral Coins.",
		target, group, common.FormatPoints(balance)))
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("message send failed")
	}
}
