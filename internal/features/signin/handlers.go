// Package signin — handlers.go serves the "sign" command and the
// makeup-or-skip follow-up when the user missed exactly one day.
package signin

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/members"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/render"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/sessions"
)

// achievementSink is the slice of the achievements service sign-in
// needs: general re-check after a sign-in and the make-up event unlock.
type achievementSink interface {
	CheckAndUnlock(ctx context.Context, group, user int64) []string
	UnlockEvent(ctx context.Context, group, user int64, id string) (string, bool)
}

// pendingResign marks a user who was offered the make-up prompt.
type pendingResign struct{}

// Handler serves sign-in commands.
type Handler struct {
	service      *Service
	members      *members.Service
	achievements achievementSink
	pending      *sessions.Store[pendingResign]
	renderer     render.Renderer
	bot          *tgbotapi.BotAPI
}

// NewHandler creates the sign-in command handler.
func NewHandler(service *Service, memberService *members.Service, achievements achievementSink, pending *sessions.Store[pendingResign], renderer render.Renderer, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:      service,
		members:      memberService,
		achievements: achievements,
		pending:      pending,
		renderer:     renderer,
		bot:          bot,
	}
}

// NewPendingStore creates the store the handler uses to track offered
// make-up prompts; the TTL is the reply window.
func NewPendingStore(ttl time.Duration) *sessions.Store[pendingResign] {
	return sessions.New[pendingResign](ttl)
}

// HandleSign serves "sign". When the user signed exactly two days ago
// the handler offers a make-up prompt instead of signing immediately;
// the user answers via HandleReply within the reply window.
func (h *Handler) HandleSign(ctx context.Context, chatID, userID int64) {
	name := h.members.DisplayName(ctx, userID)

	if h.service.NeedsMakeUp(ctx, chatID, userID) {
		h.pending.Put(sessions.Key(chatID, userID), pendingResign{})
		h.sendMessage(chatID, fmt.Sprintf(
			"⏳ %s, you missed yesterday's sign-in. Spend %d Astral Coins to make it up?\n"+
				"Reply \"makeup\" to repair the streak, or \"skip\" to sign in with a fresh streak.",
			name, h.service.cfg.SignMakeUpCost))
		return
	}

	h.doSign(ctx, chatID, userID, name)
}

// HandleReply routes a plain-text reply to a pending make-up prompt.
// Returns false when the user has no pending prompt or the reply is not
// one of the expected answers, so the caller can treat the message as
// ordinary chat.
func (h *Handler) HandleReply(ctx context.Context, chatID, userID int64, text string) bool {
	key := sessions.Key(chatID, userID)
	if _, ok := h.pending.Get(key); !ok {
		return false
	}

	name := h.members.DisplayName(ctx, userID)
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "makeup", "make up":
		h.pending.Take(key)
		res, err := h.service.MakeUp(ctx, chatID, userID)
		if err != nil {
			switch err {
			case common.ErrInsufficientPoints:
				h.sendMessage(chatID, fmt.Sprintf("❌ %s, you cannot afford the make-up fee. Signing in with a fresh streak instead.", name))
			case common.ErrAlreadySigned, common.ErrMakeUpNotNeeded:
				h.sendMessage(chatID, fmt.Sprintf("❌ %s, there is nothing to make up anymore.", name))
			default:
				log.WithError(err).Error("make-up sign failed")
				h.sendMessage(chatID, "❌ The make-up sign could not be completed.")
			}
			h.doSign(ctx, chatID, userID, name)
			return true
		}

		h.sendMessage(chatID, fmt.Sprintf(
			"✅ Made up %s for %d Astral Coins. Streak preserved at %d %s.",
			res.Date, res.Cost, res.StreakDays, common.Plural(res.StreakDays, "day", "days")))
		if line, ok := h.achievements.UnlockEvent(ctx, chatID, userID, "signin_4"); ok {
			h.sendMessage(chatID, line)
		}
		h.doSign(ctx, chatID, userID, name)
		return true

	case "skip":
		h.pending.Take(key)
		h.doSign(ctx, chatID, userID, name)
		return true
	}

	return false
}

func (h *Handler) doSign(ctx context.Context, chatID, userID int64, name string) {
	res, err := h.service.Sign(ctx, chatID, userID)
	if err != nil {
		switch err {
		case common.ErrAlreadySigned:
			h.sendMessage(chatID, fmt.Sprintf("📅 %s, you already signed in today. Come back tomorrow!", name))
		default:
			log.WithError(err).Error("sign-in failed")
			h.sendMessage(chatID, "❌ Sign-in could not be completed.")
		}
		return
	}

	lines := []string{
		fmt.Sprintf("Signed at: %s", res.SignedAt),
		fmt.Sprintf("Total days: %d", res.TotalDays),
		fmt.Sprintf("Streak: %d %s", res.StreakDays, common.Plural(res.StreakDays, "day", "days")),
		fmt.Sprintf("Daily reward: +%d", res.DailyReward),
	}
	if res.StreakBonus > 0 {
		lines = append(lines, fmt.Sprintf("Streak bonus: +%d", res.StreakBonus))
	}
	lines = append(lines, fmt.Sprintf("Balance: %s", common.FormatPoints(res.Balance)))

	h.reply(chatID, "sign", render.Card{
		Title:    "✅ Sign-in complete",
		Subtitle: name,
		Lines:    lines,
	}, fmt.Sprintf("✅ %s signed in!\n%s", name, strings.Join(lines, "\n")))

	for _, line := range h.achievements.CheckAndUnlock(ctx, chatID, userID) {
		h.sendMessage(chatID, line)
	}
}

// reply sends a rendered card when the renderer produces one, otherwise
// the plain-text fallback.
func (h *Handler) reply(chatID int64, kind string, card render.Card, fallback string) {
	path, err := h.renderer.Render(kind, card)
	if err != nil {
		log.WithError(err).WithField("kind", kind).Warn("render failed, falling back to text")
	}
	if path == "" {
		h.sendMessage(chatID, fallback)
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	if _, err := h.bot.Send(photo); err != nil {
		log.WithError(err).Error("photo send failed")
		h.sendMessage(chatID, fallback)
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("message send failed")
	}
}
