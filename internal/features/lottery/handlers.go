// Package lottery — handlers.go serves the "lottery" command.
package lottery

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/members"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/render"
)

// achievementSink is the slice of the achievements service the lottery
// needs: the jackpot event unlock and the general re-check.
type achievementSink interface {
	CheckAndUnlock(ctx context.Context, group, user int64) []string
	UnlockEvent(ctx context.Context, group, user int64, id string) (string, bool)
}

// Handler serves lottery commands.
type Handler struct {
	service      *Service
	members      *members.Service
	achievements achievementSink
	renderer     render.Renderer
	bot          *tgbotapi.BotAPI
}

// NewHandler creates the lottery command handler.
func NewHandler(service *Service, memberService *members.Service, achievements achievementSink, renderer render.Renderer, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:      service,
		members:      memberService,
		achievements: achievements,
		renderer:     renderer,
		bot:          bot,
	}
}

// HandleDraw serves "lottery": one paid draw.
func (h *Handler) HandleDraw(ctx context.Context, chatID, userID int64) {
	name := h.members.DisplayName(ctx, userID)

	res, err := h.service.Draw(ctx, chatID, userID)
	if err != nil {
		switch err {
		case common.ErrLotteryDailyLimit:
			h.sendMessage(chatID, fmt.Sprintf("🎰 %s, you already drew %d times today. Try again tomorrow~", name, h.service.cfg.LotteryDailyCap))
		case common.ErrInsufficientPoints:
			h.sendMessage(chatID, fmt.Sprintf("🎰 %s, a draw costs %d Astral Coins and you cannot cover it~", name, h.service.cfg.LotteryCost))
		default:
			log.WithError(err).Error("lottery draw failed")
			h.sendMessage(chatID, "❌ The draw could not be completed.")
		}
		return
	}

	var sb strings.Builder
	if res.BestOfTwo {
		sb.WriteString("✨ Twin Starwish: kept the better of two draws!\n")
	} else if res.MinThreeStar {
		sb.WriteString("✨ Luck Potion: guaranteed at least 3★!\n")
	}
	if res.Doubled {
		sb.WriteString(fmt.Sprintf("🍀 Lucky Clover: reward doubled, %d → %d!\n", res.BaseReward, res.Reward))
	}
	sb.WriteString(fmt.Sprintf("🎰 %s drew %s (lucky number %d), attempt %d today.\n%s\n",
		name, res.TierName, res.Roll, res.Attempt, res.Description))
	if res.Reward > 0 {
		sb.WriteString(fmt.Sprintf("Reward: +%d Astral Coins\n", res.Reward))
	} else {
		sb.WriteString("No coins this time.\n")
	}
	sb.WriteString("Balance: " + common.FormatPoints(res.Balance))

	h.reply(chatID, "lottery", render.Card{
		Title:    fmt.Sprintf("🎰 %s draw", res.TierName),
		Subtitle: name,
		Lines:    strings.Split(strings.TrimRight(sb.String(), "\n"), "\n"),
	}, sb.String())

	if res.Jackpot() {
		if line, ok := h.achievements.UnlockEvent(ctx, chatID, userID, "luck_2"); ok {
			h.sendMessage(chatID, line)
		}
	}
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
