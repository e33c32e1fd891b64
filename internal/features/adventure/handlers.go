// Package adventure — handlers.go serves the "adventure" and
// "superadventure" commands and formats the run report.
package adventure

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/members"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/render"
)

// achievementSink is the slice of the achievements service adventures
// need: the destiny event unlock and the general re-check.
type achievementSink interface {
	CheckAndUnlock(ctx context.Context, group, user int64) []string
	UnlockEvent(ctx context.Context, group, user int64, id string) (string, bool)
}

// Handler serves adventure commands.
type Handler struct {
	service      *Service
	members      *members.Service
	achievements achievementSink
	renderer     render.Renderer
	bot          *tgbotapi.BotAPI
}

// NewHandler creates the adventure command handler.
func NewHandler(service *Service, memberService *members.Service, achievements achievementSink, renderer render.Renderer, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:      service,
		members:      memberService,
		achievements: achievements,
		renderer:     renderer,
		bot:          bot,
	}
}

// HandleAdventure serves "adventure [turns]".
func (h *Handler) HandleAdventure(ctx context.Context, chatID, userID int64, args []string) {
	turns := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			h.sendMessage(chatID, fmt.Sprintf("❌ Usage: adventure [1-%d]", h.service.cfg.AdventureMaxTurns))
			return
		}
		turns = n
	}
	h.run(ctx, chatID, userID, turns)
}

// HandleSuperAdventure serves "superadventure": as many turns as the
// user's stamina can fund.
func (h *Handler) HandleSuperAdventure(ctx context.Context, chatID, userID int64) {
	turns := h.service.MaxTurns(ctx, chatID, userID)
	if turns < 1 {
		h.sendMessage(chatID, fmt.Sprintf("😴 Not enough stamina. One turn costs %d.", h.service.cfg.AdventureStaminaCost))
		return
	}
	h.run(ctx, chatID, userID, turns)
}

func (h *Handler) run(ctx context.Context, chatID, userID int64, turns int) {
	name := h.members.DisplayName(ctx, userID)

	rep, err := h.service.Run(ctx, chatID, userID, turns)
	if err != nil {
		switch err {
		case common.ErrNoStamina:
			h.sendMessage(chatID, fmt.Sprintf("😴 %s, not enough stamina for that many turns (%d each).",
				name, h.service.cfg.AdventureStaminaCost))
		default:
			log.WithError(err).Error("adventure failed")
			h.sendMessage(chatID, "❌ The adventure could not be completed.")
		}
		return
	}

	lines := make([]string, 0, len(rep.Events)+4)
	for i, t := range rep.Events {
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, CategoryName(t.Category), t.Name))
		desc := t.Description
		if t.Outcome != "" {
			desc += " " + t.Outcome
		}
		lines = append(lines, "   "+desc)
		if t.CrisisNegated {
			lines = append(lines, "   🧿 Your Explorer's Amulet flared and warded off the crisis!")
			continue
		}
		if t.RareBoosted {
			lines = append(lines, "   📡 Encounter Beacon: the quiet paths closed, rare roads opened.")
		}
		var effects []string
		if t.PointsDelta != 0 {
			effects = append(effects, fmt.Sprintf("%+d coins", t.PointsDelta))
		}
		if t.StaminaDelta != 0 {
			effects = append(effects, fmt.Sprintf("%+d stamina", t.StaminaDelta))
		}
		for _, it := range t.ItemsGained {
			effects = append(effects, "got "+it)
		}
		if len(effects) > 0 {
			lines = append(lines, "   "+strings.Join(effects, ", "))
		}
		for _, note := range t.AutoUsed {
			lines = append(lines, "   "+note)
		}
		if t.ItemsDropped > 0 {
			lines = append(lines, fmt.Sprintf("   🎒 Bag full, %d item(s) lost", t.ItemsDropped))
		}
	}
	if rep.Interrupted {
		lines = append(lines, "⛔ The adventure was cut short!")
	}
	lines = append(lines,
		fmt.Sprintf("Turns: %d, stamina spent: %d", rep.Turns, rep.StaminaCost),
		fmt.Sprintf("Coins: %s → %s", common.FormatPoints(rep.PointsBefore), common.FormatPoints(rep.PointsAfter)),
		fmt.Sprintf("Stamina: %d → %d", rep.StaminaBefore, rep.StaminaAfter))

	title := "🗺 " + name + "'s adventure"
	h.reply(chatID, "adventure", render.Card{
		Title: title,
		Lines: lines,
	}, title+"\n"+strings.Join(lines, "\n"))

	for _, t := range rep.Events {
		if t.Achievement == "" {
			continue
		}
		if line, ok := h.achievements.UnlockEvent(ctx, chatID, userID, t.Achievement); ok {
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
