// Package achievements — handlers.go serves the chat commands:
// achievements (the wall), titles, equip, unequip.
package achievements

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/render"
)

// Handler serves achievement and title commands.
type Handler struct {
	service  *Service
	renderer render.Renderer
	bot      *tgbotapi.BotAPI
}

// NewHandler creates the achievements command handler.
func NewHandler(service *Service, renderer render.Renderer, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, renderer: renderer, bot: bot}
}

// HandleWall serves "achievements": unlocked vs total, in unlock order.
func (h *Handler) HandleWall(ctx context.Context, chatID, userID int64) {
	unlocked := h.service.Unlocked(ctx, chatID, userID)
	total := len(Rules())

	if len(unlocked) == 0 {
		h.sendMessage(chatID, fmt.Sprintf("🏆 No achievements yet (0/%d). Go do something memorable.", total))
		return
	}

	lines := make([]string, 0, len(unlocked))
	for _, rule := range unlocked {
		line := fmt.Sprintf("🏆 %s — %s", rule.Name, rule.Description)
		if rule.RewardTitle != "" {
			line += fmt.Sprintf(" 「%s」", rule.RewardTitle)
		}
		lines = append(lines, line)
	}

	title := fmt.Sprintf("Achievements %d/%d", len(unlocked), total)
	h.reply(chatID, "achievements", render.Card{
		Title: title,
		Lines: lines,
	}, title+"\n"+strings.Join(lines, "\n"))
}

// HandleTitles serves "titles": earned titles plus the equipped one.
func (h *Handler) HandleTitles(ctx context.Context, chatID, userID int64) {
	titles := h.service.Titles(ctx, chatID, userID)
	if len(titles) == 0 {
		h.sendMessage(chatID, "🎖 No titles earned yet.")
		return
	}

	current := h.service.econ.Record(ctx, chatID, userID).CurrentTitle
	var sb strings.Builder
	sb.WriteString("🎖 Your titles:\n")
	for _, t := range titles {
		if t == current {
			sb.WriteString(fmt.Sprintf("• %s (equipped)\n", t))
		} else {
			sb.WriteString(fmt.Sprintf("• %s\n", t))
		}
	}
	sb.WriteString("Equip one with `equip <title>`.")
	h.sendMessage(chatID, sb.String())
}

// HandleEquip serves "equip <title>".
func (h *Handler) HandleEquip(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Usage: equip <title>")
		return
	}
	title := strings.Join(args, " ")

	if err := h.service.EquipTitle(ctx, chatID, userID, title); err != nil {
		switch err {
		case common.ErrTitleNotOwned:
			h.sendMessage(chatID, "❌ You have not earned that title.")
		default:
			log.WithError(err).Error("equip title failed")
			h.sendMessage(chatID, "❌ The title could not be equipped.")
		}
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🎖 Title equipped: 「%s」", title))
}

// HandleUnequip serves "unequip".
func (h *Handler) HandleUnequip(ctx context.Context, chatID, userID int64) {
	if err := h.service.UnequipTitle(ctx, chatID, userID); err != nil {
		switch err {
		case common.ErrNoTitleEquipped:
			h.sendMessage(chatID, "❌ You have no title equipped.")
		default:
			log.WithError(err).Error("unequip title failed")
			h.sendMessage(chatID, "❌ The title could not be removed.")
		}
		return
	}
	h.sendMessage(chatID, "🎖 Title removed.")
}

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
