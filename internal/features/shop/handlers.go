// Package shop — handlers.go serves the chat commands:
// shop (catalog), buyitem, useitem, bag.
package shop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/render"
)

type achievementSink interface {
	CheckAndUnlock(ctx context.Context, group, user int64) []string
}

// Handler serves shop commands.
type Handler struct {
	service      *Service
	achievements achievementSink
	renderer     render.Renderer
	bot          *tgbotapi.BotAPI
}

// NewHandler creates the shop command handler.
func NewHandler(service *Service, achievements achievementSink, renderer render.Renderer, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, achievements: achievements, renderer: renderer, bot: bot}
}

// HandleShop serves "shop [tool|food|gift]".
func (h *Handler) HandleShop(ctx context.Context, chatID, userID int64, args []string) {
	cats := Categories
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "tool", "tools":
			cats = []Category{CategoryTool}
		case "food", "foods":
			cats = []Category{CategoryFood}
		case "gift", "gifts":
			cats = []Category{CategoryGift}
		default:
			h.sendMessage(chatID, "❌ Categories: tool, food, gift")
			return
		}
	}

	var lines []string
	for _, cat := range cats {
		lines = append(lines, categoryHeading(cat))
		for _, it := range ByCategory(cat) {
			lines = append(lines, fmt.Sprintf("• %s (%s) — %s\n  %s",
				it.Name, it.ID, common.FormatPoints(it.Price), it.Description))
		}
	}

	h.reply(chatID, "shop", render.Card{
		Title: "🏪 Astral Market",
		Lines: lines,
	}, "🏪 Astral Market\n"+strings.Join(lines, "\n"))
}

// HandleBuyItem serves "buyitem <item> [qty]".
func (h *Handler) HandleBuyItem(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Usage: buyitem <item> [quantity]")
		return
	}
	qty := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			h.sendMessage(chatID, "❌ The quantity must be a positive number.")
			return
		}
		qty = n
	}

	item, total, err := h.service.Buy(ctx, chatID, userID, args[0], qty)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnknownItem):
			h.sendMessage(chatID, "❌ No such item. Try the `shop` command.")
		case errors.Is(err, common.ErrInventoryFull):
			h.sendMessage(chatID, "❌ "+err.Error())
		case errors.Is(err, common.ErrInsufficientPoints):
			h.sendMessage(chatID, fmt.Sprintf("❌ Not enough coins, you need %s.", common.FormatPoints(total)))
		default:
			log.WithError(err).Error("buy item failed")
			h.sendMessage(chatID, "❌ The purchase could not be completed.")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("🛒 Bought %s ×%d for %s.", item.Name, qty, common.FormatPoints(total)))
	for _, line := range h.achievements.CheckAndUnlock(ctx, chatID, userID) {
		h.sendMessage(chatID, line)
	}
}

// HandleUseItem serves "useitem <item>".
func (h *Handler) HandleUseItem(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Usage: useitem <item>")
		return
	}

	res, err := h.service.Use(ctx, chatID, userID, args[0])
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnknownItem):
			h.sendMessage(chatID, "❌ No such item.")
		case errors.Is(err, common.ErrGiftItemUse):
			h.sendMessage(chatID, fmt.Sprintf("❌ %s is a gift. Use `giftitem %s @user` to give it away.", res.Item.Name, res.Item.ID))
		case errors.Is(err, common.ErrItemNotOwned):
			h.sendMessage(chatID, fmt.Sprintf("❌ You have no %s in your bag.", res.Item.Name))
		case errors.Is(err, common.ErrStaminaFull):
			h.sendMessage(chatID, "❌ Your stamina is already full, save the food for later.")
		default:
			log.WithError(err).Error("use item failed")
			h.sendMessage(chatID, "❌ The item could not be used.")
		}
		return
	}

	switch {
	case res.Buff != "" && res.BuffCount > 1:
		h.sendMessage(chatID, fmt.Sprintf("✅ %s used! Pending: %s ×%d", res.Item.Name, res.Item.Description, res.BuffCount))
	case res.Buff != "":
		h.sendMessage(chatID, fmt.Sprintf("✅ %s used! Pending: %s", res.Item.Name, res.Item.Description))
	default:
		h.sendMessage(chatID, fmt.Sprintf("✅ %s eaten! Stamina %+d, now %d/%d.",
			res.Item.Name, res.StaminaChange, res.NewStamina, res.MaxStamina))
	}
}

// HandleBag serves "bag": the user's inventory.
func (h *Handler) HandleBag(ctx context.Context, chatID, userID int64) {
	bag := h.service.Bag(ctx, chatID, userID)
	if bag.Total() == 0 {
		h.sendMessage(chatID, "🎒 Your bag is empty.")
		return
	}

	var lines []string
	for _, cat := range Categories {
		var catLines []string
		for _, it := range ByCategory(cat) {
			if n := bag.Inventory[it.ID]; n > 0 {
				catLines = append(catLines, fmt.Sprintf("• %s ×%d", it.Name, n))
			}
		}
		if len(catLines) > 0 {
			lines = append(lines, categoryHeading(cat))
			lines = append(lines, catLines...)
		}
	}
	lines = append(lines, fmt.Sprintf("Capacity: %d/%d", bag.Total(), MaxTotal))

	h.reply(chatID, "bag", render.Card{
		Title: "🎒 Your bag",
		Lines: lines,
	}, "🎒 Your bag\n"+strings.Join(lines, "\n"))
}

func categoryHeading(cat Category) string {
	switch cat {
	case CategoryTool:
		return "🔧 Tools"
	case CategoryFood:
		return "🍱 Foods"
	default:
		return "🎁 Gifts"
	}
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
