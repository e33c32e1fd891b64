// Package economy — handlers.go serves the chat commands:
// balance, gift (currency transfer), leaderboards, active buffs.
package economy

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

// achievementSink is the slice of the achievements service this handler
// needs: re-check general rules and fire event unlocks after a gift.
type achievementSink interface {
	CheckAndUnlock(ctx context.Context, group, user int64) []string
	UnlockEvent(ctx context.Context, group, user int64, id string) (string, bool)
}

// Handler serves economy commands.
type Handler struct {
	service      *Service
	members      *members.Service
	achievements achievementSink
	renderer     render.Renderer
	bot          *tgbotapi.BotAPI
}

// NewHandler creates the economy command handler.
func NewHandler(service *Service, memberService *members.Service, achievements achievementSink, renderer render.Renderer, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:      service,
		members:      memberService,
		achievements: achievements,
		renderer:     renderer,
		bot:          bot,
	}
}

// HandleBalance serves "balance": coins, stamina, streak, title.
func (h *Handler) HandleBalance(ctx context.Context, chatID, userID int64) {
	rec := h.service.Record(ctx, chatID, userID)
	name := h.members.DisplayName(ctx, userID)

	lines := []string{
		fmt.Sprintf("💰 %s", common.FormatPoints(rec.Points)),
		fmt.Sprintf("⚡ Stamina: %d/%d", rec.Stamina, rec.MaxStamina),
		fmt.Sprintf("📅 Streak: %d %s (total %d)", rec.StreakDays,
			common.Plural(rec.StreakDays, "day", "days"), rec.TotalDays),
	}
	if rec.CurrentTitle != "" {
		lines = append(lines, fmt.Sprintf("🎖 Title: %s", rec.CurrentTitle))
	}

	h.reply(chatID, "balance", render.Card{
		Title: name,
		Lines: lines,
	}, fmt.Sprintf("📊 %s\n%s", name, strings.Join(lines, "\n")))
}

// HandleGift serves "gift @user <amount>".
func (h *Handler) HandleGift(ctx context.Context, chatID, fromID, targetID int64, amountArg string) {
	if targetID == 0 {
		h.sendMessage(chatID, "❌ Who is that? Mention a user I have seen before.")
		return
	}
	amount, err := strconv.ParseFloat(amountArg, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(chatID, "❌ Usage: gift @user <positive amount>")
		return
	}

	res, err := h.service.Gift(ctx, chatID, fromID, targetID, amount)
	if err != nil {
		switch err {
		case common.ErrSelfTarget:
			h.sendMessage(chatID, "❌ Gifting coins to yourself moves nothing.")
		case common.ErrInsufficientPoints:
			h.sendMessage(chatID, "❌ Not enough Astral Coins for that gift.")
		case common.ErrInvalidAmount:
			h.sendMessage(chatID, "❌ The amount must be positive.")
		default:
			log.WithError(err).Error("gift failed")
			h.sendMessage(chatID, "❌ The gift could not be completed.")
		}
		return
	}

	toName := h.members.DisplayName(ctx, targetID)
	text := fmt.Sprintf("🎁 Gifted %s to %s!\nYour balance: %s\nGiving streak: %d %s",
		common.FormatPoints(amount), toName,
		common.FormatPoints(res.SenderBalance),
		res.StreakDays, common.Plural(res.StreakDays, "day", "days"))
	h.sendMessage(chatID, text)

	if res.BigGift {
		if line, ok := h.achievements.UnlockEvent(ctx, chatID, fromID, "big_gift"); ok {
			h.sendMessage(chatID, line)
		}
	}
	for _, line := range h.achievements.CheckAndUnlock(ctx, chatID, fromID) {
		h.sendMessage(chatID, line)
	}
}

// HandleLeaderboard serves "top [wealth|streak|luck]".
func (h *Handler) HandleLeaderboard(ctx context.Context, chatID, userID int64, args []string) {
	kind := BoardWealth
	title := "💰 Wealth leaderboard"
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "wealth", "coins":
			kind, title = BoardWealth, "💰 Wealth leaderboard"
		case "streak", "signin":
			kind, title = BoardStreak, "📅 Sign-in streak leaderboard"
		case "luck", "jackpot":
			kind, title = BoardLuck, "🍀 Lucky-draw leaderboard"
		default:
			h.sendMessage(chatID, "❌ Boards: wealth, streak, luck")
			return
		}
	}

	board := h.service.Leaderboard(ctx, chatID, kind, userID)
	if len(board.Entries) == 0 {
		h.sendMessage(chatID, "📋 Nothing on this board yet.")
		return
	}

	lines := make([]string, 0, len(board.Entries)+1)
	for i, e := range board.Entries {
		lines = append(lines, fmt.Sprintf("%2d. %s — %s",
			i+1, h.members.DisplayName(ctx, e.UserID), formatScore(kind, e.Score)))
	}
	if board.RequesterRank > 0 {
		lines = append(lines, fmt.Sprintf("Your rank: #%d (%s)",
			board.RequesterRank, formatScore(kind, board.RequesterScore)))
	}

	h.reply(chatID, "leaderboard", render.Card{
		Title: title,
		Lines: lines,
	}, title+"\n"+strings.Join(lines, "\n"))
}

// HandleBuffs serves "buffs": the user's pending one-shot effects.
func (h *Handler) HandleBuffs(ctx context.Context, chatID, userID int64) {
	rec := h.service.Record(ctx, chatID, userID)
	if len(rec.Buffs) == 0 {
		h.sendMessage(chatID, "✨ No effects pending.")
		return
	}
	var sb strings.Builder
	sb.WriteString("✨ Pending effects:\n")
	for b, count := range rec.Buffs {
		if count > 1 {
			sb.WriteString(fmt.Sprintf("• %s ×%d\n", BuffName(b), count))
			continue
		}
		sb.WriteString("• " + BuffName(b) + "\n")
	}
	h.sendMessage(chatID, sb.String())
}

func formatScore(kind BoardKind, score float64) string {
	switch kind {
	case BoardStreak:
		return fmt.Sprintf("%.0f days", score)
	case BoardLuck:
		return fmt.Sprintf("%.0f big wins", score)
	default:
		return common.FormatPoints(score)
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
