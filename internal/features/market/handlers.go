// Package market — handlers.go serves the buy/sell/redeem/work command
// family and the job-selection reply for a pending work session.
package market

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

// achievementSink is the slice of the achievements service the market
// needs: event unlocks for the self-buy joke, redemption and the heist,
// plus the general re-check.
type achievementSink interface {
	CheckAndUnlock(ctx context.Context, group, user int64) []string
	UnlockEvent(ctx context.Context, group, user int64, id string) (string, bool)
}

// WorkSession is a pending job choice: the owner has named a worker and
// owes a job pick.
type WorkSession struct {
	Worker int64
}

// NewWorkSessionStore creates the store for pending job choices.
func NewWorkSessionStore(ttl time.Duration) *sessions.Store[WorkSession] {
	return sessions.New[WorkSession](ttl)
}

// Handler serves market commands.
type Handler struct {
	service      *Service
	members      *members.Service
	achievements achievementSink
	work         *sessions.Store[WorkSession]
	renderer     render.Renderer
	bot          *tgbotapi.BotAPI
}

// NewHandler creates the market command handler.
func NewHandler(service *Service, memberService *members.Service, achievements achievementSink, work *sessions.Store[WorkSession], renderer render.Renderer, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:      service,
		members:      memberService,
		achievements: achievements,
		work:         work,
		renderer:     renderer,
		bot:          bot,
	}
}

// HandleBuy serves "buy @user" and "forcebuy @user".
func (h *Handler) HandleBuy(ctx context.Context, chatID, buyerID, targetID int64, confirm bool) {
	if targetID == 0 {
		h.sendMessage(chatID, "❌ Mention the member you want to buy~")
		return
	}
	if h.isBot(targetID) {
		h.sendMessage(chatID, "🙅 The bot is above the market and cannot be traded.")
		return
	}

	res, err := h.service.Buy(ctx, chatID, buyerID, targetID, confirm)
	if err != nil {
		switch err {
		case common.ErrSelfTarget:
			h.sendMessage(chatID, "❌ You cannot buy yourself~")
			if line, ok := h.achievements.UnlockEvent(ctx, chatID, buyerID, "fun_2"); ok {
				h.sendMessage(chatID, line)
			}
		case common.ErrPurchaseDailyLimit:
			h.sendMessage(chatID, fmt.Sprintf("❌ You hit today's purchase limit (%d). Come back tomorrow~", h.service.cfg.MarketDailyPurchases))
		case common.ErrOwnedLimit:
			h.sendMessage(chatID, fmt.Sprintf("❌ You already own %d members and cannot buy more~", h.service.cfg.MarketMaxOwned))
		case common.ErrOwnedByOther:
			h.sendMessage(chatID, fmt.Sprintf("⚠️ %s already belongs to %s. Buying them costs %d Astral Coins; send \"forcebuy @%s\" to confirm.",
				h.members.DisplayName(ctx, targetID),
				h.members.DisplayName(ctx, res.PreviousOwner),
				h.service.cfg.MarketHireCostOwned,
				h.members.DisplayName(ctx, targetID)))
		case common.ErrInsufficientPoints:
			h.sendMessage(chatID, "❌ Not enough Astral Coins for that purchase~")
		default:
			log.WithError(err).Error("buy failed")
			h.sendMessage(chatID, "❌ The purchase could not be completed.")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Purchase complete! You spent %s on %s.",
		common.FormatPoints(res.Price), h.members.DisplayName(ctx, targetID)))
	for _, line := range h.achievements.CheckAndUnlock(ctx, chatID, buyerID) {
		h.sendMessage(chatID, line)
	}
}

// HandleSell serves "sell @user".
func (h *Handler) HandleSell(ctx context.Context, chatID, sellerID, targetID int64) {
	if targetID == 0 {
		h.sendMessage(chatID, "❌ Mention the member you want to sell~")
		return
	}
	if h.isBot(targetID) {
		h.sendMessage(chatID, "🙅 The bot is above the market and cannot be traded.")
		return
	}

	res, err := h.service.Sell(ctx, chatID, sellerID, targetID)
	if err != nil {
		switch err {
		case common.ErrNotOwned:
			h.sendMessage(chatID, "❌ They are not yours to sell~")
		default:
			log.WithError(err).Error("sell failed")
			h.sendMessage(chatID, "❌ The sale could not be completed.")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Sold %s for %s.",
		h.members.DisplayName(ctx, targetID), common.FormatPoints(res.Price)))
}

// HandleRedeem serves "redeem" and "forceredeem".
func (h *Handler) HandleRedeem(ctx context.Context, chatID, userID int64, confirm bool) {
	res, err := h.service.Redeem(ctx, chatID, userID, confirm)
	if err != nil {
		switch err {
		case common.ErrFree:
			h.sendMessage(chatID, "🕊 You are a free spirit already, no redemption needed~")
		case common.ErrNeverWorked:
			h.sendMessage(chatID, fmt.Sprintf("⚠️ You have not worked for %s yet. Redeeming without working costs %d Astral Coins; send \"forceredeem\" to confirm.",
				h.members.DisplayName(ctx, res.Owner), h.service.cfg.MarketForcedRedeemCost))
		case common.ErrInsufficientPoints:
			h.sendMessage(chatID, "❌ Not enough Astral Coins to buy your freedom~")
		default:
			log.WithError(err).Error("redeem failed")
			h.sendMessage(chatID, "❌ The redemption could not be completed.")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Freedom bought for %s!", common.FormatPoints(res.Cost)))
	if line, ok := h.achievements.UnlockEvent(ctx, chatID, userID, "market_2"); ok {
		h.sendMessage(chatID, line)
	}
	for _, line := range h.achievements.CheckAndUnlock(ctx, chatID, userID) {
		h.sendMessage(chatID, line)
	}
}

// HandleWork serves "work @user": validates the order and opens a job
// choice the owner answers via HandleJobReply.
func (h *Handler) HandleWork(ctx context.Context, chatID, ownerID, workerID int64) {
	if workerID == 0 {
		h.sendMessage(chatID, "❌ Mention the member you want to send to work~")
		return
	}
	if h.isBot(workerID) {
		h.sendMessage(chatID, "🙅 The bot is above the market and does not work.")
		return
	}

	if err := h.service.CanWork(ctx, chatID, ownerID, workerID); err != nil {
		switch err {
		case common.ErrNotOwned:
			h.sendMessage(chatID, "❌ They are not your member, you cannot send them to work~")
		case common.ErrAlreadyWorked:
			h.sendMessage(chatID, "❌ They already worked for you. Buy them again before sending them back to work~")
		default:
			log.WithError(err).Error("work init failed")
			h.sendMessage(chatID, "❌ The work order could not be opened.")
		}
		return
	}

	h.work.Put(sessions.Key(chatID, ownerID), WorkSession{Worker: workerID})

	lines := make([]string, 0, len(Jobs()))
	for _, j := range Jobs() {
		if j.HighRisk {
			lines = append(lines, fmt.Sprintf("• %s — %.0f coins, %.0f%% success, high stakes",
				j.Name, j.RewardMin, j.SuccessRate*100))
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s — %.0f-%.0f coins, %.0f%% success",
			j.Name, j.RewardMin, j.RewardMax, j.SuccessRate*100))
	}
	title := fmt.Sprintf("💼 Pick a job for %s", h.members.DisplayName(ctx, workerID))
	h.reply(chatID, "worklist", render.Card{
		Title: title,
		Lines: lines,
	}, title+":\n"+strings.Join(lines, "\n"))
}

// HandleJobReply routes a plain-text reply to a pending work session.
// Returns false when the user has no session or the text names no job.
func (h *Handler) HandleJobReply(ctx context.Context, chatID, ownerID int64, text string) bool {
	key := sessions.Key(chatID, ownerID)
	sess, ok := h.work.Get(key)
	if !ok {
		return false
	}
	job, ok := FindJob(strings.ToLower(strings.TrimSpace(text)))
	if !ok {
		return false
	}

	// the session is spent by the attempt, success or failure
	h.work.Take(key)

	res, err := h.service.ExecuteWork(ctx, chatID, ownerID, sess.Value.Worker, job.Name)
	if err != nil {
		switch err {
		case common.ErrNotOwned, common.ErrAlreadyWorked:
			h.sendMessage(chatID, "❌ That work order is no longer valid.")
		default:
			log.WithError(err).Error("work failed")
			h.sendMessage(chatID, "❌ The work attempt could not be completed.")
		}
		return true
	}

	workerName := h.members.DisplayName(ctx, sess.Value.Worker)
	var sb strings.Builder
	if res.Guaranteed {
		sb.WriteString("⚡ Energy surge: this attempt could not fail!\n")
	}
	if res.Boosted {
		sb.WriteString(fmt.Sprintf("⚡ Energy Drink: reward boosted by %d%%!\n", res.BoostPct))
	}
	if res.Waived {
		sb.WriteString("🧿 Guard Charm: the failure cost you nothing!\n")
		sb.WriteString(res.Job.Failure(workerName, 0))
	} else if res.Success {
		sb.WriteString(res.Job.Success(workerName, res.Amount))
	} else {
		sb.WriteString(res.Job.Failure(workerName, -res.Amount))
	}
	sb.WriteString(fmt.Sprintf("\nBalance: %s", common.FormatPoints(res.Balance)))
	h.sendMessage(chatID, sb.String())

	if res.Success && res.Job.HighRisk {
		if line, ok := h.achievements.UnlockEvent(ctx, chatID, ownerID, "work_1"); ok {
			h.sendMessage(chatID, line)
		}
	}
	for _, line := range h.achievements.CheckAndUnlock(ctx, chatID, ownerID) {
		h.sendMessage(chatID, line)
	}
	return true
}

// HandleStatus serves "market": the user's standing in the market.
func (h *Handler) HandleStatus(ctx context.Context, chatID, userID int64) {
	st := h.service.Status(ctx, chatID, userID)

	var lines []string
	if st.Owner != 0 {
		worked := "not yet worked for them"
		if st.WorkedForOwner {
			worked = "already worked for them"
		}
		lines = append(lines, fmt.Sprintf("👤 Owner: %s (%s)", h.members.DisplayName(ctx, st.Owner), worked))
	} else {
		lines = append(lines, "🕊 Free")
	}
	if len(st.Owned) > 0 {
		lines = append(lines, "Owned members:")
		for _, m := range st.Owned {
			mark := " "
			if m.HasWorked {
				mark = "✔"
			}
			lines = append(lines, fmt.Sprintf("  %s %s", mark, h.members.DisplayName(ctx, m.UserID)))
		}
	}
	lines = append(lines, fmt.Sprintf("Purchases today: %d/%d", st.DailyPurchases, st.MaxPurchases))

	title := "🏪 Market status: " + h.members.DisplayName(ctx, userID)
	h.reply(chatID, "market", render.Card{
		Title: title,
		Lines: lines,
	}, title+"\n"+strings.Join(lines, "\n"))
}

// isBot reports whether the target is the bot itself.
func (h *Handler) isBot(userID int64) bool {
	return h.bot != nil && h.bot.Self.ID == userID
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
