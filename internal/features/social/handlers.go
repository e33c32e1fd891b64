// Package social — handlers.go serves the gift, date, bond and
// relationship commands.
package social

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

// achievementSink is the slice of the achievements service the social
// commands need.
type achievementSink interface {
	CheckAndUnlock(ctx context.Context, group, user int64) []string
	UnlockEvent(ctx context.Context, group, user int64, id string) (string, bool)
}

// dateInvite is a pending invitation, keyed by chat and invited user.
type dateInvite struct {
	Initiator int64
}

// Handler serves social commands.
type Handler struct {
	service      *Service
	members      *members.Service
	achievements achievementSink
	renderer     render.Renderer
	bot          *tgbotapi.BotAPI

	// invites is keyed by the invited user, outgoing by the
	// initiator. Both sides of a pending date are blocked from
	// starting another one.
	invites  *sessions.Store[dateInvite]
	outgoing *sessions.Store[int64]
}

// NewHandler creates the social command handler. inviteTTL bounds how
// long a date invitation waits for an answer.
func NewHandler(service *Service, memberService *members.Service, achievements achievementSink, renderer render.Renderer, bot *tgbotapi.BotAPI, inviteTTL time.Duration) *Handler {
	return &Handler{
		service:      service,
		members:      memberService,
		achievements: achievements,
		renderer:     renderer,
		bot:          bot,
		invites:      sessions.New[dateInvite](inviteTTL),
		outgoing:     sessions.New[int64](inviteTTL),
	}
}

// HandleGiftItem serves "giftitem <item>" with a mentioned receiver.
func (h *Handler) HandleGiftItem(ctx context.Context, chatID, senderID, targetID int64, itemName string) {
	name := h.members.DisplayName(ctx, senderID)
	if targetID == 0 {
		h.sendMessage(chatID, fmt.Sprintf("🎁 %s, mention the member you want to gift.", name))
		return
	}
	if itemName == "" {
		h.sendMessage(chatID, fmt.Sprintf("🎁 %s, tell me which gift to send.", name))
		return
	}
	targetName := h.members.DisplayName(ctx, targetID)

	res, err := h.service.GiftItem(ctx, chatID, senderID, targetID, itemName)
	if err != nil {
		switch err {
		case common.ErrSelfTarget:
			h.sendMessage(chatID, "🎁 You cannot gift yourself~")
		case common.ErrUnknownItem:
			h.sendMessage(chatID, fmt.Sprintf("🎁 '%s' is not a gift in the shop.", itemName))
		case common.ErrRelationGift:
			h.sendMessage(chatID, fmt.Sprintf("🎁 %s seals a special relationship. Use \"bond %s\" with a mention instead.", res.Item.Name, res.Item.Relation))
		case common.ErrFavorCapped:
			h.sendMessage(chatID, fmt.Sprintf("💝 %s's favorability toward you is parked at 100. Seal a special relationship to go further.", targetName))
		case common.ErrItemNotOwned:
			h.sendMessage(chatID, fmt.Sprintf("🎁 %s, you have no %s in your bag.", name, res.Item.Name))
		default:
			log.WithError(err).Error("gift item failed")
			h.sendMessage(chatID, "❌ The gift could not be delivered.")
		}
		return
	}

	text := fmt.Sprintf("🎁 %s gave %s to %s!\n", name, res.Item.Name, targetName)
	if res.LevelBefore != res.LevelAfter {
		text += fmt.Sprintf("Favorability +%d (%d → %d), relationship upgraded to [%s]!", res.Gain, res.Before, res.After, res.LevelAfter)
	} else {
		text += fmt.Sprintf("Favorability +%d (%d → %d), current relationship: [%s].", res.Gain, res.Before, res.After, res.LevelAfter)
	}
	h.sendMessage(chatID, text)

	if res.SocialMaster {
		if line, ok := h.achievements.UnlockEvent(ctx, chatID, targetID, "social_master"); ok {
			h.sendMessage(chatID, line)
		}
	}
}

// HandleThankYou turns a thank-you reply into a favorability bump for
// the thanked member. Limit violations stay silent; a chat full of
// "already thanked today" notices would be noise.
func (h *Handler) HandleThankYou(ctx context.Context, chatID, fromID, toID int64) {
	after, err := h.service.Thank(ctx, chatID, fromID, toID)
	if err != nil {
		log.WithError(err).Debug("thank-you bump skipped")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("💖 %s appreciates the thanks! Favorability toward %s is now %d.",
		h.members.DisplayName(ctx, toID), h.members.DisplayName(ctx, fromID), after))
}

// HandleDate serves "date" with a mentioned partner: spends one daily
// date and posts an invitation the target must answer.
func (h *Handler) HandleDate(ctx context.Context, chatID, initiatorID, targetID int64) {
	name := h.members.DisplayName(ctx, initiatorID)
	if targetID == 0 {
		h.sendMessage(chatID, fmt.Sprintf("💞 %s, mention the member you want to invite.", name))
		return
	}
	if targetID == h.bot.Self.ID {
		h.sendMessage(chatID, "💞 Sorry, I am far too busy for dates~")
		return
	}

	if _, busy := h.invites.Get(sessions.Key(chatID, targetID)); busy {
		h.sendMessage(chatID, "💞 That member is already being invited by somebody else. Try again shortly.")
		return
	}
	if _, busy := h.outgoing.Get(sessions.Key(chatID, initiatorID)); busy {
		h.sendMessage(chatID, fmt.Sprintf("💞 %s, your previous invitation is still waiting for an answer.", name))
		return
	}

	if err := h.service.BeginDate(ctx, chatID, initiatorID, targetID); err != nil {
		switch err {
		case common.ErrSelfTarget:
			h.sendMessage(chatID, "💞 You cannot date yourself~")
		case common.ErrDateDailyLimit:
			h.sendMessage(chatID, fmt.Sprintf("💞 %s, you already dated %d times today. Come back tomorrow~", name, h.service.cfg.SocialDateDailyCap))
		default:
			log.WithError(err).Error("date invitation failed")
			h.sendMessage(chatID, "❌ The invitation could not be sent.")
		}
		return
	}

	h.invites.Put(sessions.Key(chatID, targetID), dateInvite{Initiator: initiatorID})
	h.outgoing.Put(sessions.Key(chatID, initiatorID), targetID)

	targetName := h.members.DisplayName(ctx, targetID)
	h.sendMessage(chatID, fmt.Sprintf("💞 %s invited %s on a date!\n%s, reply \"accept\" within %.0f seconds, or \"decline\".",
		name, targetName, targetName, h.invitesTTLSeconds()))
}

func (h *Handler) invitesTTLSeconds() float64 {
	return h.service.cfg.ReplyTimeout.Seconds()
}

// HandleReply routes a plain message from a user holding a pending
// date invitation. Returns false when the message is not an answer.
func (h *Handler) HandleReply(ctx context.Context, chatID, userID int64, text string) bool {
	key := sessions.Key(chatID, userID)
	sess, ok := h.invites.Get(key)
	if !ok {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "accept", "yes":
		h.invites.Delete(key)
		h.outgoing.Delete(sessions.Key(chatID, sess.Value.Initiator))
		h.runDate(ctx, chatID, sess.Value.Initiator, userID)
		return true
	case "decline", "no":
		h.invites.Delete(key)
		h.outgoing.Delete(sessions.Key(chatID, sess.Value.Initiator))
		h.sendMessage(chatID, fmt.Sprintf("💔 %s declined %s's date invitation.",
			h.members.DisplayName(ctx, userID), h.members.DisplayName(ctx, sess.Value.Initiator)))
		return true
	}
	return false
}

func (h *Handler) runDate(ctx context.Context, chatID, initiatorID, targetID int64) {
	initiatorName := h.members.DisplayName(ctx, initiatorID)
	targetName := h.members.DisplayName(ctx, targetID)

	res, err := h.service.RunDate(ctx, chatID, initiatorID, targetID)
	if err != nil {
		log.WithError(err).Error("date failed")
		h.sendMessage(chatID, "❌ The date fell apart before it began.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 Date Report: %s × %s\n\n", initiatorName, targetName))
	for i, sc := range res.Scenes {
		sb.WriteString(fmt.Sprintf("%d. %s\n%s\n", i+1, sc.Event.Name, sc.Event.Description))
	}
	sb.WriteString("\n")
	sb.WriteString(dateSideLine(initiatorName, targetName, res.Initiator))
	sb.WriteString(dateSideLine(targetName, initiatorName, res.Target))

	h.reply(chatID, "date", render.Card{
		Title:    "💞 Date Report",
		Subtitle: fmt.Sprintf("%s × %s", initiatorName, targetName),
		Lines:    strings.Split(strings.TrimRight(sb.String(), "\n"), "\n"),
	}, strings.TrimRight(sb.String(), "\n"))

	for _, side := range []struct {
		user  int64
		first bool
	}{{initiatorID, res.FirstForInitiator}, {targetID, res.FirstForTarget}} {
		if side.first {
			if line, ok := h.achievements.UnlockEvent(ctx, chatID, side.user, "social_date_beginner"); ok {
				h.sendMessage(chatID, line)
			}
		}
		for _, line := range h.achievements.CheckAndUnlock(ctx, chatID, side.user) {
			h.sendMessage(chatID, line)
		}
	}
}

func dateSideLine(who, toward string, side DateSide) string {
	line := fmt.Sprintf("%s → %s: %+d (%d → %d), [%s]", who, toward, side.Change, side.Before, side.After, side.LevelAfter)
	if side.LevelUp {
		line += " ⬆"
	}
	return line + "\n"
}

// HandleBond serves "bond <kind>" with a mentioned partner.
func (h *Handler) HandleBond(ctx context.Context, chatID, userID, targetID int64, kindName string) {
	name := h.members.DisplayName(ctx, userID)

	kind, ok := KindFromName(kindName)
	if !ok {
		kinds := make([]string, 0, len(RelationKinds))
		for _, k := range RelationKinds {
			kinds = append(kinds, string(k))
		}
		h.sendMessage(chatID, fmt.Sprintf("💍 Usage: bond <%s> with a mention.", strings.Join(kinds, "|")))
		return
	}
	if targetID == 0 {
		h.sendMessage(chatID, fmt.Sprintf("💍 %s, mention the member you want to bond with.", name))
		return
	}
	targetName := h.members.DisplayName(ctx, targetID)

	res, err := h.service.Bond(ctx, chatID, userID, targetID, kind)
	if err != nil {
		switch err {
		case common.ErrSelfTarget:
			h.sendMessage(chatID, "💍 You cannot bond with yourself~")
		case common.ErrFavorTooLow:
			h.sendMessage(chatID, fmt.Sprintf("💍 Favorability must reach 100 on %s before sealing a %s bond.",
				favorSides(kind), RelationName(kind)))
		case common.ErrRelationSlotTaken:
			h.sendMessage(chatID, fmt.Sprintf("💍 %s, you already have a %s. Break that bond first.", name, RelationName(kind)))
		case common.ErrTargetSlotTaken:
			h.sendMessage(chatID, fmt.Sprintf("💍 %s already has a %s.", targetName, RelationName(kind)))
		case common.ErrAlreadyRelated:
			h.sendMessage(chatID, fmt.Sprintf("💍 %s and %s are already bound by a special relationship.", name, targetName))
		case common.ErrItemNotOwned:
			h.sendMessage(chatID, fmt.Sprintf("💍 Sealing a %s bond takes a %s. Visit the shop first.", RelationName(kind), res.Item.Name))
		default:
			log.WithError(err).Error("bond failed")
			h.sendMessage(chatID, "❌ The bond could not be sealed.")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("💍 Congratulations! %s and %s sealed a [%s] bond! (%s consumed)",
		name, targetName, RelationName(res.Kind), res.Item.Name))

	if res.Kind == RelationPatron {
		if line, ok := h.achievements.UnlockEvent(ctx, chatID, userID, "social_patron"); ok {
			h.sendMessage(chatID, line)
		}
	}
}

func favorSides(kind RelationKind) string {
	if kind == RelationPatron {
		return "their side"
	}
	return "both sides"
}

// HandleUnbond serves "unbond" with a mentioned partner.
func (h *Handler) HandleUnbond(ctx context.Context, chatID, userID, targetID int64) {
	name := h.members.DisplayName(ctx, userID)
	if targetID == 0 {
		h.sendMessage(chatID, fmt.Sprintf("💔 %s, mention the member you want to part with.", name))
		return
	}
	targetName := h.members.DisplayName(ctx, targetID)

	res, err := h.service.Unbond(ctx, chatID, userID, targetID)
	if err != nil {
		switch err {
		case common.ErrSelfTarget:
			h.sendMessage(chatID, "💔 You cannot part with yourself~")
		case common.ErrNotRelated:
			h.sendMessage(chatID, fmt.Sprintf("💔 %s and %s have no special relationship to break.", name, targetName))
		default:
			log.WithError(err).Error("unbond failed")
			h.sendMessage(chatID, "❌ The bond could not be broken.")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("💔 %s broke the [%s] bond with %s. Both sides reset to favorability 50 (Friend).",
		name, RelationName(res.Kind), targetName))
}

// HandleRelation serves "relation" with a mention: the pairwise card.
func (h *Handler) HandleRelation(ctx context.Context, chatID, userID, targetID int64) {
	name := h.members.DisplayName(ctx, userID)
	if targetID == 0 {
		h.sendMessage(chatID, fmt.Sprintf("💗 %s, mention the member you are curious about.", name))
		return
	}
	targetName := h.members.DisplayName(ctx, targetID)

	card := h.service.Relationship(ctx, chatID, userID, targetID)

	lines := []string{
		fmt.Sprintf("%s → %s: %d [%s]", name, targetName, card.ToTarget, card.ToTargetLevel),
		fmt.Sprintf("%s → %s: %d [%s]", targetName, name, card.ToInitiator, card.ToInitLevel),
	}
	if card.HasRelation {
		lines = append(lines, fmt.Sprintf("Special relationship: ♥%s♥", RelationName(card.Relation)))
	}
	text := fmt.Sprintf("💗 Relationship: %s × %s\n%s", name, targetName, strings.Join(lines, "\n"))

	h.reply(chatID, "relation", render.Card{
		Title:    "💗 Relationship",
		Subtitle: fmt.Sprintf("%s × %s", name, targetName),
		Lines:    lines,
	}, text)
}

// HandleNetwork serves "network": the user's strongest ties.
func (h *Handler) HandleNetwork(ctx context.Context, chatID, userID int64) {
	name := h.members.DisplayName(ctx, userID)

	entries := h.service.Network(ctx, chatID, userID, 5)
	if len(entries) == 0 {
		h.sendMessage(chatID, fmt.Sprintf("💗 %s, your relationship network is empty. Gifts and dates grow it.", name))
		return
	}

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		mark := ""
		if e.HasRelation {
			mark = fmt.Sprintf(" ♥%s♥", RelationName(e.Relation))
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s: favorability %d, [%s]",
			i+1, h.members.DisplayName(ctx, e.UserID), mark, e.Favor, e.Level))
	}
	text := fmt.Sprintf("💗 %s's relationship network\n%s", name, strings.Join(lines, "\n"))

	h.reply(chatID, "network", render.Card{
		Title:    "💗 Relationship Network",
		Subtitle: name,
		Lines:    lines,
	}, text)
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
