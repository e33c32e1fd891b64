// Package bot owns the update loop: polling, access control, command
// parsing and routing to the feature handlers.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/bot/filters"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/bot/middleware"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/achievements"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/admin"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/adventure"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/lottery"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/market"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/members"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/shop"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/signin"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/social"
)

const helpText = `🌟 AstrMarket commands (prefix with ! . or /):
sign - daily sign-in
lottery - one paid draw
buy/sell/redeem/work/market - member market
shop/buyitem/useitem/bag/buffs - shop and inventory
gift <amount> - give Astral Coins (mention someone)
giftitem <item> - give a gift item (mention someone)
adventure [turns] / superadventure - spend stamina on events
date / relation / network / bond <kind> / unbond - social life
achievements / titles / equip <title> / unequip - trophy wall
top [wealth|streak|jackpot] - leaderboards
balance - your wallet`

// Handlers bundles every feature handler the router dispatches to.
type Handlers struct {
	Members      *members.Service
	Signin       *signin.Handler
	Lottery      *lottery.Handler
	Market       *market.Handler
	Shop         *shop.Handler
	Economy      *economy.Handler
	Adventure    *adventure.Handler
	Social       *social.Handler
	Achievements *achievements.Handler
	Admin        *admin.Handler
}

// Bot is the top-level update processor.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter
	parser      *CommandParser
	handlers    Handlers

	// inflight caps concurrent update handling.
	inflight chan struct{}
}

// New wires the bot together.
func New(api *tgbotapi.BotAPI, cfg *config.Config, handlers Handlers) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:         api,
		cfg:         cfg,
		chatFilter:  filters.NewChatFilter(cfg),
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		parser:      NewCommandParser(),
		handlers:    handlers,
		inflight:    make(chan struct{}, maxInFlight),
	}
}

// Start runs the polling loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			log.Info("bot stopping (ctx done)")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("updates channel closed, bot stopped")
				b.rateLimiter.Close()
				return
			}

			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate processes one Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	message := update.Message

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(ctx, message) {
		return
	}
	if message.From != nil && !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	if err := b.handlers.Members.EnsureMember(ctx, userID,
		message.From.UserName, message.From.FirstName, message.From.LastName,
	); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureMember failed")
	}

	// Private chats carry only the admin panel.
	if message.Chat.IsPrivate() {
		b.handlers.Admin.HandleMessage(ctx, chatID, userID, message.Text)
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if isCommand {
		b.routeCommand(ctx, message, cmd, args)
		return
	}

	// Plain text may answer a pending prompt: make-up sign, job pick
	// or a date invitation.
	if b.handlers.Signin.HandleReply(ctx, chatID, userID, message.Text) {
		return
	}
	if b.handlers.Market.HandleJobReply(ctx, chatID, userID, message.Text) {
		return
	}
	if b.cfg.FeatureSocialEnabled && b.handlers.Social.HandleReply(ctx, chatID, userID, message.Text) {
		return
	}

	// A thank-you reply bumps favorability toward the thanker.
	if b.cfg.FeatureSocialEnabled && message.ReplyToMessage != nil && message.ReplyToMessage.From != nil {
		if social.IsThankYou(message.Text) && message.ReplyToMessage.From.ID != b.api.Self.ID {
			b.handlers.Social.HandleThankYou(ctx, chatID, userID, message.ReplyToMessage.From.ID)
		}
	}
}

// routeCommand dispatches a parsed command.
func (b *Bot) routeCommand(ctx context.Context, message *tgbotapi.Message, cmd string, args []string) {
	chatID := message.Chat.ID
	userID := message.From.ID
	target := b.targetUser(ctx, message, args)
	rest := stripMentions(args)

	log.WithFields(log.Fields{
		"cmd": cmd, "args": args, "target": target, "user_id": userID,
	}).Debug("routing command")

	switch cmd {
	case "start", "help":
		b.sendMessage(chatID, helpText)

	case "sign", "checkin":
		b.handlers.Signin.HandleSign(ctx, chatID, userID)

	case "lottery", "draw":
		if b.cfg.FeatureLotteryEnabled {
			b.handlers.Lottery.HandleDraw(ctx, chatID, userID)
		} else {
			b.sendMessage(chatID, "🎰 The lottery is switched off.")
		}

	case "buy", "forcebuy":
		if b.cfg.FeatureMarketEnabled {
			b.handlers.Market.HandleBuy(ctx, chatID, userID, target, cmd == "forcebuy")
		}
	case "sell":
		if b.cfg.FeatureMarketEnabled {
			b.handlers.Market.HandleSell(ctx, chatID, userID, target)
		}
	case "redeem", "forceredeem":
		if b.cfg.FeatureMarketEnabled {
			b.handlers.Market.HandleRedeem(ctx, chatID, userID, cmd == "forceredeem")
		}
	case "work":
		if b.cfg.FeatureMarketEnabled {
			b.handlers.Market.HandleWork(ctx, chatID, userID, target)
		}
	case "market", "status":
		if b.cfg.FeatureMarketEnabled {
			b.handlers.Market.HandleStatus(ctx, chatID, userID)
		}

	case "shop":
		b.handlers.Shop.HandleShop(ctx, chatID, userID, args)
	case "buyitem":
		b.handlers.Shop.HandleBuyItem(ctx, chatID, userID, args)
	case "useitem":
		b.handlers.Shop.HandleUseItem(ctx, chatID, userID, args)
	case "bag", "backpack":
		b.handlers.Shop.HandleBag(ctx, chatID, userID)
	case "buffs":
		b.handlers.Economy.HandleBuffs(ctx, chatID, userID)

	case "gift", "transfer":
		amount := ""
		if len(rest) > 0 {
			amount = rest[0]
		}
		b.handlers.Economy.HandleGift(ctx, chatID, userID, target, amount)
	case "giftitem":
		if b.cfg.FeatureSocialEnabled {
			b.handlers.Social.HandleGiftItem(ctx, chatID, userID, target, strings.Join(rest, " "))
		}

	case "adventure":
		if b.cfg.FeatureAdventureEnabled {
			b.handlers.Adventure.HandleAdventure(ctx, chatID, userID, args)
		}
	case "superadventure":
		if b.cfg.FeatureAdventureEnabled {
			b.handlers.Adventure.HandleSuperAdventure(ctx, chatID, userID)
		}

	case "date":
		if b.cfg.FeatureSocialEnabled {
			b.handlers.Social.HandleDate(ctx, chatID, userID, target)
		}
	case "relation":
		if b.cfg.FeatureSocialEnabled {
			b.handlers.Social.HandleRelation(ctx, chatID, userID, target)
		}
	case "network":
		if b.cfg.FeatureSocialEnabled {
			b.handlers.Social.HandleNetwork(ctx, chatID, userID)
		}
	case "bond":
		if b.cfg.FeatureSocialEnabled {
			kind := ""
			if len(rest) > 0 {
				kind = rest[0]
			}
			b.handlers.Social.HandleBond(ctx, chatID, userID, target, kind)
		}
	case "unbond":
		if b.cfg.FeatureSocialEnabled {
			b.handlers.Social.HandleUnbond(ctx, chatID, userID, target)
		}

	case "achievements", "wall":
		b.handlers.Achievements.HandleWall(ctx, chatID, userID)
	case "titles":
		b.handlers.Achievements.HandleTitles(ctx, chatID, userID)
	case "equip":
		b.handlers.Achievements.HandleEquip(ctx, chatID, userID, args)
	case "unequip":
		b.handlers.Achievements.HandleUnequip(ctx, chatID, userID)

	case "top", "leaderboard":
		b.handlers.Economy.HandleLeaderboard(ctx, chatID, userID, args)
	case "balance", "coins":
		b.handlers.Economy.HandleBalance(ctx, chatID, userID)
	}
}

// targetUser resolves the member a command points at: a text mention
// entity, an @username argument, or the replied-to message author.
func (b *Bot) targetUser(ctx context.Context, message *tgbotapi.Message, args []string) int64 {
	for _, e := range message.Entities {
		if e.Type == "text_mention" && e.User != nil {
			return e.User.ID
		}
	}
	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") {
			continue
		}
		if id, ok := b.handlers.Members.ResolveUsername(ctx, strings.TrimPrefix(arg, "@")); ok {
			return id
		}
	}
	if message.ReplyToMessage != nil && message.ReplyToMessage.From != nil {
		return message.ReplyToMessage.From.ID
	}
	return 0
}

// stripMentions drops @username arguments, leaving the value
// arguments (amounts, item names, relation kinds).
func stripMentions(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if strings.HasPrefix(a, "@") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("message send failed")
	}
}

// CommandParser parses commands with the ! . / prefixes.
type CommandParser struct {
	validPrefixes []string
}

func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand splits text into a command and its arguments. Returns
// false when the text carries no command prefix.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return "", nil, false
	}

	// "/sign@AstrMarketBot" is still "sign".
	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	return command, args, true
}
