// Package app assembles the application: stores, repositories,
// services, handlers and the bot itself. Initialization order matters,
// later components depend on earlier ones.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/bot"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
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
	"github.com/0d00-Ciallo-0721/astrmarket/internal/jobs"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/render"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

// App holds the running components plus the persistence hooks the
// shutdown path flushes.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	BotAPI    *tgbotapi.BotAPI

	persisters []namedPersister
}

type namedPersister struct {
	name    string
	persist func() error
}

// New creates and initializes the application.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	common.SetLocation(cfg.Location())

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}

	// === 1. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram api: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("authorized as @%s", botAPI.Self.UserName)

	// === 2. Stores and repositories ===
	dataPath := func(name string) string { return filepath.Join(cfg.DataDir, name) }

	memberRepo, err := members.NewRepository(store.NewFile[members.Document](dataPath("members.yaml")))
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	economyRepo, err := economy.NewRepository(store.NewFile[economy.Document](dataPath("users.yaml")))
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	marketRepo, err := market.NewRepository(store.NewFile[market.Document](dataPath("market.yaml")))
	if err != nil {
		return nil, fmt.Errorf("load market: %w", err)
	}
	shopRepo, err := shop.NewRepository(store.NewFile[shop.Document](dataPath("shop.yaml")))
	if err != nil {
		return nil, fmt.Errorf("load shop: %w", err)
	}
	socialRepo, err := social.NewRepository(store.NewFile[social.Document](dataPath("social.yaml")))
	if err != nil {
		return nil, fmt.Errorf("load social: %w", err)
	}
	adminRepo := admin.NewRepository()

	// === 3. Services ===
	rng := common.NewRand(rand.NewSource(time.Now().UnixNano()))

	memberService := members.NewService(memberRepo)
	economyService := economy.NewService(economyRepo)
	signinService := signin.NewService(economyService, rng, cfg)
	lotteryService := lottery.NewService(economyService, rng, cfg)
	marketService := market.NewService(marketRepo, economyService, rng, cfg)
	shopService := shop.NewService(shopRepo, economyService, rng)
	adventureService := adventure.NewService(economyService, shopService, rng, cfg)
	socialService := social.NewService(socialRepo, economyService, shopService, rng, cfg)
	achievementService := achievements.NewService(economyService, func(ctx context.Context, group, user int64) achievements.MarketStats {
		owned, revenue, failures := marketService.Stats(ctx, group, user)
		return achievements.MarketStats{
			OwnedMembers:      owned,
			TotalWorkRevenue:  revenue,
			TotalWorkFailures: failures,
		}
	})
	adminService := admin.NewService(adminRepo, economyService, cfg)

	// === 4. Renderer ===
	var renderer render.Renderer = render.Disabled{}
	if cfg.FeatureRenderEnabled {
		log.Warn("FEATURE_RENDER_ENABLED set but no rendering backend is built in, using text output")
	}

	// === 5. Handlers ===
	// One reply window for every pending follow-up: make-up
	// confirmations, job picks and date invitations all lapse together.
	signinHandler := signin.NewHandler(signinService, memberService, achievementService,
		signin.NewPendingStore(cfg.ReplyTimeout), renderer, botAPI)
	lotteryHandler := lottery.NewHandler(lotteryService, memberService, achievementService, renderer, botAPI)
	marketHandler := market.NewHandler(marketService, memberService, achievementService,
		market.NewWorkSessionStore(cfg.ReplyTimeout), renderer, botAPI)
	shopHandler := shop.NewHandler(shopService, achievementService, renderer, botAPI)
	economyHandler := economy.NewHandler(economyService, memberService, achievementService, renderer, botAPI)
	adventureHandler := adventure.NewHandler(adventureService, memberService, achievementService, renderer, botAPI)
	socialHandler := social.NewHandler(socialService, memberService, achievementService, renderer, botAPI,
		cfg.ReplyTimeout)
	achievementHandler := achievements.NewHandler(achievementService, renderer, botAPI)
	adminHandler := admin.NewHandler(adminService, botAPI)

	// === 6. Bot ===
	b := bot.New(botAPI, cfg, bot.Handlers{
		Members:      memberService,
		Signin:       signinHandler,
		Lottery:      lotteryHandler,
		Market:       marketHandler,
		Shop:         shopHandler,
		Economy:      economyHandler,
		Adventure:    adventureHandler,
		Social:       socialHandler,
		Achievements: achievementHandler,
		Admin:        adminHandler,
	})

	// === 7. Scheduler ===
	scheduler := jobs.NewScheduler(cfg)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		BotAPI:    botAPI,
		persisters: []namedPersister{
			{"economy", economyService.Persist},
			{"market", marketService.Persist},
			{"shop", shopService.Persist},
			{"social", socialService.Persist},
		},
	}, nil
}

// Shutdown flushes every feature document to disk. Repositories also
// save after every mutation, so this is a final safety write rather
// than the only one.
func (a *App) Shutdown() {
	for _, p := range a.persisters {
		if err := p.persist(); err != nil {
			log.WithError(err).WithField("store", p.name).Error("final persist failed")
		}
	}
	log.Info("state flushed to disk")
}
