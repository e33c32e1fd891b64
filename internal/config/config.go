// Package config loads the bot configuration from environment
// variables. envconfig maps the variables onto the Config struct.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds ALL application settings.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	AdminIDsRaw      string  `envconfig:"ADMIN_IDS" default:""`
	AdminIDs         []int64 `envconfig:"-"` // filled manually from AdminIDsRaw
	// Group chats the bot serves. Empty means every group it is
	// added to.
	AllowedChatIDsRaw string  `envconfig:"ALLOWED_CHAT_IDS" default:""`
	AllowedChatIDs    []int64 `envconfig:"-"`

	// --- Storage ---
	// All YAML state files and rendered cards live under this directory.
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Asia/Shanghai"`

	// --- Bot runtime ---
	// Parallel update processing cap. Without it a flood of updates
	// means a goroutine per update and unbounded memory.
	BotMaxInflight          int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Admin ---
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" default:""`

	// --- Sign-in ---
	SignRewardMin  int64 `envconfig:"SIGN_REWARD_MIN" default:"10"`
	SignRewardMax  int64 `envconfig:"SIGN_REWARD_MAX" default:"30"`
	SignMakeUpCost int64 `envconfig:"SIGN_MAKEUP_COST" default:"50"`

	// --- Lottery ---
	LotteryCost     int64 `envconfig:"LOTTERY_COST" default:"15"`
	LotteryDailyCap int   `envconfig:"LOTTERY_DAILY_CAP" default:"3"`

	// --- Market ---
	MarketHireCost         int64 `envconfig:"MARKET_HIRE_COST" default:"30"`
	MarketHireCostOwned    int64 `envconfig:"MARKET_HIRE_COST_OWNED" default:"50"`
	MarketSellPrice        int64 `envconfig:"MARKET_SELL_PRICE" default:"20"`
	MarketRedeemCost       int64 `envconfig:"MARKET_REDEEM_COST" default:"20"`
	MarketForcedRedeemCost int64 `envconfig:"MARKET_FORCED_REDEEM_COST" default:"30"`
	MarketMaxOwned         int   `envconfig:"MARKET_MAX_OWNED" default:"3"`
	MarketDailyPurchases   int   `envconfig:"MARKET_DAILY_PURCHASES" default:"10"`

	// --- Adventure ---
	AdventureStaminaCost int64 `envconfig:"ADVENTURE_STAMINA_COST" default:"20"`
	AdventureMaxTurns    int   `envconfig:"ADVENTURE_MAX_TURNS" default:"10"`

	// --- Social ---
	SocialDateDailyCap int `envconfig:"SOCIAL_DATE_DAILY_CAP" default:"3"`

	// ReplyTimeout bounds every pending follow-up reply: date invites,
	// make-up sign confirmations, job picks. On expiry the pending
	// interaction is dropped.
	ReplyTimeout time.Duration `envconfig:"REPLY_TIMEOUT" default:"60s"`

	// --- Rendering ---
	// Card rendering is optional; with it off every reply degrades to
	// plain text.
	FeatureRenderEnabled bool `envconfig:"FEATURE_RENDER_ENABLED" default:"false"`

	// --- Cleanup job ---
	CleanupIntervalHours int `envconfig:"CLEANUP_INTERVAL_HOURS" default:"24"`
	CleanupMaxAgeDays    int `envconfig:"CLEANUP_MAX_AGE_DAYS" default:"7"`

	// --- Rate limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"20"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature flags ---
	FeatureLotteryEnabled   bool `envconfig:"FEATURE_LOTTERY_ENABLED" default:"true"`
	FeatureMarketEnabled    bool `envconfig:"FEATURE_MARKET_ENABLED" default:"true"`
	FeatureAdventureEnabled bool `envconfig:"FEATURE_ADVENTURE_ENABLED" default:"true"`
	FeatureSocialEnabled    bool `envconfig:"FEATURE_SOCIAL_ENABLED" default:"true"`
}

// Location resolves the configured timezone, falling back to UTC+8.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

func (c *Config) Validate() error {
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT must be > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS must be > 0")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.SignRewardMin > c.SignRewardMax {
		return fmt.Errorf("SIGN_REWARD_MIN must not exceed SIGN_REWARD_MAX")
	}
	if c.MarketMaxOwned <= 0 {
		return fmt.Errorf("MARKET_MAX_OWNED must be > 0")
	}
	if c.AdventureStaminaCost <= 0 || c.AdventureMaxTurns <= 0 {
		return fmt.Errorf("adventure settings must be > 0")
	}
	return nil
}

// Load reads environment variables and fills the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	chats, err := parseInt64CSV(cfg.AllowedChatIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ALLOWED_CHAT_IDS parse: %w", err)
	}
	cfg.AllowedChatIDs = chats

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// IsChatAllowed reports whether the bot serves this group chat. An
// empty allowlist admits every group.
func (c *Config) IsChatAllowed(chatID int64) bool {
	if len(c.AllowedChatIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether userID is in the static admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
