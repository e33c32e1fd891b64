package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("ADMIN_IDS", "42, 77")
	t.Setenv("ALLOWED_CHAT_IDS", "-1001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// every pending follow-up reply lapses after one minute
	if cfg.ReplyTimeout != 60*time.Second {
		t.Errorf("ReplyTimeout = %v, want 60s", cfg.ReplyTimeout)
	}

	if !cfg.IsAdmin(42) || !cfg.IsAdmin(77) || cfg.IsAdmin(1) {
		t.Errorf("admin IDs parsed wrong: %v", cfg.AdminIDs)
	}
	if !cfg.IsChatAllowed(-1001) || cfg.IsChatAllowed(-1002) {
		t.Errorf("allowed chats parsed wrong: %v", cfg.AllowedChatIDs)
	}
}

func TestIsChatAllowedEmptyListAllowsAll(t *testing.T) {
	cfg := &Config{}
	if !cfg.IsChatAllowed(-123) {
		t.Error("empty allowlist must admit every group")
	}
}
