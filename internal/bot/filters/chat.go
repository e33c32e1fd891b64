// Package filters decides which chats the bot serves.
package filters

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
)

// ChatFilter admits group messages from allowed chats and private
// messages from configured admins. Everything else is dropped.
type ChatFilter struct {
	cfg *config.Config
}

func NewChatFilter(cfg *config.Config) *ChatFilter {
	return &ChatFilter{cfg: cfg}
}

// CheckAccess reports whether this message should be handled.
func (f *ChatFilter) CheckAccess(ctx context.Context, message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		log.WithField("component", "ChatFilter").Warn("nil message or chat")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Debug("nil message.From (service or channel message)")
		return false
	}

	if message.Chat.IsGroup() || message.Chat.IsSuperGroup() {
		if f.cfg.IsChatAllowed(message.Chat.ID) {
			return true
		}
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
		}).Debug("deny: group not in allowlist")
		return false
	}

	// Private chats carry only the admin panel.
	if message.Chat.IsPrivate() {
		return f.cfg.IsAdmin(message.From.ID)
	}

	return false
}
