// Package members keeps a ledger of every user the bot has seen.
// Commands resolve @username mentions and print readable display names
// through this ledger, the bot never asks Telegram for member lists.
package members

import "time"

// Member is one Telegram user known to the bot.
type Member struct {
	UserID    int64     `yaml:"user_id"`
	Username  string    `yaml:"username,omitempty"`
	FirstName string    `yaml:"first_name,omitempty"`
	LastName  string    `yaml:"last_name,omitempty"`
	SeenAt    time.Time `yaml:"seen_at"`
}

// DisplayName returns the readable name for the member: first and last
// name when present, otherwise the @username.
func (m *Member) DisplayName() string {
	name := m.FirstName
	if m.LastName != "" {
		name += " " + m.LastName
	}
	if name != "" {
		return name
	}
	if m.Username != "" {
		return "@" + m.Username
	}
	return ""
}

// Document is the persisted ledger, keyed by user ID.
type Document struct {
	Members map[int64]*Member `yaml:"members"`
}
