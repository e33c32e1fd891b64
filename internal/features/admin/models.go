// Package admin implements the password-gated admin panel: currency
// grants and deductions issued from a private chat with the bot.
// models.go describes sessions and login attempts.
package admin

import "time"

// Session is an authenticated admin session. Sessions live in memory
// only; a restart logs every admin out.
type Session struct {
	UserID          int64
	Token           string
	AuthenticatedAt time.Time
	ExpiresAt       time.Time
	LastActivity    time.Time
}

// LoginAttempt is one password attempt, kept for the brute-force
// lockout window.
type LoginAttempt struct {
	At      time.Time
	Success bool
}
