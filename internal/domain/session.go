package domain

import "time"

// Session is an authenticated session bound to one login method.
// UserID is the owning user (the primary id once linked).
type Session struct {
	Handle       string    `json:"handle"`
	RecipeUserID string    `json:"recipe_user_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is expired at now.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
