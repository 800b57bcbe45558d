package auth

import "github.com/heartmarshall/accountlinking/internal/domain"

// AuthResult is returned by every sign-in/up flow.
type AuthResult struct {
	User                 *domain.User
	RecipeUserID         string // login method used for this attempt
	Session              *domain.Session
	CreatedNewRecipeUser bool
}
