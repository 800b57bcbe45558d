package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// VerifyEmail marks the email of recipeUserID as verified, spreads the
// verification across its primary user and retries automatic linking, which
// may have been deferred waiting for this.
func (s *Service) VerifyEmail(ctx context.Context, recipeUserID string) (*domain.User, error) {
	user, err := s.linker.GetUser(ctx, recipeUserID)
	if err != nil {
		return nil, fmt.Errorf("auth.VerifyEmail: %w", err)
	}
	lm, _ := user.LoginMethod(recipeUserID)
	if lm.Email == nil {
		return nil, fmt.Errorf("auth.VerifyEmail: %w", domain.NewValidationError("email", "login method has no email"))
	}

	if !lm.Verified {
		if err := s.verifier.MarkVerified(ctx, lm); err != nil {
			return nil, fmt.Errorf("auth.VerifyEmail mark verified: %w", err)
		}
	}
	if err := s.linker.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified(ctx, recipeUserID); err != nil {
		return nil, fmt.Errorf("auth.VerifyEmail propagate: %w", err)
	}

	userID, err := s.linker.CreatePrimaryUserIDOrLinkAccounts(ctx, recipeUserID)
	if err != nil && !errors.Is(err, domain.ErrSessionRevocation) {
		return nil, fmt.Errorf("auth.VerifyEmail link: %w", err)
	}

	s.log.InfoContext(ctx, "email verified",
		slog.String("recipe_user_id", recipeUserID),
		slog.String("user_id", userID))

	user, err = s.linker.GetUser(ctx, recipeUserID)
	if err != nil {
		return nil, fmt.Errorf("auth.VerifyEmail: %w", err)
	}
	return user, nil
}
