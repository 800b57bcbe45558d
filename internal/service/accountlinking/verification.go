package accountlinking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// VerifyEmailForRecipeUserIfLinkedAccountsAreVerified marks the email of
// every login method of recipeUserID's primary user that shares
// recipeUserID's email as verified, provided at least one of them already
// is. It is a no-op for standalone recipe users and methods without email.
func (s *Service) VerifyEmailForRecipeUserIfLinkedAccountsAreVerified(ctx context.Context, recipeUserID string) error {
	user, err := s.GetUser(ctx, recipeUserID)
	if err != nil {
		return fmt.Errorf("accountlinking.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified: %w", err)
	}
	if !user.IsPrimaryUser {
		return nil
	}

	lm, _ := user.LoginMethod(recipeUserID)
	if lm.Email == nil {
		return nil
	}

	var (
		group       []domain.LoginMethod
		anyVerified bool
	)
	for _, m := range user.LoginMethods {
		if m.HasSameEmailAs(*lm.Email) {
			group = append(group, m)
			anyVerified = anyVerified || m.Verified
		}
	}
	if !anyVerified {
		return nil
	}

	for _, m := range group {
		if m.Verified {
			continue
		}
		if err := s.verifier.MarkVerified(ctx, m); err != nil {
			return fmt.Errorf("accountlinking.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified %s: %w", m.RecipeUserID, err)
		}
		s.emit(ctx, domain.PointEmailVerificationPropagated, m.RecipeUserID, user.ID)
		s.log.InfoContext(ctx, "email verification propagated",
			slog.String("primary_user_id", user.ID),
			slog.String("recipe_user_id", m.RecipeUserID))
	}
	return nil
}
