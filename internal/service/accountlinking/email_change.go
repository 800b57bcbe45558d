package accountlinking

import (
	"context"
	"fmt"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// IsEmailChangeAllowed decides whether recipeUserID may change its email to
// newEmail. isVerified says whether the caller has proven ownership of
// newEmail.
func (s *Service) IsEmailChangeAllowed(ctx context.Context, recipeUserID, newEmail string, isVerified bool) (bool, error) {
	s.emit(ctx, domain.PointIsEmailChangeAllowedCalled, recipeUserID, "")

	newEmail = domain.NormalizeEmail(newEmail)
	if newEmail == "" {
		return false, fmt.Errorf("accountlinking.IsEmailChangeAllowed: %w", domain.NewValidationError("email", "required"))
	}

	user, err := s.GetUser(ctx, recipeUserID)
	if err != nil {
		return false, fmt.Errorf("accountlinking.IsEmailChangeAllowed: %w", err)
	}
	lm, _ := user.LoginMethod(recipeUserID)
	if lm.HasSameEmailAs(newEmail) {
		return true, nil
	}

	holders, err := s.listUsers(ctx, domain.EmailInfo(newEmail), false)
	if err != nil {
		return false, fmt.Errorf("accountlinking.IsEmailChangeAllowed: %w", err)
	}
	var other *domain.User
	for _, u := range holders {
		if u.IsPrimaryUser && u.ID != user.ID {
			other = &u
			break
		}
	}
	if other == nil {
		s.emit(ctx, domain.PointNoPrimaryUserExists, recipeUserID, "")
		return true, nil
	}
	s.emit(ctx, domain.PointPrimaryUserExists, recipeUserID, other.ID)

	if user.IsPrimaryUser {
		s.emit(ctx, domain.PointEmailChangeNotAllowed, recipeUserID, other.ID)
		return false, nil
	}

	cand := domain.LinkCandidate{
		RecipeID:     lm.RecipeID,
		RecipeUserID: recipeUserID,
		Info:         domain.EmailInfo(newEmail),
	}
	decision, err := s.decide(ctx, cand, other)
	if err != nil {
		return false, fmt.Errorf("accountlinking.IsEmailChangeAllowed: %w", err)
	}
	if s.relaxed(ctx, cand, decision, isVerified, other.ID) {
		return true, nil
	}

	target := lm
	target.Email = &newEmail
	verified, err := s.verifier.IsVerified(ctx, target)
	if err != nil {
		return false, fmt.Errorf("accountlinking.IsEmailChangeAllowed verification: %w", err)
	}
	if verified {
		return true, nil
	}

	s.emit(ctx, domain.PointEmailChangeNotAllowed, recipeUserID, other.ID)
	return false, nil
}
