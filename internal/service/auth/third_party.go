package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// ThirdPartySignInUp signs in with an external provider identity, creating
// the login method on first use. A provider-verified email is recorded as
// verified before linking runs.
func (s *Service) ThirdPartySignInUp(ctx context.Context, input ThirdPartyInput) (*AuthResult, error) {
	input.Email = domain.NormalizeEmail(input.Email)

	if err := input.Validate(); err != nil {
		return nil, err
	}
	ctx = withLinkOption(ctx, input.DoNotLink)

	tp := domain.NormalizeThirdParty(domain.ThirdParty{ID: input.ThirdPartyID, UserID: input.ThirdPartyUserID})
	existing, err := s.creds.GetLoginMethodByThirdParty(ctx, tp)
	switch {
	case err == nil:
		return s.thirdPartySignIn(ctx, *existing, input.EmailVerified)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("auth.ThirdPartySignInUp lookup: %w", err)
	}

	var email *string
	info := domain.ThirdPartyInfo(tp.ID, tp.UserID)
	if input.Email != "" {
		email = &input.Email
		info = domain.EmailInfo(input.Email)
	}

	allowed, err := s.linker.IsSignUpAllowed(ctx, domain.RecipeThirdParty, info, input.EmailVerified)
	if err != nil {
		return nil, fmt.Errorf("auth.ThirdPartySignInUp: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("auth.ThirdPartySignInUp: %w", domain.ErrForbidden)
	}

	lm, err := s.creds.CreateLoginMethod(ctx, domain.NewLoginMethod{
		RecipeID:   domain.RecipeThirdParty,
		Email:      email,
		ThirdParty: &tp,
	})
	if err != nil {
		return nil, fmt.Errorf("auth.ThirdPartySignInUp create login method: %w", err)
	}

	if input.EmailVerified && email != nil {
		if err := s.verifier.MarkVerified(ctx, lm); err != nil {
			return nil, fmt.Errorf("auth.ThirdPartySignInUp mark verified: %w", err)
		}
		lm.Verified = true
	}

	result, err := s.completeSignInUp(ctx, lm, true)
	if err != nil {
		return nil, fmt.Errorf("auth.ThirdPartySignInUp: %w", err)
	}

	s.log.InfoContext(ctx, "user signed up via third party",
		slog.String("third_party_id", tp.ID),
		slog.String("recipe_user_id", lm.RecipeUserID),
		slog.String("user_id", result.User.ID))

	return result, nil
}

func (s *Service) thirdPartySignIn(ctx context.Context, lm domain.LoginMethod, emailVerified bool) (*AuthResult, error) {
	if emailVerified && lm.Email != nil && !lm.Verified {
		if err := s.verifier.MarkVerified(ctx, lm); err != nil {
			return nil, fmt.Errorf("auth.ThirdPartySignInUp mark verified: %w", err)
		}
		if err := s.linker.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified(ctx, lm.RecipeUserID); err != nil {
			return nil, fmt.Errorf("auth.ThirdPartySignInUp propagate: %w", err)
		}
	}

	allowed, err := s.linker.IsSignInAllowed(ctx, lm.RecipeUserID)
	if err != nil {
		return nil, fmt.Errorf("auth.ThirdPartySignInUp: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("auth.ThirdPartySignInUp: %w", domain.ErrForbidden)
	}

	result, err := s.completeSignInUp(ctx, lm, false)
	if err != nil {
		return nil, fmt.Errorf("auth.ThirdPartySignInUp: %w", err)
	}

	s.log.InfoContext(ctx, "user signed in via third party",
		slog.String("recipe_user_id", lm.RecipeUserID),
		slog.String("user_id", result.User.ID))

	return result, nil
}

// SignInWithCode verifies an OAuth authorization code with the configured
// provider and continues as ThirdPartySignInUp with the returned identity.
func (s *Service) SignInWithCode(ctx context.Context, input CodeInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if s.oauth == nil {
		return nil, domain.NewValidationError("provider", "no identity provider configured")
	}

	id, err := s.oauth.VerifyCode(ctx, input.Provider, input.Code)
	if err != nil {
		return nil, fmt.Errorf("auth.SignInWithCode: %w", err)
	}

	return s.ThirdPartySignInUp(ctx, ThirdPartyInput{
		ThirdPartyID:     id.ThirdPartyID,
		ThirdPartyUserID: id.ThirdPartyUserID,
		Email:            id.Email,
		EmailVerified:    id.EmailVerified,
		DoNotLink:        input.DoNotLink,
	})
}
