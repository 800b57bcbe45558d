package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// SignIn authenticates with email + password.
// Returns ErrUnauthorized if the email is not found or the password is wrong,
// and ErrForbidden when the admission policy rejects the login method.
func (s *Service) SignIn(ctx context.Context, input SignInInput) (*AuthResult, error) {
	input.Email = domain.NormalizeEmail(input.Email)

	// Step 1: Validate input
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Find the password credential
	recipeUserID, hash, err := s.creds.GetPasswordCredential(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.SignIn get credential: %w", err)
	}

	// Step 3: Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	// Step 4: Admission
	allowed, err := s.linker.IsSignInAllowed(ctx, recipeUserID)
	if err != nil {
		return nil, fmt.Errorf("auth.SignIn: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("auth.SignIn: %w", domain.ErrForbidden)
	}

	user, err := s.linker.GetUser(ctx, recipeUserID)
	if err != nil {
		return nil, fmt.Errorf("auth.SignIn: %w", err)
	}
	lm, _ := user.LoginMethod(recipeUserID)

	// Step 5: Link and open a session
	result, err := s.completeSignInUp(ctx, lm, false)
	if err != nil {
		return nil, fmt.Errorf("auth.SignIn: %w", err)
	}

	s.log.InfoContext(ctx, "user signed in via password",
		slog.String("recipe_user_id", recipeUserID),
		slog.String("user_id", result.User.ID))

	return result, nil
}
