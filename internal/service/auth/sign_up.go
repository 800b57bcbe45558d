package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// SignUp creates an email + password login method and runs automatic linking
// for it. Returns ErrForbidden when the admission policy rejects the email
// and ErrAlreadyExists when a password account already uses it.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	input.Email = domain.NormalizeEmail(input.Email)

	// Step 1: Validate input
	if err := input.Validate(s.cfg.MinPasswordLength); err != nil {
		return nil, err
	}
	ctx = withLinkOption(ctx, input.DoNotLink)

	// Step 2: Admission
	allowed, err := s.linker.IsSignUpAllowed(ctx, domain.RecipeEmailPassword, domain.EmailInfo(input.Email), false)
	if err != nil {
		return nil, fmt.Errorf("auth.SignUp: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("auth.SignUp: %w", domain.ErrForbidden)
	}

	// Step 3: Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("auth.SignUp hash password: %w", err)
	}

	// Step 4: Create the login method. Uniqueness is enforced by the store.
	hashed := string(hash)
	lm, err := s.creds.CreateLoginMethod(ctx, domain.NewLoginMethod{
		RecipeID:     domain.RecipeEmailPassword,
		Email:        &input.Email,
		PasswordHash: &hashed,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("auth.SignUp: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("auth.SignUp create login method: %w", err)
	}

	// Step 5: Link and open a session
	result, err := s.completeSignInUp(ctx, lm, true)
	if err != nil {
		return nil, fmt.Errorf("auth.SignUp: %w", err)
	}

	s.log.InfoContext(ctx, "user signed up via password",
		slog.String("recipe_user_id", lm.RecipeUserID),
		slog.String("user_id", result.User.ID))

	return result, nil
}
