package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"github.com/heartmarshall/accountlinking/pkg/ctxutil"
)

// credentialStore defines the login method persistence needed by auth service.
type credentialStore interface {
	CreateLoginMethod(ctx context.Context, in domain.NewLoginMethod) (domain.LoginMethod, error)
	GetPasswordCredential(ctx context.Context, email string) (recipeUserID string, passwordHash string, err error)
	GetLoginMethodByThirdParty(ctx context.Context, tp domain.ThirdParty) (*domain.LoginMethod, error)
}

// linker defines the account-linking operations needed by auth service.
type linker interface {
	GetUser(ctx context.Context, recipeUserID string) (*domain.User, error)
	IsSignUpAllowed(ctx context.Context, recipeID domain.RecipeID, info domain.AccountInfo, isVerified bool) (bool, error)
	IsSignInAllowed(ctx context.Context, recipeUserID string) (bool, error)
	CreatePrimaryUserIDOrLinkAccounts(ctx context.Context, recipeUserID string) (string, error)
	VerifyEmailForRecipeUserIfLinkedAccountsAreVerified(ctx context.Context, recipeUserID string) error
}

// emailVerifier defines the email verification operations needed by auth service.
type emailVerifier interface {
	MarkVerified(ctx context.Context, lm domain.LoginMethod) error
}

// sessionStore defines the session operations needed by auth service.
type sessionStore interface {
	CreateSession(ctx context.Context, recipeUserID, userID string) (*domain.Session, error)
}

// providerVerifier exchanges an OAuth authorization code for the identity
// behind it.
type providerVerifier interface {
	VerifyCode(ctx context.Context, provider, code string) (*domain.ProviderIdentity, error)
}

// Service implements the password and third-party credential flows.
type Service struct {
	log      *slog.Logger
	creds    credentialStore
	linker   linker
	verifier emailVerifier
	sessions sessionStore
	oauth    providerVerifier
	cfg      config.AuthConfig
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	creds credentialStore,
	linker linker,
	verifier emailVerifier,
	sessions sessionStore,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		creds:    creds,
		linker:   linker,
		verifier: verifier,
		sessions: sessions,
		cfg:      cfg,
	}
}

// SetProviderVerifier injects the optional OAuth code verifier. Without it
// SignInWithCode rejects every request.
func (s *Service) SetProviderVerifier(v providerVerifier) {
	s.oauth = v
}

// completeSignInUp runs automatic linking for lm, then opens a session for
// the user lm ends up belonging to.
func (s *Service) completeSignInUp(ctx context.Context, lm domain.LoginMethod, created bool) (*AuthResult, error) {
	if _, err := s.linker.CreatePrimaryUserIDOrLinkAccounts(ctx, lm.RecipeUserID); err != nil {
		if !errors.Is(err, domain.ErrSessionRevocation) {
			return nil, fmt.Errorf("link: %w", err)
		}
		s.log.WarnContext(ctx, "linked with stale sessions",
			slog.String("recipe_user_id", lm.RecipeUserID),
			slog.String("error", err.Error()))
	}

	user, err := s.linker.GetUser(ctx, lm.RecipeUserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	sess, err := s.sessions.CreateSession(ctx, lm.RecipeUserID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &AuthResult{
		User:                 user,
		RecipeUserID:         lm.RecipeUserID,
		Session:              sess,
		CreatedNewRecipeUser: created,
	}, nil
}

func withLinkOption(ctx context.Context, doNotLink bool) context.Context {
	if doNotLink {
		return ctxutil.WithLinkingDisabled(ctx)
	}
	return ctx
}
