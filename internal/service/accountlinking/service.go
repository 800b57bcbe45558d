// Package accountlinking implements the account-linking engine: the user
// aggregator, the link/unlink state machine, the admission policies and the
// email verification propagator.
package accountlinking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"github.com/heartmarshall/accountlinking/pkg/ctxutil"
)

const tracerName = "github.com/heartmarshall/accountlinking/internal/service/accountlinking"

// linkStore defines the persistence operations needed by the engine.
type linkStore interface {
	GetUser(ctx context.Context, recipeUserID string) (*domain.UserRecord, error)
	ListRawRecordsByAccountInfo(ctx context.Context, info domain.AccountInfo) ([]domain.UserRecord, error)
	InsertPrimary(ctx context.Context, recipeUserID string) error
	AppendToPrimary(ctx context.Context, primaryUserID, recipeUserID string) error
	RemoveFromPrimary(ctx context.Context, primaryUserID, recipeUserID string) error
	DeleteRecord(ctx context.Context, recipeUserID string) error
	GetStaging(ctx context.Context, recipeUserID string) (string, error)
	SetStaging(ctx context.Context, recipeUserID, primaryUserID string) error
	ClearStaging(ctx context.Context, recipeUserID string) error
	ClearStagingForPrimary(ctx context.Context, primaryUserID string) error
}

// sessionRevoker defines the session operations needed by the engine.
// includeLinkedAccounts=false revokes only the given recipe user's sessions.
type sessionRevoker interface {
	RevokeAllSessionsForUser(ctx context.Context, userID string, includeLinkedAccounts bool) error
}

// verifier defines the email verification operations needed by the engine.
type verifier interface {
	IsVerified(ctx context.Context, lm domain.LoginMethod) (bool, error)
	MarkVerified(ctx context.Context, lm domain.LoginMethod) error
}

// Decider is the pluggable linking hook. It is consulted before any
// automatic link and may be backed by static config or a policy engine.
type Decider interface {
	Decide(ctx context.Context, in domain.DecisionInput) (domain.LinkDecision, error)
}

// EventSink receives every decision point reached by the engine.
type EventSink interface {
	Emit(ctx context.Context, ev domain.DecisionEvent)
}

// Service implements account-linking operations.
type Service struct {
	log      *slog.Logger
	store    linkStore
	sessions sessionRevoker
	verifier verifier
	decider  Decider
	events   EventSink
	tracer   trace.Tracer
	cfg      config.LinkingConfig
	now      func() time.Time
}

// NewService creates a new account-linking service instance.
func NewService(
	logger *slog.Logger,
	store linkStore,
	sessions sessionRevoker,
	verifier verifier,
	decider Decider,
	events EventSink,
	cfg config.LinkingConfig,
) *Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Service{
		log:      logger.With("service", "accountlinking"),
		store:    store,
		sessions: sessions,
		verifier: verifier,
		decider:  decider,
		events:   events,
		tracer:   otel.Tracer(tracerName),
		cfg:      cfg,
		now:      time.Now,
	}
}

// GetUser returns the aggregated user that owns recipeUserID.
func (s *Service) GetUser(ctx context.Context, recipeUserID string) (*domain.User, error) {
	rec, err := s.store.GetUser(ctx, recipeUserID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", recipeUserID, err)
	}
	u := domain.AssembleUser(*rec)
	return &u, nil
}

func (s *Service) emit(ctx context.Context, point domain.DecisionPoint, recipeUserID, primaryUserID string) {
	s.events.Emit(ctx, domain.DecisionEvent{
		Point:         point,
		RecipeUserID:  recipeUserID,
		PrimaryUserID: primaryUserID,
		At:            s.now(),
	})
}

// decide consults the hook and reports linking-helper-invoked.
func (s *Service) decide(ctx context.Context, cand domain.LinkCandidate, existing *domain.User) (domain.LinkDecision, error) {
	in := domain.DecisionInput{Candidate: cand, ExistingUser: existing}
	if id, ok := ctxutil.SessionUserIDFromCtx(ctx); ok {
		in.SessionUserID = id
	}

	d, err := s.decider.Decide(ctx, in)
	if err != nil {
		return domain.LinkDecision{}, fmt.Errorf("linking decision: %w", err)
	}

	primaryID := ""
	if existing != nil {
		primaryID = existing.ID
	}
	s.emit(ctx, domain.PointLinkingHelperInvoked, cand.RecipeUserID, primaryID)
	return d, nil
}

// clearStaging is best effort: FetchAccountToLink discards stale entries anyway.
func (s *Service) clearStaging(ctx context.Context, recipeUserID string) {
	if err := s.store.ClearStaging(ctx, recipeUserID); err != nil {
		s.log.WarnContext(ctx, "clear link staging",
			slog.String("recipe_user_id", recipeUserID),
			slog.String("error", err.Error()))
	}
}

func (s *Service) revokeSessions(ctx context.Context, recipeUserID string) error {
	if err := s.sessions.RevokeAllSessionsForUser(ctx, recipeUserID, false); err != nil {
		s.log.ErrorContext(ctx, "revoke sessions",
			slog.String("recipe_user_id", recipeUserID),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s: %w", domain.ErrSessionRevocation, recipeUserID, err)
	}
	return nil
}

func candidateFor(lm domain.LoginMethod) domain.LinkCandidate {
	return domain.LinkCandidate{
		RecipeID:     lm.RecipeID,
		RecipeUserID: lm.RecipeUserID,
		Info:         lm.AccountInfo(),
	}
}
