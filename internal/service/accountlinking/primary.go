package accountlinking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// CanCreatePrimaryUser checks whether recipeUserID may become a primary user.
// It performs no mutation.
func (s *Service) CanCreatePrimaryUser(ctx context.Context, recipeUserID string) (CreatePrimaryResult, error) {
	user, err := s.GetUser(ctx, recipeUserID)
	if err != nil {
		return CreatePrimaryResult{}, fmt.Errorf("accountlinking.CanCreatePrimaryUser: %w", err)
	}

	if user.IsPrimaryUser {
		if user.ID == recipeUserID {
			return CreatePrimaryResult{User: user, WasAlreadyPrimary: true}, nil
		}
		return CreatePrimaryResult{}, fmt.Errorf("accountlinking.CanCreatePrimaryUser %s: %w",
			recipeUserID, &domain.AlreadyLinkedError{OwnerID: user.ID})
	}

	lm, _ := user.LoginMethod(recipeUserID)
	holders, axes, err := s.primaryHolders(ctx, lm, "")
	if err != nil {
		return CreatePrimaryResult{}, fmt.Errorf("accountlinking.CanCreatePrimaryUser: %w", err)
	}
	if len(holders) > 0 {
		return CreatePrimaryResult{}, fmt.Errorf("accountlinking.CanCreatePrimaryUser %s: %w",
			recipeUserID, &domain.AccountInfoAssociatedError{OwnerID: holders[0].ID, Axis: axes[0]})
	}

	return CreatePrimaryResult{User: user}, nil
}

// CreatePrimaryUser promotes recipeUserID to a primary user. Promoting an
// existing primary user is a no-op reported via WasAlreadyPrimary.
func (s *Service) CreatePrimaryUser(ctx context.Context, recipeUserID string) (CreatePrimaryResult, error) {
	res, err := s.CanCreatePrimaryUser(ctx, recipeUserID)
	if err != nil || res.WasAlreadyPrimary {
		return res, err
	}

	ctx, span := s.tracer.Start(ctx, "accountlinking.CreatePrimaryUser")
	defer span.End()

	if err := s.store.InsertPrimary(ctx, recipeUserID); err != nil {
		span.RecordError(err)
		return CreatePrimaryResult{}, fmt.Errorf("accountlinking.CreatePrimaryUser insert: %w", err)
	}
	s.clearStaging(ctx, recipeUserID)

	user, err := s.GetUser(ctx, recipeUserID)
	if err != nil {
		return CreatePrimaryResult{}, fmt.Errorf("accountlinking.CreatePrimaryUser: %w", err)
	}

	s.emit(ctx, domain.PointPrimaryUserCreated, recipeUserID, user.ID)
	s.log.InfoContext(ctx, "primary user created",
		slog.String("primary_user_id", user.ID))

	return CreatePrimaryResult{User: user}, nil
}
