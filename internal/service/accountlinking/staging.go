package accountlinking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// FetchAccountToLink returns the primary user id staged for recipeUserID, or
// "" when nothing is staged. Stale entries (the primary no longer exists or
// the recipe user has been linked or promoted since) are cleared and
// reported as absent.
func (s *Service) FetchAccountToLink(ctx context.Context, recipeUserID string) (string, error) {
	primaryID, err := s.store.GetStaging(ctx, recipeUserID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("accountlinking.FetchAccountToLink: %w", err)
	}

	stale, err := s.isStaleStaging(ctx, recipeUserID, primaryID)
	if err != nil {
		return "", fmt.Errorf("accountlinking.FetchAccountToLink: %w", err)
	}
	if stale {
		if err := s.store.ClearStaging(ctx, recipeUserID); err != nil {
			return "", fmt.Errorf("accountlinking.FetchAccountToLink clear: %w", err)
		}
		s.emit(ctx, domain.PointStagingCleared, recipeUserID, primaryID)
		s.log.DebugContext(ctx, "stale link staging cleared",
			slog.String("recipe_user_id", recipeUserID),
			slog.String("primary_user_id", primaryID))
		return "", nil
	}

	return primaryID, nil
}

func (s *Service) isStaleStaging(ctx context.Context, recipeUserID, primaryID string) (bool, error) {
	primary, err := s.GetUser(ctx, primaryID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return true, nil
	case err != nil:
		return false, err
	case !primary.IsPrimaryUser || primary.ID != primaryID:
		return true, nil
	}

	subject, err := s.GetUser(ctx, recipeUserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return true, nil
	case err != nil:
		return false, err
	}
	return subject.IsPrimaryUser, nil
}

// StoreAccountToLink stages recipeUserID for a later link into primaryID,
// replacing any earlier staging for that recipe user.
func (s *Service) StoreAccountToLink(ctx context.Context, recipeUserID, primaryID string) error {
	primary, err := s.GetUser(ctx, primaryID)
	if err != nil {
		return fmt.Errorf("accountlinking.StoreAccountToLink primary: %w", err)
	}
	if !primary.IsPrimaryUser {
		return fmt.Errorf("accountlinking.StoreAccountToLink %s: %w", primaryID, domain.ErrNotPrimary)
	}

	subject, err := s.GetUser(ctx, recipeUserID)
	if err != nil {
		return fmt.Errorf("accountlinking.StoreAccountToLink: %w", err)
	}
	if subject.IsPrimaryUser {
		if subject.ID == primary.ID {
			return nil
		}
		return fmt.Errorf("accountlinking.StoreAccountToLink %s: %w",
			recipeUserID, &domain.AlreadyLinkedError{OwnerID: subject.ID})
	}

	if err := s.store.SetStaging(ctx, recipeUserID, primary.ID); err != nil {
		return fmt.Errorf("accountlinking.StoreAccountToLink: %w", err)
	}
	return nil
}
