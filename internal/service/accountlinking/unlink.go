package accountlinking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// UnlinkAccount detaches recipeUserID from its primary user.
//
//   - standalone recipe user: nothing happens, WasLinked is false;
//   - the primary's own login method, alone: the primary user dissolves and
//     the recipe user stays as a standalone account;
//   - the primary's own login method among others: the recipe user is
//     deleted and the remaining methods keep the primary id;
//   - any other linked login method: it becomes standalone again, and when
//     it was the last member the primary user dissolves.
//
// Sessions of recipeUserID are revoked whenever something changed.
func (s *Service) UnlinkAccount(ctx context.Context, recipeUserID string) (UnlinkResult, error) {
	user, err := s.GetUser(ctx, recipeUserID)
	if err != nil {
		return UnlinkResult{}, fmt.Errorf("accountlinking.UnlinkAccount: %w", err)
	}
	if !user.HasLoginMethod(recipeUserID) {
		return UnlinkResult{}, fmt.Errorf("accountlinking.UnlinkAccount %s: %w", recipeUserID, domain.ErrNotFound)
	}
	if !user.IsPrimaryUser {
		return UnlinkResult{}, nil
	}

	ctx, span := s.tracer.Start(ctx, "accountlinking.UnlinkAccount")
	defer span.End()

	res := UnlinkResult{WasLinked: true}
	switch {
	case user.ID == recipeUserID && len(user.LoginMethods) == 1:
		if err := s.store.RemoveFromPrimary(ctx, user.ID, recipeUserID); err != nil {
			span.RecordError(err)
			return UnlinkResult{}, fmt.Errorf("accountlinking.UnlinkAccount dissolve: %w", err)
		}
		s.dissolved(ctx, user.ID, recipeUserID)

	case user.ID == recipeUserID:
		if err := s.store.DeleteRecord(ctx, recipeUserID); err != nil {
			span.RecordError(err)
			return UnlinkResult{}, fmt.Errorf("accountlinking.UnlinkAccount delete: %w", err)
		}
		s.clearStaging(ctx, recipeUserID)
		res.WasRecipeUserDeleted = true
		s.emit(ctx, domain.PointUserDeleted, recipeUserID, user.ID)

	default:
		if err := s.store.RemoveFromPrimary(ctx, user.ID, recipeUserID); err != nil {
			span.RecordError(err)
			return UnlinkResult{}, fmt.Errorf("accountlinking.UnlinkAccount remove: %w", err)
		}
		// The primary's own method was deleted earlier; this was the last member.
		if len(user.LoginMethods) == 1 {
			s.dissolved(ctx, user.ID, recipeUserID)
		}
	}

	s.emit(ctx, domain.PointAccountUnlinked, recipeUserID, user.ID)
	s.log.InfoContext(ctx, "account unlinked",
		slog.String("primary_user_id", user.ID),
		slog.String("recipe_user_id", recipeUserID),
		slog.Bool("recipe_user_deleted", res.WasRecipeUserDeleted))

	return res, s.revokeSessions(ctx, recipeUserID)
}

// dissolved clears staging entries pointing at a primary that lost its last
// member and reports the dissolution.
func (s *Service) dissolved(ctx context.Context, primaryUserID, recipeUserID string) {
	if err := s.store.ClearStagingForPrimary(ctx, primaryUserID); err != nil {
		s.log.WarnContext(ctx, "clear staging for dissolved primary",
			slog.String("primary_user_id", primaryUserID),
			slog.String("error", err.Error()))
	}
	s.emit(ctx, domain.PointPrimaryUserDissolved, recipeUserID, primaryUserID)
}

// DeleteUser deletes recipeUserID. With cascade and a primary owner, every
// linked login method is deleted as well. Link-map membership and staging
// entries of deleted recipe users are cleared.
func (s *Service) DeleteUser(ctx context.Context, recipeUserID string, cascade bool) error {
	user, err := s.GetUser(ctx, recipeUserID)
	if err != nil {
		return fmt.Errorf("accountlinking.DeleteUser: %w", err)
	}
	if !cascade && !user.HasLoginMethod(recipeUserID) {
		return fmt.Errorf("accountlinking.DeleteUser %s: %w", recipeUserID, domain.ErrNotFound)
	}

	ctx, span := s.tracer.Start(ctx, "accountlinking.DeleteUser")
	defer span.End()

	targets := []string{recipeUserID}
	if cascade && user.IsPrimaryUser {
		targets = targets[:0]
		for _, id := range user.RecipeUserIDs() {
			if id != user.ID {
				targets = append(targets, id)
			}
		}
		if user.HasLoginMethod(user.ID) {
			targets = append(targets, user.ID)
		}
	}

	remaining := len(user.LoginMethods)
	var revokeErrs []error
	for _, id := range targets {
		if user.IsPrimaryUser && (id != user.ID || remaining == 1) {
			if err := s.store.RemoveFromPrimary(ctx, user.ID, id); err != nil {
				span.RecordError(err)
				return fmt.Errorf("accountlinking.DeleteUser remove %s: %w", id, err)
			}
		}
		if err := s.store.DeleteRecord(ctx, id); err != nil {
			span.RecordError(err)
			return fmt.Errorf("accountlinking.DeleteUser delete %s: %w", id, err)
		}
		remaining--
		s.clearStaging(ctx, id)

		primaryUserID := ""
		if user.IsPrimaryUser {
			primaryUserID = user.ID
		}
		s.emit(ctx, domain.PointUserDeleted, id, primaryUserID)

		if err := s.revokeSessions(ctx, id); err != nil {
			revokeErrs = append(revokeErrs, err)
		}
	}

	if user.IsPrimaryUser && remaining == 0 {
		if err := s.store.ClearStagingForPrimary(ctx, user.ID); err != nil {
			s.log.WarnContext(ctx, "clear staging for deleted primary",
				slog.String("primary_user_id", user.ID),
				slog.String("error", err.Error()))
		}
	}

	s.log.InfoContext(ctx, "user deleted",
		slog.String("recipe_user_id", recipeUserID),
		slog.Int("deleted", len(targets)))

	return errors.Join(revokeErrs...)
}
