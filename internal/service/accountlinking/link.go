package accountlinking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// CanLinkAccounts checks whether the recipe user secondaryID may be linked
// into primaryID. It performs no mutation.
func (s *Service) CanLinkAccounts(ctx context.Context, secondaryID, primaryID string) (LinkResult, error) {
	primary, err := s.GetUser(ctx, primaryID)
	if err != nil {
		return LinkResult{}, fmt.Errorf("accountlinking.CanLinkAccounts primary: %w", err)
	}
	if !primary.IsPrimaryUser {
		return LinkResult{}, fmt.Errorf("accountlinking.CanLinkAccounts %s: %w", primaryID, domain.ErrNotPrimary)
	}

	secondary, err := s.GetUser(ctx, secondaryID)
	if err != nil {
		return LinkResult{}, fmt.Errorf("accountlinking.CanLinkAccounts secondary: %w", err)
	}
	if secondary.IsPrimaryUser {
		if secondary.ID == primary.ID {
			return LinkResult{User: primary, AccountsAlreadyLinked: true}, nil
		}
		return LinkResult{}, fmt.Errorf("accountlinking.CanLinkAccounts %s: %w",
			secondaryID, &domain.AlreadyLinkedError{OwnerID: secondary.ID})
	}

	lm, _ := secondary.LoginMethod(secondaryID)
	holders, axes, err := s.primaryHolders(ctx, lm, primary.ID)
	if err != nil {
		return LinkResult{}, fmt.Errorf("accountlinking.CanLinkAccounts: %w", err)
	}
	if len(holders) > 0 {
		return LinkResult{}, fmt.Errorf("accountlinking.CanLinkAccounts %s: %w",
			secondaryID, &domain.AccountInfoAssociatedError{OwnerID: holders[0].ID, Axis: axes[0]})
	}

	return LinkResult{User: primary}, nil
}

// LinkAccounts links secondaryID into primaryID, revokes the secondary's
// sessions and propagates email verification. A revocation failure is
// returned alongside a successful link result and wraps
// domain.ErrSessionRevocation.
func (s *Service) LinkAccounts(ctx context.Context, secondaryID, primaryID string) (LinkResult, error) {
	res, err := s.CanLinkAccounts(ctx, secondaryID, primaryID)
	if err != nil || res.AccountsAlreadyLinked {
		return res, err
	}

	ctx, span := s.tracer.Start(ctx, "accountlinking.LinkAccounts")
	defer span.End()

	primaryUserID := res.User.ID
	if err := s.store.AppendToPrimary(ctx, primaryUserID, secondaryID); err != nil {
		span.RecordError(err)
		return LinkResult{}, fmt.Errorf("accountlinking.LinkAccounts append: %w", err)
	}
	s.clearStaging(ctx, secondaryID)

	user, err := s.GetUser(ctx, primaryUserID)
	if err != nil {
		return LinkResult{}, fmt.Errorf("accountlinking.LinkAccounts: %w", err)
	}

	s.emit(ctx, domain.PointAccountsLinked, secondaryID, primaryUserID)
	s.log.InfoContext(ctx, "accounts linked",
		slog.String("primary_user_id", primaryUserID),
		slog.String("recipe_user_id", secondaryID))

	revokeErr := s.revokeSessions(ctx, secondaryID)

	if err := s.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified(ctx, secondaryID); err != nil {
		s.log.WarnContext(ctx, "propagate email verification after link",
			slog.String("recipe_user_id", secondaryID),
			slog.String("error", err.Error()))
	} else if user, err = s.GetUser(ctx, primaryUserID); err != nil {
		return LinkResult{}, fmt.Errorf("accountlinking.LinkAccounts reload: %w", err)
	}

	return LinkResult{User: user}, revokeErr
}
