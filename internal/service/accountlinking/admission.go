package accountlinking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// CreatePrimaryUserIDOrLinkAccounts runs the automatic linking policy for
// recipeUserID and returns the id of the user it ends up belonging to:
// the primary it was linked into, itself when it was promoted, or itself
// unchanged when the hook or verification requirements prevent linking.
//
// The read-check-write sequence is retried when the store reports a
// concurrent change. A session revocation failure after a successful link
// is returned together with the primary id.
func (s *Service) CreatePrimaryUserIDOrLinkAccounts(ctx context.Context, recipeUserID string) (string, error) {
	s.emit(ctx, domain.PointCreatePrimaryOrLinkCalled, recipeUserID, "")

	for attempt := 1; ; attempt++ {
		id, retry, err := s.createPrimaryOrLinkOnce(ctx, recipeUserID)
		if !retry {
			if err != nil && id == "" {
				return "", fmt.Errorf("accountlinking.CreatePrimaryUserIDOrLinkAccounts: %w", err)
			}
			return id, err
		}
		if attempt >= s.cfg.MaxAttempts {
			return "", fmt.Errorf("accountlinking.CreatePrimaryUserIDOrLinkAccounts: %d attempts: %w: %w",
				attempt, domain.ErrConflict, err)
		}
		s.emit(ctx, domain.PointLinkRetried, recipeUserID, "")
		s.log.DebugContext(ctx, "retrying link after concurrent change",
			slog.String("recipe_user_id", recipeUserID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}
}

func (s *Service) createPrimaryOrLinkOnce(ctx context.Context, recipeUserID string) (string, bool, error) {
	user, err := s.GetUser(ctx, recipeUserID)
	if err != nil {
		return "", false, err
	}
	if user.IsPrimaryUser {
		return user.ID, false, nil
	}

	lm, _ := user.LoginMethod(recipeUserID)
	holders, _, err := s.primaryHolders(ctx, lm, "")
	if err != nil {
		return "", false, err
	}
	if len(holders) > 1 {
		s.log.WarnContext(ctx, "identifiers held by several primary users, not linking",
			slog.String("recipe_user_id", recipeUserID),
			slog.String("primary_user_id", holders[0].ID),
			slog.String("other_primary_user_id", holders[1].ID))
		return recipeUserID, false, nil
	}

	var primary *domain.User
	if len(holders) == 1 {
		primary = &holders[0]
	}

	decision, err := s.decide(ctx, candidateFor(lm), primary)
	if err != nil {
		return "", false, err
	}
	if !decision.ShouldAutomaticallyLink {
		s.emit(ctx, domain.PointLinkingDisabled, recipeUserID, "")
		return recipeUserID, false, nil
	}
	needsVerification := decision.ShouldRequireVerification && !lm.Verified

	if primary == nil {
		s.emit(ctx, domain.PointNoPrimaryUserExists, recipeUserID, "")
		if needsVerification {
			return recipeUserID, false, nil
		}
		res, err := s.CreatePrimaryUser(ctx, recipeUserID)
		if err != nil {
			return "", isRetryable(err), err
		}
		return res.User.ID, false, nil
	}

	s.emit(ctx, domain.PointPrimaryUserExists, recipeUserID, primary.ID)
	if needsVerification {
		if err := s.StoreAccountToLink(ctx, recipeUserID, primary.ID); err != nil {
			if isRetryable(err) {
				return "", true, err
			}
			return "", false, err
		}
		s.emit(ctx, domain.PointLinkDeferred, recipeUserID, primary.ID)
		return recipeUserID, false, nil
	}

	res, err := s.LinkAccounts(ctx, recipeUserID, primary.ID)
	switch {
	case errors.Is(err, domain.ErrSessionRevocation) && res.User != nil:
		return res.User.ID, false, err
	case err != nil:
		return "", isRetryable(err), err
	}
	return res.User.ID, false, nil
}

// isRetryable reports whether err means another writer got there first.
func isRetryable(err error) bool {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return false
	}
	return errors.Is(err, domain.ErrAlreadyLinked) ||
		errors.Is(err, domain.ErrAccountInfoAssociated) ||
		errors.Is(err, domain.ErrNotPrimary) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrAlreadyExists)
}

// IsSignUpAllowed decides whether a new account with info may be created.
// info must carry exactly one identifier. isVerified says whether the new
// identifier is already proven to belong to the caller.
func (s *Service) IsSignUpAllowed(ctx context.Context, recipeID domain.RecipeID, info domain.AccountInfo, isVerified bool) (bool, error) {
	s.emit(ctx, domain.PointIsSignUpAllowedCalled, "", "")

	info = info.Normalize()
	if n := len(info.Axes()); n != 1 {
		return false, fmt.Errorf("accountlinking.IsSignUpAllowed: %d identifiers: %w", n, domain.ErrInvalidQuery)
	}

	cand := domain.LinkCandidate{RecipeID: recipeID, Info: info}
	allowed, err := s.isSignInUpAllowed(ctx, cand, isVerified, &admissionCheck{})
	if err != nil {
		return false, fmt.Errorf("accountlinking.IsSignUpAllowed: %w", err)
	}
	return allowed, nil
}

// IsSignInAllowed decides whether recipeUserID may sign in. Primary users
// and verified login methods are always allowed.
func (s *Service) IsSignInAllowed(ctx context.Context, recipeUserID string) (bool, error) {
	s.emit(ctx, domain.PointIsSignInAllowedCalled, recipeUserID, "")

	user, err := s.GetUser(ctx, recipeUserID)
	if err != nil {
		return false, fmt.Errorf("accountlinking.IsSignInAllowed: %w", err)
	}
	if user.IsPrimaryUser {
		return true, nil
	}

	lm, _ := user.LoginMethod(recipeUserID)
	if lm.Verified {
		return true, nil
	}

	chk := &admissionCheck{excludeID: recipeUserID}
	for _, part := range lm.AccountInfo().Normalize().Split() {
		cand := domain.LinkCandidate{RecipeID: lm.RecipeID, RecipeUserID: recipeUserID, Info: part}
		allowed, err := s.isSignInUpAllowed(ctx, cand, lm.Verified, chk)
		if err != nil {
			return false, fmt.Errorf("accountlinking.IsSignInAllowed: %w", err)
		}
		if !allowed {
			return false, nil
		}
	}
	return true, nil
}

// admissionCheck carries state across the identifiers of one policy call.
type admissionCheck struct {
	// excludeID drops the users owning this recipe user from the holders.
	excludeID         string
	reportedNoPrimary bool
}

// isSignInUpAllowed applies the shared sign-up/sign-in rule to one
// identifier.
func (s *Service) isSignInUpAllowed(ctx context.Context, cand domain.LinkCandidate, isVerified bool, chk *admissionCheck) (bool, error) {
	found, err := s.listUsers(ctx, cand.Info, true)
	if err != nil {
		return false, err
	}

	users := make([]domain.User, 0, len(found))
	var primary *domain.User
	for _, u := range found {
		if chk.excludeID != "" && u.HasLoginMethod(chk.excludeID) {
			continue
		}
		users = append(users, u)
		if u.IsPrimaryUser && primary == nil {
			p := u
			primary = &p
		}
	}

	if primary == nil {
		if !chk.reportedNoPrimary {
			chk.reportedNoPrimary = true
			s.emit(ctx, domain.PointNoPrimaryUserExists, cand.RecipeUserID, "")
		}
		if len(users) == 0 {
			return true, nil
		}
		decision, err := s.decide(ctx, cand, nil)
		if err != nil {
			return false, err
		}
		if ok := s.relaxed(ctx, cand, decision, isVerified, ""); ok {
			return true, nil
		}
		// An unverified claim may not join an identifier some holder has not verified.
		for _, u := range users {
			if !u.HasVerified(cand.Info) {
				s.emit(ctx, domain.PointSignInUpNotAllowed, cand.RecipeUserID, "")
				return false, nil
			}
		}
		return true, nil
	}

	s.emit(ctx, domain.PointPrimaryUserExists, cand.RecipeUserID, primary.ID)
	decision, err := s.decide(ctx, cand, primary)
	if err != nil {
		return false, err
	}
	if ok := s.relaxed(ctx, cand, decision, isVerified, primary.ID); ok {
		return true, nil
	}
	if primary.HasVerified(cand.Info) {
		return true, nil
	}

	s.emit(ctx, domain.PointSignInUpNotAllowed, cand.RecipeUserID, primary.ID)
	return false, nil
}

// relaxed reports whether the decision alone, or a verified identifier,
// makes the attempt safe.
func (s *Service) relaxed(ctx context.Context, cand domain.LinkCandidate, d domain.LinkDecision, isVerified bool, primaryID string) bool {
	if !d.ShouldAutomaticallyLink {
		s.emit(ctx, domain.PointLinkingDisabled, cand.RecipeUserID, primaryID)
		return true
	}
	if !d.ShouldRequireVerification {
		s.emit(ctx, domain.PointVerificationNotRequired, cand.RecipeUserID, primaryID)
		return true
	}
	return isVerified
}
