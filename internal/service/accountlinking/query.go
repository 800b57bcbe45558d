package accountlinking

import (
	"context"
	"fmt"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// ListUsersByAccountInfo returns the distinct users owning a login method
// that matches info. Exactly one identifier must be supplied. With union
// false a user must carry every supplied identifier across its login
// methods; with union true any single match is enough.
func (s *Service) ListUsersByAccountInfo(ctx context.Context, info domain.AccountInfo, union bool) ([]domain.User, error) {
	info = info.Normalize()
	if n := len(info.Axes()); n != 1 {
		return nil, fmt.Errorf("accountlinking.ListUsersByAccountInfo: %d identifiers: %w", n, domain.ErrInvalidQuery)
	}

	users, err := s.listUsers(ctx, info, union)
	if err != nil {
		return nil, fmt.Errorf("accountlinking.ListUsersByAccountInfo: %w", err)
	}
	return users, nil
}

// listUsers performs the lookup for an already-normalized info.
func (s *Service) listUsers(ctx context.Context, info domain.AccountInfo, union bool) ([]domain.User, error) {
	recs, err := s.store.ListRawRecordsByAccountInfo(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	seen := make(map[string]struct{}, len(recs))
	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		if len(rec.LoginMethods) == 0 {
			continue
		}
		u := domain.AssembleUser(rec)
		if _, dup := seen[u.ID]; dup {
			continue
		}
		if !union && !u.HasAccountInfo(info) {
			continue
		}
		seen[u.ID] = struct{}{}
		users = append(users, u)
	}
	return users, nil
}

// primaryHolders returns the primary users, other than exceptPrimaryID, that
// hold any identifier of lm, with the axis that matched each one.
func (s *Service) primaryHolders(ctx context.Context, lm domain.LoginMethod, exceptPrimaryID string) ([]domain.User, []domain.Axis, error) {
	var (
		holders []domain.User
		axes    []domain.Axis
	)
	seen := make(map[string]struct{})

	info := lm.AccountInfo().Normalize()
	for i, part := range info.Split() {
		users, err := s.listUsers(ctx, part, true)
		if err != nil {
			return nil, nil, err
		}
		for _, u := range users {
			if !u.IsPrimaryUser || u.ID == exceptPrimaryID {
				continue
			}
			if _, ok := seen[u.ID]; ok {
				continue
			}
			seen[u.ID] = struct{}{}
			holders = append(holders, u)
			axes = append(axes, info.Axes()[i])
		}
	}
	return holders, axes, nil
}
