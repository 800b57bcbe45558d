package accountlinking

import (
	"context"
	"sync"
)

var _ sessionRevoker = &sessionRevokerMock{}

type sessionRevokerMock struct {
	RevokeAllSessionsForUserFunc func(ctx context.Context, userID string, includeLinkedAccounts bool) error

	calls struct {
		RevokeAllSessionsForUser []struct {
			Ctx                   context.Context
			UserID                string
			IncludeLinkedAccounts bool
		}
	}
	lockRevokeAllSessionsForUser sync.RWMutex
}

func (mock *sessionRevokerMock) RevokeAllSessionsForUser(ctx context.Context, userID string, includeLinkedAccounts bool) error {
	if mock.RevokeAllSessionsForUserFunc == nil {
		panic("sessionRevokerMock.RevokeAllSessionsForUserFunc: method is nil but sessionRevoker.RevokeAllSessionsForUser was just called")
	}
	callInfo := struct {
		Ctx                   context.Context
		UserID                string
		IncludeLinkedAccounts bool
	}{
		Ctx:                   ctx,
		UserID:                userID,
		IncludeLinkedAccounts: includeLinkedAccounts,
	}
	mock.lockRevokeAllSessionsForUser.Lock()
	mock.calls.RevokeAllSessionsForUser = append(mock.calls.RevokeAllSessionsForUser, callInfo)
	mock.lockRevokeAllSessionsForUser.Unlock()
	return mock.RevokeAllSessionsForUserFunc(ctx, userID, includeLinkedAccounts)
}

func (mock *sessionRevokerMock) RevokeAllSessionsForUserCalls() []struct {
	Ctx                   context.Context
	UserID                string
	IncludeLinkedAccounts bool
} {
	var calls []struct {
		Ctx                   context.Context
		UserID                string
		IncludeLinkedAccounts bool
	}
	mock.lockRevokeAllSessionsForUser.RLock()
	calls = mock.calls.RevokeAllSessionsForUser
	mock.lockRevokeAllSessionsForUser.RUnlock()
	return calls
}
