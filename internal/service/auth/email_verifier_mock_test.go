package auth

import (
	"context"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"sync"
)

var _ emailVerifier = &emailVerifierMock{}

type emailVerifierMock struct {
	MarkVerifiedFunc func(ctx context.Context, lm domain.LoginMethod) error

	calls struct {
		MarkVerified []struct {
			Ctx context.Context
			Lm  domain.LoginMethod
		}
	}
	lockMarkVerified sync.RWMutex
}

func (mock *emailVerifierMock) MarkVerified(ctx context.Context, lm domain.LoginMethod) error {
	if mock.MarkVerifiedFunc == nil {
		panic("emailVerifierMock.MarkVerifiedFunc: method is nil but emailVerifier.MarkVerified was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Lm  domain.LoginMethod
	}{
		Ctx: ctx,
		Lm:  lm,
	}
	mock.lockMarkVerified.Lock()
	mock.calls.MarkVerified = append(mock.calls.MarkVerified, callInfo)
	mock.lockMarkVerified.Unlock()
	return mock.MarkVerifiedFunc(ctx, lm)
}

func (mock *emailVerifierMock) MarkVerifiedCalls() []struct {
	Ctx context.Context
	Lm  domain.LoginMethod
} {
	var calls []struct {
		Ctx context.Context
		Lm  domain.LoginMethod
	}
	mock.lockMarkVerified.RLock()
	calls = mock.calls.MarkVerified
	mock.lockMarkVerified.RUnlock()
	return calls
}
