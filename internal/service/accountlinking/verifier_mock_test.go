package accountlinking

import (
	"context"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"sync"
)

var _ verifier = &verifierMock{}

type verifierMock struct {
	IsVerifiedFunc   func(ctx context.Context, lm domain.LoginMethod) (bool, error)
	MarkVerifiedFunc func(ctx context.Context, lm domain.LoginMethod) error

	calls struct {
		IsVerified []struct {
			Ctx context.Context
			Lm  domain.LoginMethod
		}
		MarkVerified []struct {
			Ctx context.Context
			Lm  domain.LoginMethod
		}
	}
	lockIsVerified   sync.RWMutex
	lockMarkVerified sync.RWMutex
}

func (mock *verifierMock) IsVerified(ctx context.Context, lm domain.LoginMethod) (bool, error) {
	if mock.IsVerifiedFunc == nil {
		panic("verifierMock.IsVerifiedFunc: method is nil but verifier.IsVerified was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Lm  domain.LoginMethod
	}{
		Ctx: ctx,
		Lm:  lm,
	}
	mock.lockIsVerified.Lock()
	mock.calls.IsVerified = append(mock.calls.IsVerified, callInfo)
	mock.lockIsVerified.Unlock()
	return mock.IsVerifiedFunc(ctx, lm)
}

func (mock *verifierMock) IsVerifiedCalls() []struct {
	Ctx context.Context
	Lm  domain.LoginMethod
} {
	var calls []struct {
		Ctx context.Context
		Lm  domain.LoginMethod
	}
	mock.lockIsVerified.RLock()
	calls = mock.calls.IsVerified
	mock.lockIsVerified.RUnlock()
	return calls
}

func (mock *verifierMock) MarkVerified(ctx context.Context, lm domain.LoginMethod) error {
	if mock.MarkVerifiedFunc == nil {
		panic("verifierMock.MarkVerifiedFunc: method is nil but verifier.MarkVerified was just called")
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

func (mock *verifierMock) MarkVerifiedCalls() []struct {
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
