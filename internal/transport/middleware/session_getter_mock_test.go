package middleware

import (
	"context"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"sync"
)

var _ sessionGetter = &sessionGetterMock{}

type sessionGetterMock struct {
	GetSessionFunc func(ctx context.Context, handle string) (*domain.Session, error)

	calls struct {
		GetSession []struct {
			Ctx    context.Context
			Handle string
		}
	}
	lockGetSession sync.RWMutex
}

func (mock *sessionGetterMock) GetSession(ctx context.Context, handle string) (*domain.Session, error) {
	if mock.GetSessionFunc == nil {
		panic("sessionGetterMock.GetSessionFunc: method is nil but sessionGetter.GetSession was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Handle string
	}{
		Ctx:    ctx,
		Handle: handle,
	}
	mock.lockGetSession.Lock()
	mock.calls.GetSession = append(mock.calls.GetSession, callInfo)
	mock.lockGetSession.Unlock()
	return mock.GetSessionFunc(ctx, handle)
}

func (mock *sessionGetterMock) GetSessionCalls() []struct {
	Ctx    context.Context
	Handle string
} {
	var calls []struct {
		Ctx    context.Context
		Handle string
	}
	mock.lockGetSession.RLock()
	calls = mock.calls.GetSession
	mock.lockGetSession.RUnlock()
	return calls
}
