package auth

import (
	"context"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"sync"
)

var _ sessionStore = &sessionStoreMock{}

type sessionStoreMock struct {
	CreateSessionFunc func(ctx context.Context, recipeUserID string, userID string) (*domain.Session, error)

	calls struct {
		CreateSession []struct {
			Ctx          context.Context
			RecipeUserID string
			UserID       string
		}
	}
	lockCreateSession sync.RWMutex
}

func (mock *sessionStoreMock) CreateSession(ctx context.Context, recipeUserID string, userID string) (*domain.Session, error) {
	if mock.CreateSessionFunc == nil {
		panic("sessionStoreMock.CreateSessionFunc: method is nil but sessionStore.CreateSession was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
		UserID       string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
		UserID:       userID,
	}
	mock.lockCreateSession.Lock()
	mock.calls.CreateSession = append(mock.calls.CreateSession, callInfo)
	mock.lockCreateSession.Unlock()
	return mock.CreateSessionFunc(ctx, recipeUserID, userID)
}

func (mock *sessionStoreMock) CreateSessionCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
	UserID       string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
		UserID       string
	}
	mock.lockCreateSession.RLock()
	calls = mock.calls.CreateSession
	mock.lockCreateSession.RUnlock()
	return calls
}
