package auth

import (
	"context"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"sync"
)

var _ providerVerifier = &providerVerifierMock{}

type providerVerifierMock struct {
	VerifyCodeFunc func(ctx context.Context, provider string, code string) (*domain.ProviderIdentity, error)

	calls struct {
		VerifyCode []struct {
			Ctx      context.Context
			Provider string
			Code     string
		}
	}
	lockVerifyCode sync.RWMutex
}

func (mock *providerVerifierMock) VerifyCode(ctx context.Context, provider string, code string) (*domain.ProviderIdentity, error) {
	if mock.VerifyCodeFunc == nil {
		panic("providerVerifierMock.VerifyCodeFunc: method is nil but providerVerifier.VerifyCode was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Provider string
		Code     string
	}{
		Ctx:      ctx,
		Provider: provider,
		Code:     code,
	}
	mock.lockVerifyCode.Lock()
	mock.calls.VerifyCode = append(mock.calls.VerifyCode, callInfo)
	mock.lockVerifyCode.Unlock()
	return mock.VerifyCodeFunc(ctx, provider, code)
}

func (mock *providerVerifierMock) VerifyCodeCalls() []struct {
	Ctx      context.Context
	Provider string
	Code     string
} {
	var calls []struct {
		Ctx      context.Context
		Provider string
		Code     string
	}
	mock.lockVerifyCode.RLock()
	calls = mock.calls.VerifyCode
	mock.lockVerifyCode.RUnlock()
	return calls
}
