package auth

import (
	"context"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"sync"
)

var _ credentialStore = &credentialStoreMock{}

type credentialStoreMock struct {
	CreateLoginMethodFunc          func(ctx context.Context, in domain.NewLoginMethod) (domain.LoginMethod, error)
	GetLoginMethodByThirdPartyFunc func(ctx context.Context, tp domain.ThirdParty) (*domain.LoginMethod, error)
	GetPasswordCredentialFunc      func(ctx context.Context, email string) (string, string, error)

	calls struct {
		CreateLoginMethod []struct {
			Ctx context.Context
			In  domain.NewLoginMethod
		}
		GetLoginMethodByThirdParty []struct {
			Ctx context.Context
			Tp  domain.ThirdParty
		}
		GetPasswordCredential []struct {
			Ctx   context.Context
			Email string
		}
	}
	lockCreateLoginMethod          sync.RWMutex
	lockGetLoginMethodByThirdParty sync.RWMutex
	lockGetPasswordCredential      sync.RWMutex
}

func (mock *credentialStoreMock) CreateLoginMethod(ctx context.Context, in domain.NewLoginMethod) (domain.LoginMethod, error) {
	if mock.CreateLoginMethodFunc == nil {
		panic("credentialStoreMock.CreateLoginMethodFunc: method is nil but credentialStore.CreateLoginMethod was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  domain.NewLoginMethod
	}{
		Ctx: ctx,
		In:  in,
	}
	mock.lockCreateLoginMethod.Lock()
	mock.calls.CreateLoginMethod = append(mock.calls.CreateLoginMethod, callInfo)
	mock.lockCreateLoginMethod.Unlock()
	return mock.CreateLoginMethodFunc(ctx, in)
}

func (mock *credentialStoreMock) CreateLoginMethodCalls() []struct {
	Ctx context.Context
	In  domain.NewLoginMethod
} {
	var calls []struct {
		Ctx context.Context
		In  domain.NewLoginMethod
	}
	mock.lockCreateLoginMethod.RLock()
	calls = mock.calls.CreateLoginMethod
	mock.lockCreateLoginMethod.RUnlock()
	return calls
}

func (mock *credentialStoreMock) GetLoginMethodByThirdParty(ctx context.Context, tp domain.ThirdParty) (*domain.LoginMethod, error) {
	if mock.GetLoginMethodByThirdPartyFunc == nil {
		panic("credentialStoreMock.GetLoginMethodByThirdPartyFunc: method is nil but credentialStore.GetLoginMethodByThirdParty was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Tp  domain.ThirdParty
	}{
		Ctx: ctx,
		Tp:  tp,
	}
	mock.lockGetLoginMethodByThirdParty.Lock()
	mock.calls.GetLoginMethodByThirdParty = append(mock.calls.GetLoginMethodByThirdParty, callInfo)
	mock.lockGetLoginMethodByThirdParty.Unlock()
	return mock.GetLoginMethodByThirdPartyFunc(ctx, tp)
}

func (mock *credentialStoreMock) GetLoginMethodByThirdPartyCalls() []struct {
	Ctx context.Context
	Tp  domain.ThirdParty
} {
	var calls []struct {
		Ctx context.Context
		Tp  domain.ThirdParty
	}
	mock.lockGetLoginMethodByThirdParty.RLock()
	calls = mock.calls.GetLoginMethodByThirdParty
	mock.lockGetLoginMethodByThirdParty.RUnlock()
	return calls
}

func (mock *credentialStoreMock) GetPasswordCredential(ctx context.Context, email string) (string, string, error) {
	if mock.GetPasswordCredentialFunc == nil {
		panic("credentialStoreMock.GetPasswordCredentialFunc: method is nil but credentialStore.GetPasswordCredential was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{
		Ctx:   ctx,
		Email: email,
	}
	mock.lockGetPasswordCredential.Lock()
	mock.calls.GetPasswordCredential = append(mock.calls.GetPasswordCredential, callInfo)
	mock.lockGetPasswordCredential.Unlock()
	return mock.GetPasswordCredentialFunc(ctx, email)
}

func (mock *credentialStoreMock) GetPasswordCredentialCalls() []struct {
	Ctx   context.Context
	Email string
} {
	var calls []struct {
		Ctx   context.Context
		Email string
	}
	mock.lockGetPasswordCredential.RLock()
	calls = mock.calls.GetPasswordCredential
	mock.lockGetPasswordCredential.RUnlock()
	return calls
}
