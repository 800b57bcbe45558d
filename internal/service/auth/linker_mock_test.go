package auth

import (
	"context"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"sync"
)

var _ linker = &linkerMock{}

type linkerMock struct {
	CreatePrimaryUserIDOrLinkAccountsFunc                   func(ctx context.Context, recipeUserID string) (string, error)
	GetUserFunc                                             func(ctx context.Context, recipeUserID string) (*domain.User, error)
	IsSignInAllowedFunc                                     func(ctx context.Context, recipeUserID string) (bool, error)
	IsSignUpAllowedFunc                                     func(ctx context.Context, recipeID domain.RecipeID, info domain.AccountInfo, isVerified bool) (bool, error)
	VerifyEmailForRecipeUserIfLinkedAccountsAreVerifiedFunc func(ctx context.Context, recipeUserID string) error

	calls struct {
		CreatePrimaryUserIDOrLinkAccounts []struct {
			Ctx          context.Context
			RecipeUserID string
		}
		GetUser []struct {
			Ctx          context.Context
			RecipeUserID string
		}
		IsSignInAllowed []struct {
			Ctx          context.Context
			RecipeUserID string
		}
		IsSignUpAllowed []struct {
			Ctx        context.Context
			RecipeID   domain.RecipeID
			Info       domain.AccountInfo
			IsVerified bool
		}
		VerifyEmailForRecipeUserIfLinkedAccountsAreVerified []struct {
			Ctx          context.Context
			RecipeUserID string
		}
	}
	lockCreatePrimaryUserIDOrLinkAccounts                   sync.RWMutex
	lockGetUser                                             sync.RWMutex
	lockIsSignInAllowed                                     sync.RWMutex
	lockIsSignUpAllowed                                     sync.RWMutex
	lockVerifyEmailForRecipeUserIfLinkedAccountsAreVerified sync.RWMutex
}

func (mock *linkerMock) CreatePrimaryUserIDOrLinkAccounts(ctx context.Context, recipeUserID string) (string, error) {
	if mock.CreatePrimaryUserIDOrLinkAccountsFunc == nil {
		panic("linkerMock.CreatePrimaryUserIDOrLinkAccountsFunc: method is nil but linker.CreatePrimaryUserIDOrLinkAccounts was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
	}
	mock.lockCreatePrimaryUserIDOrLinkAccounts.Lock()
	mock.calls.CreatePrimaryUserIDOrLinkAccounts = append(mock.calls.CreatePrimaryUserIDOrLinkAccounts, callInfo)
	mock.lockCreatePrimaryUserIDOrLinkAccounts.Unlock()
	return mock.CreatePrimaryUserIDOrLinkAccountsFunc(ctx, recipeUserID)
}

func (mock *linkerMock) CreatePrimaryUserIDOrLinkAccountsCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
	}
	mock.lockCreatePrimaryUserIDOrLinkAccounts.RLock()
	calls = mock.calls.CreatePrimaryUserIDOrLinkAccounts
	mock.lockCreatePrimaryUserIDOrLinkAccounts.RUnlock()
	return calls
}

func (mock *linkerMock) GetUser(ctx context.Context, recipeUserID string) (*domain.User, error) {
	if mock.GetUserFunc == nil {
		panic("linkerMock.GetUserFunc: method is nil but linker.GetUser was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
	}
	mock.lockGetUser.Lock()
	mock.calls.GetUser = append(mock.calls.GetUser, callInfo)
	mock.lockGetUser.Unlock()
	return mock.GetUserFunc(ctx, recipeUserID)
}

func (mock *linkerMock) GetUserCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
	}
	mock.lockGetUser.RLock()
	calls = mock.calls.GetUser
	mock.lockGetUser.RUnlock()
	return calls
}

func (mock *linkerMock) IsSignInAllowed(ctx context.Context, recipeUserID string) (bool, error) {
	if mock.IsSignInAllowedFunc == nil {
		panic("linkerMock.IsSignInAllowedFunc: method is nil but linker.IsSignInAllowed was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
	}
	mock.lockIsSignInAllowed.Lock()
	mock.calls.IsSignInAllowed = append(mock.calls.IsSignInAllowed, callInfo)
	mock.lockIsSignInAllowed.Unlock()
	return mock.IsSignInAllowedFunc(ctx, recipeUserID)
}

func (mock *linkerMock) IsSignInAllowedCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
	}
	mock.lockIsSignInAllowed.RLock()
	calls = mock.calls.IsSignInAllowed
	mock.lockIsSignInAllowed.RUnlock()
	return calls
}

func (mock *linkerMock) IsSignUpAllowed(ctx context.Context, recipeID domain.RecipeID, info domain.AccountInfo, isVerified bool) (bool, error) {
	if mock.IsSignUpAllowedFunc == nil {
		panic("linkerMock.IsSignUpAllowedFunc: method is nil but linker.IsSignUpAllowed was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		RecipeID   domain.RecipeID
		Info       domain.AccountInfo
		IsVerified bool
	}{
		Ctx:        ctx,
		RecipeID:   recipeID,
		Info:       info,
		IsVerified: isVerified,
	}
	mock.lockIsSignUpAllowed.Lock()
	mock.calls.IsSignUpAllowed = append(mock.calls.IsSignUpAllowed, callInfo)
	mock.lockIsSignUpAllowed.Unlock()
	return mock.IsSignUpAllowedFunc(ctx, recipeID, info, isVerified)
}

func (mock *linkerMock) IsSignUpAllowedCalls() []struct {
	Ctx        context.Context
	RecipeID   domain.RecipeID
	Info       domain.AccountInfo
	IsVerified bool
} {
	var calls []struct {
		Ctx        context.Context
		RecipeID   domain.RecipeID
		Info       domain.AccountInfo
		IsVerified bool
	}
	mock.lockIsSignUpAllowed.RLock()
	calls = mock.calls.IsSignUpAllowed
	mock.lockIsSignUpAllowed.RUnlock()
	return calls
}

func (mock *linkerMock) VerifyEmailForRecipeUserIfLinkedAccountsAreVerified(ctx context.Context, recipeUserID string) error {
	if mock.VerifyEmailForRecipeUserIfLinkedAccountsAreVerifiedFunc == nil {
		panic("linkerMock.VerifyEmailForRecipeUserIfLinkedAccountsAreVerifiedFunc: method is nil but linker.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
	}
	mock.lockVerifyEmailForRecipeUserIfLinkedAccountsAreVerified.Lock()
	mock.calls.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified = append(mock.calls.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified, callInfo)
	mock.lockVerifyEmailForRecipeUserIfLinkedAccountsAreVerified.Unlock()
	return mock.VerifyEmailForRecipeUserIfLinkedAccountsAreVerifiedFunc(ctx, recipeUserID)
}

func (mock *linkerMock) VerifyEmailForRecipeUserIfLinkedAccountsAreVerifiedCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
	}
	mock.lockVerifyEmailForRecipeUserIfLinkedAccountsAreVerified.RLock()
	calls = mock.calls.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified
	mock.lockVerifyEmailForRecipeUserIfLinkedAccountsAreVerified.RUnlock()
	return calls
}
