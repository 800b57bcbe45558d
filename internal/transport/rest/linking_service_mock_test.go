package rest

import (
	"context"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"github.com/heartmarshall/accountlinking/internal/service/accountlinking"
	"sync"
)

var _ linkingService = &linkingServiceMock{}

type linkingServiceMock struct {
	CanCreatePrimaryUserFunc                                func(ctx context.Context, recipeUserID string) (accountlinking.CreatePrimaryResult, error)
	CanLinkAccountsFunc                                     func(ctx context.Context, secondaryID string, primaryID string) (accountlinking.LinkResult, error)
	CreatePrimaryUserFunc                                   func(ctx context.Context, recipeUserID string) (accountlinking.CreatePrimaryResult, error)
	CreatePrimaryUserIDOrLinkAccountsFunc                   func(ctx context.Context, recipeUserID string) (string, error)
	DeleteUserFunc                                          func(ctx context.Context, recipeUserID string, cascade bool) error
	FetchAccountToLinkFunc                                  func(ctx context.Context, recipeUserID string) (string, error)
	GetUserFunc                                             func(ctx context.Context, recipeUserID string) (*domain.User, error)
	IsEmailChangeAllowedFunc                                func(ctx context.Context, recipeUserID string, newEmail string, isVerified bool) (bool, error)
	IsSignInAllowedFunc                                     func(ctx context.Context, recipeUserID string) (bool, error)
	IsSignUpAllowedFunc                                     func(ctx context.Context, recipeID domain.RecipeID, info domain.AccountInfo, isVerified bool) (bool, error)
	LinkAccountsFunc                                        func(ctx context.Context, secondaryID string, primaryID string) (accountlinking.LinkResult, error)
	ListUsersByAccountInfoFunc                              func(ctx context.Context, info domain.AccountInfo, union bool) ([]domain.User, error)
	StoreAccountToLinkFunc                                  func(ctx context.Context, recipeUserID string, primaryID string) error
	UnlinkAccountFunc                                       func(ctx context.Context, recipeUserID string) (accountlinking.UnlinkResult, error)
	VerifyEmailForRecipeUserIfLinkedAccountsAreVerifiedFunc func(ctx context.Context, recipeUserID string) error

	calls struct {
		CanCreatePrimaryUser []struct {
			Ctx          context.Context
			RecipeUserID string
		}
		CanLinkAccounts []struct {
			Ctx         context.Context
			SecondaryID string
			PrimaryID   string
		}
		CreatePrimaryUser []struct {
			Ctx          context.Context
			RecipeUserID string
		}
		CreatePrimaryUserIDOrLinkAccounts []struct {
			Ctx          context.Context
			RecipeUserID string
		}
		DeleteUser []struct {
			Ctx          context.Context
			RecipeUserID string
			Cascade      bool
		}
		FetchAccountToLink []struct {
			Ctx          context.Context
			RecipeUserID string
		}
		GetUser []struct {
			Ctx          context.Context
			RecipeUserID string
		}
		IsEmailChangeAllowed []struct {
			Ctx          context.Context
			RecipeUserID string
			NewEmail     string
			IsVerified   bool
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
		LinkAccounts []struct {
			Ctx         context.Context
			SecondaryID string
			PrimaryID   string
		}
		ListUsersByAccountInfo []struct {
			Ctx   context.Context
			Info  domain.AccountInfo
			Union bool
		}
		StoreAccountToLink []struct {
			Ctx          context.Context
			RecipeUserID string
			PrimaryID    string
		}
		UnlinkAccount []struct {
			Ctx          context.Context
			RecipeUserID string
		}
		VerifyEmailForRecipeUserIfLinkedAccountsAreVerified []struct {
			Ctx          context.Context
			RecipeUserID string
		}
	}
	lockCanCreatePrimaryUser                                sync.RWMutex
	lockCanLinkAccounts                                     sync.RWMutex
	lockCreatePrimaryUser                                   sync.RWMutex
	lockCreatePrimaryUserIDOrLinkAccounts                   sync.RWMutex
	lockDeleteUser                                          sync.RWMutex
	lockFetchAccountToLink                                  sync.RWMutex
	lockGetUser                                             sync.RWMutex
	lockIsEmailChangeAllowed                                sync.RWMutex
	lockIsSignInAllowed                                     sync.RWMutex
	lockIsSignUpAllowed                                     sync.RWMutex
	lockLinkAccounts                                        sync.RWMutex
	lockListUsersByAccountInfo                              sync.RWMutex
	lockStoreAccountToLink                                  sync.RWMutex
	lockUnlinkAccount                                       sync.RWMutex
	lockVerifyEmailForRecipeUserIfLinkedAccountsAreVerified sync.RWMutex
}

func (mock *linkingServiceMock) CanCreatePrimaryUser(ctx context.Context, recipeUserID string) (accountlinking.CreatePrimaryResult, error) {
	if mock.CanCreatePrimaryUserFunc == nil {
		panic("linkingServiceMock.CanCreatePrimaryUserFunc: method is nil but linkingService.CanCreatePrimaryUser was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
	}
	mock.lockCanCreatePrimaryUser.Lock()
	mock.calls.CanCreatePrimaryUser = append(mock.calls.CanCreatePrimaryUser, callInfo)
	mock.lockCanCreatePrimaryUser.Unlock()
	return mock.CanCreatePrimaryUserFunc(ctx, recipeUserID)
}

func (mock *linkingServiceMock) CanCreatePrimaryUserCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
	}
	mock.lockCanCreatePrimaryUser.RLock()
	calls = mock.calls.CanCreatePrimaryUser
	mock.lockCanCreatePrimaryUser.RUnlock()
	return calls
}

func (mock *linkingServiceMock) CanLinkAccounts(ctx context.Context, secondaryID string, primaryID string) (accountlinking.LinkResult, error) {
	if mock.CanLinkAccountsFunc == nil {
		panic("linkingServiceMock.CanLinkAccountsFunc: method is nil but linkingService.CanLinkAccounts was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		SecondaryID string
		PrimaryID   string
	}{
		Ctx:         ctx,
		SecondaryID: secondaryID,
		PrimaryID:   primaryID,
	}
	mock.lockCanLinkAccounts.Lock()
	mock.calls.CanLinkAccounts = append(mock.calls.CanLinkAccounts, callInfo)
	mock.lockCanLinkAccounts.Unlock()
	return mock.CanLinkAccountsFunc(ctx, secondaryID, primaryID)
}

func (mock *linkingServiceMock) CanLinkAccountsCalls() []struct {
	Ctx         context.Context
	SecondaryID string
	PrimaryID   string
} {
	var calls []struct {
		Ctx         context.Context
		SecondaryID string
		PrimaryID   string
	}
	mock.lockCanLinkAccounts.RLock()
	calls = mock.calls.CanLinkAccounts
	mock.lockCanLinkAccounts.RUnlock()
	return calls
}

func (mock *linkingServiceMock) CreatePrimaryUser(ctx context.Context, recipeUserID string) (accountlinking.CreatePrimaryResult, error) {
	if mock.CreatePrimaryUserFunc == nil {
		panic("linkingServiceMock.CreatePrimaryUserFunc: method is nil but linkingService.CreatePrimaryUser was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
	}
	mock.lockCreatePrimaryUser.Lock()
	mock.calls.CreatePrimaryUser = append(mock.calls.CreatePrimaryUser, callInfo)
	mock.lockCreatePrimaryUser.Unlock()
	return mock.CreatePrimaryUserFunc(ctx, recipeUserID)
}

func (mock *linkingServiceMock) CreatePrimaryUserCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
	}
	mock.lockCreatePrimaryUser.RLock()
	calls = mock.calls.CreatePrimaryUser
	mock.lockCreatePrimaryUser.RUnlock()
	return calls
}

func (mock *linkingServiceMock) CreatePrimaryUserIDOrLinkAccounts(ctx context.Context, recipeUserID string) (string, error) {
	if mock.CreatePrimaryUserIDOrLinkAccountsFunc == nil {
		panic("linkingServiceMock.CreatePrimaryUserIDOrLinkAccountsFunc: method is nil but linkingService.CreatePrimaryUserIDOrLinkAccounts was just called")
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

func (mock *linkingServiceMock) CreatePrimaryUserIDOrLinkAccountsCalls() []struct {
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

func (mock *linkingServiceMock) DeleteUser(ctx context.Context, recipeUserID string, cascade bool) error {
	if mock.DeleteUserFunc == nil {
		panic("linkingServiceMock.DeleteUserFunc: method is nil but linkingService.DeleteUser was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
		Cascade      bool
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
		Cascade:      cascade,
	}
	mock.lockDeleteUser.Lock()
	mock.calls.DeleteUser = append(mock.calls.DeleteUser, callInfo)
	mock.lockDeleteUser.Unlock()
	return mock.DeleteUserFunc(ctx, recipeUserID, cascade)
}

func (mock *linkingServiceMock) DeleteUserCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
	Cascade      bool
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
		Cascade      bool
	}
	mock.lockDeleteUser.RLock()
	calls = mock.calls.DeleteUser
	mock.lockDeleteUser.RUnlock()
	return calls
}

func (mock *linkingServiceMock) FetchAccountToLink(ctx context.Context, recipeUserID string) (string, error) {
	if mock.FetchAccountToLinkFunc == nil {
		panic("linkingServiceMock.FetchAccountToLinkFunc: method is nil but linkingService.FetchAccountToLink was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
	}
	mock.lockFetchAccountToLink.Lock()
	mock.calls.FetchAccountToLink = append(mock.calls.FetchAccountToLink, callInfo)
	mock.lockFetchAccountToLink.Unlock()
	return mock.FetchAccountToLinkFunc(ctx, recipeUserID)
}

func (mock *linkingServiceMock) FetchAccountToLinkCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
	}
	mock.lockFetchAccountToLink.RLock()
	calls = mock.calls.FetchAccountToLink
	mock.lockFetchAccountToLink.RUnlock()
	return calls
}

func (mock *linkingServiceMock) GetUser(ctx context.Context, recipeUserID string) (*domain.User, error) {
	if mock.GetUserFunc == nil {
		panic("linkingServiceMock.GetUserFunc: method is nil but linkingService.GetUser was just called")
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

func (mock *linkingServiceMock) GetUserCalls() []struct {
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

func (mock *linkingServiceMock) IsEmailChangeAllowed(ctx context.Context, recipeUserID string, newEmail string, isVerified bool) (bool, error) {
	if mock.IsEmailChangeAllowedFunc == nil {
		panic("linkingServiceMock.IsEmailChangeAllowedFunc: method is nil but linkingService.IsEmailChangeAllowed was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
		NewEmail     string
		IsVerified   bool
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
		NewEmail:     newEmail,
		IsVerified:   isVerified,
	}
	mock.lockIsEmailChangeAllowed.Lock()
	mock.calls.IsEmailChangeAllowed = append(mock.calls.IsEmailChangeAllowed, callInfo)
	mock.lockIsEmailChangeAllowed.Unlock()
	return mock.IsEmailChangeAllowedFunc(ctx, recipeUserID, newEmail, isVerified)
}

func (mock *linkingServiceMock) IsEmailChangeAllowedCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
	NewEmail     string
	IsVerified   bool
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
		NewEmail     string
		IsVerified   bool
	}
	mock.lockIsEmailChangeAllowed.RLock()
	calls = mock.calls.IsEmailChangeAllowed
	mock.lockIsEmailChangeAllowed.RUnlock()
	return calls
}

func (mock *linkingServiceMock) IsSignInAllowed(ctx context.Context, recipeUserID string) (bool, error) {
	if mock.IsSignInAllowedFunc == nil {
		panic("linkingServiceMock.IsSignInAllowedFunc: method is nil but linkingService.IsSignInAllowed was just called")
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

func (mock *linkingServiceMock) IsSignInAllowedCalls() []struct {
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

func (mock *linkingServiceMock) IsSignUpAllowed(ctx context.Context, recipeID domain.RecipeID, info domain.AccountInfo, isVerified bool) (bool, error) {
	if mock.IsSignUpAllowedFunc == nil {
		panic("linkingServiceMock.IsSignUpAllowedFunc: method is nil but linkingService.IsSignUpAllowed was just called")
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

func (mock *linkingServiceMock) IsSignUpAllowedCalls() []struct {
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

func (mock *linkingServiceMock) LinkAccounts(ctx context.Context, secondaryID string, primaryID string) (accountlinking.LinkResult, error) {
	if mock.LinkAccountsFunc == nil {
		panic("linkingServiceMock.LinkAccountsFunc: method is nil but linkingService.LinkAccounts was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		SecondaryID string
		PrimaryID   string
	}{
		Ctx:         ctx,
		SecondaryID: secondaryID,
		PrimaryID:   primaryID,
	}
	mock.lockLinkAccounts.Lock()
	mock.calls.LinkAccounts = append(mock.calls.LinkAccounts, callInfo)
	mock.lockLinkAccounts.Unlock()
	return mock.LinkAccountsFunc(ctx, secondaryID, primaryID)
}

func (mock *linkingServiceMock) LinkAccountsCalls() []struct {
	Ctx         context.Context
	SecondaryID string
	PrimaryID   string
} {
	var calls []struct {
		Ctx         context.Context
		SecondaryID string
		PrimaryID   string
	}
	mock.lockLinkAccounts.RLock()
	calls = mock.calls.LinkAccounts
	mock.lockLinkAccounts.RUnlock()
	return calls
}

func (mock *linkingServiceMock) ListUsersByAccountInfo(ctx context.Context, info domain.AccountInfo, union bool) ([]domain.User, error) {
	if mock.ListUsersByAccountInfoFunc == nil {
		panic("linkingServiceMock.ListUsersByAccountInfoFunc: method is nil but linkingService.ListUsersByAccountInfo was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Info  domain.AccountInfo
		Union bool
	}{
		Ctx:   ctx,
		Info:  info,
		Union: union,
	}
	mock.lockListUsersByAccountInfo.Lock()
	mock.calls.ListUsersByAccountInfo = append(mock.calls.ListUsersByAccountInfo, callInfo)
	mock.lockListUsersByAccountInfo.Unlock()
	return mock.ListUsersByAccountInfoFunc(ctx, info, union)
}

func (mock *linkingServiceMock) ListUsersByAccountInfoCalls() []struct {
	Ctx   context.Context
	Info  domain.AccountInfo
	Union bool
} {
	var calls []struct {
		Ctx   context.Context
		Info  domain.AccountInfo
		Union bool
	}
	mock.lockListUsersByAccountInfo.RLock()
	calls = mock.calls.ListUsersByAccountInfo
	mock.lockListUsersByAccountInfo.RUnlock()
	return calls
}

func (mock *linkingServiceMock) StoreAccountToLink(ctx context.Context, recipeUserID string, primaryID string) error {
	if mock.StoreAccountToLinkFunc == nil {
		panic("linkingServiceMock.StoreAccountToLinkFunc: method is nil but linkingService.StoreAccountToLink was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
		PrimaryID    string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
		PrimaryID:    primaryID,
	}
	mock.lockStoreAccountToLink.Lock()
	mock.calls.StoreAccountToLink = append(mock.calls.StoreAccountToLink, callInfo)
	mock.lockStoreAccountToLink.Unlock()
	return mock.StoreAccountToLinkFunc(ctx, recipeUserID, primaryID)
}

func (mock *linkingServiceMock) StoreAccountToLinkCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
	PrimaryID    string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
		PrimaryID    string
	}
	mock.lockStoreAccountToLink.RLock()
	calls = mock.calls.StoreAccountToLink
	mock.lockStoreAccountToLink.RUnlock()
	return calls
}

func (mock *linkingServiceMock) UnlinkAccount(ctx context.Context, recipeUserID string) (accountlinking.UnlinkResult, error) {
	if mock.UnlinkAccountFunc == nil {
		panic("linkingServiceMock.UnlinkAccountFunc: method is nil but linkingService.UnlinkAccount was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RecipeUserID string
	}{
		Ctx:          ctx,
		RecipeUserID: recipeUserID,
	}
	mock.lockUnlinkAccount.Lock()
	mock.calls.UnlinkAccount = append(mock.calls.UnlinkAccount, callInfo)
	mock.lockUnlinkAccount.Unlock()
	return mock.UnlinkAccountFunc(ctx, recipeUserID)
}

func (mock *linkingServiceMock) UnlinkAccountCalls() []struct {
	Ctx          context.Context
	RecipeUserID string
} {
	var calls []struct {
		Ctx          context.Context
		RecipeUserID string
	}
	mock.lockUnlinkAccount.RLock()
	calls = mock.calls.UnlinkAccount
	mock.lockUnlinkAccount.RUnlock()
	return calls
}

func (mock *linkingServiceMock) VerifyEmailForRecipeUserIfLinkedAccountsAreVerified(ctx context.Context, recipeUserID string) error {
	if mock.VerifyEmailForRecipeUserIfLinkedAccountsAreVerifiedFunc == nil {
		panic("linkingServiceMock.VerifyEmailForRecipeUserIfLinkedAccountsAreVerifiedFunc: method is nil but linkingService.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified was just called")
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

func (mock *linkingServiceMock) VerifyEmailForRecipeUserIfLinkedAccountsAreVerifiedCalls() []struct {
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
