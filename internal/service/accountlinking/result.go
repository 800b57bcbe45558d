package accountlinking

import "github.com/heartmarshall/accountlinking/internal/domain"

// CreatePrimaryResult is returned by CanCreatePrimaryUser and CreatePrimaryUser.
type CreatePrimaryResult struct {
	User              *domain.User
	WasAlreadyPrimary bool
}

// LinkResult is returned by CanLinkAccounts and LinkAccounts. User is the
// primary user the secondary belongs to.
type LinkResult struct {
	User                  *domain.User
	AccountsAlreadyLinked bool
}

// UnlinkResult is returned by UnlinkAccount.
type UnlinkResult struct {
	WasRecipeUserDeleted bool
	WasLinked            bool
}
