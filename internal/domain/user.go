package domain

import (
	"slices"
	"time"
)

// UserRecord is the raw store view of one user: either a standalone
// recipe user (PrimaryUserID empty, one login method) or a primary user
// with every linked login method.
type UserRecord struct {
	PrimaryUserID string
	LoginMethods  []LoginMethod
}

// User is the aggregated, read-only view built from a UserRecord.
type User struct {
	ID            string
	IsPrimaryUser bool
	TimeJoined    time.Time
	Emails        []string
	PhoneNumbers  []string
	ThirdParty    []ThirdParty
	LoginMethods  []LoginMethod
}

// AssembleUser aggregates a record into a User. The primary's own login
// method comes first, the rest follow by join time (recipe user id breaks
// ties). Identifier lists follow that order without duplicates. The record
// must carry at least one login method.
func AssembleUser(rec UserRecord) User {
	lms := slices.Clone(rec.LoginMethods)
	slices.SortStableFunc(lms, func(a, b LoginMethod) int {
		if c := a.TimeJoined.Compare(b.TimeJoined); c != 0 {
			return c
		}
		switch {
		case a.RecipeUserID < b.RecipeUserID:
			return -1
		case a.RecipeUserID > b.RecipeUserID:
			return 1
		}
		return 0
	})
	if i := slices.IndexFunc(lms, func(lm LoginMethod) bool {
		return lm.RecipeUserID == rec.PrimaryUserID
	}); i > 0 {
		own := lms[i]
		copy(lms[1:i+1], lms[:i])
		lms[0] = own
	}

	u := User{
		ID:            rec.PrimaryUserID,
		IsPrimaryUser: rec.PrimaryUserID != "",
		LoginMethods:  lms,
	}
	if !u.IsPrimaryUser && len(lms) > 0 {
		u.ID = lms[0].RecipeUserID
	}
	for i, lm := range lms {
		if i == 0 || lm.TimeJoined.Before(u.TimeJoined) {
			u.TimeJoined = lm.TimeJoined
		}
		if lm.Email != nil && !slices.Contains(u.Emails, *lm.Email) {
			u.Emails = append(u.Emails, *lm.Email)
		}
		if lm.PhoneNumber != nil && !slices.Contains(u.PhoneNumbers, *lm.PhoneNumber) {
			u.PhoneNumbers = append(u.PhoneNumbers, *lm.PhoneNumber)
		}
		if lm.ThirdParty != nil && !slices.Contains(u.ThirdParty, *lm.ThirdParty) {
			u.ThirdParty = append(u.ThirdParty, *lm.ThirdParty)
		}
	}
	return u
}

// LoginMethod returns the login method with the given recipe user id.
func (u User) LoginMethod(recipeUserID string) (LoginMethod, bool) {
	for _, lm := range u.LoginMethods {
		if lm.RecipeUserID == recipeUserID {
			return lm, true
		}
	}
	return LoginMethod{}, false
}

// HasLoginMethod reports whether recipeUserID is one of the user's login methods.
func (u User) HasLoginMethod(recipeUserID string) bool {
	_, ok := u.LoginMethod(recipeUserID)
	return ok
}

// HasAccountInfo reports whether every identifier in info is carried by at
// least one of the user's login methods.
func (u User) HasAccountInfo(info AccountInfo) bool {
	for _, part := range info.Split() {
		if !slices.ContainsFunc(u.LoginMethods, func(lm LoginMethod) bool { return lm.MatchesAny(part) }) {
			return false
		}
	}
	return true
}

// HasVerified reports whether a login method carrying an identifier of info
// is verified.
func (u User) HasVerified(info AccountInfo) bool {
	return slices.ContainsFunc(u.LoginMethods, func(lm LoginMethod) bool {
		return lm.Verified && lm.MatchesAny(info)
	})
}

// RecipeUserIDs lists the ids of every login method, in aggregate order.
func (u User) RecipeUserIDs() []string {
	ids := make([]string, len(u.LoginMethods))
	for i, lm := range u.LoginMethods {
		ids[i] = lm.RecipeUserID
	}
	return ids
}
