package rest

import (
	"time"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

type thirdPartyDTO struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
}

type loginMethodResponse struct {
	RecipeID     string         `json:"recipeId"`
	RecipeUserID string         `json:"recipeUserId"`
	TimeJoined   time.Time      `json:"timeJoined"`
	Verified     bool           `json:"verified"`
	Email        *string        `json:"email,omitempty"`
	PhoneNumber  *string        `json:"phoneNumber,omitempty"`
	ThirdParty   *thirdPartyDTO `json:"thirdParty,omitempty"`
}

type userResponse struct {
	ID            string                `json:"id"`
	IsPrimaryUser bool                  `json:"isPrimaryUser"`
	TimeJoined    time.Time             `json:"timeJoined"`
	Emails        []string              `json:"emails"`
	PhoneNumbers  []string              `json:"phoneNumbers"`
	ThirdParty    []thirdPartyDTO       `json:"thirdParty"`
	LoginMethods  []loginMethodResponse `json:"loginMethods"`
}

type sessionResponse struct {
	Handle      string    `json:"handle"`
	UserID      string    `json:"userId"`
	AccessToken string    `json:"accessToken,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	resp := &userResponse{
		ID:            u.ID,
		IsPrimaryUser: u.IsPrimaryUser,
		TimeJoined:    u.TimeJoined,
		Emails:        nonNil(u.Emails),
		PhoneNumbers:  nonNil(u.PhoneNumbers),
		ThirdParty:    make([]thirdPartyDTO, 0, len(u.ThirdParty)),
		LoginMethods:  make([]loginMethodResponse, 0, len(u.LoginMethods)),
	}
	for _, tp := range u.ThirdParty {
		resp.ThirdParty = append(resp.ThirdParty, thirdPartyDTO{ID: tp.ID, UserID: tp.UserID})
	}
	for _, lm := range u.LoginMethods {
		lmr := loginMethodResponse{
			RecipeID:     lm.RecipeID.String(),
			RecipeUserID: lm.RecipeUserID,
			TimeJoined:   lm.TimeJoined,
			Verified:     lm.Verified,
			Email:        lm.Email,
			PhoneNumber:  lm.PhoneNumber,
		}
		if lm.ThirdParty != nil {
			lmr.ThirdParty = &thirdPartyDTO{ID: lm.ThirdParty.ID, UserID: lm.ThirdParty.UserID}
		}
		resp.LoginMethods = append(resp.LoginMethods, lmr)
	}
	return resp
}

func toUsersResponse(users []domain.User) []*userResponse {
	out := make([]*userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

func toSessionResponse(s *domain.Session) *sessionResponse {
	if s == nil {
		return nil
	}
	return &sessionResponse{Handle: s.Handle, UserID: s.UserID, ExpiresAt: s.ExpiresAt}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// accountInfoDTO is the wire form of an account-info query.
type accountInfoDTO struct {
	Email       string         `json:"email,omitempty"`
	PhoneNumber string         `json:"phoneNumber,omitempty"`
	ThirdParty  *thirdPartyDTO `json:"thirdParty,omitempty"`
}

func (d accountInfoDTO) toDomain() domain.AccountInfo {
	var info domain.AccountInfo
	if d.Email != "" {
		email := d.Email
		info.Email = &email
	}
	if d.PhoneNumber != "" {
		phone := d.PhoneNumber
		info.PhoneNumber = &phone
	}
	if d.ThirdParty != nil {
		info.ThirdParty = &domain.ThirdParty{ID: d.ThirdParty.ID, UserID: d.ThirdParty.UserID}
	}
	return info
}
