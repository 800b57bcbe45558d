package domain

import "time"

// RecipeID names the authentication method family that produced a login method.
type RecipeID string

const (
	RecipeEmailPassword RecipeID = "emailpassword"
	RecipeThirdParty    RecipeID = "thirdparty"
	RecipePasswordless  RecipeID = "passwordless"
	RecipeWebAuthn      RecipeID = "webauthn"
)

func (r RecipeID) String() string { return string(r) }

// IsValid returns true if the recipe is a known value.
func (r RecipeID) IsValid() bool {
	switch r {
	case RecipeEmailPassword, RecipeThirdParty, RecipePasswordless, RecipeWebAuthn:
		return true
	}
	return false
}

// LoginMethod is one credential binding, identified by its recipe user id.
// Identifiers are stored normalized.
type LoginMethod struct {
	RecipeID     RecipeID
	RecipeUserID string
	TimeJoined   time.Time
	Verified     bool
	Email        *string
	PhoneNumber  *string
	ThirdParty   *ThirdParty
}

// AccountInfo returns the identifiers carried by the login method.
func (m LoginMethod) AccountInfo() AccountInfo {
	return AccountInfo{Email: m.Email, PhoneNumber: m.PhoneNumber, ThirdParty: m.ThirdParty}
}

// HasSameEmailAs compares email with the method's email after normalization.
func (m LoginMethod) HasSameEmailAs(email string) bool {
	return m.Email != nil && *m.Email == NormalizeEmail(email)
}

// HasSamePhoneNumberAs compares phone with the method's phone after normalization.
func (m LoginMethod) HasSamePhoneNumberAs(phone string) bool {
	return m.PhoneNumber != nil && *m.PhoneNumber == NormalizePhoneNumber(phone)
}

// HasSameThirdPartyAs compares the provider identity.
func (m LoginMethod) HasSameThirdPartyAs(tp ThirdParty) bool {
	if m.ThirdParty == nil {
		return false
	}
	tp = NormalizeThirdParty(tp)
	return m.ThirdParty.ID == tp.ID && m.ThirdParty.UserID == tp.UserID
}

// MatchesAny reports whether at least one identifier of info is carried by the method.
func (m LoginMethod) MatchesAny(info AccountInfo) bool {
	if info.Email != nil && m.HasSameEmailAs(*info.Email) {
		return true
	}
	if info.PhoneNumber != nil && m.HasSamePhoneNumberAs(*info.PhoneNumber) {
		return true
	}
	if info.ThirdParty != nil && m.HasSameThirdPartyAs(*info.ThirdParty) {
		return true
	}
	return false
}

// NewLoginMethod holds the data a credential module provisions.
// PasswordHash is only set for the emailpassword recipe.
type NewLoginMethod struct {
	RecipeID     RecipeID
	Email        *string
	PhoneNumber  *string
	ThirdParty   *ThirdParty
	PasswordHash *string
	TimeJoined   time.Time
}

// Validate checks that the new login method carries what its recipe needs.
func (n NewLoginMethod) Validate() error {
	var errs []FieldError

	if !n.RecipeID.IsValid() {
		errs = append(errs, FieldError{Field: "recipe_id", Message: "unknown recipe"})
	}

	info := AccountInfo{Email: n.Email, PhoneNumber: n.PhoneNumber, ThirdParty: n.ThirdParty}.Normalize()
	if info.IsEmpty() {
		errs = append(errs, FieldError{Field: "account_info", Message: "at least one identifier required"})
	}

	switch n.RecipeID {
	case RecipeEmailPassword:
		if info.Email == nil {
			errs = append(errs, FieldError{Field: "email", Message: "required"})
		}
		if n.PasswordHash == nil || *n.PasswordHash == "" {
			errs = append(errs, FieldError{Field: "password_hash", Message: "required"})
		}
	case RecipeThirdParty:
		if info.ThirdParty == nil {
			errs = append(errs, FieldError{Field: "third_party", Message: "required"})
		}
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
