package auth

import (
	"strings"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

// SignUpInput holds parameters for password sign-up.
// DoNotLink keeps the new account out of automatic linking.
type SignUpInput struct {
	Email     string
	Password  string
	DoNotLink bool
}

// Validate validates the sign-up input.
func (i SignUpInput) Validate(minPasswordLength int) error {
	var errs []domain.FieldError

	errs = appendEmailErrors(errs, i.Email)

	switch {
	case i.Password == "":
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	case len(i.Password) < minPasswordLength:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too short"})
	case len(i.Password) > maxPasswordBytes:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SignInInput holds parameters for password sign-in.
type SignInInput struct {
	Email    string
	Password string
}

// Validate validates the sign-in input.
func (i SignInInput) Validate() error {
	var errs []domain.FieldError

	errs = appendEmailErrors(errs, i.Email)
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	} else if len(i.Password) > maxPasswordBytes {
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ThirdPartyInput holds the identity returned by an external provider.
// EmailVerified is the provider's claim about Email.
type ThirdPartyInput struct {
	ThirdPartyID     string
	ThirdPartyUserID string
	Email            string
	EmailVerified    bool
	DoNotLink        bool
}

// Validate validates the third-party input.
func (i ThirdPartyInput) Validate() error {
	var errs []domain.FieldError

	if i.ThirdPartyID == "" {
		errs = append(errs, domain.FieldError{Field: "third_party_id", Message: "required"})
	}
	if i.ThirdPartyUserID == "" {
		errs = append(errs, domain.FieldError{Field: "third_party_user_id", Message: "required"})
	} else if len(i.ThirdPartyUserID) > 255 {
		errs = append(errs, domain.FieldError{Field: "third_party_user_id", Message: "too long"})
	}
	if i.Email != "" {
		errs = appendEmailErrors(errs, i.Email)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CodeInput holds an OAuth authorization code issued by Provider.
type CodeInput struct {
	Provider  string
	Code      string
	DoNotLink bool
}

// Validate validates the code input.
func (i CodeInput) Validate() error {
	var errs []domain.FieldError

	if i.Provider == "" {
		errs = append(errs, domain.FieldError{Field: "provider", Message: "required"})
	}
	if i.Code == "" {
		errs = append(errs, domain.FieldError{Field: "code", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func appendEmailErrors(errs []domain.FieldError, email string) []domain.FieldError {
	switch {
	case email == "":
		return append(errs, domain.FieldError{Field: "email", Message: "required"})
	case len(email) > 254:
		return append(errs, domain.FieldError{Field: "email", Message: "too long"})
	case !strings.Contains(email, "@"):
		return append(errs, domain.FieldError{Field: "email", Message: "invalid format"})
	}
	return errs
}
