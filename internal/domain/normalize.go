package domain

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizeEmail prepares an email for storage and comparison:
// trims surrounding whitespace and lowercases it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhoneNumber returns the E.164 form of phone. Numbers that cannot be
// parsed (for example, missing the leading country code) are only trimmed.
func NormalizePhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return phone
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// NormalizeThirdParty trims both parts of a provider identity.
func NormalizeThirdParty(tp ThirdParty) ThirdParty {
	return ThirdParty{
		ID:     strings.TrimSpace(tp.ID),
		UserID: strings.TrimSpace(tp.UserID),
	}
}
