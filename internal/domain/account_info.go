package domain

// Axis names one kind of identifier a login method can carry.
type Axis string

const (
	AxisEmail       Axis = "email"
	AxisPhoneNumber Axis = "phoneNumber"
	AxisThirdParty  Axis = "thirdParty"
)

func (a Axis) String() string { return string(a) }

// ThirdParty identifies an account at an external identity provider.
type ThirdParty struct {
	ID     string
	UserID string
}

// AccountInfo is a partial set of identifiers. Nil fields are absent.
type AccountInfo struct {
	Email       *string
	PhoneNumber *string
	ThirdParty  *ThirdParty
}

// EmailInfo builds an AccountInfo carrying only an email.
func EmailInfo(email string) AccountInfo {
	return AccountInfo{Email: &email}
}

// PhoneInfo builds an AccountInfo carrying only a phone number.
func PhoneInfo(phone string) AccountInfo {
	return AccountInfo{PhoneNumber: &phone}
}

// ThirdPartyInfo builds an AccountInfo carrying only a provider identity.
func ThirdPartyInfo(id, userID string) AccountInfo {
	return AccountInfo{ThirdParty: &ThirdParty{ID: id, UserID: userID}}
}

// Normalize returns a copy with every present identifier normalized.
// Identifiers that normalize to empty are dropped.
func (a AccountInfo) Normalize() AccountInfo {
	var out AccountInfo
	if a.Email != nil {
		if e := NormalizeEmail(*a.Email); e != "" {
			out.Email = &e
		}
	}
	if a.PhoneNumber != nil {
		if p := NormalizePhoneNumber(*a.PhoneNumber); p != "" {
			out.PhoneNumber = &p
		}
	}
	if a.ThirdParty != nil {
		tp := NormalizeThirdParty(*a.ThirdParty)
		if tp.ID != "" && tp.UserID != "" {
			out.ThirdParty = &tp
		}
	}
	return out
}

// Axes lists the identifiers present, in a fixed order.
func (a AccountInfo) Axes() []Axis {
	var axes []Axis
	if a.Email != nil {
		axes = append(axes, AxisEmail)
	}
	if a.PhoneNumber != nil {
		axes = append(axes, AxisPhoneNumber)
	}
	if a.ThirdParty != nil {
		axes = append(axes, AxisThirdParty)
	}
	return axes
}

// Split returns one single-identifier AccountInfo per present axis.
func (a AccountInfo) Split() []AccountInfo {
	var parts []AccountInfo
	if a.Email != nil {
		parts = append(parts, AccountInfo{Email: a.Email})
	}
	if a.PhoneNumber != nil {
		parts = append(parts, AccountInfo{PhoneNumber: a.PhoneNumber})
	}
	if a.ThirdParty != nil {
		parts = append(parts, AccountInfo{ThirdParty: a.ThirdParty})
	}
	return parts
}

// IsEmpty reports whether no identifier is present.
func (a AccountInfo) IsEmpty() bool {
	return a.Email == nil && a.PhoneNumber == nil && a.ThirdParty == nil
}
