package linkstore

import (
	"slices"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// A login method with an email is verified when that email is marked
// verified for it. Phone-only methods are verified; third-party-only are not.
const verifiedExpr = `CASE WHEN lm.email IS NOT NULL
	THEN EXISTS (SELECT 1 FROM verified_emails ve WHERE ve.recipe_user_id = lm.recipe_user_id AND ve.email = lm.email)
	ELSE lm.phone_number IS NOT NULL END AS verified`

var methodColumns = []string{
	"lm.recipe_user_id",
	"lm.recipe_id",
	"lm.email",
	"lm.phone_number",
	"lm.third_party_id",
	"lm.third_party_user_id",
	"lm.time_joined",
	verifiedExpr,
}

func columns(extra ...string) []string {
	return slices.Concat(methodColumns, extra)
}

type methodRow struct {
	RecipeUserID     string
	RecipeID         string
	Email            *string
	PhoneNumber      *string
	ThirdPartyID     *string
	ThirdPartyUserID *string
	TimeJoined       time.Time
	Verified         bool
}

func (m *methodRow) dest(extra ...any) []any {
	return append([]any{
		&m.RecipeUserID,
		&m.RecipeID,
		&m.Email,
		&m.PhoneNumber,
		&m.ThirdPartyID,
		&m.ThirdPartyUserID,
		&m.TimeJoined,
		&m.Verified,
	}, extra...)
}

func (m methodRow) toDomain() domain.LoginMethod {
	lm := domain.LoginMethod{
		RecipeID:     domain.RecipeID(m.RecipeID),
		RecipeUserID: m.RecipeUserID,
		TimeJoined:   m.TimeJoined,
		Verified:     m.Verified,
		Email:        m.Email,
		PhoneNumber:  m.PhoneNumber,
	}
	if m.ThirdPartyID != nil && m.ThirdPartyUserID != nil {
		lm.ThirdParty = &domain.ThirdParty{ID: *m.ThirdPartyID, UserID: *m.ThirdPartyUserID}
	}
	return lm
}

// lookup is one identifier of an account info: the predicate matching it
// and the advisory lock key guarding it.
type lookup struct {
	axis domain.Axis
	cond squirrel.Sqlizer
	key  string
}

func lookupsFor(info domain.AccountInfo) []lookup {
	var lookups []lookup
	if info.Email != nil {
		lookups = append(lookups, lookup{
			axis: domain.AxisEmail,
			cond: squirrel.Eq{"lm.email": *info.Email},
			key:  "email:" + *info.Email,
		})
	}
	if info.PhoneNumber != nil {
		lookups = append(lookups, lookup{
			axis: domain.AxisPhoneNumber,
			cond: squirrel.Eq{"lm.phone_number": *info.PhoneNumber},
			key:  "phone:" + *info.PhoneNumber,
		})
	}
	if info.ThirdParty != nil {
		lookups = append(lookups, lookup{
			axis: domain.AxisThirdParty,
			cond: squirrel.Eq{
				"lm.third_party_id":      info.ThirdParty.ID,
				"lm.third_party_user_id": info.ThirdParty.UserID,
			},
			key: "thirdparty:" + info.ThirdParty.ID + "\x00" + info.ThirdParty.UserID,
		})
	}
	return lookups
}

func anyOf(lookups []lookup) squirrel.Or {
	or := make(squirrel.Or, 0, len(lookups))
	for _, l := range lookups {
		or = append(or, l.cond)
	}
	return or
}
