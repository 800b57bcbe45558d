// Package verification implements email verification state on PostgreSQL.
package verification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/accountlinking/internal/adapter/postgres"
	"github.com/heartmarshall/accountlinking/internal/domain"
)

// Repo stores which (recipe user, email) pairs are verified.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new verification repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// IsVerified reports whether lm's email is verified for lm's recipe user.
// Methods without email count as verified when they carry a phone number.
func (r *Repo) IsVerified(ctx context.Context, lm domain.LoginMethod) (bool, error) {
	if lm.Email == nil {
		return lm.PhoneNumber != nil, nil
	}

	var verified bool
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM verified_emails WHERE recipe_user_id = $1 AND email = $2)`,
		lm.RecipeUserID, domain.NormalizeEmail(*lm.Email),
	).Scan(&verified)
	if err != nil {
		return false, postgres.MapError(err, "verified_email", lm.RecipeUserID)
	}
	return verified, nil
}

// MarkVerified records lm's email as verified for lm's recipe user.
// Marking twice is not an error; an unknown recipe user is domain.ErrNotFound.
func (r *Repo) MarkVerified(ctx context.Context, lm domain.LoginMethod) error {
	if lm.Email == nil {
		return nil
	}

	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO verified_emails (recipe_user_id, email) VALUES ($1, $2)
		 ON CONFLICT (recipe_user_id, email) DO NOTHING`,
		lm.RecipeUserID, domain.NormalizeEmail(*lm.Email),
	)
	return postgres.MapError(err, "verified_email", lm.RecipeUserID)
}
