package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueEmail returns a normalized email no other test uses.
func UniqueEmail() string {
	return "user-" + uniqueSuffix() + "@example.com"
}

// SeedLoginMethod inserts a standalone login method for recipe carrying email
// and returns its recipe user id. Password methods get a placeholder hash.
func SeedLoginMethod(t *testing.T, pool *pgxpool.Pool, recipe domain.RecipeID, email string) string {
	t.Helper()

	id := uuid.NewString()
	var tpID, tpUserID, hash *string
	switch recipe {
	case domain.RecipeThirdParty:
		provider, userID := "google", "tp-"+uniqueSuffix()
		tpID, tpUserID = &provider, &userID
	case domain.RecipeEmailPassword:
		h := "$2a$04$placeholder"
		hash = &h
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO login_methods (recipe_user_id, recipe_id, email, third_party_id, third_party_user_id, password_hash, time_joined)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, string(recipe), email, tpID, tpUserID, hash, time.Now().UTC().Truncate(time.Microsecond),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLoginMethod: %v", err)
	}
	return id
}

// SeedPrimary makes recipeUserID the primary of a new group.
func SeedPrimary(t *testing.T, pool *pgxpool.Pool, recipeUserID string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO primary_links (recipe_user_id, primary_user_id) VALUES ($1, $1)`,
		recipeUserID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPrimary: %v", err)
	}
}
