// Package memstore implements the link store on top of hashicorp/go-memdb.
// It backs tests and single-process deployments (store_driver=memory).
package memstore

import (
	"time"

	"github.com/hashicorp/go-memdb"
)

const (
	tableLoginMethods = "login_methods"
	tablePrimaryLinks = "primary_links"
	tableStaging      = "account_to_link"
	tableVerified     = "verified_emails"
	tableSessions     = "sessions"
)

type loginMethodRow struct {
	RecipeUserID     string
	RecipeID         string
	Email            string
	PhoneNumber      string
	ThirdPartyID     string
	ThirdPartyUserID string
	ThirdPartyKey    string
	PasswordHash     string
	TimeJoined       time.Time
}

type linkRow struct {
	RecipeUserID  string
	PrimaryUserID string
}

type stagingRow struct {
	RecipeUserID  string
	PrimaryUserID string
}

type verifiedRow struct {
	Key          string
	RecipeUserID string
	Email        string
}

type sessionRow struct {
	Handle       string
	RecipeUserID string
	UserID       string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func thirdPartyKey(id, userID string) string {
	if id == "" {
		return ""
	}
	return id + "\x00" + userID
}

func verifiedKey(recipeUserID, email string) string {
	return recipeUserID + "\x00" + email
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableLoginMethods: {
				Name: tableLoginMethods,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "RecipeUserID"},
					},
					"email": {
						Name:         "email",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "Email"},
					},
					"phone": {
						Name:         "phone",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "PhoneNumber"},
					},
					"third_party": {
						Name:         "third_party",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "ThirdPartyKey"},
					},
				},
			},
			tablePrimaryLinks: {
				Name: tablePrimaryLinks,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "RecipeUserID"},
					},
					"primary": {
						Name:    "primary",
						Indexer: &memdb.StringFieldIndex{Field: "PrimaryUserID"},
					},
				},
			},
			tableStaging: {
				Name: tableStaging,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "RecipeUserID"},
					},
					"primary": {
						Name:    "primary",
						Indexer: &memdb.StringFieldIndex{Field: "PrimaryUserID"},
					},
				},
			},
			tableVerified: {
				Name: tableVerified,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
					"recipe_user": {
						Name:    "recipe_user",
						Indexer: &memdb.StringFieldIndex{Field: "RecipeUserID"},
					},
				},
			},
			tableSessions: {
				Name: tableSessions,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Handle"},
					},
					"recipe_user": {
						Name:    "recipe_user",
						Indexer: &memdb.StringFieldIndex{Field: "RecipeUserID"},
					},
					"user": {
						Name:    "user",
						Indexer: &memdb.StringFieldIndex{Field: "UserID"},
					},
				},
			},
		},
	}
}
