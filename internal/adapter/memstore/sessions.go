package memstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// CreateSession opens a session for recipeUserID owned by userID.
func (s *Store) CreateSession(ctx context.Context, recipeUserID, userID string) (*domain.Session, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	now := s.now()
	row := &sessionRow{
		Handle:       uuid.NewString(),
		RecipeUserID: recipeUserID,
		UserID:       userID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.sessionTTL),
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := requireLoginMethod(txn, recipeUserID); err != nil {
		return nil, err
	}
	if err := txn.Insert(tableSessions, row); err != nil {
		return nil, fmt.Errorf("memstore: insert session: %w", err)
	}
	txn.Commit()

	return sessionToDomain(row), nil
}

// GetSession returns a live session by handle.
func (s *Store) GetSession(ctx context.Context, handle string) (*domain.Session, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableSessions, "id", handle)
	if err != nil {
		return nil, fmt.Errorf("memstore: lookup session: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("session %s: %w", handle, domain.ErrNotFound)
	}
	sess := sessionToDomain(obj.(*sessionRow))
	if sess.IsExpired(s.now()) {
		return nil, fmt.Errorf("session %s: %w", handle, domain.ErrNotFound)
	}
	return sess, nil
}

// ListSessionHandles returns the handles of sessions opened by recipeUserID.
func (s *Store) ListSessionHandles(ctx context.Context, recipeUserID string) ([]string, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableSessions, "recipe_user", recipeUserID)
	if err != nil {
		return nil, fmt.Errorf("memstore: list sessions: %w", err)
	}
	var handles []string
	for obj := it.Next(); obj != nil; obj = it.Next() {
		handles = append(handles, obj.(*sessionRow).Handle)
	}
	return handles, nil
}

// RevokeAllSessionsForUser deletes the sessions opened by userID as a recipe
// user. With includeLinkedAccounts, sessions owned by userID as a primary
// user are deleted too.
func (s *Store) RevokeAllSessionsForUser(ctx context.Context, userID string, includeLinkedAccounts bool) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(tableSessions, "recipe_user", userID); err != nil {
		return fmt.Errorf("memstore: revoke sessions: %w", err)
	}
	if includeLinkedAccounts {
		if _, err := txn.DeleteAll(tableSessions, "user", userID); err != nil {
			return fmt.Errorf("memstore: revoke linked sessions: %w", err)
		}
	}
	txn.Commit()
	return nil
}

func sessionToDomain(row *sessionRow) *domain.Session {
	return &domain.Session{
		Handle:       row.Handle,
		RecipeUserID: row.RecipeUserID,
		UserID:       row.UserID,
		CreatedAt:    row.CreatedAt,
		ExpiresAt:    row.ExpiresAt,
	}
}
