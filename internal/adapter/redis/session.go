package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// SessionStore keeps each session under its own key with a TTL and indexes
// handles by recipe user and by owning user in two sets.
type SessionStore struct {
	client *goredis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl, now: time.Now}
}

func sessionKey(handle string) string       { return "session:" + handle }
func recipeIndexKey(recipeID string) string { return "sessions:recipe:" + recipeID }
func userIndexKey(userID string) string     { return "sessions:user:" + userID }

func unavailable(op string, err error) error {
	return fmt.Errorf("redis %s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// CreateSession opens a session for recipeUserID owned by userID.
func (s *SessionStore) CreateSession(ctx context.Context, recipeUserID, userID string) (*domain.Session, error) {
	now := s.now().UTC()
	sess := &domain.Session{
		Handle:       uuid.NewString(),
		RecipeUserID: recipeUserID,
		UserID:       userID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("redis: marshal session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(sess.Handle), data, s.ttl)
		for _, key := range []string{recipeIndexKey(recipeUserID), userIndexKey(userID)} {
			pipe.SAdd(ctx, key, sess.Handle)
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return nil, unavailable("create session", err)
	}
	return sess, nil
}

// GetSession returns a live session by handle.
func (s *SessionStore) GetSession(ctx context.Context, handle string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(handle)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("session %s: %w", handle, domain.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("get session", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("redis: unmarshal session %s: %w", handle, err)
	}
	return &sess, nil
}

// ListSessionHandles returns the handles of live sessions opened by recipeUserID.
func (s *SessionStore) ListSessionHandles(ctx context.Context, recipeUserID string) ([]string, error) {
	handles, err := s.client.SMembers(ctx, recipeIndexKey(recipeUserID)).Result()
	if err != nil {
		return nil, unavailable("list sessions", err)
	}
	if len(handles) == 0 {
		return nil, nil
	}

	cmds := make([]*goredis.IntCmd, len(handles))
	_, err = s.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, h := range handles {
			cmds[i] = pipe.Exists(ctx, sessionKey(h))
		}
		return nil
	})
	if err != nil {
		return nil, unavailable("list sessions", err)
	}

	live := handles[:0]
	for i, h := range handles {
		if cmds[i].Val() > 0 {
			live = append(live, h)
		}
	}
	return live, nil
}

// RevokeAllSessionsForUser deletes the sessions opened by userID as a recipe
// user. With includeLinkedAccounts, sessions owned by userID as a primary
// user are deleted too.
func (s *SessionStore) RevokeAllSessionsForUser(ctx context.Context, userID string, includeLinkedAccounts bool) error {
	indexes := []string{recipeIndexKey(userID)}
	if includeLinkedAccounts {
		indexes = append(indexes, userIndexKey(userID))
	}

	var handles []string
	for _, idx := range indexes {
		members, err := s.client.SMembers(ctx, idx).Result()
		if err != nil {
			return unavailable("revoke sessions", err)
		}
		handles = append(handles, members...)
	}

	keys := make([]string, 0, len(handles)+len(indexes))
	for _, h := range handles {
		keys = append(keys, sessionKey(h))
	}
	keys = append(keys, indexes...)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return unavailable("revoke sessions", err)
	}
	return nil
}
