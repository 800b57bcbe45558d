package app

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/accountlinking/internal/adapter/memstore"
	"github.com/heartmarshall/accountlinking/internal/adapter/postgres"
	"github.com/heartmarshall/accountlinking/internal/adapter/postgres/linkstore"
	"github.com/heartmarshall/accountlinking/internal/adapter/postgres/verification"
	"github.com/heartmarshall/accountlinking/internal/adapter/redis"
	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"github.com/heartmarshall/accountlinking/internal/transport/rest"
)

// linkBackend is the persistence needed by the linking engine and the
// credential module together.
type linkBackend interface {
	CreateLoginMethod(ctx context.Context, in domain.NewLoginMethod) (domain.LoginMethod, error)
	GetPasswordCredential(ctx context.Context, email string) (string, string, error)
	GetLoginMethodByThirdParty(ctx context.Context, tp domain.ThirdParty) (*domain.LoginMethod, error)
	GetUser(ctx context.Context, recipeUserID string) (*domain.UserRecord, error)
	ListRawRecordsByAccountInfo(ctx context.Context, info domain.AccountInfo) ([]domain.UserRecord, error)
	InsertPrimary(ctx context.Context, recipeUserID string) error
	AppendToPrimary(ctx context.Context, primaryUserID, recipeUserID string) error
	RemoveFromPrimary(ctx context.Context, primaryUserID, recipeUserID string) error
	DeleteRecord(ctx context.Context, recipeUserID string) error
	GetStaging(ctx context.Context, recipeUserID string) (string, error)
	SetStaging(ctx context.Context, recipeUserID, primaryUserID string) error
	ClearStaging(ctx context.Context, recipeUserID string) error
	ClearStagingForPrimary(ctx context.Context, primaryUserID string) error
}

type verificationBackend interface {
	IsVerified(ctx context.Context, lm domain.LoginMethod) (bool, error)
	MarkVerified(ctx context.Context, lm domain.LoginMethod) error
}

type sessionBackend interface {
	CreateSession(ctx context.Context, recipeUserID, userID string) (*domain.Session, error)
	GetSession(ctx context.Context, handle string) (*domain.Session, error)
	RevokeAllSessionsForUser(ctx context.Context, userID string, includeLinkedAccounts bool) error
}

// storage is the set of backends selected by linking.store_driver.
type storage struct {
	links    linkBackend
	verifier verificationBackend
	sessions sessionBackend
	health   map[string]rest.Pinger
	closers  []func()
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.Linking.StoreDriver {
	case config.StoreDriverMemory:
		return openMemory(cfg, logger)
	case config.StoreDriverPostgres:
		return openPostgres(ctx, cfg, logger)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Linking.StoreDriver)
}

func openMemory(cfg *config.Config, logger *slog.Logger) (*storage, error) {
	store, err := memstore.New(memstore.WithSessionTTL(cfg.Redis.SessionTTL))
	if err != nil {
		return nil, err
	}
	logger.Warn("using in-memory store, state is lost on restart")
	return &storage{
		links:    store,
		verifier: store,
		sessions: store,
		health:   map[string]rest.Pinger{},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connected",
		slog.Int("max_conns", int(cfg.Database.MaxConns)))

	st := &storage{
		links:    linkstore.New(pool, postgres.NewTxManager(pool)),
		verifier: verification.New(pool),
		health:   map[string]rest.Pinger{"database": pool},
		closers:  []func(){pool.Close},
	}

	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("redis connected", slog.String("addr", cfg.Redis.Addr))

	st.sessions = redis.NewSessionStore(client, cfg.Redis.SessionTTL)
	st.health["redis"] = redisPinger(client)
	st.closers = append(st.closers, func() { client.Close() }) //nolint:errcheck
	return st, nil
}

func redisPinger(client *goredis.Client) rest.Pinger {
	return rest.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
