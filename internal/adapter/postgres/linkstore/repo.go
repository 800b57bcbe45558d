// Package linkstore implements the link store on PostgreSQL: login methods,
// the primary link map and link staging.
package linkstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/accountlinking/internal/adapter/postgres"
	"github.com/heartmarshall/accountlinking/internal/domain"
)

// Repo provides link store persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   *postgres.TxManager
	now  func() time.Time
}

// New creates a new link store repository.
func New(pool *pgxpool.Pool, tx *postgres.TxManager) *Repo {
	return &Repo{pool: pool, tx: tx, now: time.Now}
}

// ---------------------------------------------------------------------------
// Credential provisioning
// ---------------------------------------------------------------------------

// CreateLoginMethod stores a new standalone login method. Uniqueness of
// third-party identities and of per-recipe email/phone is enforced by the
// schema and reported as domain.ErrAlreadyExists.
func (r *Repo) CreateLoginMethod(ctx context.Context, in domain.NewLoginMethod) (domain.LoginMethod, error) {
	if err := in.Validate(); err != nil {
		return domain.LoginMethod{}, err
	}

	info := domain.AccountInfo{Email: in.Email, PhoneNumber: in.PhoneNumber, ThirdParty: in.ThirdParty}.Normalize()
	row := methodRow{
		RecipeUserID: uuid.NewString(),
		RecipeID:     string(in.RecipeID),
		Email:        info.Email,
		PhoneNumber:  info.PhoneNumber,
		TimeJoined:   in.TimeJoined,
		Verified:     info.Email == nil && info.PhoneNumber != nil,
	}
	if row.TimeJoined.IsZero() {
		row.TimeJoined = r.now()
	}
	row.TimeJoined = row.TimeJoined.UTC().Truncate(time.Microsecond)
	if info.ThirdParty != nil {
		row.ThirdPartyID = &info.ThirdParty.ID
		row.ThirdPartyUserID = &info.ThirdParty.UserID
	}

	query, args, err := psql.Insert("login_methods").
		Columns("recipe_user_id", "recipe_id", "email", "phone_number",
			"third_party_id", "third_party_user_id", "password_hash", "time_joined").
		Values(row.RecipeUserID, row.RecipeID, row.Email, row.PhoneNumber,
			row.ThirdPartyID, row.ThirdPartyUserID, in.PasswordHash, row.TimeJoined).
		ToSql()
	if err != nil {
		return domain.LoginMethod{}, fmt.Errorf("linkstore: build insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return domain.LoginMethod{}, postgres.MapError(err, "login_method", string(in.RecipeID))
	}

	return row.toDomain(), nil
}

// GetPasswordCredential returns the recipe user id and password hash of the
// emailpassword login method for email.
func (r *Repo) GetPasswordCredential(ctx context.Context, email string) (string, string, error) {
	var id, hash string
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT recipe_user_id, password_hash FROM login_methods
		 WHERE recipe_id = $1 AND email = $2`,
		string(domain.RecipeEmailPassword), domain.NormalizeEmail(email),
	).Scan(&id, &hash)
	if err != nil {
		return "", "", postgres.MapError(err, "password_credential", string(domain.RecipeEmailPassword))
	}
	return id, hash, nil
}

// GetLoginMethodByThirdParty returns the login method bound to tp.
func (r *Repo) GetLoginMethodByThirdParty(ctx context.Context, tp domain.ThirdParty) (*domain.LoginMethod, error) {
	tp = domain.NormalizeThirdParty(tp)

	query, args, err := psql.Select(columns()...).
		From("login_methods lm").
		Where(squirrel.Eq{"lm.third_party_id": tp.ID, "lm.third_party_user_id": tp.UserID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("linkstore: build select: %w", err)
	}

	var row methodRow
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(row.dest()...); err != nil {
		return nil, postgres.MapError(err, "login_method third party", tp.ID)
	}
	lm := row.toDomain()
	return &lm, nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetUser returns the record owning recipeUserID. A primary user id whose
// own login method was deleted still resolves to its group.
func (r *Repo) GetUser(ctx context.Context, recipeUserID string) (*domain.UserRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var owner *string
	err := q.QueryRow(ctx,
		`SELECT COALESCE(
			(SELECT primary_user_id FROM primary_links WHERE recipe_user_id = $1),
			(SELECT recipe_user_id FROM login_methods WHERE recipe_user_id = $1),
			(SELECT primary_user_id FROM primary_links WHERE primary_user_id = $1 LIMIT 1)
		)`,
		recipeUserID,
	).Scan(&owner)
	if err != nil {
		return nil, postgres.MapError(err, "user", recipeUserID)
	}
	if owner == nil {
		return nil, fmt.Errorf("user %s: %w", recipeUserID, domain.ErrNotFound)
	}

	recs, err := loadRecords(ctx, q, []string{*owner})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("user %s: %w", recipeUserID, domain.ErrNotFound)
	}
	return &recs[0], nil
}

// ListRawRecordsByAccountInfo returns one record per owner of a login method
// matching any identifier of info, oldest owner first.
func (r *Repo) ListRawRecordsByAccountInfo(ctx context.Context, info domain.AccountInfo) ([]domain.UserRecord, error) {
	lookups := lookupsFor(info.Normalize())
	if len(lookups) == 0 {
		return []domain.UserRecord{}, nil
	}

	query, args, err := psql.Select("COALESCE(pl.primary_user_id, lm.recipe_user_id) AS owner_id").
		From("login_methods lm").
		LeftJoin("primary_links pl ON pl.recipe_user_id = lm.recipe_user_id").
		Where(anyOf(lookups)).
		GroupBy("owner_id").
		OrderBy("MIN(lm.time_joined)", "owner_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("linkstore: build owner lookup: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "account_info", "lookup")
	}
	owners, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, postgres.MapError(err, "account_info", "lookup")
	}
	if len(owners) == 0 {
		return []domain.UserRecord{}, nil
	}

	return loadRecords(ctx, q, owners)
}

// loadRecords assembles one record per owner, in owners order. Owners
// without any remaining login method are skipped.
func loadRecords(ctx context.Context, q postgres.Querier, owners []string) ([]domain.UserRecord, error) {
	query, args, err := psql.Select(columns("pl.primary_user_id")...).
		From("login_methods lm").
		LeftJoin("primary_links pl ON pl.recipe_user_id = lm.recipe_user_id").
		Where(squirrel.Or{
			squirrel.Expr("pl.primary_user_id = ANY(?)", owners),
			squirrel.And{
				squirrel.Expr("pl.recipe_user_id IS NULL"),
				squirrel.Expr("lm.recipe_user_id = ANY(?)", owners),
			},
		}).
		OrderBy("lm.time_joined", "lm.recipe_user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("linkstore: build record load: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "user", "load")
	}
	defer rows.Close()

	byOwner := make(map[string]*domain.UserRecord, len(owners))
	for rows.Next() {
		var (
			row       methodRow
			primaryID *string
		)
		if err := rows.Scan(row.dest(&primaryID)...); err != nil {
			return nil, postgres.MapError(err, "user", "scan")
		}

		owner := row.RecipeUserID
		if primaryID != nil {
			owner = *primaryID
		}
		rec, ok := byOwner[owner]
		if !ok {
			rec = &domain.UserRecord{}
			byOwner[owner] = rec
		}
		if primaryID != nil {
			rec.PrimaryUserID = *primaryID
		}
		rec.LoginMethods = append(rec.LoginMethods, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "user", "load")
	}

	recs := make([]domain.UserRecord, 0, len(owners))
	for _, owner := range owners {
		if rec, ok := byOwner[owner]; ok {
			recs = append(recs, *rec)
		}
	}
	return recs, nil
}

// ---------------------------------------------------------------------------
// Primary link map
// ---------------------------------------------------------------------------

// InsertPrimary makes recipeUserID the primary user of a new link group.
func (r *Repo) InsertPrimary(ctx context.Context, recipeUserID string) error {
	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)

		lm, err := lockMethod(ctx, q, recipeUserID)
		if err != nil {
			return err
		}
		if err := requireUnlinked(ctx, q, recipeUserID); err != nil {
			return err
		}
		exists, err := groupExists(ctx, q, recipeUserID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("primary %s: %w", recipeUserID, domain.ErrAlreadyExists)
		}
		if err := requireNoCollision(ctx, q, lm, recipeUserID); err != nil {
			return err
		}

		_, err = q.Exec(ctx,
			`INSERT INTO primary_links (recipe_user_id, primary_user_id) VALUES ($1, $1)`,
			recipeUserID,
		)
		return postgres.MapError(err, "primary_link", recipeUserID)
	})
}

// AppendToPrimary links recipeUserID into the existing group of primaryUserID.
func (r *Repo) AppendToPrimary(ctx context.Context, primaryUserID, recipeUserID string) error {
	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)

		lm, err := lockMethod(ctx, q, recipeUserID)
		if err != nil {
			return err
		}
		exists, err := groupExists(ctx, q, primaryUserID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("primary %s: %w", primaryUserID, domain.ErrNotPrimary)
		}
		if err := requireUnlinked(ctx, q, recipeUserID); err != nil {
			return err
		}
		if err := requireNoCollision(ctx, q, lm, primaryUserID); err != nil {
			return err
		}

		_, err = q.Exec(ctx,
			`INSERT INTO primary_links (recipe_user_id, primary_user_id) VALUES ($1, $2)`,
			recipeUserID, primaryUserID,
		)
		return postgres.MapError(err, "primary_link", recipeUserID)
	})
}

// RemoveFromPrimary detaches recipeUserID from primaryUserID. The group
// disappears with its last member. Removing a non-member is a no-op.
func (r *Repo) RemoveFromPrimary(ctx context.Context, primaryUserID, recipeUserID string) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM primary_links WHERE recipe_user_id = $1 AND primary_user_id = $2`,
		recipeUserID, primaryUserID,
	)
	return postgres.MapError(err, "primary_link", recipeUserID)
}

// DeleteRecord removes the login method. Its link, staging entry and
// verified emails go with it through ON DELETE CASCADE; the rest of its
// group keeps the primary user id.
func (r *Repo) DeleteRecord(ctx context.Context, recipeUserID string) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM login_methods WHERE recipe_user_id = $1`,
		recipeUserID,
	)
	return postgres.MapError(err, "login_method", recipeUserID)
}

// lockMethod loads the login method and takes a transaction-scoped advisory
// lock on each of its identifiers, in a stable order. Concurrent link
// operations touching a shared identifier serialize on these locks.
func lockMethod(ctx context.Context, q postgres.Querier, recipeUserID string) (domain.LoginMethod, error) {
	query, args, err := psql.Select(columns()...).
		From("login_methods lm").
		Where(squirrel.Eq{"lm.recipe_user_id": recipeUserID}).
		ToSql()
	if err != nil {
		return domain.LoginMethod{}, fmt.Errorf("linkstore: build select: %w", err)
	}

	var row methodRow
	if err := q.QueryRow(ctx, query, args...).Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LoginMethod{}, fmt.Errorf("user %s: %w", recipeUserID, domain.ErrNotFound)
		}
		return domain.LoginMethod{}, postgres.MapError(err, "login_method", recipeUserID)
	}
	lm := row.toDomain()

	lookups := lookupsFor(lm.AccountInfo())
	keys := make([]string, 0, len(lookups))
	for _, l := range lookups {
		keys = append(keys, l.key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return domain.LoginMethod{}, postgres.MapError(err, "identifier_lock", recipeUserID)
		}
	}
	return lm, nil
}

func groupExists(ctx context.Context, q postgres.Querier, primaryUserID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM primary_links WHERE primary_user_id = $1)`,
		primaryUserID,
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "primary", primaryUserID)
	}
	return exists, nil
}

func requireUnlinked(ctx context.Context, q postgres.Querier, recipeUserID string) error {
	var linked bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM primary_links WHERE recipe_user_id = $1)`,
		recipeUserID,
	).Scan(&linked)
	if err != nil {
		return postgres.MapError(err, "primary_link", recipeUserID)
	}
	if linked {
		return fmt.Errorf("link %s: %w", recipeUserID, domain.ErrAlreadyExists)
	}
	return nil
}

// requireNoCollision rejects joining primaryUserID when an identifier of lm
// already belongs to a different primary user.
func requireNoCollision(ctx context.Context, q postgres.Querier, lm domain.LoginMethod, primaryUserID string) error {
	for _, l := range lookupsFor(lm.AccountInfo()) {
		query, args, err := psql.Select("pl.primary_user_id").
			From("login_methods lm").
			Join("primary_links pl ON pl.recipe_user_id = lm.recipe_user_id").
			Where(l.cond).
			Where(squirrel.NotEq{"pl.primary_user_id": primaryUserID}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("linkstore: build collision check: %w", err)
		}

		var owner string
		err = q.QueryRow(ctx, query, args...).Scan(&owner)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return postgres.MapError(err, "primary_link", lm.RecipeUserID)
		}
		return fmt.Errorf("link %s: %w", lm.RecipeUserID,
			&domain.AccountInfoAssociatedError{OwnerID: owner, Axis: l.axis})
	}
	return nil
}

// ---------------------------------------------------------------------------
// Link staging
// ---------------------------------------------------------------------------

// GetStaging returns the primary user id staged for recipeUserID.
func (r *Repo) GetStaging(ctx context.Context, recipeUserID string) (string, error) {
	var primaryUserID string
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT primary_user_id FROM account_to_link WHERE recipe_user_id = $1`,
		recipeUserID,
	).Scan(&primaryUserID)
	if err != nil {
		return "", postgres.MapError(err, "staging", recipeUserID)
	}
	return primaryUserID, nil
}

// SetStaging records primaryUserID as the link target of recipeUserID,
// replacing any previous target.
func (r *Repo) SetStaging(ctx context.Context, recipeUserID, primaryUserID string) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO account_to_link (recipe_user_id, primary_user_id) VALUES ($1, $2)
		 ON CONFLICT (recipe_user_id) DO UPDATE
		 SET primary_user_id = EXCLUDED.primary_user_id, created_at = now()`,
		recipeUserID, primaryUserID,
	)
	return postgres.MapError(err, "staging", recipeUserID)
}

// ClearStaging drops the staging entry of recipeUserID, if any.
func (r *Repo) ClearStaging(ctx context.Context, recipeUserID string) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM account_to_link WHERE recipe_user_id = $1`,
		recipeUserID,
	)
	return postgres.MapError(err, "staging", recipeUserID)
}

// ClearStagingForPrimary drops every staging entry pointing at primaryUserID.
func (r *Repo) ClearStagingForPrimary(ctx context.Context, primaryUserID string) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM account_to_link WHERE primary_user_id = $1`,
		primaryUserID,
	)
	return postgres.MapError(err, "staging", primaryUserID)
}

// PurgeStaleStaging deletes staging entries created before olderThan and
// returns how many were removed.
func (r *Repo) PurgeStaleStaging(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM account_to_link WHERE created_at < $1`,
		olderThan,
	)
	if err != nil {
		return 0, postgres.MapError(err, "staging", "purge")
	}
	return tag.RowsAffected(), nil
}
