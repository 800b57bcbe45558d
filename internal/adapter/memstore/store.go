package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// Store keeps login methods, the primary link map, link staging and email
// verification state in memory.
type Store struct {
	db         *memdb.MemDB
	now        func() time.Time
	sessionTTL time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithSessionTTL sets the lifetime of sessions created by CreateSession.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Store) { s.sessionTTL = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store.
func New(opts ...Option) (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memstore: create db: %w", err)
	}
	s := &Store{db: db, now: time.Now, sessionTTL: 24 * time.Hour}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Credential provisioning
// ---------------------------------------------------------------------------

// CreateLoginMethod stores a new standalone login method.
func (s *Store) CreateLoginMethod(ctx context.Context, in domain.NewLoginMethod) (domain.LoginMethod, error) {
	if err := checkCtx(ctx); err != nil {
		return domain.LoginMethod{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.LoginMethod{}, err
	}

	info := domain.AccountInfo{Email: in.Email, PhoneNumber: in.PhoneNumber, ThirdParty: in.ThirdParty}.Normalize()
	row := &loginMethodRow{
		RecipeUserID: uuid.NewString(),
		RecipeID:     string(in.RecipeID),
		TimeJoined:   in.TimeJoined,
	}
	if row.TimeJoined.IsZero() {
		row.TimeJoined = s.now()
	}
	if info.Email != nil {
		row.Email = *info.Email
	}
	if info.PhoneNumber != nil {
		row.PhoneNumber = *info.PhoneNumber
	}
	if info.ThirdParty != nil {
		row.ThirdPartyID = info.ThirdParty.ID
		row.ThirdPartyUserID = info.ThirdParty.UserID
		row.ThirdPartyKey = thirdPartyKey(row.ThirdPartyID, row.ThirdPartyUserID)
	}
	if in.PasswordHash != nil {
		row.PasswordHash = *in.PasswordHash
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := checkCredentialUnique(txn, row); err != nil {
		return domain.LoginMethod{}, err
	}
	if err := txn.Insert(tableLoginMethods, row); err != nil {
		return domain.LoginMethod{}, fmt.Errorf("memstore: insert login method: %w", err)
	}
	lm, err := toDomain(txn, row)
	if err != nil {
		return domain.LoginMethod{}, err
	}
	txn.Commit()

	return lm, nil
}

// checkCredentialUnique enforces one third-party identity per login method
// and one email/phone per recipe for password and passwordless methods.
func checkCredentialUnique(txn *memdb.Txn, row *loginMethodRow) error {
	if row.ThirdPartyKey != "" {
		existing, err := txn.First(tableLoginMethods, "third_party", row.ThirdPartyKey)
		if err != nil {
			return fmt.Errorf("memstore: lookup third party: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("login method third party %s: %w", row.ThirdPartyID, domain.ErrAlreadyExists)
		}
	}

	if row.RecipeID != string(domain.RecipeEmailPassword) && row.RecipeID != string(domain.RecipePasswordless) {
		return nil
	}
	for _, idx := range []struct{ name, value string }{{"email", row.Email}, {"phone", row.PhoneNumber}} {
		if idx.value == "" {
			continue
		}
		it, err := txn.Get(tableLoginMethods, idx.name, idx.value)
		if err != nil {
			return fmt.Errorf("memstore: lookup %s: %w", idx.name, err)
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			if obj.(*loginMethodRow).RecipeID == row.RecipeID {
				return fmt.Errorf("login method %s %s: %w", row.RecipeID, idx.name, domain.ErrAlreadyExists)
			}
		}
	}
	return nil
}

// GetPasswordCredential returns the recipe user id and password hash of the
// emailpassword login method for email.
func (s *Store) GetPasswordCredential(ctx context.Context, email string) (string, string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", "", err
	}
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableLoginMethods, "email", domain.NormalizeEmail(email))
	if err != nil {
		return "", "", fmt.Errorf("memstore: lookup email: %w", err)
	}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		row := obj.(*loginMethodRow)
		if row.RecipeID == string(domain.RecipeEmailPassword) {
			return row.RecipeUserID, row.PasswordHash, nil
		}
	}
	return "", "", fmt.Errorf("password credential: %w", domain.ErrNotFound)
}

// GetLoginMethodByThirdParty returns the login method bound to tp.
func (s *Store) GetLoginMethodByThirdParty(ctx context.Context, tp domain.ThirdParty) (*domain.LoginMethod, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	tp = domain.NormalizeThirdParty(tp)

	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableLoginMethods, "third_party", thirdPartyKey(tp.ID, tp.UserID))
	if err != nil {
		return nil, fmt.Errorf("memstore: lookup third party: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("login method third party %s: %w", tp.ID, domain.ErrNotFound)
	}
	lm, err := toDomain(txn, obj.(*loginMethodRow))
	if err != nil {
		return nil, err
	}
	return &lm, nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetUser returns the record owning recipeUserID. A primary user id whose
// own login method was deleted still resolves to its group.
func (s *Store) GetUser(ctx context.Context, recipeUserID string) (*domain.UserRecord, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableLoginMethods, "id", recipeUserID)
	if err != nil {
		return nil, fmt.Errorf("memstore: lookup login method: %w", err)
	}
	if obj == nil {
		group, err := txn.First(tablePrimaryLinks, "primary", recipeUserID)
		if err != nil {
			return nil, fmt.Errorf("memstore: lookup primary: %w", err)
		}
		if group == nil {
			return nil, fmt.Errorf("user %s: %w", recipeUserID, domain.ErrNotFound)
		}
	}

	owner, err := ownerOf(txn, recipeUserID)
	if err != nil {
		return nil, err
	}
	rec, err := loadRecord(txn, owner)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRawRecordsByAccountInfo returns one record per owner of a login method
// matching any identifier of info.
func (s *Store) ListRawRecordsByAccountInfo(ctx context.Context, info domain.AccountInfo) ([]domain.UserRecord, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	info = info.Normalize()

	txn := s.db.Txn(false)
	defer txn.Abort()

	var owners []string
	seen := make(map[string]struct{})
	for _, l := range lookupsFor(info) {
		it, err := txn.Get(tableLoginMethods, l.index, l.value)
		if err != nil {
			return nil, fmt.Errorf("memstore: lookup %s: %w", l.index, err)
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			owner, err := ownerOf(txn, obj.(*loginMethodRow).RecipeUserID)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[owner]; ok {
				continue
			}
			seen[owner] = struct{}{}
			owners = append(owners, owner)
		}
	}

	recs := make([]domain.UserRecord, 0, len(owners))
	for _, owner := range owners {
		rec, err := loadRecord(txn, owner)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

type lookup struct {
	axis  domain.Axis
	index string
	value string
}

func lookupsFor(info domain.AccountInfo) []lookup {
	var lookups []lookup
	if info.Email != nil {
		lookups = append(lookups, lookup{domain.AxisEmail, "email", *info.Email})
	}
	if info.PhoneNumber != nil {
		lookups = append(lookups, lookup{domain.AxisPhoneNumber, "phone", *info.PhoneNumber})
	}
	if info.ThirdParty != nil {
		lookups = append(lookups, lookup{domain.AxisThirdParty, "third_party", thirdPartyKey(info.ThirdParty.ID, info.ThirdParty.UserID)})
	}
	return lookups
}

// ownerOf returns the primary user id recipeUserID belongs to, or
// recipeUserID itself when it is standalone.
func ownerOf(txn *memdb.Txn, recipeUserID string) (string, error) {
	obj, err := txn.First(tablePrimaryLinks, "id", recipeUserID)
	if err != nil {
		return "", fmt.Errorf("memstore: lookup link: %w", err)
	}
	if obj == nil {
		return recipeUserID, nil
	}
	return obj.(*linkRow).PrimaryUserID, nil
}

func loadRecord(txn *memdb.Txn, owner string) (domain.UserRecord, error) {
	it, err := txn.Get(tablePrimaryLinks, "primary", owner)
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("memstore: list links: %w", err)
	}

	var members []string
	for obj := it.Next(); obj != nil; obj = it.Next() {
		members = append(members, obj.(*linkRow).RecipeUserID)
	}

	rec := domain.UserRecord{}
	if len(members) > 0 {
		rec.PrimaryUserID = owner
	} else {
		members = []string{owner}
	}

	for _, id := range members {
		obj, err := txn.First(tableLoginMethods, "id", id)
		if err != nil {
			return domain.UserRecord{}, fmt.Errorf("memstore: lookup login method: %w", err)
		}
		if obj == nil {
			continue
		}
		lm, err := toDomain(txn, obj.(*loginMethodRow))
		if err != nil {
			return domain.UserRecord{}, err
		}
		rec.LoginMethods = append(rec.LoginMethods, lm)
	}
	if len(rec.LoginMethods) == 0 {
		return domain.UserRecord{}, fmt.Errorf("user %s: %w", owner, domain.ErrNotFound)
	}
	return rec, nil
}

func toDomain(txn *memdb.Txn, row *loginMethodRow) (domain.LoginMethod, error) {
	lm := domain.LoginMethod{
		RecipeID:     domain.RecipeID(row.RecipeID),
		RecipeUserID: row.RecipeUserID,
		TimeJoined:   row.TimeJoined,
	}
	if row.Email != "" {
		email := row.Email
		lm.Email = &email
	}
	if row.PhoneNumber != "" {
		phone := row.PhoneNumber
		lm.PhoneNumber = &phone
	}
	if row.ThirdPartyKey != "" {
		lm.ThirdParty = &domain.ThirdParty{ID: row.ThirdPartyID, UserID: row.ThirdPartyUserID}
	}

	switch {
	case lm.Email != nil:
		obj, err := txn.First(tableVerified, "id", verifiedKey(row.RecipeUserID, row.Email))
		if err != nil {
			return domain.LoginMethod{}, fmt.Errorf("memstore: lookup verification: %w", err)
		}
		lm.Verified = obj != nil
	case lm.PhoneNumber != nil:
		lm.Verified = true
	}
	return lm, nil
}

// ---------------------------------------------------------------------------
// Primary link map
// ---------------------------------------------------------------------------

// InsertPrimary makes recipeUserID the primary user of a new link group.
func (s *Store) InsertPrimary(ctx context.Context, recipeUserID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := requireLoginMethod(txn, recipeUserID); err != nil {
		return err
	}
	if err := requireUnlinked(txn, recipeUserID); err != nil {
		return err
	}
	existing, err := txn.First(tablePrimaryLinks, "primary", recipeUserID)
	if err != nil {
		return fmt.Errorf("memstore: lookup primary: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("primary %s: %w", recipeUserID, domain.ErrAlreadyExists)
	}
	if err := requireNoCollision(txn, recipeUserID, recipeUserID); err != nil {
		return err
	}

	if err := txn.Insert(tablePrimaryLinks, &linkRow{RecipeUserID: recipeUserID, PrimaryUserID: recipeUserID}); err != nil {
		return fmt.Errorf("memstore: insert link: %w", err)
	}
	txn.Commit()
	return nil
}

// AppendToPrimary links recipeUserID into the existing group of primaryUserID.
func (s *Store) AppendToPrimary(ctx context.Context, primaryUserID, recipeUserID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := requireLoginMethod(txn, recipeUserID); err != nil {
		return err
	}
	group, err := txn.First(tablePrimaryLinks, "primary", primaryUserID)
	if err != nil {
		return fmt.Errorf("memstore: lookup primary: %w", err)
	}
	if group == nil {
		return fmt.Errorf("primary %s: %w", primaryUserID, domain.ErrNotPrimary)
	}
	if err := requireUnlinked(txn, recipeUserID); err != nil {
		return err
	}
	if err := requireNoCollision(txn, recipeUserID, primaryUserID); err != nil {
		return err
	}

	if err := txn.Insert(tablePrimaryLinks, &linkRow{RecipeUserID: recipeUserID, PrimaryUserID: primaryUserID}); err != nil {
		return fmt.Errorf("memstore: insert link: %w", err)
	}
	txn.Commit()
	return nil
}

// RemoveFromPrimary detaches recipeUserID from primaryUserID. The group
// disappears with its last member. Removing a non-member is a no-op.
func (s *Store) RemoveFromPrimary(ctx context.Context, primaryUserID, recipeUserID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tablePrimaryLinks, "id", recipeUserID)
	if err != nil {
		return fmt.Errorf("memstore: lookup link: %w", err)
	}
	if obj == nil || obj.(*linkRow).PrimaryUserID != primaryUserID {
		return nil
	}
	if err := txn.Delete(tablePrimaryLinks, obj); err != nil {
		return fmt.Errorf("memstore: delete link: %w", err)
	}
	txn.Commit()
	return nil
}

// DeleteRecord removes the login method and everything keyed by it. When it
// was a primary's own method and other members remain, the group keeps the
// primary id.
func (s *Store) DeleteRecord(ctx context.Context, recipeUserID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	for _, t := range []struct{ table, index string }{
		{tableLoginMethods, "id"},
		{tablePrimaryLinks, "id"},
		{tableStaging, "id"},
		{tableVerified, "recipe_user"},
		{tableSessions, "recipe_user"},
	} {
		if _, err := txn.DeleteAll(t.table, t.index, recipeUserID); err != nil {
			return fmt.Errorf("memstore: delete from %s: %w", t.table, err)
		}
	}
	txn.Commit()
	return nil
}

func requireLoginMethod(txn *memdb.Txn, recipeUserID string) error {
	obj, err := txn.First(tableLoginMethods, "id", recipeUserID)
	if err != nil {
		return fmt.Errorf("memstore: lookup login method: %w", err)
	}
	if obj == nil {
		return fmt.Errorf("user %s: %w", recipeUserID, domain.ErrNotFound)
	}
	return nil
}

// requireNoCollision rejects joining primaryUserID when an identifier of
// recipeUserID already belongs to a different primary user.
func requireNoCollision(txn *memdb.Txn, recipeUserID, primaryUserID string) error {
	obj, err := txn.First(tableLoginMethods, "id", recipeUserID)
	if err != nil {
		return fmt.Errorf("memstore: lookup login method: %w", err)
	}
	lm, err := toDomain(txn, obj.(*loginMethodRow))
	if err != nil {
		return err
	}

	for _, l := range lookupsFor(lm.AccountInfo()) {
		it, err := txn.Get(tableLoginMethods, l.index, l.value)
		if err != nil {
			return fmt.Errorf("memstore: lookup %s: %w", l.index, err)
		}
		for other := it.Next(); other != nil; other = it.Next() {
			link, err := txn.First(tablePrimaryLinks, "id", other.(*loginMethodRow).RecipeUserID)
			if err != nil {
				return fmt.Errorf("memstore: lookup link: %w", err)
			}
			if link == nil {
				continue
			}
			if owner := link.(*linkRow).PrimaryUserID; owner != primaryUserID {
				return fmt.Errorf("link %s: %w", recipeUserID,
					&domain.AccountInfoAssociatedError{OwnerID: owner, Axis: l.axis})
			}
		}
	}
	return nil
}

func requireUnlinked(txn *memdb.Txn, recipeUserID string) error {
	obj, err := txn.First(tablePrimaryLinks, "id", recipeUserID)
	if err != nil {
		return fmt.Errorf("memstore: lookup link: %w", err)
	}
	if obj != nil {
		return fmt.Errorf("link %s: %w", recipeUserID, domain.ErrAlreadyExists)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Link staging
// ---------------------------------------------------------------------------

// GetStaging returns the primary user id staged for recipeUserID.
func (s *Store) GetStaging(ctx context.Context, recipeUserID string) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableStaging, "id", recipeUserID)
	if err != nil {
		return "", fmt.Errorf("memstore: lookup staging: %w", err)
	}
	if obj == nil {
		return "", fmt.Errorf("staging %s: %w", recipeUserID, domain.ErrNotFound)
	}
	return obj.(*stagingRow).PrimaryUserID, nil
}

// SetStaging records primaryUserID as the link target of recipeUserID.
func (s *Store) SetStaging(ctx context.Context, recipeUserID, primaryUserID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := requireLoginMethod(txn, recipeUserID); err != nil {
		return err
	}
	if err := txn.Insert(tableStaging, &stagingRow{RecipeUserID: recipeUserID, PrimaryUserID: primaryUserID}); err != nil {
		return fmt.Errorf("memstore: insert staging: %w", err)
	}
	txn.Commit()
	return nil
}

// ClearStaging drops the staging entry of recipeUserID, if any.
func (s *Store) ClearStaging(ctx context.Context, recipeUserID string) error {
	return s.deleteAll(ctx, tableStaging, "id", recipeUserID)
}

// ClearStagingForPrimary drops every staging entry pointing at primaryUserID.
func (s *Store) ClearStagingForPrimary(ctx context.Context, primaryUserID string) error {
	return s.deleteAll(ctx, tableStaging, "primary", primaryUserID)
}

func (s *Store) deleteAll(ctx context.Context, table, index, value string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(table, index, value); err != nil {
		return fmt.Errorf("memstore: delete from %s: %w", table, err)
	}
	txn.Commit()
	return nil
}

// ---------------------------------------------------------------------------
// Email verification
// ---------------------------------------------------------------------------

// IsVerified reports whether lm's email is verified for lm's recipe user.
// Methods without email count as verified when they carry a phone number.
func (s *Store) IsVerified(ctx context.Context, lm domain.LoginMethod) (bool, error) {
	if err := checkCtx(ctx); err != nil {
		return false, err
	}
	if lm.Email == nil {
		return lm.PhoneNumber != nil, nil
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableVerified, "id", verifiedKey(lm.RecipeUserID, domain.NormalizeEmail(*lm.Email)))
	if err != nil {
		return false, fmt.Errorf("memstore: lookup verification: %w", err)
	}
	return obj != nil, nil
}

// MarkVerified records lm's email as verified for lm's recipe user.
func (s *Store) MarkVerified(ctx context.Context, lm domain.LoginMethod) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if lm.Email == nil {
		return nil
	}
	email := domain.NormalizeEmail(*lm.Email)

	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := requireLoginMethod(txn, lm.RecipeUserID); err != nil {
		return err
	}
	row := &verifiedRow{Key: verifiedKey(lm.RecipeUserID, email), RecipeUserID: lm.RecipeUserID, Email: email}
	if err := txn.Insert(tableVerified, row); err != nil {
		return fmt.Errorf("memstore: insert verification: %w", err)
	}
	txn.Commit()
	return nil
}
