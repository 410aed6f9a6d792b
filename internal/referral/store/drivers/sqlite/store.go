package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/referral/internal/referral/domain"
	"github.com/aussiebroadwan/referral/internal/referral/store"
	_ "modernc.org/sqlite"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// repositories can run against either the pooled connection or a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

// FileDSN builds the DSN used for file-backed databases. BEGIN IMMEDIATE
// transactions plus a busy timeout make concurrent write transactions queue
// instead of failing on snapshot upgrade, and the pragmas apply to every
// pooled connection, not just the first one.
func FileDSN(path string) string {
	return "file:" + path +
		"?_txlock=immediate" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)"
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Ensure rollback is called if we panic or return early with error
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err // rollback happens in defer
	}

	return tx.Commit()
}

func (s *Store) Codes() store.Codes         { return &codesRepo{q: s.db} }
func (s *Store) Referrals() store.Referrals { return &referralsRepo{q: s.db} }
func (s *Store) Counters() store.Counters   { return &countersRepo{q: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on the
// given column (e.g. "referral_codes.owner_id"). modernc.org/sqlite surfaces
// constraint failures as plain errors carrying the sqlite message, so string
// matching is the portable check.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") &&
		!strings.Contains(msg, "constraint failed") {
		return false
	}
	return column == "" || strings.Contains(msg, column)
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func mapNullInt64Ptr(ni sql.NullInt64) *int64 {
	if ni.Valid {
		val := ni.Int64
		return &val
	}
	return nil
}

func mapOptionalInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func scanCode(row interface{ Scan(dest ...any) error }) (domain.ReferralCode, error) {
	var (
		c         domain.ReferralCode
		maxUses   sql.NullInt64
		expiresAt sql.NullTime
	)
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Code,
		&c.IsActive,
		&maxUses,
		&c.UseCount,
		&expiresAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.ReferralCode{}, err
	}
	c.MaxUses = mapNullInt64Ptr(maxUses)
	c.ExpiresAt = mapNullTimePtr(expiresAt)
	return c, nil
}

func scanReferral(row interface{ Scan(dest ...any) error }) (domain.Referral, error) {
	var (
		r           domain.Referral
		status      string
		completedAt sql.NullTime
		rewardedAt  sql.NullTime
	)
	err := row.Scan(
		&r.ID,
		&r.ReferrerID,
		&r.ReferredID,
		&r.CodeUsed,
		&status,
		&r.CreatedAt,
		&completedAt,
		&rewardedAt,
	)
	if err != nil {
		return domain.Referral{}, err
	}
	r.Status = domain.ReferralStatus(status)
	r.CompletedAt = mapNullTimePtr(completedAt)
	r.RewardedAt = mapNullTimePtr(rewardedAt)
	return r, nil
}
