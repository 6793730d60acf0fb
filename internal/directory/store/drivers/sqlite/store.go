package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/roster/internal/directory/domain"
	"github.com/aussiebroadwan/roster/internal/directory/store"
	"github.com/aussiebroadwan/roster/pkg/idx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DefaultDSN is a named shared-cache in-memory database. It lives exactly as
// long as the process holds its connection open.
const DefaultDSN = "file:roster?mode=memory&cache=shared"

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection pins in-memory databases for the life of the pool
	// and serialises writers, which is all SQLite supports anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Accounts() store.Accounts { return &accountsRepo{db: s.db} }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		if serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			strings.Contains(serr.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
	}
	return err
}

type accountRow struct {
	ID        string
	Name      string
	Email     string
	Secret    string
	CreatedAt int64
}

// toDomain rejects rows whose id is not a valid ULID.
func (r accountRow) toDomain() (domain.Account, error) {
	id, err := idx.Parse(r.ID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account row %q: %w", r.ID, err)
	}
	return domain.Account{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		Secret:    r.Secret,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
	}, nil
}
