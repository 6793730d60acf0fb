package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/roster/internal/directory/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the drivers under
// drivers/. Every driver is process-scoped: nothing survives a restart.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Ping verifies the backing store is usable.
	Ping(ctx context.Context) error

	Close() error
}

type Accounts interface {
	// CreateAccount inserts a at the front of the collection. It returns
	// ErrAlreadyExists if an account with the same normalised email exists.
	CreateAccount(ctx context.Context, a domain.Account) error

	// ListAccounts returns every account, most recently created first.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// GetAccountByEmail looks an account up by case-insensitive email.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	CountAccounts(ctx context.Context) (int, error)
}
