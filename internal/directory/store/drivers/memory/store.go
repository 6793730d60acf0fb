// Package memory is the default store driver: a slice held for the lifetime
// of the process, newest account first.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aussiebroadwan/roster/internal/directory/domain"
	"github.com/aussiebroadwan/roster/internal/directory/store"
)

type Store struct {
	mu       sync.RWMutex
	accounts []domain.Account
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Accounts() store.Accounts { return &accountsRepo{s: s} }

// ApplyMigrations is a no-op; there is no schema.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

type accountsRepo struct {
	s *Store
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.accounts {
		if domain.SameEmail(existing.Email, a.Email) {
			return store.ErrAlreadyExists
		}
	}

	r.s.accounts = slices.Insert(r.s.accounts, 0, a)
	return nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return slices.Clone(r.s.accounts), nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.accounts {
		if domain.SameEmail(a.Email, email) {
			return a, nil
		}
	}
	return domain.Account{}, store.ErrNotFound
}

func (r *accountsRepo) CountAccounts(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.accounts), nil
}
