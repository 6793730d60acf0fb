// Package storetest holds the behaviour every store driver must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/roster/internal/directory/domain"
	"github.com/aussiebroadwan/roster/internal/directory/store"
	"github.com/aussiebroadwan/roster/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated, empty store.
type Factory func(t *testing.T) store.Store

func account(name, email, secret string) domain.Account {
	id := idx.New()
	return domain.Account{
		ID:        id,
		Name:      name,
		Email:     email,
		Secret:    secret,
		CreatedAt: id.Time(),
	}
}

// Run exercises the store.Accounts contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("starts empty", func(t *testing.T) {
		s := newStore(t)

		n, err := s.Accounts().CountAccounts(ctx)
		require.NoError(t, err)
		require.Zero(t, n)

		list, err := s.Accounts().ListAccounts(ctx)
		require.NoError(t, err)
		require.Empty(t, list)

		require.NoError(t, s.Ping(ctx))
	})

	t.Run("lists most recent first", func(t *testing.T) {
		s := newStore(t)
		repo := s.Accounts()

		first := account("Ana", "ana@x.com", "123")
		second := account("Bia", "bia@x.com", "456")
		third := account("Caio", "caio@x.com", "789")
		for _, a := range []domain.Account{first, second, third} {
			require.NoError(t, repo.CreateAccount(ctx, a))
		}

		list, err := repo.ListAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, []idx.ID{third.ID, second.ID, first.ID},
			[]idx.ID{list[0].ID, list[1].ID, list[2].ID})

		require.Equal(t, "Caio", list[0].Name)
		require.Equal(t, "789", list[0].Secret)
		require.WithinDuration(t, third.CreatedAt, list[0].CreatedAt, time.Millisecond)
	})

	t.Run("rejects case-insensitive duplicate email", func(t *testing.T) {
		s := newStore(t)
		repo := s.Accounts()

		require.NoError(t, repo.CreateAccount(ctx, account("Ana", "ana@x.com", "123")))
		err := repo.CreateAccount(ctx, account("Ana2", "ANA@X.com", "999"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		n, err := repo.CountAccounts(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("looks up by email ignoring case", func(t *testing.T) {
		s := newStore(t)
		repo := s.Accounts()

		want := account("Ana", "Ana@X.com", "123")
		require.NoError(t, repo.CreateAccount(ctx, want))

		got, err := repo.GetAccountByEmail(ctx, "ana@x.COM")
		require.NoError(t, err)
		require.Equal(t, want.ID, got.ID)
		require.Equal(t, "Ana@X.com", got.Email, "email is kept as registered")

		_, err = repo.GetAccountByEmail(ctx, "nobody@x.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("returned lists are copies", func(t *testing.T) {
		s := newStore(t)
		repo := s.Accounts()

		require.NoError(t, repo.CreateAccount(ctx, account("Ana", "ana@x.com", "123")))

		list, err := repo.ListAccounts(ctx)
		require.NoError(t, err)
		list[0].Name = "mutated"

		again, err := repo.ListAccounts(ctx)
		require.NoError(t, err)
		require.Equal(t, "Ana", again[0].Name)
	})
}
