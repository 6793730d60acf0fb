package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/roster/internal/directory/domain"
	"github.com/aussiebroadwan/roster/internal/directory/store"
	"github.com/aussiebroadwan/roster/pkg/idx"
)

// Directory is the single authority for account registration, credential
// checks and the current session. One instance is built per application and
// handed to everything that needs it.
//
// All operations take the same mutex, so the email uniqueness check and the
// session transitions are atomic with respect to each other.
type Directory struct {
	mu      sync.Mutex
	store   store.Store
	session domain.Session
	ids     *idx.Generator
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*Directory)

// WithClock replaces the wall clock used for ids and session start times.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

func NewDirectory(st store.Store, logger *slog.Logger, opts ...Option) *Directory {
	d := &Directory{
		store:   st,
		session: domain.Anonymous(),
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.ids = idx.NewGenerator(d.now)
	return d
}

// RegisterAccount creates an account placed ahead of every existing one. It
// fails with ErrDuplicateEmail when the email is taken ignoring case. The
// session is not touched.
func (d *Directory) RegisterAccount(ctx context.Context, name, email, secret string) (domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.store.Accounts().GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		d.logger.Warn("duplicate registration rejected", "email", email)
		return domain.Account{}, ErrDuplicateEmail
	case !errors.Is(err, store.ErrNotFound):
		return domain.Account{}, fmt.Errorf("lookup email: %w", err)
	}

	id := d.ids.Next()
	acc := domain.Account{
		ID:        id,
		Name:      name,
		Email:     email,
		Secret:    secret,
		CreatedAt: id.Time(),
	}

	if err := d.store.Accounts().CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrDuplicateEmail
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	d.logger.Info("account registered", "account_id", acc.ID, "email", acc.Email)
	return acc, nil
}

// Login scans the accounts in collection order and starts a session for the
// first whose email matches ignoring case and whose secret matches exactly.
// The returned snapshot is the session this call set, whatever happens to the
// directory afterwards. On failure the session is left as it was.
func (d *Directory) Login(ctx context.Context, email, secret string) (domain.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.store.Accounts().ListAccounts(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("list accounts: %w", err)
	}

	for _, acc := range accounts {
		if acc.Matches(email, secret) {
			d.session = domain.Start(acc, d.now())
			d.logger.Info("session started", "account_id", acc.ID, "email", acc.Email)
			return d.session.Clone(), nil
		}
	}

	d.logger.Warn("authentication failed", "email", email)
	return domain.Session{}, ErrInvalidCredentials
}

// Register reports whether a new account was created. Every failure,
// duplicate email or store error alike, is false.
func (d *Directory) Register(ctx context.Context, name, email, secret string) bool {
	_, err := d.RegisterAccount(ctx, name, email, secret)
	d.logUnexpected("register", err, ErrDuplicateEmail)
	return err == nil
}

// Authenticate reports whether email and secret matched an account, in which
// case that account is now active.
func (d *Directory) Authenticate(ctx context.Context, email, secret string) bool {
	_, err := d.Login(ctx, email, secret)
	d.logUnexpected("authenticate", err, ErrInvalidCredentials)
	return err == nil
}

// EndSession clears the session whatever its state.
func (d *Directory) EndSession() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session.Authenticated {
		d.logger.Info("session ended", "account_id", d.session.Active.ID)
	}
	d.session = domain.Anonymous()
}

// ListAccounts returns a copy of every account, most recent first.
func (d *Directory) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.store.Accounts().ListAccounts(ctx)
}

func (d *Directory) IsAuthenticated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.session.Authenticated
}

// CurrentAccount returns the active account, or false when nobody is logged in.
func (d *Directory) CurrentAccount() (domain.Account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.session.Authenticated || d.session.Active == nil {
		return domain.Account{}, false
	}
	return *d.session.Active, true
}

// Session returns a snapshot of the session.
func (d *Directory) Session() domain.Session {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.session.Clone()
}

// Ready pings the backing store.
func (d *Directory) Ready(ctx context.Context) error {
	return d.store.Ping(ctx)
}

func (d *Directory) logUnexpected(op string, err, expected error) {
	if err != nil && !errors.Is(err, expected) {
		d.logger.Error("directory operation failed", "op", op, "err", err)
	}
}
