package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/roster/internal/directory/domain"
)

const (
	insertAccount = `INSERT INTO accounts (id, name, email, email_normalized, secret, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

	selectAccounts = `SELECT id, name, email, secret, created_at FROM accounts ORDER BY seq DESC`

	selectAccountByEmail = `SELECT id, name, email, secret, created_at FROM accounts
WHERE email_normalized = ? ORDER BY seq DESC LIMIT 1`

	countAccounts = `SELECT COUNT(*) FROM accounts`
)

type accountsRepo struct {
	db *sql.DB
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, insertAccount,
		a.ID.String(),
		a.Name,
		a.Email,
		domain.NormalizeEmail(a.Email),
		a.Secret,
		a.CreatedAt.UnixMilli(),
	)
	return mapConstraint(err)
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, selectAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		var row accountRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Email, &row.Secret, &row.CreatedAt); err != nil {
			return nil, err
		}
		acc, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	var row accountRow
	err := r.db.QueryRowContext(ctx, selectAccountByEmail, domain.NormalizeEmail(email)).
		Scan(&row.ID, &row.Name, &row.Email, &row.Secret, &row.CreatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return row.toDomain()
}

func (r *accountsRepo) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countAccounts).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
