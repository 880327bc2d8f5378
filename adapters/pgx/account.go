package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/vs-wedding/backend/core"
)

func (a *Adapter) CreateAccount(ctx context.Context, account *core.Account) error {
	query := `INSERT INTO public.accounts (id, email, email_confirmed, full_name, password_hash)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`

	err := a.pool.QueryRow(ctx, query,
		account.ID, account.Email, account.EmailConfirmed, account.FullName, account.PasswordHash,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if isDuplicate(err) {
			return core.ErrDuplicate
		}
		return err
	}
	return nil
}

func (a *Adapter) GetAccountByID(ctx context.Context, id string) (*core.Account, error) {
	q := `SELECT id, email, email_confirmed, full_name, password_hash, created_at, updated_at
	      FROM public.accounts WHERE id = $1`

	return a.scanAccount(a.pool.QueryRow(ctx, q, id))
}

func (a *Adapter) GetAccountByEmail(ctx context.Context, email string) (*core.Account, error) {
	q := `SELECT id, email, email_confirmed, full_name, password_hash, created_at, updated_at
	      FROM public.accounts WHERE lower(email) = lower($1)`

	return a.scanAccount(a.pool.QueryRow(ctx, q, email))
}

func (a *Adapter) DeleteAccount(ctx context.Context, id string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.accounts WHERE id = $1`, id)
	return err
}

func (a *Adapter) scanAccount(row pgx.Row) (*core.Account, error) {
	account := &core.Account{}
	err := row.Scan(
		&account.ID, &account.Email, &account.EmailConfirmed, &account.FullName,
		&account.PasswordHash, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}
