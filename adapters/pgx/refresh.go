package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/vs-wedding/backend/core"
)

// ReplaceRefreshTokens enforces the single-active-token policy: delete and
// insert run in one transaction so no interleaving can leave an account
// with two valid tokens.
func (a *Adapter) ReplaceRefreshTokens(ctx context.Context, accountID string, t *core.RefreshToken) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM public.refresh_tokens WHERE account_id = $1`, accountID); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO public.refresh_tokens (token_hash, account_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		t.TokenHash, t.AccountID, t.CreatedAt, t.ExpiresAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (a *Adapter) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*core.RefreshToken, error) {
	q := `SELECT token_hash, account_id, created_at, expires_at
	      FROM public.refresh_tokens WHERE token_hash = $1`

	t := &core.RefreshToken{}
	err := a.pool.QueryRow(ctx, q, tokenHash).Scan(&t.TokenHash, &t.AccountID, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return t, nil
}

func (a *Adapter) DeleteRefreshTokens(ctx context.Context, accountID string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.refresh_tokens WHERE account_id = $1`, accountID)
	return err
}
