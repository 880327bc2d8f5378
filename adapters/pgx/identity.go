package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/vs-wedding/backend/core"
)

func (a *Adapter) CreateLinkedIdentity(ctx context.Context, li *core.LinkedIdentity) error {
	query := `INSERT INTO public.linked_identities (provider, subject_id, account_id)
	          VALUES ($1, $2, $3)
	          RETURNING created_at`

	err := a.pool.QueryRow(ctx, query, li.Provider, li.SubjectID, li.AccountID).Scan(&li.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return core.ErrDuplicate
		}
		return err
	}
	return nil
}

func (a *Adapter) GetLinkedIdentity(ctx context.Context, provider, subjectID string) (*core.LinkedIdentity, error) {
	q := `SELECT provider, subject_id, account_id, created_at
	      FROM public.linked_identities WHERE provider = $1 AND subject_id = $2`

	li := &core.LinkedIdentity{}
	err := a.pool.QueryRow(ctx, q, provider, subjectID).Scan(&li.Provider, &li.SubjectID, &li.AccountID, &li.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrIdentityNotFound
		}
		return nil, err
	}
	return li, nil
}
