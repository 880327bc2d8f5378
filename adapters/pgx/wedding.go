package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vs-wedding/backend/core"
)

func (a *Adapter) ListGifts(ctx context.Context) ([]*core.Gift, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT id, title, description, image_name, cost, account_id FROM public.gifts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gifts []*core.Gift
	for rows.Next() {
		g := &core.Gift{}
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.ImageName, &g.Cost, &g.AccountID); err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

func (a *Adapter) GetGiftByID(ctx context.Context, id int64) (*core.Gift, error) {
	g := &core.Gift{}
	err := a.pool.QueryRow(ctx,
		`SELECT id, title, description, image_name, cost, account_id FROM public.gifts WHERE id = $1`, id,
	).Scan(&g.ID, &g.Title, &g.Description, &g.ImageName, &g.Cost, &g.AccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrGiftNotFound
		}
		return nil, err
	}
	return g, nil
}

// LockGift is a conditional update: the WHERE clause decides races, so two
// guests locking concurrently can never both win.
func (a *Adapter) LockGift(ctx context.Context, id int64, accountID string) error {
	tag, err := a.pool.Exec(ctx,
		`UPDATE public.gifts SET account_id = $2 WHERE id = $1 AND account_id IS NULL`, id, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := a.GetGiftByID(ctx, id); err != nil {
			return err
		}
		return core.ErrGiftTaken
	}
	return nil
}

func (a *Adapter) UnlockGift(ctx context.Context, id int64, accountID string) error {
	tag, err := a.pool.Exec(ctx,
		`UPDATE public.gifts SET account_id = NULL WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := a.GetGiftByID(ctx, id); err != nil {
			return err
		}
		return core.ErrGiftNotOwned
	}
	return nil
}

func (a *Adapter) ListMessages(ctx context.Context) ([]*core.Message, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT id, author_name, body, account_id, created_at FROM public.messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*core.Message
	for rows.Next() {
		m := &core.Message{}
		if err := rows.Scan(&m.ID, &m.AuthorName, &m.Body, &m.AccountID, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (a *Adapter) CreateMessage(ctx context.Context, m *core.Message) error {
	return a.pool.QueryRow(ctx,
		`INSERT INTO public.messages (author_name, body, account_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		m.AuthorName, m.Body, m.AccountID, m.CreatedAt,
	).Scan(&m.ID)
}

func (a *Adapter) ListParticipations(ctx context.Context, accountID string) ([]*core.Participation, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT id, full_name, age_category, present, notes, account_id, created_at
		 FROM public.participations WHERE account_id = $1 ORDER BY id DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participations []*core.Participation
	for rows.Next() {
		p := &core.Participation{}
		if err := rows.Scan(&p.ID, &p.FullName, &p.AgeCategory, &p.Present, &p.Notes, &p.AccountID, &p.CreatedAt); err != nil {
			return nil, err
		}
		participations = append(participations, p)
	}
	return participations, rows.Err()
}

func (a *Adapter) CreateParticipation(ctx context.Context, p *core.Participation) error {
	return a.pool.QueryRow(ctx,
		`INSERT INTO public.participations (full_name, age_category, present, notes, account_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.FullName, p.AgeCategory, p.Present, p.Notes, p.AccountID, p.CreatedAt,
	).Scan(&p.ID)
}

// UpdateParticipation scopes the update to the owning account; touching
// another guest's row reads as not found.
func (a *Adapter) UpdateParticipation(ctx context.Context, p *core.Participation) error {
	tag, err := a.pool.Exec(ctx,
		`UPDATE public.participations SET full_name = $3, age_category = $4, present = $5, notes = $6
		 WHERE id = $1 AND account_id = $2`,
		p.ID, p.AccountID, p.FullName, p.AgeCategory, p.Present, p.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrParticipationNotFound
	}
	return nil
}

func (a *Adapter) DeleteParticipation(ctx context.Context, accountID string, id int64) error {
	tag, err := a.pool.Exec(ctx,
		`DELETE FROM public.participations WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrParticipationNotFound
	}
	return nil
}

func (a *Adapter) InsertActionLog(ctx context.Context, accountID, message string) error {
	_, err := a.pool.Exec(ctx,
		`INSERT INTO public.action_logs (account_id, log_message, created_at) VALUES ($1, $2, $3)`,
		accountID, message, time.Now())
	return err
}
