package credits

import (
	"context"
	"database/sql"
	"time"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Store {
	return &repo{db: db}
}

// GetOrCreateSession ищет строку по session_id ИЛИ fingerprint —
// любое совпадение ведёт к одной и той же строке (дедупликация анонимов).
// У найденной строки освежаем session_id и last_used_at.
func (r *repo) GetOrCreateSession(ctx context.Context, sessionID, fingerprint string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, browser_fingerprint, credits_used, last_used_at
		FROM sessions
		WHERE session_id = $1 OR browser_fingerprint = $2
		LIMIT 1
	`, sessionID, fingerprint)

	var s Session
	err := row.Scan(&s.ID, &s.SessionID, &s.Fingerprint, &s.CreditsUsed, &s.LastUsedAt)
	switch {
	case err == sql.ErrNoRows:
		// новая сессия
		err = r.db.QueryRowContext(ctx, `
			INSERT INTO sessions (session_id, browser_fingerprint, credits_used, last_used_at)
			VALUES ($1, $2, 0, $3)
			RETURNING id
		`, sessionID, fingerprint, time.Now()).Scan(&s.ID)
		if err != nil {
			return nil, err
		}
		s.SessionID = sessionID
		s.Fingerprint = fingerprint
		return &s, nil

	case err != nil:
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET session_id = $1, last_used_at = $2
		WHERE id = $3
	`, sessionID, time.Now(), s.ID); err != nil {
		return nil, err
	}
	s.SessionID = sessionID

	return &s, nil
}

func (r *repo) GetAccount(ctx context.Context, email string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, COALESCE(c.credits, 0)
		FROM users u
		LEFT JOIN user_credits c ON c.user_id = u.id
		WHERE u.email = $1
	`, email)

	var a Account
	err := row.Scan(&a.ID, &a.Email, &a.Credits)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ConsumeSession — условный UPDATE: за границу квоты не выходим,
// конкурентные запросы одной сессии не теряют инкременты
func (r *repo) ConsumeSession(ctx context.Context, id string, quota int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET credits_used = credits_used + 1, last_used_at = $1
		WHERE id = $2 AND credits_used < $3
	`, time.Now(), id, quota)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *repo) RefundSession(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET credits_used = credits_used - 1, last_used_at = $1
		WHERE id = $2 AND credits_used > 0
	`, time.Now(), id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *repo) ConsumeAccount(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_credits
		SET credits = credits - 1, updated_at = $1
		WHERE user_id = $2 AND credits > 0
	`, time.Now(), userID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *repo) RefundAccount(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_credits
		SET credits = credits + 1, updated_at = $1
		WHERE user_id = $2
	`, time.Now(), userID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *repo) AddCredits(ctx context.Context, email string, n int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email)
		VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, email).Scan(&userID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_credits (user_id, credits, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET credits = user_credits.credits + EXCLUDED.credits, updated_at = EXCLUDED.updated_at
	`, userID, n, time.Now()); err != nil {
		return err
	}

	return tx.Commit()
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
