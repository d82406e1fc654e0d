package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/authservice/internal/auth/domain"
	"github.com/aussiebroadwan/authservice/internal/auth/store"
)

type twoFACodesRepo struct {
	db dbtx
}

func (r *twoFACodesRepo) AddCode(ctx context.Context, a domain.LoginAttempt) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO two_fa_codes (email, login_attempt_id, secret, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (email) DO UPDATE SET
		     login_attempt_id = excluded.login_attempt_id,
		     secret           = excluded.secret,
		     created_at       = excluded.created_at`,
		a.Email, a.ID, a.Secret, a.CreatedAt.UTC().UnixMilli(),
	)
	return err
}

func (r *twoFACodesRepo) GetCode(ctx context.Context, email string) (domain.LoginAttempt, error) {
	a := domain.LoginAttempt{Email: email}
	var createdAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT login_attempt_id, secret, created_at FROM two_fa_codes WHERE email = ?`,
		email,
	).Scan(&a.ID, &a.Secret, &createdAt)
	if err != nil {
		return domain.LoginAttempt{}, mapNotFound(err)
	}
	a.CreatedAt = time.UnixMilli(createdAt).UTC()
	return a, nil
}

func (r *twoFACodesRepo) RemoveCode(ctx context.Context, email, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM two_fa_codes WHERE email = ? AND login_attempt_id = ?`,
		email, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *twoFACodesRepo) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM two_fa_codes WHERE created_at < ?`,
		before.UTC().UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
