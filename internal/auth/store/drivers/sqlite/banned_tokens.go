package sqlite

import (
	"context"
	"time"
)

type bannedTokensRepo struct {
	db dbtx
}

func (r *bannedTokensRepo) BanToken(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO banned_tokens (fingerprint, expires_at)
		 VALUES (?, ?)
		 ON CONFLICT (fingerprint) DO UPDATE SET expires_at = excluded.expires_at`,
		fingerprint, expiresAt.UTC().UnixMilli(),
	)
	return err
}

func (r *bannedTokensRepo) IsBanned(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM banned_tokens WHERE fingerprint = ?)`,
		fingerprint,
	).Scan(&exists)
	return exists, err
}

func (r *bannedTokensRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM banned_tokens WHERE expires_at <= ?`,
		now.UTC().UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
