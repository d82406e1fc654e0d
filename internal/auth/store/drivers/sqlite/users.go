package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/authservice/internal/auth/domain"
	"github.com/aussiebroadwan/authservice/internal/auth/store"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) AddUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password, requires_2fa, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (email) DO NOTHING`,
		u.Email, u.Password, u.Requires2FA, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *usersRepo) GetUser(ctx context.Context, email string) (domain.User, error) {
	u := domain.User{Email: email}
	err := r.db.QueryRowContext(ctx,
		`SELECT password, requires_2fa FROM users WHERE email = ?`,
		email,
	).Scan(&u.Password, &u.Requires2FA)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ValidateUser(ctx context.Context, email, password string) error {
	var stored string
	err := r.db.QueryRowContext(ctx,
		`SELECT password FROM users WHERE email = ?`,
		email,
	).Scan(&stored)
	if err != nil {
		return mapNotFound(err)
	}
	if stored != password {
		return store.ErrInvalidCredentials
	}
	return nil
}
