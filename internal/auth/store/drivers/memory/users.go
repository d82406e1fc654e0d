package memory

import (
	"context"

	"github.com/aussiebroadwan/authservice/internal/auth/domain"
	"github.com/aussiebroadwan/authservice/internal/auth/store"
)

// HashmapUsers is a map-backed user directory. It does no locking of its own;
// share it between goroutines only through store.SharedUsers.
type HashmapUsers struct {
	users map[string]domain.User
}

var _ store.Users = (*HashmapUsers)(nil)

func NewHashmapUsers() *HashmapUsers {
	return &HashmapUsers{users: make(map[string]domain.User)}
}

func (h *HashmapUsers) AddUser(_ context.Context, u domain.User) error {
	if _, ok := h.users[u.Email]; ok {
		return store.ErrAlreadyExists
	}
	h.users[u.Email] = u
	return nil
}

func (h *HashmapUsers) GetUser(_ context.Context, email string) (domain.User, error) {
	u, ok := h.users[email]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (h *HashmapUsers) ValidateUser(_ context.Context, email, password string) error {
	u, ok := h.users[email]
	if !ok {
		return store.ErrNotFound
	}
	if u.Password != password {
		return store.ErrInvalidCredentials
	}
	return nil
}

// Len reports the number of stored records.
func (h *HashmapUsers) Len() int { return len(h.users) }
