package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/authservice/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want store.ErrorKind
	}{
		{"nil", nil, store.KindNone},
		{"already exists", store.ErrAlreadyExists, store.KindAlreadyExists},
		{"not found", store.ErrNotFound, store.KindNotFound},
		{"invalid credentials", store.ErrInvalidCredentials, store.KindInvalidCredentials},
		{"unexpected", store.ErrUnexpected, store.KindUnexpected},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrNotFound), store.KindNotFound},
		{"foreign error", errors.New("disk on fire"), store.KindUnexpected},
		{"context error", context.Canceled, store.KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, store.KindOf(tt.err))
		})
	}
}

func TestErrorKindString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "none", store.KindNone.String())
	require.Equal(t, "already_exists", store.KindAlreadyExists.String())
	require.Equal(t, "not_found", store.KindNotFound.String())
	require.Equal(t, "invalid_credentials", store.KindInvalidCredentials.String())
	require.Equal(t, "unexpected", store.KindUnexpected.String())
}
