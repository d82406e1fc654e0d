// Package storetest holds behaviour suites every store driver must pass.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/authservice/internal/auth/domain"
	"github.com/aussiebroadwan/authservice/internal/auth/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunUsersContract checks the user directory outcomes on a fresh Users value
// produced by newUsers for each subtest.
func RunUsersContract(t *testing.T, newUsers func(t *testing.T) store.Users) {
	t.Helper()

	t.Run("add then get returns the same record", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		user := domain.User{Email: "test@example.com", Password: "secret", Requires2FA: true}
		require.NoError(t, users.AddUser(ctx, user))

		got, err := users.GetUser(ctx, "test@example.com")
		require.NoError(t, err)
		require.Equal(t, user, got)
	})

	t.Run("duplicate add fails and keeps the original", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		require.NoError(t, users.AddUser(ctx, domain.User{Email: "test@example.com", Password: "secret"}))

		err := users.AddUser(ctx, domain.User{Email: "test@example.com", Password: "other", Requires2FA: true})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
		require.Equal(t, store.KindAlreadyExists, store.KindOf(err))

		got, err := users.GetUser(ctx, "test@example.com")
		require.NoError(t, err)
		require.Equal(t, "secret", got.Password)
		require.False(t, got.Requires2FA)
	})

	t.Run("unknown keys are not found", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		_, err := users.GetUser(ctx, "missing@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		err = users.ValidateUser(ctx, "missing@example.com", "anything")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("validate matches credentials exactly", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		require.NoError(t, users.AddUser(ctx, domain.User{Email: "test@example.com", Password: "secret"}))

		require.NoError(t, users.ValidateUser(ctx, "test@example.com", "secret"))

		for _, wrong := range []string{"wrong", "Secret", "secret ", " secret", "secre", ""} {
			err := users.ValidateUser(ctx, "test@example.com", wrong)
			require.ErrorIs(t, err, store.ErrInvalidCredentials, "candidate %q", wrong)
		}
	})

	t.Run("keys are case sensitive", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		require.NoError(t, users.AddUser(ctx, domain.User{Email: "a@b.com", Password: "secret"}))
		require.NoError(t, users.AddUser(ctx, domain.User{Email: "A@B.com", Password: "other"}))

		require.NoError(t, users.ValidateUser(ctx, "a@b.com", "secret"))
		require.NoError(t, users.ValidateUser(ctx, "A@B.com", "other"))
	})

	t.Run("repeated reads are stable", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		require.NoError(t, users.AddUser(ctx, domain.User{Email: "test@example.com", Password: "secret"}))

		first, firstErr := users.GetUser(ctx, "test@example.com")
		for range 5 {
			got, err := users.GetUser(ctx, "test@example.com")
			require.Equal(t, firstErr, err)
			require.Equal(t, first, got)

			require.NoError(t, users.ValidateUser(ctx, "test@example.com", "secret"))
			require.ErrorIs(t, users.ValidateUser(ctx, "test@example.com", "wrong"), store.ErrInvalidCredentials)
		}
	})

	t.Run("returned records are copies", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		require.NoError(t, users.AddUser(ctx, domain.User{Email: "test@example.com", Password: "secret"}))

		got, err := users.GetUser(ctx, "test@example.com")
		require.NoError(t, err)
		got.Password = "mutated"
		got.Requires2FA = true

		again, err := users.GetUser(ctx, "test@example.com")
		require.NoError(t, err)
		require.Equal(t, "secret", again.Password)
		require.False(t, again.Requires2FA)
	})

	t.Run("scenario", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		require.NoError(t, users.AddUser(ctx, domain.User{Email: "a@b.com", Password: "secret", Requires2FA: false}))
		require.ErrorIs(t, users.AddUser(ctx, domain.User{Email: "a@b.com", Password: "secret"}), store.ErrAlreadyExists)
		require.NoError(t, users.ValidateUser(ctx, "a@b.com", "secret"))
		require.ErrorIs(t, users.ValidateUser(ctx, "a@b.com", "wrong"), store.ErrInvalidCredentials)

		_, err := users.GetUser(ctx, "missing@x.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unexpected is never returned", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		var errs []error
		errs = append(errs, users.AddUser(ctx, domain.User{Email: "a@b.com", Password: "secret"}))
		errs = append(errs, users.AddUser(ctx, domain.User{Email: "a@b.com", Password: "secret"}))
		errs = append(errs, users.ValidateUser(ctx, "a@b.com", "secret"))
		errs = append(errs, users.ValidateUser(ctx, "a@b.com", "nope"))
		errs = append(errs, users.ValidateUser(ctx, "x@y.com", "secret"))
		_, err := users.GetUser(ctx, "a@b.com")
		errs = append(errs, err)
		_, err = users.GetUser(ctx, "x@y.com")
		errs = append(errs, err)

		for i, err := range errs {
			require.NotErrorIs(t, err, store.ErrUnexpected, "call %d", i)
			require.NotEqual(t, store.KindUnexpected, store.KindOf(err), "call %d", i)
		}
	})
}

// RunConcurrentUsersContract checks uniqueness under concurrent writers. Only
// run it against Users values that are safe for concurrent use.
func RunConcurrentUsersContract(t *testing.T, newUsers func(t *testing.T) store.Users) {
	t.Helper()

	t.Run("exactly one concurrent add wins", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		const n = 32
		var (
			wg      sync.WaitGroup
			start   = make(chan struct{})
			results = make([]error, n)
		)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				results[i] = users.AddUser(ctx, domain.User{
					Email:    "race@example.com",
					Password: fmt.Sprintf("secret-%d", i),
				})
			}()
		}
		close(start)
		wg.Wait()

		var ok, exists int
		winner := -1
		for i, err := range results {
			switch store.KindOf(err) {
			case store.KindNone:
				ok++
				winner = i
			case store.KindAlreadyExists:
				exists++
			default:
				t.Fatalf("unexpected error from writer %d: %v", i, err)
			}
		}
		require.Equal(t, 1, ok)
		require.Equal(t, n-1, exists)

		got, err := users.GetUser(ctx, "race@example.com")
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("secret-%d", winner), got.Password)
	})

	t.Run("readers and writers interleave safely", func(t *testing.T) {
		ctx := context.Background()
		users := newUsers(t)

		const n = 16
		var wg sync.WaitGroup
		for i := range n {
			email := fmt.Sprintf("user-%d@example.com", i)
			wg.Add(2)
			go func() {
				defer wg.Done()
				assert.NoError(t, users.AddUser(ctx, domain.User{Email: email, Password: "password"}))
			}()
			go func() {
				defer wg.Done()
				// Either the record is not there yet or it is complete.
				u, err := users.GetUser(ctx, email)
				if err != nil {
					assert.ErrorIs(t, err, store.ErrNotFound)
					return
				}
				assert.Equal(t, domain.User{Email: email, Password: "password"}, u)
			}()
		}
		wg.Wait()

		for i := range n {
			require.NoError(t, users.ValidateUser(ctx, fmt.Sprintf("user-%d@example.com", i), "password"))
		}
	})
}

// RunTwoFACodesContract checks pending 2FA attempt storage.
func RunTwoFACodesContract(t *testing.T, newCodes func(t *testing.T) store.TwoFACodes) {
	t.Helper()

	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("add get remove", func(t *testing.T) {
		ctx := context.Background()
		codes := newCodes(t)

		attempt := domain.LoginAttempt{ID: "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", Email: "a@b.com", Secret: "JBSWY3DPEHPK3PXP", CreatedAt: created}
		require.NoError(t, codes.AddCode(ctx, attempt))

		got, err := codes.GetCode(ctx, "a@b.com")
		require.NoError(t, err)
		require.Equal(t, attempt.ID, got.ID)
		require.Equal(t, attempt.Secret, got.Secret)
		require.True(t, attempt.CreatedAt.Equal(got.CreatedAt))

		require.NoError(t, codes.RemoveCode(ctx, "a@b.com", attempt.ID))
		_, err = codes.GetCode(ctx, "a@b.com")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, codes.RemoveCode(ctx, "a@b.com", attempt.ID), store.ErrNotFound)
	})

	t.Run("newer attempt replaces older", func(t *testing.T) {
		ctx := context.Background()
		codes := newCodes(t)

		require.NoError(t, codes.AddCode(ctx, domain.LoginAttempt{ID: "first", Email: "a@b.com", Secret: "AAAA", CreatedAt: created}))
		require.NoError(t, codes.AddCode(ctx, domain.LoginAttempt{ID: "second", Email: "a@b.com", Secret: "BBBB", CreatedAt: created.Add(time.Minute)}))

		got, err := codes.GetCode(ctx, "a@b.com")
		require.NoError(t, err)
		require.Equal(t, "second", got.ID)
		require.Equal(t, "BBBB", got.Secret)
	})

	t.Run("remove ignores a replaced attempt id", func(t *testing.T) {
		ctx := context.Background()
		codes := newCodes(t)

		require.NoError(t, codes.AddCode(ctx, domain.LoginAttempt{ID: "first", Email: "a@b.com", Secret: "AAAA", CreatedAt: created}))
		require.NoError(t, codes.AddCode(ctx, domain.LoginAttempt{ID: "second", Email: "a@b.com", Secret: "BBBB", CreatedAt: created.Add(time.Minute)}))

		require.ErrorIs(t, codes.RemoveCode(ctx, "a@b.com", "first"), store.ErrNotFound)

		got, err := codes.GetCode(ctx, "a@b.com")
		require.NoError(t, err)
		require.Equal(t, "second", got.ID, "the newer attempt must survive")
	})

	t.Run("delete expired", func(t *testing.T) {
		ctx := context.Background()
		codes := newCodes(t)

		require.NoError(t, codes.AddCode(ctx, domain.LoginAttempt{ID: "old", Email: "old@b.com", Secret: "AAAA", CreatedAt: created}))
		require.NoError(t, codes.AddCode(ctx, domain.LoginAttempt{ID: "new", Email: "new@b.com", Secret: "BBBB", CreatedAt: created.Add(10 * time.Minute)}))

		n, err := codes.DeleteExpired(ctx, created.Add(5*time.Minute))
		require.NoError(t, err)
		require.Equal(t, 1, n)

		_, err = codes.GetCode(ctx, "old@b.com")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = codes.GetCode(ctx, "new@b.com")
		require.NoError(t, err)
	})
}

// RunBannedTokensContract checks the logout ban list.
func RunBannedTokensContract(t *testing.T, newBanned func(t *testing.T) store.BannedTokens) {
	t.Helper()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ban and check", func(t *testing.T) {
		ctx := context.Background()
		banned := newBanned(t)

		ok, err := banned.IsBanned(ctx, "fp-1")
		require.NoError(t, err)
		require.False(t, ok)

		require.NoError(t, banned.BanToken(ctx, "fp-1", now.Add(time.Hour)))
		require.NoError(t, banned.BanToken(ctx, "fp-1", now.Add(time.Hour)), "banning twice is harmless")

		ok, err = banned.IsBanned(ctx, "fp-1")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("delete expired", func(t *testing.T) {
		ctx := context.Background()
		banned := newBanned(t)

		require.NoError(t, banned.BanToken(ctx, "expired", now.Add(-time.Minute)))
		require.NoError(t, banned.BanToken(ctx, "live", now.Add(time.Minute)))

		n, err := banned.DeleteExpired(ctx, now)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		ok, err := banned.IsBanned(ctx, "expired")
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = banned.IsBanned(ctx, "live")
		require.NoError(t, err)
		require.True(t, ok)
	})
}
