package services_test

import (
	"fmt"
	"sync"
	"testing"

	"gestionale/internal/repositories/memstore"
	"gestionale/internal/services"
	"gestionale/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*services.AuthService, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	tokens := utils.NewTokenManager("access-secret", "refresh-secret")
	return services.NewAuthService(st.Users(), tokens, st.Revocations(), nil), st
}

func TestRegisterBootstrap(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := t.Context()

	open, err := auth.RegistrationOpen(ctx)
	require.NoError(t, err)
	assert.True(t, open)

	user, err := auth.Register(ctx, services.Credentials{Email: " Admin@Example.com ", Password: "password123"}, false)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)

	_, err = auth.Register(ctx, services.Credentials{Email: "second@example.com", Password: "password123"}, false)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = auth.Register(ctx, services.Credentials{Email: "second@example.com", Password: "password123"}, true)
	require.NoError(t, err)

	_, err = auth.Register(ctx, services.Credentials{Email: "ADMIN@example.com", Password: "password123"}, true)
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = auth.Register(ctx, services.Credentials{Email: "short@example.com", Password: "short"}, true)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestLoginAndAuthenticate(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := t.Context()
	creds := services.Credentials{Email: "admin@example.com", Password: "password123"}
	registered, err := auth.Register(ctx, creds, false)
	require.NoError(t, err)

	user, pair, err := auth.Login(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotNil(t, user.LastLoginAt)

	claims, err := auth.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, registered.ID, id)

	_, err = auth.Authenticate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrUnauthorized, "refresh tokens are not access tokens")

	_, _, err = auth.Login(ctx, services.Credentials{Email: creds.Email, Password: "wrong-password"})
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, _, err = auth.Login(ctx, services.Credentials{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestRefreshRotatesTokens(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := t.Context()
	creds := services.Credentials{Email: "admin@example.com", Password: "password123"}
	_, err := auth.Register(ctx, creds, false)
	require.NoError(t, err)
	_, pair, err := auth.Login(ctx, creds)
	require.NoError(t, err)

	next, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.JTI, next.JTI)

	_, err = auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrUnauthorized, "a refresh token works once")
	_, err = auth.Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, services.ErrUnauthorized, "the old session is over")

	_, err = auth.Authenticate(ctx, next.AccessToken)
	require.NoError(t, err)

	_, err = auth.Refresh(ctx, "")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestConcurrentRefreshSucceedsOnce(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := t.Context()
	creds := services.Credentials{Email: "admin@example.com", Password: "password123"}
	_, err := auth.Register(ctx, creds, false)
	require.NoError(t, err)
	_, pair, err := auth.Login(ctx, creds)
	require.NoError(t, err)

	const callers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, deny int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := auth.Refresh(ctx, pair.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, services.ErrUnauthorized) {
				deny++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, deny)
}

func TestConcurrentBootstrapRegistersOneOperator(t *testing.T) {
	auth, st := newAuth(t)
	ctx := t.Context()

	const callers = 6
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			creds := services.Credentials{Email: fmt.Sprintf("op%d@example.com", i), Password: "password123"}
			_, err := auth.Register(ctx, creds, false)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
				return
			}
			assert.ErrorIs(t, err, services.ErrUnauthorized)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	n, err := st.Users().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLogoutRevokesSession(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := t.Context()
	creds := services.Credentials{Email: "admin@example.com", Password: "password123"}
	_, err := auth.Register(ctx, creds, false)
	require.NoError(t, err)
	_, pair, err := auth.Login(ctx, creds)
	require.NoError(t, err)

	claims, err := auth.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, claims))

	_, err = auth.Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, err = auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	assert.ErrorIs(t, auth.Logout(ctx, nil), services.ErrUnauthorized)
}

func TestUserService(t *testing.T) {
	auth, st := newAuth(t)
	ctx := t.Context()
	user, err := auth.Register(ctx, services.Credentials{Email: "admin@example.com", Password: "password123"}, false)
	require.NoError(t, err)

	users := services.NewUserService(st.Users())
	got, err := users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)

	all, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].PasswordHash)
}
