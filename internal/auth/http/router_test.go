package http_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	authhttp "github.com/aussiebroadwan/authservice/internal/auth/http"
	"github.com/aussiebroadwan/authservice/internal/auth/service"
	"github.com/aussiebroadwan/authservice/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/authservice/pkg/authsdk"
	"github.com/aussiebroadwan/authservice/pkg/httpx"
	"github.com/aussiebroadwan/authservice/pkg/jwtx"
	"github.com/aussiebroadwan/authservice/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "router-test"

type codeInbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *codeInbox) SendEmail(_ context.Context, recipient, _, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[recipient] = content
	return nil
}

func (c *codeInbox) code(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[email]
}

type testServer struct {
	*httptest.Server
	client *authsdk.Client
	inbox  *codeInbox
	store  *memory.Store
}

func newTestServer(t *testing.T, assetsDir string) *testServer {
	t.Helper()

	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", key)
	require.NoError(t, err)

	st := memory.NewStore()
	inbox := &codeInbox{codes: map[string]string{}}

	router := authhttp.NewRouter(signer, "test", st, slogx.Discard())
	router.AuthService = &service.AuthService{
		Users:        st.Users(),
		TwoFACodes:   st.TwoFACodes(),
		BannedTokens: st.BannedTokens(),
		Signer:       signer,
		Verifier:     jwtx.NewVerifierEdDSA("test", signer.PublicKey(), jwtx.VerifyOptions{Issuer: testIssuer}),
		Credentials:  service.PlainCredentials{},
		Email:        inbox,
		Issuer:       testIssuer,
	}
	router.Cookie = authhttp.CookieConfig{MaxAge: jwtx.DefaultTokenTTL}
	generous := httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
	router.RateLimits = authhttp.RateLimits{Strict: generous, Moderate: generous, Lenient: generous}
	router.AssetsDir = assetsDir
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, client: authsdk.NewClient(srv.URL), inbox: inbox, store: st}
}

func (s *testServer) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(s.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func requireAPIError(t *testing.T, err error, want *authsdk.APIError) {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %v", err)
	require.Equal(t, want.StatusCode, apiErr.StatusCode)
	require.Equal(t, want.Code, apiErr.Code)
}

func TestSignupRoute(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, "")
	ctx := context.Background()

	require.NoError(t, srv.client.Signup(ctx, authsdk.SignupRequest{Email: "a@b.com", Password: "password123"}))

	err := srv.client.Signup(ctx, authsdk.SignupRequest{Email: "a@b.com", Password: "password123"})
	requireAPIError(t, err, authsdk.ErrUserAlreadyExists)

	err = srv.client.Signup(ctx, authsdk.SignupRequest{Email: "nope", Password: "password123"})
	requireAPIError(t, err, authsdk.ErrInvalidInput)

	err = srv.client.Signup(ctx, authsdk.SignupRequest{Email: "c@d.com", Password: "short"})
	requireAPIError(t, err, authsdk.ErrInvalidInput)

	t.Run("malformed bodies are 422", func(t *testing.T) {
		for _, body := range []string{`{`, `{"email":1}`, `[]`, `{"email":"a@b.com","extra":true}`} {
			resp := srv.post(t, "/signup", body)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
		}
	})
}

func TestLoginRoute(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, "")
	ctx := context.Background()
	require.NoError(t, srv.client.Signup(ctx, authsdk.SignupRequest{Email: "a@b.com", Password: "password123"}))

	t.Run("sets the jwt cookie", func(t *testing.T) {
		resp := srv.post(t, "/login", `{"email":"a@b.com","password":"password123"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var jwtCookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == authsdk.JWTCookieName {
				jwtCookie = c
			}
		}
		require.NotNil(t, jwtCookie)
		require.NotEmpty(t, jwtCookie.Value)
		require.True(t, jwtCookie.HttpOnly)
		require.Equal(t, "/", jwtCookie.Path)
		require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, err := srv.client.Login(ctx, authsdk.LoginRequest{Email: "a@b.com", Password: "password124"})
		requireAPIError(t, err, authsdk.ErrIncorrectCredentials)

		_, err = srv.client.Login(ctx, authsdk.LoginRequest{Email: "x@b.com", Password: "password123"})
		requireAPIError(t, err, authsdk.ErrIncorrectCredentials)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := srv.client.Login(ctx, authsdk.LoginRequest{Email: "", Password: "password123"})
		requireAPIError(t, err, authsdk.ErrInvalidInput)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := srv.post(t, "/login", `not json`)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestTwoFactorRoutes(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, "")
	ctx := context.Background()
	require.NoError(t, srv.client.Signup(ctx, authsdk.SignupRequest{Email: "a@b.com", Password: "password123", Requires2FA: true}))

	res, err := srv.client.Login(ctx, authsdk.LoginRequest{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)
	require.Empty(t, res.Token)
	require.NotNil(t, res.TwoFactor)
	require.Equal(t, "2FA required", res.TwoFactor.Message)
	require.NotEmpty(t, res.TwoFactor.LoginAttemptID)

	code := srv.inbox.code("a@b.com")
	require.Len(t, code, 6)

	t.Run("bad code", func(t *testing.T) {
		bad := "000000"
		if code == bad {
			bad = "111111"
		}
		_, err := srv.client.Verify2FA(ctx, authsdk.Verify2FARequest{
			Email: "a@b.com", LoginAttemptID: res.TwoFactor.LoginAttemptID, TwoFACode: bad,
		})
		requireAPIError(t, err, authsdk.ErrIncorrectCredentials)
	})

	t.Run("malformed code", func(t *testing.T) {
		_, err := srv.client.Verify2FA(ctx, authsdk.Verify2FARequest{
			Email: "a@b.com", LoginAttemptID: res.TwoFactor.LoginAttemptID, TwoFACode: "12ab",
		})
		requireAPIError(t, err, authsdk.ErrInvalidInput)
	})

	t.Run("field names on the wire", func(t *testing.T) {
		resp := srv.post(t, "/verify-2fa", `{"email":"a@b.com","loginAttemptId":"x","2FACode":"123456"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "known fields decode, bad id is 400 not 422")
	})

	token, err := srv.client.Verify2FA(ctx, authsdk.Verify2FARequest{
		Email: "a@b.com", LoginAttemptID: res.TwoFactor.LoginAttemptID, TwoFACode: code,
	})
	require.NoError(t, err)

	verified, err := srv.client.VerifyToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", verified.Email)
	require.ElementsMatch(t, []string{"pwd", "otp", "mfa"}, verified.AMR)
}

func TestLogoutAndVerifyTokenRoutes(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, "")
	ctx := context.Background()
	require.NoError(t, srv.client.Signup(ctx, authsdk.SignupRequest{Email: "a@b.com", Password: "password123"}))

	res, err := srv.client.Login(ctx, authsdk.LoginRequest{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	verified, err := srv.client.VerifyToken(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", verified.Email)
	require.Greater(t, verified.ExpiresAt, time.Now().Unix())

	t.Run("missing cookie", func(t *testing.T) {
		requireAPIError(t, srv.client.Logout(ctx, ""), authsdk.ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		requireAPIError(t, srv.client.Logout(ctx, "a.b.c"), authsdk.ErrInvalidToken)
	})

	require.NoError(t, srv.client.Logout(ctx, res.Token))

	_, err = srv.client.VerifyToken(ctx, res.Token)
	requireAPIError(t, err, authsdk.ErrInvalidToken)
	requireAPIError(t, srv.client.Logout(ctx, res.Token), authsdk.ErrInvalidToken)

	t.Run("verify-token malformed body", func(t *testing.T) {
		resp := srv.post(t, "/verify-token", `{"token":`)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestHealthRoutes(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, "")
	ctx := context.Background()

	live, err := srv.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := srv.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Signer)
}

func TestAssetsFallback(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	srv := newTestServer(t, dir)

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(b)
	}

	code, body := get("/app.js")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "console.log(1)", body)

	code, body = get("/some/client/route")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "<html>app</html>", body)

	code, body = get("/")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "app")
}

func TestSwaggerRoutes(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Equal(t, "2.0", doc.Swagger)

	for path, method := range map[string]string{
		"/signup":       "post",
		"/login":        "post",
		"/verify-2fa":   "post",
		"/logout":       "post",
		"/verify-token": "post",
		"/livez":        "get",
		"/readyz":       "get",
	} {
		require.Contains(t, doc.Paths, path)
		require.Contains(t, doc.Paths[path], method, "%s should document %s", path, method)
	}

	ui, err := http.Get(srv.URL + "/swagger/index.html")
	require.NoError(t, err)
	defer ui.Body.Close()
	require.Equal(t, http.StatusOK, ui.StatusCode)
}
