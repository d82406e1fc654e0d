package authsdk

import (
	"context"
	"errors"
	"net/http"
)

// ErrNoTokenCookie means the service reported success but set no jwt cookie.
var ErrNoTokenCookie = errors.New("authsdk: response carried no jwt cookie")

// LoginResult holds either a session token or a pending 2FA challenge.
type LoginResult struct {
	Token     string
	TwoFactor *TwoFactorAuthResponse
}

// Signup registers a new user.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	resp, err := c.postJSON(ctx, "/signup", req)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusCreated)
}

// Login authenticates with email and password. Users with 2FA enabled get a
// challenge back which is completed with Verify2FA.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	resp, err := c.postJSON(ctx, "/login", req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusPartialContent {
		var challenge TwoFactorAuthResponse
		if err := decodeJSON(resp, &challenge, http.StatusPartialContent); err != nil {
			return nil, err
		}
		return &LoginResult{TwoFactor: &challenge}, nil
	}

	token := tokenCookie(resp)
	if err := decodeJSON(resp, nil, http.StatusOK); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNoTokenCookie
	}
	return &LoginResult{Token: token}, nil
}

// Verify2FA completes a login with the emailed code and returns the token.
func (c *Client) Verify2FA(ctx context.Context, req Verify2FARequest) (string, error) {
	resp, err := c.postJSON(ctx, "/verify-2fa", req)
	if err != nil {
		return "", err
	}

	token := tokenCookie(resp)
	if err := decodeJSON(resp, nil, http.StatusOK); err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoTokenCookie
	}
	return token, nil
}

// Logout invalidates token on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	var cookies []*http.Cookie
	if token != "" {
		cookies = append(cookies, &http.Cookie{Name: JWTCookieName, Value: token})
	}

	resp, err := c.postJSON(ctx, "/logout", nil, cookies...)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// VerifyToken asks the service whether token is currently valid.
func (c *Client) VerifyToken(ctx context.Context, token string) (*VerifyTokenResponse, error) {
	resp, err := c.postJSON(ctx, "/verify-token", VerifyTokenRequest{Token: token})
	if err != nil {
		return nil, err
	}

	var out VerifyTokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
