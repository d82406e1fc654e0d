package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/authservice/pkg/authsdk"
)

// CookieConfig controls the jwt cookie handed to browsers.
type CookieConfig struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

func (c CookieConfig) tokenCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     authsdk.JWTCookieName,
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   int(c.MaxAge / time.Second),
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c CookieConfig) clearedCookie() *http.Cookie {
	cookie := c.tokenCookie("")
	cookie.MaxAge = -1
	return cookie
}
