package http

import (
	"net/http"

	"github.com/aussiebroadwan/authservice/internal/auth/service"
	"github.com/aussiebroadwan/authservice/pkg/authsdk"
	"github.com/aussiebroadwan/authservice/pkg/httpx"
)

// LoginHandler serves POST /login. On success the token is set as the jwt
// cookie; users with 2FA get 206 and a login attempt id instead.
type LoginHandler struct {
	AuthService *service.AuthService
	Cookie      CookieConfig
}

// ServeHTTP godoc
//
//	@Summary		Log In
//	@Description	Checks email and password. Without 2FA the session token is set as the jwt cookie.
//	@Description	Users with 2FA get 206 with a loginAttemptId and a code is emailed to them.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest			true	"email, password"
//	@Success		200		{object}	authsdk.MessageResponse			"message"
//	@Success		206		{object}	authsdk.TwoFactorAuthResponse	"message, loginAttemptId"
//	@Failure		400		{object}	httpx.ErrorResponse				"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse				"error, error_description"
//	@Failure		422		{object}	httpx.ErrorResponse				"error, error_description"
//	@Failure		429		{object}	httpx.ErrorResponse				"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse				"error, error_description"
//	@Header			200		{string}	Set-Cookie						"jwt=<token>; Path=/; HttpOnly; SameSite=Lax"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrMalformedBody.WriteError(w)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if res.Challenge != nil {
		httpx.WriteJSON(w, http.StatusPartialContent, authsdk.TwoFactorAuthResponse{
			Message:        "2FA required",
			LoginAttemptID: res.Challenge.LoginAttemptID,
		})
		return
	}

	http.SetCookie(w, h.Cookie.tokenCookie(res.Token))
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Logged in"})
}
