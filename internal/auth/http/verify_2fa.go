package http

import (
	"net/http"

	"github.com/aussiebroadwan/authservice/internal/auth/service"
	"github.com/aussiebroadwan/authservice/pkg/authsdk"
	"github.com/aussiebroadwan/authservice/pkg/httpx"
)

// Verify2FAHandler serves POST /verify-2fa.
type Verify2FAHandler struct {
	AuthService *service.AuthService
	Cookie      CookieConfig
}

// ServeHTTP godoc
//
//	@Summary		Verify 2FA Code
//	@Description	Completes a 2FA login with the emailed 6 digit code. The attempt is single use.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.Verify2FARequest	true	"email, loginAttemptId, 2FACode"
//	@Success		200		{object}	authsdk.MessageResponse		"message"
//	@Failure		400		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		422		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		429		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse			"error, error_description"
//	@Header			200		{string}	Set-Cookie					"jwt=<token>; Path=/; HttpOnly; SameSite=Lax"
//	@Router			/verify-2fa [post].
func (h *Verify2FAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.Verify2FARequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrMalformedBody.WriteError(w)
		return
	}

	token, err := h.AuthService.Verify2FA(r.Context(), req.Email, req.LoginAttemptID, req.TwoFACode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, h.Cookie.tokenCookie(token))
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Logged in"})
}
