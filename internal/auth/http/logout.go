package http

import (
	"net/http"

	"github.com/aussiebroadwan/authservice/internal/auth/service"
	"github.com/aussiebroadwan/authservice/pkg/authsdk"
	"github.com/aussiebroadwan/authservice/pkg/httpx"
)

// LogoutHandler serves POST /logout. The token comes from the jwt cookie and
// the cookie is cleared on success.
type LogoutHandler struct {
	AuthService *service.AuthService
	Cookie      CookieConfig
}

// ServeHTTP godoc
//
//	@Summary		Log Out
//	@Description	Bans the token in the jwt cookie until it expires and clears the cookie.
//	@Tags			Auth
//	@Produce		json
//	@Param			jwt	cookie		string					true	"Session token"
//	@Success		200	{object}	authsdk.MessageResponse	"message"
//	@Failure		400	{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		401	{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		429	{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(authsdk.JWTCookieName)
	if err != nil || cookie.Value == "" {
		authsdk.ErrMissingToken.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(r.Context(), cookie.Value); err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, h.Cookie.clearedCookie())
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Logged out"})
}
