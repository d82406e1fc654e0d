package http

import (
	"net/http"

	"github.com/aussiebroadwan/authservice/internal/auth/service"
	"github.com/aussiebroadwan/authservice/pkg/authsdk"
	"github.com/aussiebroadwan/authservice/pkg/httpx"
)

// VerifyTokenHandler serves POST /verify-token for other services checking a
// session token.
type VerifyTokenHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Verify Token
//	@Description	Reports whether a session token is valid and not logged out, and who it belongs to.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyTokenRequest	true	"token"
//	@Success		200		{object}	authsdk.VerifyTokenResponse	"email, expiresAt, amr"
//	@Failure		401		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		422		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		429		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse			"error, error_description"
//	@Router			/verify-token [post].
func (h *VerifyTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyTokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrMalformedBody.WriteError(w)
		return
	}

	claims, err := h.AuthService.VerifyToken(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyTokenResponse{
		Email:     claims.Subject,
		ExpiresAt: claims.ExpiresAtTime().Unix(),
		AMR:       claims.AMR,
	})
}
