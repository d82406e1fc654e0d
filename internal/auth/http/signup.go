package http

import (
	"net/http"

	"github.com/aussiebroadwan/authservice/internal/auth/service"
	"github.com/aussiebroadwan/authservice/pkg/authsdk"
	"github.com/aussiebroadwan/authservice/pkg/httpx"
)

// SignupHandler serves POST /signup.
type SignupHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Sign Up
//	@Description	Registers a new user. Email is the unique identity key; passwords must be at least 8 characters.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignupRequest	true	"email, password, requires2FA"
//	@Success		201		{object}	authsdk.MessageResponse	"message"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		422		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		429		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrMalformedBody.WriteError(w)
		return
	}

	if err := h.AuthService.Signup(r.Context(), req.Email, req.Password, req.Requires2FA); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.MessageResponse{Message: "User created successfully!"})
}
