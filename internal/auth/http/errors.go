package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/authservice/internal/auth/service"
	"github.com/aussiebroadwan/authservice/internal/auth/store"
	"github.com/aussiebroadwan/authservice/pkg/authsdk"
	"github.com/aussiebroadwan/authservice/pkg/slogx"
)

// writeServiceError maps an AuthService error onto its HTTP response.
// Anything unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		authsdk.ErrInvalidInput.WriteError(w)
	case errors.Is(err, store.ErrAlreadyExists):
		authsdk.ErrUserAlreadyExists.WriteError(w)
	case errors.Is(err, service.ErrIncorrectCredentials):
		authsdk.ErrIncorrectCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		authsdk.ErrInvalidToken.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed",
			"error", err,
			"kind", store.KindOf(err).String(),
		)
		authsdk.ErrServerError.WriteError(w)
	}
}
