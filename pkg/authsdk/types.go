package authsdk

// JWTCookieName is the cookie the session token travels in.
const JWTCookieName = "jwt"

// ============================================================================
// Account Types
// ============================================================================

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Requires2FA bool   `json:"requires2FA"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TwoFactorAuthResponse is returned with 206 Partial Content when the user
// must finish logging in with an emailed code.
type TwoFactorAuthResponse struct {
	Message        string `json:"message"`
	LoginAttemptID string `json:"loginAttemptId"`
}

// Verify2FARequest is the body of POST /verify-2fa.
type Verify2FARequest struct {
	Email          string `json:"email"`
	LoginAttemptID string `json:"loginAttemptId"`
	TwoFACode      string `json:"2FACode"`
}

// ============================================================================
// Token Types
// ============================================================================

// VerifyTokenRequest is the body of POST /verify-token.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyTokenResponse describes a valid session token.
type VerifyTokenResponse struct {
	// Email of the user the token was issued to.
	Email string `json:"email"`

	// ExpiresAt is the token expiry as Unix seconds.
	ExpiresAt int64 `json:"expiresAt"`

	// AMR lists how the user authenticated, e.g. ["pwd","otp","mfa"].
	AMR []string `json:"amr,omitempty"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the user store connection status
	Database string `json:"database"`

	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`
}
