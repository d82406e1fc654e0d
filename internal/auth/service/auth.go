package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/authservice/internal/auth/domain"
	"github.com/aussiebroadwan/authservice/internal/auth/store"
	"github.com/aussiebroadwan/authservice/pkg/cryptox"
	"github.com/aussiebroadwan/authservice/pkg/idx"
	"github.com/aussiebroadwan/authservice/pkg/jwtx"
	"github.com/aussiebroadwan/authservice/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// DefaultCodeTTL is how long an emailed 2FA code stays usable.
const DefaultCodeTTL = 5 * time.Minute

var (
	ErrInvalidInput         = errors.New("invalid_input")
	ErrIncorrectCredentials = errors.New("incorrect_credentials")
	ErrInvalidToken         = errors.New("invalid_token")
)

// TokenVerifier checks a session token's signature and registered claims.
type TokenVerifier interface {
	Verify(token string) (jwtx.Claims, error)
}

// LoginResult is the outcome of a successful password check. Exactly one of
// Token or Challenge is set.
type LoginResult struct {
	Token     string
	Challenge *TwoFactorChallenge
}

// TwoFactorChallenge tells the caller a code was emailed and must be sent
// back together with LoginAttemptID.
type TwoFactorChallenge struct {
	LoginAttemptID string
}

// AuthService drives signup, login, the 2FA round trip and session tokens.
// Users must be safe for concurrent use, normally a store.SharedUsers.
type AuthService struct {
	Users        store.Users
	TwoFACodes   store.TwoFACodes
	BannedTokens store.BannedTokens

	Signer      jwtx.Signer
	Verifier    TokenVerifier
	Credentials CredentialScheme
	Email       EmailClient

	Issuer   string
	TokenTTL time.Duration
	CodeTTL  time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Signup registers a new user. store.ErrAlreadyExists is returned as-is.
func (s *AuthService) Signup(ctx context.Context, rawEmail, rawPassword string, requires2FA bool) error {
	email, password, err := parseCredentials(rawEmail, rawPassword)
	if err != nil {
		return err
	}

	u := domain.User{
		Email:       email,
		Password:    s.Credentials.Derive(email, password),
		Requires2FA: requires2FA,
	}
	if err := s.Users.AddUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("add user: %w", err)
	}

	slogx.FromContext(ctx).Info("user signed up",
		slog.String("email", email),
		slog.Bool("requires_2fa", requires2FA),
	)
	return nil
}

// Login checks the password. Unknown users and wrong passwords both come back
// as ErrIncorrectCredentials so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, rawEmail, rawPassword string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	email, password, err := parseCredentials(rawEmail, rawPassword)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Users.ValidateUser(ctx, email, s.Credentials.Derive(email, password)); err != nil {
		switch store.KindOf(err) {
		case store.KindNotFound, store.KindInvalidCredentials:
			l.Info("login rejected", slog.String("email", email), slog.String("reason", store.KindOf(err).String()))
			return LoginResult{}, ErrIncorrectCredentials
		default:
			return LoginResult{}, fmt.Errorf("validate user: %w", err)
		}
	}

	u, err := s.Users.GetUser(ctx, email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("get user: %w", err)
	}

	if !u.Requires2FA {
		token, err := s.issueToken(u.Email, []string{jwtx.AMRPassword})
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Token: token}, nil
	}

	challenge, err := s.startTwoFactor(ctx, u.Email)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Challenge: challenge}, nil
}

// startTwoFactor replaces any pending attempt for email and mails a fresh
// code for it.
func (s *AuthService) startTwoFactor(ctx context.Context, email string) (*TwoFactorChallenge, error) {
	now := s.now()

	issuer := s.Issuer
	if issuer == "" {
		issuer = "authservice"
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: email,
		Period:      s.codePeriod(),
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("generate 2fa secret: %w", err)
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), now, s.totpOpts())
	if err != nil {
		return nil, fmt.Errorf("generate 2fa code: %w", err)
	}

	attempt := domain.LoginAttempt{
		ID:        idx.NewAt(now).String(),
		Email:     email,
		Secret:    key.Secret(),
		CreatedAt: now,
	}
	if err := s.TwoFACodes.AddCode(ctx, attempt); err != nil {
		return nil, fmt.Errorf("store 2fa attempt: %w", err)
	}

	if err := s.Email.SendEmail(ctx, email, "2FA Code", code); err != nil {
		_ = s.TwoFACodes.RemoveCode(ctx, email, attempt.ID)
		return nil, fmt.Errorf("send 2fa code: %w", err)
	}

	slogx.FromContext(ctx).Info("2fa challenge issued",
		slog.String("email", email),
		slog.String("login_attempt_id", attempt.ID),
	)
	return &TwoFactorChallenge{LoginAttemptID: attempt.ID}, nil
}

// Verify2FA completes a login started by Login. A pending attempt is single
// use: it is removed once the right code arrives, and dropped when it expires.
func (s *AuthService) Verify2FA(ctx context.Context, rawEmail, loginAttemptID, code string) (string, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	attemptID, err := idx.Parse(loginAttemptID)
	if err != nil {
		return "", fmt.Errorf("%w: login attempt id: %w", ErrInvalidInput, err)
	}
	if !isSixDigits(code) {
		return "", fmt.Errorf("%w: 2fa code must be 6 digits", ErrInvalidInput)
	}

	attempt, err := s.TwoFACodes.GetCode(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrIncorrectCredentials
		}
		return "", fmt.Errorf("get 2fa attempt: %w", err)
	}

	if attempt.ID != attemptID.String() {
		l.Info("2fa rejected", slog.String("email", email), slog.String("reason", "attempt_mismatch"))
		return "", ErrIncorrectCredentials
	}

	if attempt.Expired(now, s.codeTTL()) {
		_ = s.TwoFACodes.RemoveCode(ctx, email, attempt.ID)
		l.Info("2fa rejected", slog.String("email", email), slog.String("reason", "expired"))
		return "", ErrIncorrectCredentials
	}

	valid, err := totp.ValidateCustom(code, attempt.Secret, now, s.totpOpts())
	if err != nil || !valid {
		l.Info("2fa rejected", slog.String("email", email), slog.String("reason", "bad_code"))
		return "", ErrIncorrectCredentials
	}

	// Losing this race to a concurrent verify means the code was already used;
	// to a concurrent login, that the attempt was replaced.
	if err := s.TwoFACodes.RemoveCode(ctx, email, attempt.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrIncorrectCredentials
		}
		return "", fmt.Errorf("remove 2fa attempt: %w", err)
	}

	return s.issueToken(email, []string{jwtx.AMRPassword, jwtx.AMROTP, jwtx.AMRMFA})
}

// Logout bans token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.VerifyToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.BannedTokens.BanToken(ctx, cryptox.FingerprintToken(token), claims.ExpiresAtTime()); err != nil {
		return fmt.Errorf("ban token: %w", err)
	}

	slogx.FromContext(ctx).Info("user logged out", slog.String("email", claims.Subject))
	return nil
}

// VerifyToken returns the claims of a valid, unbanned session token.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (jwtx.Claims, error) {
	if token == "" {
		return jwtx.Claims{}, ErrInvalidToken
	}

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		slogx.FromContext(ctx).Debug("token rejected", slog.Any("error", err))
		return jwtx.Claims{}, ErrInvalidToken
	}

	banned, err := s.BannedTokens.IsBanned(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("check banned tokens: %w", err)
	}
	if banned {
		return jwtx.Claims{}, ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) issueToken(email string, amr []string) (string, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}

	token, err := s.Signer.Sign(jwtx.NewClaims(email, amr, ttl, s.Issuer, s.now().UTC()))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) codeTTL() time.Duration {
	if s.CodeTTL <= 0 {
		return DefaultCodeTTL
	}
	return s.CodeTTL
}

// codePeriod matches the TOTP step to the code lifetime so a code generated
// at login stays valid for the whole TTL (with one step of skew).
func (s *AuthService) codePeriod() uint {
	return uint(s.codeTTL() / time.Second)
}

func (s *AuthService) totpOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    s.codePeriod(),
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func parseCredentials(rawEmail, rawPassword string) (string, string, error) {
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	password, err := domain.ParsePassword(rawPassword)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return email, password, nil
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
