package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"spirit-hunts/internal/config"
	"spirit-hunts/internal/logger"
)

// Authenticator checks the admin credentials and manages their sessions.
type Authenticator struct {
	adminEmail   string
	passwordHash string
	ttl          time.Duration
	tokens       *TokenIssuer
	sessions     SessionStore
	logger       *logger.Logger
}

func NewAuthenticator(cfg config.AuthConfig, sessions SessionStore, log *logger.Logger) *Authenticator {
	if log == nil {
		log = logger.Discard()
	}
	return &Authenticator{
		adminEmail:   cfg.AdminEmail,
		passwordHash: cfg.AdminPasswordHash,
		ttl:          cfg.SessionTTL,
		tokens:       NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		sessions:     sessions,
		logger:       log,
	}
}

// Session is what a successful login returns to the client.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether identity is the configured admin email.
func (a *Authenticator) IsAdmin(identity string) bool {
	return subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(strings.TrimSpace(identity))),
		[]byte(strings.ToLower(a.adminEmail)),
	) == 1
}

func (a *Authenticator) Login(ctx context.Context, email, password string) (*Session, error) {
	emailOK := a.IsAdmin(email)
	passwordOK := CheckPassword(a.passwordHash, password)
	if !emailOK || !passwordOK {
		a.logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("Rejected admin login for %q", email))
		return nil, ErrInvalidCredentials
	}

	token, claims, err := a.tokens.Issue(a.adminEmail)
	if err != nil {
		return nil, err
	}
	if err := a.sessions.Save(ctx, claims.ID, a.adminEmail, a.ttl); err != nil {
		a.logger.Error("AUTH", fmt.Sprintf("Failed to persist session: %v", err))
		return nil, err
	}

	a.logger.LogSecurity("LOGIN", fmt.Sprintf("Admin %s signed in", a.adminEmail))
	return &Session{Token: token, Email: a.adminEmail, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify returns the admin email for a token whose session is still live.
func (a *Authenticator) Verify(ctx context.Context, raw string) (string, error) {
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return "", err
	}
	active, err := a.sessions.Active(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if !active {
		return "", ErrSessionRevoked
	}
	return claims.Email, nil
}

// Logout revokes the session behind raw. An already revoked session is
// not an error.
func (a *Authenticator) Logout(ctx context.Context, raw string) error {
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return err
	}
	if err := a.sessions.Revoke(ctx, claims.ID); err != nil {
		return err
	}
	a.logger.LogSecurity("LOGOUT", fmt.Sprintf("Admin %s signed out", claims.Email))
	return nil
}
