package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerScheme = "bearer"

var (
	ErrMissingSessionSigningKey = errors.New("auth: session signing key required")
	ErrMissingSessionIssuer     = errors.New("auth: session issuer required")
	ErrMissingSessionCookieName = errors.New("auth: session cookie name required")
	ErrMissingSessionToken      = errors.New("auth: session token required")
	ErrInvalidSessionToken      = errors.New("auth: invalid session token")
	ErrExpiredSessionToken      = errors.New("auth: session token expired")
	ErrMissingSessionSubject    = errors.New("auth: session subject required")
)

// SessionClaims is the JWT payload carried by a shelves session.
type SessionClaims struct {
	UserID          string   `json:"user_id"`
	UserEmail       string   `json:"user_email"`
	UserDisplayName string   `json:"user_display_name"`
	UserAvatarURL   string   `json:"user_avatar_url"`
	UserRoles       []string `json:"user_roles"`
	jwt.RegisteredClaims
}

// check enforces the issuer and fills UserID from the subject when a token carries only one of them.
func (c *SessionClaims) check(issuer string) error {
	if c.Issuer != issuer {
		return fmt.Errorf("%w: issuer %q", ErrInvalidSessionToken, c.Issuer)
	}
	c.Subject = strings.TrimSpace(c.Subject)
	c.UserID = strings.TrimSpace(c.UserID)
	if c.Subject == "" {
		return ErrMissingSessionSubject
	}
	if c.UserID == "" {
		c.UserID = c.Subject
	}
	return nil
}

// SessionValidatorConfig describes how to validate session JWTs.
// Leeway tolerates clock skew on exp/nbf/iat.
type SessionValidatorConfig struct {
	SigningSecret []byte
	Issuer        string
	CookieName    string
	Leeway        time.Duration
	Clock         func() time.Time
}

// SessionValidator checks HS256 session tokens presented as a cookie or a bearer header.
type SessionValidator struct {
	parser     *jwt.Parser
	secret     []byte
	issuer     string
	cookieName string
}

// NewSessionValidator constructs a validator with the provided configuration.
func NewSessionValidator(cfg SessionValidatorConfig) (*SessionValidator, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, ErrMissingSessionSigningKey
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		return nil, ErrMissingSessionIssuer
	}
	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		return nil, ErrMissingSessionCookieName
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(clock),
		jwt.WithLeeway(cfg.Leeway),
	)
	return &SessionValidator{
		parser:     parser,
		secret:     append([]byte(nil), cfg.SigningSecret...),
		issuer:     issuer,
		cookieName: cookieName,
	}, nil
}

// CookieName returns the cookie name configured for session lookups.
func (v *SessionValidator) CookieName() string {
	return v.cookieName
}

// ValidateToken parses the JWT and returns its claims.
func (v *SessionValidator) ValidateToken(tokenString string) (SessionClaims, error) {
	raw := strings.TrimSpace(tokenString)
	if raw == "" {
		return SessionClaims{}, ErrMissingSessionToken
	}

	var claims SessionClaims
	token, err := v.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return SessionClaims{}, ErrExpiredSessionToken
	case err != nil:
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	case token == nil || !token.Valid:
		return SessionClaims{}, ErrInvalidSessionToken
	}
	if err := claims.check(v.issuer); err != nil {
		return SessionClaims{}, err
	}
	return claims, nil
}

// ValidateRequest validates the session cookie, or the Authorization bearer token when no cookie is set.
func (v *SessionValidator) ValidateRequest(r *http.Request) (SessionClaims, error) {
	token := v.tokenFromRequest(r)
	if token == "" {
		return SessionClaims{}, ErrMissingSessionToken
	}
	return v.ValidateToken(token)
}

func (v *SessionValidator) tokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if cookie, err := r.Cookie(v.cookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return cookie.Value
	}
	scheme, credentials, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(credentials)
}
