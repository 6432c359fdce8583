package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"backend-template/internal/domain"
)

// Claims is the verified payload of a session token.
type Claims struct {
	UserID string      `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed token and its validity window.
type IssuedToken struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and validates HS256 signed session tokens. The secret
// is fixed at construction.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL is the lifetime applied to every issued token.
func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token carrying the user's identity and role.
func (t *TokenManager) Issue(user *domain.User) (IssuedToken, error) {
	if user == nil || user.ID == "" {
		return IssuedToken{}, errors.New("user identity is required")
	}

	now := t.now().Truncate(time.Second)
	expires := now.Add(t.ttl)
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{Token: signed, IssuedAt: now, ExpiresAt: expires}, nil
}

// Validate verifies the signature and validity window of raw. Every failure
// is reported as domain.ErrTokenInvalid.
func (t *TokenManager) Validate(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
