package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/models"
)

// Claims is the token payload: sub carries the email.
type Claims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type Identity struct {
	Email     string
	AccountID uint
	Role      models.Role
}

type TokenService struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *TokenService) DefaultTTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the account. A non-positive ttl falls back to the configured default.
func (s *TokenService) Issue(identity string, accountID uint, role models.Role, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID: accountID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// KeyFunc rejects tokens signed with any algorithm other than the configured one.
func (s *TokenService) KeyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != s.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
	}
	return s.secret, nil
}

func (s *TokenService) Verify(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.KeyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperror.Unauthenticated("token has expired")
		}
		return Identity{}, apperror.Unauthenticated("could not validate credentials")
	}
	if !parsed.Valid {
		return Identity{}, apperror.Unauthenticated("could not validate credentials")
	}
	return IdentityFromClaims(claims)
}

// IdentityFromToken extracts the identity from a token already validated by the jwt middleware.
func IdentityFromToken(t *jwt.Token) (Identity, error) {
	if t == nil || !t.Valid {
		return Identity{}, apperror.Unauthenticated("could not validate credentials")
	}
	claims, ok := t.Claims.(*Claims)
	if !ok {
		return Identity{}, apperror.Unauthenticated("could not validate credentials")
	}
	return IdentityFromClaims(claims)
}

func IdentityFromClaims(c *Claims) (Identity, error) {
	if c.Subject == "" || c.UserID == 0 || !c.Role.Valid() {
		return Identity{}, apperror.Unauthenticated("could not validate credentials")
	}
	return Identity{Email: c.Subject, AccountID: c.UserID, Role: c.Role}, nil
}
