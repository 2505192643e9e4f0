// Package token issues and verifies the signed session tokens handed out at
// login. Tokens are stateless: there is no revocation list, so a token stays
// valid for its whole lifetime even if the user's password or role changes.
package token

import (
	"errors"
	"time"

	"moneytracker/models"
	"moneytracker/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an access token.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrExpiredToken   = apperr.New(apperr.Unauthenticated, "token has expired")
	ErrMalformedToken = apperr.New(apperr.Unauthenticated, "could not validate credentials")
	ErrMissingSubject = apperr.New(apperr.Unauthenticated, "invalid authentication credentials")
)

// Claims is the payload embedded in every token.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service signs with a single HMAC secret using HS256.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(secret []byte, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{secret: secret, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Issue signs a token for the given identity expiring TTL from now.
func (s *Service) Issue(subjectID, username string, role models.Role) (string, error) {
	now := s.now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, algorithm and expiry and returns the claims.
// An expired token reports ErrExpiredToken even when its signature is bad too.
func (s *Service) Verify(raw string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || s.expiredUnverified(raw) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, apperr.Wrap(apperr.Unauthenticated, ErrMalformedToken.Message, err)
	}
	if !tok.Valid {
		return Claims{}, ErrMalformedToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrMissingSubject
	}
	return claims, nil
}

func (s *Service) expiredUnverified(raw string) bool {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && s.now().After(claims.ExpiresAt.Time)
}
