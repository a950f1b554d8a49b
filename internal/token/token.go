// Package token issues and verifies the signed identity tokens used
// for passwordless login. Expiry is the only lifecycle control; there
// is no revocation list.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fq962/atom-challenge-api/internal/config"
)

var (
	ErrExpired     = errors.New("token expired")
	ErrNotYetValid = errors.New("token not valid yet")
	ErrMalformed   = errors.New("token invalid")
)

// Identity is the authenticated caller carried by a verified token.
type Identity struct {
	UserID string
	Mail   string
}

type Claims struct {
	UserID string `json:"id_user"`
	Mail   string `json:"mail"`
	jwt.RegisteredClaims
}

type Service struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
}

func NewService(cfg config.AuthConfig) *Service {
	return &Service{
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.TokenTTL,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
}

// Issue produces a signed, URL-safe token for the identity, expiring
// after the configured TTL.
func (s *Service) Issue(identity Identity) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: identity.UserID,
		Mail:   identity.Mail,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature, expiry, not-before, issuer and audience
// of a token and returns the embedded identity.
func (s *Service) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Identity{}, ErrNotYetValid
		default:
			return Identity{}, ErrMalformed
		}
	}

	return Identity{UserID: claims.UserID, Mail: claims.Mail}, nil
}
