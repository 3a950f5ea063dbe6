package services

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/okhira/mijikai/models"
)

// TokenService verifies bearer tokens issued by the authoring side. The core
// only validates; issuance lives with the authoring service's user system.
type TokenService interface {
	ValidateToken(token string) (*TokenClaims, error)
}

// TokenClaims are the claims consumed by the redirect side: the subject is
// coerced to an integer owner ID, zero when non-coercible (rejected
// downstream).
type TokenClaims struct {
	Sub   any    `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID coerces the subject to an integer. Tokens carry it as a JSON number
// or a string depending on the issuer.
func (c *TokenClaims) UserID() int {
	switch v := c.Sub.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return id
	default:
		return 0
	}
}

// TokenServiceImpl implements TokenService with an HMAC secret
type TokenServiceImpl struct {
	secret []byte
	issuer string
}

// NewTokenService creates a token verifier for the configured HMAC secret
func NewTokenService(secret, issuer string) TokenService {
	return &TokenServiceImpl{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// ValidateToken verifies signature and expiry and extracts the claims. Any
// signing method other than HMAC is rejected outright.
func (s *TokenServiceImpl) ValidateToken(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.ErrInvalidSigningKey
		}
		return s.secret, nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.ErrInvalidSigningKey.Code {
			return nil, models.ErrInvalidSigningKey.Wrap(err)
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired.Wrap(err)
		}
		return nil, models.ErrInvalidToken.Wrap(err)
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, models.ErrInvalidToken
	}

	return claims, nil
}
