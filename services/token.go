package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/models"
)

// TokenTTL is the session token lifetime.
const TokenTTL = 30 * 24 * time.Hour

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens with a shared HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

// Issue returns a signed session token for the user.
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := SessionClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses a session token and returns the user id it asserts.
func (t *TokenIssuer) Verify(tokenString string) (uuid.UUID, string, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", errs.NewExpiredTokenError()
		}
		return uuid.Nil, "", errs.NewInvalidTokenError(err)
	}
	if !token.Valid {
		return uuid.Nil, "", errs.NewInvalidTokenError(nil)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, "", errs.NewInvalidTokenError(err)
	}
	return userID, claims.Username, nil
}
