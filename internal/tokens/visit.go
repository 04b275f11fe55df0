package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const VisitCookie = "visit"

// VisitClaims identify a browser visit. Subject carries the visit id.
type VisitClaims struct {
	jwt.RegisteredClaims
}

func (c *VisitClaims) VisitID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

func SignVisit(id uuid.UUID, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := VisitClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign visit token: %w", err)
	}
	return s, exp, nil
}

func VisitClaimsFromToken(tokenStr string, secret []byte) (*VisitClaims, error) {
	var claims VisitClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid visit token")
	}
	return &claims, nil
}
