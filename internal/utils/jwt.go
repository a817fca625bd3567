package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the payload carried by an access token: the member identity
// plus the role used for authorization.
type AccessClaims struct {
	IDMembro uint64 `json:"id_membro"`
	Email    string `json:"email"`
	Tipo     string `json:"tipo"`
	jwt.RegisteredClaims
}

var ErrTokenInvalido = errors.New("token inválido ou expirado")

// GenerateAccessToken signs an HS256 access token for the member.
func GenerateAccessToken(secret string, idMembro uint64, email, tipo string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		IDMembro: idMembro,
		Email:    email,
		Tipo:     tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken validates the signature and expiry and returns the claims.
func ParseAccessToken(secret, tokenStr string) (*AccessClaims, error) {
	claims := new(AccessClaims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalido
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalido
	}
	return claims, nil
}
