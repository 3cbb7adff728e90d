package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrMissingSecret = errors.New("JWT secret key is missing")

// Claims carries the staff identity and privileges checked by the API.
type Claims struct {
	IDStaff    int      `json:"id_staff"`
	Username   string   `json:"username"`
	Role       string   `json:"role"`
	Privileges []string `json:"privileges"`
	jwt.RegisteredClaims
}

// HasPrivilege reports whether the token grants priv.
func (c *Claims) HasPrivilege(priv string) bool {
	for _, p := range c.Privileges {
		if p == priv {
			return true
		}
	}
	return false
}

// GenerateJWTToken membuat token HS256 yang berlaku sampai exp.
func GenerateJWTToken(secret string, idStaff int, username, role string, privileges []string, exp time.Time) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}

	claims := Claims{
		IDStaff:    idStaff,
		Username:   username,
		Role:       role,
		Privileges: privileges,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWTToken memvalidasi token dan mengembalikan klaimnya.
func ValidateJWTToken(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
