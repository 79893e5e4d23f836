package storage

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// URLSigner issues and validates the time-limited tokens embedded in signed
// object URLs.
type URLSigner struct {
	key []byte
}

type urlClaims struct {
	Path string `json:"path"`
	jwt.RegisteredClaims
}

func NewURLSigner(key string) *URLSigner {
	return &URLSigner{key: []byte(key)}
}

func (s *URLSigner) Sign(objectPath string, ttl time.Duration) (string, error) {
	claims := urlClaims{
		Path: objectPath,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// Verify checks the token signature and expiry and that it was issued for
// objectPath.
func (s *URLSigner) Verify(tokenString, objectPath string) error {
	token, err := jwt.ParseWithClaims(tokenString, &urlClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil {
		return err
	}
	claims, ok := token.Claims.(*urlClaims)
	if !ok || !token.Valid {
		return errors.New("invalid token")
	}
	if claims.Path != objectPath {
		return errors.New("token issued for a different object")
	}
	return nil
}
