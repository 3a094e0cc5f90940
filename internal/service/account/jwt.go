package account

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const issuer = "arayesh-shop"

// Claims is the payload of an access token. Subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

func signAccessToken(secret []byte, userID, email string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: email,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseAccessToken(secret []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("token not valid")
	}
	return claims, nil
}
