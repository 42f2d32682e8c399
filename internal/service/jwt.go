package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitJWT sets the signing secret. Must be called once at startup.
func InitJWT(secret string) {
	if secret == "" {
		panic("jwt secret is empty")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues an HS256 token carrying the user identity the rest
// of the system consumes: the integer ID and the registered flag.
func GenerateJWT(userID int64, registered bool) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"registered": registered,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
		"iat":        now,
		"nbf":        now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates a token and returns the user ID and registered flag.
func ParseJWT(tokenString string) (int64, bool, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, false, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false, errors.New("invalid claims")
	}

	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok && int64(exp) < now {
		return 0, false, errors.New("token expired")
	}
	if nbf, ok := claims["nbf"].(float64); ok && int64(nbf) > now {
		return 0, false, errors.New("token not valid yet")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false, errors.New("user_id not found")
	}
	registered, _ := claims["registered"].(bool)

	return int64(userID), registered, nil
}
