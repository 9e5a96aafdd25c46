package security

import (
	"errors"
	"time"

	"picklist/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken issues a bearer token for the user. The jti claim uniquely
// identifies the token so it can be blacklisted on logout.
func GenerateToken(userID, jti string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     jti,
		"exp":     time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// VerifyRawToken validates a token string (signature and expiry) and
// extracts the identity bound to it.
func VerifyRawToken(tokenString string) (userID, jti string, expiry time.Time, err error) {
	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	if err != nil {
		return "", "", time.Time{}, err
	}
	idClaim, ok := token.Get("user_id")
	if !ok {
		return "", "", time.Time{}, errors.New("user_id claim is missing")
	}
	userID, ok = idClaim.(string)
	if !ok {
		return "", "", time.Time{}, errors.New("user_id claim is not a string")
	}
	return userID, token.JwtID(), token.Expiration(), nil
}

// Helper functions to extract claims, can be used in middleware or services
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetJTIFromClaims(claims jwt.MapClaims) (string, error) {
	jti, ok := claims["jti"].(string)
	if !ok {
		return "", errors.New("jti claim is missing or not a string")
	}
	return jti, nil
}
