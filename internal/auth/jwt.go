package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	ViewerID string `json:"viewer_id"`
	Role     string `json:"role"` // always "viewer" for console tokens
	jwt.RegisteredClaims
}

// viewerTokenTTL is how long a console session token stays valid
const viewerTokenTTL = 24 * time.Hour

func jwtSecret() []byte {
	if secret := os.Getenv("SIGHTLINE_JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("sightline-dev-secret")
}

// GenerateViewerToken generates a JWT token for a console viewer
func GenerateViewerToken(viewerID string) (string, time.Time, error) {
	expiresAt := time.Now().Add(viewerTokenTTL)
	claims := &JWTClaims{
		ViewerID: viewerID,
		Role:     "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
