package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xthome/home-manager/internal/models"
)

const tokenTTL = 24 * time.Hour

// Claims carried by every access token. AdminScope is the admin identity
// the holder may act within: the inviting admin for viewers, the user's
// own id for admins.
type Claims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	AdminScope string `json:"admin_scope"`
	jwt.RegisteredClaims
}

// UserID is the token subject.
func (c *Claims) UserID() string {
	return c.Subject
}

// GenerateToken issues a signed, time-bound token for the user.
func GenerateToken(user *models.User, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:      user.Email,
		Role:       user.Role,
		AdminScope: user.EffectiveAdminScope(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the claims.
// Expired or badly-signed tokens fail closed.
func ParseToken(raw, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}
