package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/middleware"
)

// Claims are the JWT claims issued by the user service. Profile fields
// (name, phone, email) are used only to prefill address forms.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// JWTValidator verifies access tokens signed by the user service.
type JWTValidator struct {
	secret []byte
}

// NewJWTValidator creates a validator for HS256 tokens with the shared secret.
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret)}
}

// Validate parses and verifies the token, returning the claims the
// middleware injects into the request context.
func (v *JWTValidator) Validate(token string) (*middleware.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token has no user_id claim")
	}

	return &middleware.Claims{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
		Phone:  claims.Phone,
	}, nil
}
