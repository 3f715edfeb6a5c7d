// Package middleware holds the gin middleware chain of the rental service.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rent-wheels/service-rental/internal/api"
	"github.com/rent-wheels/service-rental/internal/domain"
)

const identityKey = "identity"

// Claims is the JWT payload issued by the identity provider.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates bearer tokens and mints them for tests and tools.
type TokenVerifier struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenVerifier creates a TokenVerifier for an HMAC shared secret.
func NewTokenVerifier(secret string, ttl time.Duration) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), ttl: ttl}
}

// Verify parses and validates a token string, returning the caller identity.
func (v *TokenVerifier) Verify(tokenString string) (domain.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid || claims.Email == "" {
		return domain.Identity{}, domain.NewUnauthenticatedError("invalid or expired token")
	}
	return domain.Identity{Email: claims.Email, Name: claims.Name}, nil
}

// Mint signs a token for the given identity.
func (v *TokenVerifier) Mint(ident domain.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: ident.Email,
		Name:  ident.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Auth rejects requests without a valid bearer token and stores the caller
// identity on the context.
func Auth(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
				Message: "you're not logged in",
				Code:    string(domain.CodeUnauthenticated),
			})
			return
		}
		ident, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
				Message: "you're not logged in",
				Code:    string(domain.CodeUnauthenticated),
			})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// GetIdentity returns the authenticated caller stored by Auth.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	ident, ok := val.(domain.Identity)
	return ident, ok
}
