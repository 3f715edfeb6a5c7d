package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rent-wheels/service-rental/internal/domain"
)

func authRouter(verifier *TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(verifier), func(c *gin.Context) {
		ident, _ := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"email": ident.Email})
	})
	return r
}

func TestVerify_RoundTrip(t *testing.T) {
	v := NewTokenVerifier("secret", 15*time.Minute)

	tok, err := v.Mint(domain.Identity{Email: "renter@test.dev", Name: "Renter"})
	require.NoError(t, err)

	ident, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "renter@test.dev", ident.Email)
	assert.Equal(t, "Renter", ident.Name)
}

func TestVerify_Rejections(t *testing.T) {
	v := NewTokenVerifier("secret", 15*time.Minute)

	_, err := v.Verify("garbage")
	assert.True(t, domain.IsCode(err, domain.CodeUnauthenticated))

	// Wrong secret.
	other := NewTokenVerifier("different-secret", 15*time.Minute)
	tok, err := other.Mint(domain.Identity{Email: "renter@test.dev"})
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.True(t, domain.IsCode(err, domain.CodeUnauthenticated))

	// Expired.
	expired := NewTokenVerifier("secret", -time.Minute)
	tok, err = expired.Mint(domain.Identity{Email: "renter@test.dev"})
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.True(t, domain.IsCode(err, domain.CodeUnauthenticated))

	// No email claim.
	tok, err = v.Mint(domain.Identity{})
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.True(t, domain.IsCode(err, domain.CodeUnauthenticated))
}

func TestAuth_MiddlewareGate(t *testing.T) {
	v := NewTokenVerifier("secret", 15*time.Minute)
	r := authRouter(v)

	// No header.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Not a bearer scheme.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token passes and exposes the identity.
	tok, err := v.Mint(domain.Identity{Email: "renter@test.dev"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "renter@test.dev")
}
