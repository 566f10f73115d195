package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuth = AuthConfig{Secret: "test-secret", Issuer: "authorsite_backend"}

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func validClaims(role string) Claims {
	now := time.Now()
	return Claims{
		UserID: "8d5e7a4e-0c7e-4c5a-9a55-0a4b1f2f9d11",
		Role:   role,
		Email:  "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testAuth.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func newAuthRouter(handlerRan *bool, gates ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware(testAuth)}, gates...)
	chain = append(chain, func(c *gin.Context) {
		*handlerRan = true
		id, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, id)
	})
	r.GET("/protected", chain...)
	return r
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	expired := validClaims("admin")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := validClaims("admin")
	noExpiry.ExpiresAt = nil

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("admin"))},
		{"wrong algorithm", "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testAuth.Secret), validClaims("admin"))},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testAuth.Secret), expired)},
		{"no expiry", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testAuth.Secret), noExpiry)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			r := newAuthRouter(&ran)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
			assert.False(t, ran)
		})
	}
}

func TestAuthMiddlewareAttachesIdentity(t *testing.T) {
	ran := false
	r := newAuthRouter(&ran)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testAuth.Secret), validClaims("editor")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ran)
	assert.JSONEq(t, `{"user_id":"8d5e7a4e-0c7e-4c5a-9a55-0a4b1f2f9d11","email":"admin@example.com","role":"editor"}`, w.Body.String())
}

func TestQueryTokenOnlyOnWebsocketUpgrade(t *testing.T) {
	tok := signToken(t, jwt.SigningMethodHS256, []byte(testAuth.Secret), validClaims("admin"))

	ran := false
	r := newAuthRouter(&ran)
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+tok, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ran)

	req = httptest.NewRequest(http.MethodGet, "/protected?token="+tok, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ran)
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"editor", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			ran := false
			r := newAuthRouter(&ran, RequireRoles("admin"))
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testAuth.Secret), validClaims(tc.role)))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
			assert.Equal(t, tc.want == http.StatusOK, ran)
		})
	}
}
