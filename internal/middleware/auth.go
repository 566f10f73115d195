package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/zaqqye/authorsite_backend/internal/response"
)

const identityKey = "identity"

type AuthConfig struct {
	Secret string
	Issuer string
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the decoded token payload attached to an authenticated request.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

var errMissingToken = errors.New("missing or invalid authorization header")

// AuthMiddleware verifies the bearer token and attaches the identity to the
// context. The token is trusted as issued; no account lookup happens here.
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := bearerToken(c)
		if err != nil {
			response.Unauthorized(c, "Access token required")
			return
		}

		claims, err := ParseToken(cfg, tokenStr)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(identityKey, Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// ParseToken validates signature, algorithm and expiry and returns the claims.
func ParseToken(cfg AuthConfig, tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// bearerToken reads the Authorization header. Browsers cannot set headers on a
// websocket handshake, so upgrade requests may pass ?token= instead.
func bearerToken(c *gin.Context) (string, error) {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		if len(auth) < len("Bearer ") || !strings.EqualFold(auth[:len("Bearer ")], "bearer ") {
			return "", errMissingToken
		}
		tok := strings.TrimSpace(auth[len("Bearer "):])
		if tok == "" {
			return "", errMissingToken
		}
		return tok, nil
	}
	if isWebsocketUpgrade(c) {
		if tok := strings.TrimSpace(c.Query("token")); tok != "" {
			return tok, nil
		}
	}
	return "", errMissingToken
}

func isWebsocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket") &&
		strings.Contains(strings.ToLower(c.GetHeader("Connection")), "upgrade")
}

// CurrentIdentity returns the identity set by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			response.Unauthorized(c, "Access token required")
			return
		}
		if _, ok := allowed[id.Role]; !ok {
			// admin passes every role gate
			if id.Role != "admin" {
				response.Forbidden(c, "Insufficient permissions")
				return
			}
		}
		c.Next()
	}
}
