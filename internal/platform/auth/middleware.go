package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
)

// Claims is the payload IssueToken signs.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // HS256 固定
	jwt.WithExpirationRequired(),
)

func deny(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": msg}})
}

// bearerToken: "Authorization: Bearer <token>" から token 部分を取り出す
func bearerToken(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// RequireAuth verifies the bearer token and stores sub/role on the gin context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	keyFn := func(*jwt.Token) (any, error) { return secret, nil }

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			deny(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed bearer token")
			return
		}

		var claims Claims
		if _, err := parser.ParseWithClaims(raw, &claims, keyFn); err != nil {
			deny(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}
		if claims.Subject == "" {
			deny(c, http.StatusUnauthorized, "UNAUTHORIZED", "token has no subject")
			return
		}

		c.Set(CtxUserIDKey, claims.Subject)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole lets only the listed roles through. Mount after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = r != ""
	}

	return func(c *gin.Context) {
		if !allowed[c.GetString(CtxRoleKey)] {
			deny(c, http.StatusForbidden, "FORBIDDEN", "role not allowed")
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated subject set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
