// Package middleware contains the request middlewares of the restful
// adapter layer, currently the bearer token verification guard.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/momeni/vehweb/pkg/core/usecase/tokenuc"
)

// PrincipalKey is the gin context key which holds the verified
// tokenuc.Principal of an authenticated request.
const PrincipalKey = "principal"

// RequireToken returns a middleware which requires a valid bearer
// token, as issued by the tokens use case, on every request. Requests
// with a missing, malformed, expired, or otherwise invalid token are
// aborted with a 401 status. The verified principal is stored in the
// context under the PrincipalKey.
func RequireToken(tokens *tokenuc.UseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "bearer token is required",
			})
			return
		}
		p, err := tokens.Verify(c, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "invalid bearer token",
			})
			return
		}
		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// extractBearer returns the token of an `Authorization: Bearer <t>`
// header value, or an empty string if the header does not carry a
// bearer credential.
func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
