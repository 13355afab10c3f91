// Package authrs realizes the authentication resource which issues
// bearer tokens for the configured principals. The endpoint itself is
// guarded by HTTP basic authentication; the presented password is
// verified against the scram-format hash of the named principal, so
// only an already authenticated caller may obtain a token.
package authrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/vehweb/pkg/adapter/config"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/vehweb/pkg/core/scram"
	"github.com/momeni/vehweb/pkg/core/usecase/tokenuc"
)

type resource struct {
	tokens *tokenuc.UseCase
	auth   config.Auth
	hasher scram.Hasher
}

// Register instantiates a resource adapting the token use case
// instance with the POST /auth/token API. The response body is the
// encoded token string itself, with no wrapping envelope.
func Register(
	r *gin.RouterGroup, tokens *tokenuc.UseCase,
	auth config.Auth, hasher scram.Hasher,
) {
	rs := &resource{tokens: tokens, auth: auth, hasher: hasher}
	r.POST("auth/token", rs.IssueToken)
}

func (rs *resource) IssueToken(c *gin.Context) {
	name, pass, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", `Basic realm="vehweb"`)
		c.JSON(http.StatusUnauthorized, gin.H{
			"detail": "basic auth credentials are required",
		})
		return
	}
	user, found := rs.auth.LookupUser(name)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{
			"detail": "unknown principal or password mismatch",
		})
		return
	}
	if err := rs.hasher.Verify(pass, user.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"detail": "unknown principal or password mismatch",
		})
		return
	}
	token, err := rs.tokens.Issue(c, tokenuc.Principal{
		Name:   user.Name,
		Scopes: user.Scopes,
	})
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.String(http.StatusOK, token)
}
