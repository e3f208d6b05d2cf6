package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	authdomain "github.com/getmenuly/menuly/internal/auth/domain"
	"github.com/getmenuly/menuly/pkg/tenantctx"
)

const contextIdentityKey = "identity"

// AuthRequired resolves the session cookie to an identity and stamps the
// user and restaurant IDs onto the request context for the services.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if identity.Restaurant == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := tenantctx.WithUserID(c.Request.Context(), identity.User.ID)
		ctx = tenantctx.WithTenantID(ctx, identity.Restaurant.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextIdentityKey, identity)

		c.Next()
	}
}

func currentIdentity(c *gin.Context) (*authdomain.Identity, bool) {
	value, ok := c.Get(contextIdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*authdomain.Identity)
	return identity, ok
}

// CronAuth guards the sweep trigger with the shared secret carried as a
// query parameter, matching what the cron provider can send.
func (s *Server) CronAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := strings.TrimSpace(s.cfg.SweepSecret)
		if secret == "" {
			AbortWithError(c, ErrNotFound)
			return
		}

		supplied := strings.TrimSpace(c.Query("secret"))
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Next()
	}
}
