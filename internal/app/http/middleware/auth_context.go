package middleware

import (
	"symposium-app/internal/domain/access"
	"symposium-app/internal/domain/consumers"

	"github.com/gin-gonic/gin"
)

const authContextKey = "authContext"

// AuthContext carries the resolved identity through a request. It replaces
// ad-hoc context keys: handlers read one value and get a principal that is
// nil-safe for the anonymous case.
type AuthContext struct {
	Principal *access.Principal
	Consumer  *consumers.Consumer
}

// SetAuthContext installs the resolved identity on the request. Called by
// the auth middlewares once per request.
func SetAuthContext(c *gin.Context, ac AuthContext) {
	c.Set(authContextKey, ac)
}

// GetAuthContext returns the request's auth context. The zero value (nil
// principal) means anonymous.
func GetAuthContext(c *gin.Context) AuthContext {
	if v, ok := c.Get(authContextKey); ok {
		if ac, ok := v.(AuthContext); ok {
			return ac
		}
	}
	return AuthContext{}
}
