package middleware

import (
	"net/http"

	"symposium-app/internal/app/authz"
	"symposium-app/internal/app/http/httperr"
	"symposium-app/internal/domain/access"

	"github.com/gin-gonic/gin"
)

const decisionKey = "accessDecision"

// EventRefFromPath builds an event reference from a path param holding an
// event code or access hash.
func EventRefFromPath(param string) func(*gin.Context) access.Ref {
	return func(c *gin.Context) access.Ref {
		v := c.Param(param)
		if looksLikeHash(v) {
			return access.Ref{Kind: access.KindEvent, Hash: v}
		}
		return access.Ref{Kind: access.KindEvent, Code: v}
	}
}

// hashes are long opaque tokens; event codes are short and human-picked
func looksLikeHash(v string) bool {
	return len(v) >= 32
}

// RequireLiveEvent gates management surfaces of an event: 404 when the
// event is missing or deleted, 403 when its subscription is gone,
// billing-expired, or the event is past its uptime window.
func RequireLiveEvent(refFrom func(*gin.Context) access.Ref) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := authz.Engine.CheckEventLive(c.Request.Context(), refFrom(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown error"})
			return
		}
		if !decision.Outcome.Allowed() {
			c.AbortWithStatusJSON(decision.Outcome.HTTPStatus(), gin.H{"error": httperr.Message(decision.Outcome)})
			return
		}
		c.Set(decisionKey, decision)
		c.Next()
	}
}

// RequireEventAdmin restricts a route to admins of the referenced event.
func RequireEventAdmin(refFrom func(*gin.Context) access.Ref) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac := GetAuthContext(c)
		if ac.Principal.Anonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to make this request"})
			return
		}
		res, err := authz.Engine.Resources.Resolve(c.Request.Context(), refFrom(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown error"})
			return
		}
		if res == nil || res.Deleted {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		if !ac.Principal.AdminOf(res.EventID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

