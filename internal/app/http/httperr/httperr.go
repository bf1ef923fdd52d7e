package httperr

import (
	"net/http"

	"symposium-app/internal/domain/access"

	"github.com/gin-gonic/gin"
)

// Deny writes the HTTP translation of a deny outcome. Internal detail
// (rule names, wrapped collaborator errors) never leaves the process.
func Deny(c *gin.Context, out access.Outcome) {
	c.JSON(out.HTTPStatus(), gin.H{"error": Message(out)})
}

// Internal is the response for evaluation errors: fail closed, say nothing.
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown error"})
}

func Message(out access.Outcome) string {
	switch out.Verdict {
	case access.VerdictNotFound:
		return "Event not found"
	case access.VerdictUnauthorized:
		return "You are not authorized to make this request"
	case access.VerdictForbidden:
		if out.Reason != "" {
			return out.Reason
		}
		return "Access denied"
	default:
		return "unknown error"
	}
}
