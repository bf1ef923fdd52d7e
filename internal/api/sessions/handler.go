package sessions

import (
	"net/http"
	"time"

	"symposium-app/database"
	"symposium-app/internal/app/authz"
	"symposium-app/internal/app/http/httperr"
	"symposium-app/internal/app/http/middleware"
	"symposium-app/internal/domain/access"
	"symposium-app/internal/domain/entitlement"
	domain "symposium-app/internal/domain/events"

	"github.com/gin-gonic/gin"
)

type SessionDTO struct {
	ID          uint       `json:"liveSessionId"`
	EventID     uint       `json:"eventId"`
	Title       string     `json:"title"`
	SessionLink string     `json:"sessionLink,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
}

func eventRef(c *gin.Context) access.Ref {
	v := c.Param("eventCodeOrHash")
	if len(v) >= 32 {
		return access.Ref{Kind: access.KindEvent, Hash: v}
	}
	return access.Ref{Kind: access.KindEvent, Code: v}
}

func suppliedHash(c *gin.Context) string {
	if h := c.Query("hash"); h != "" {
		return h
	}
	if v := c.Param("eventCodeOrHash"); len(v) >= 32 {
		return v
	}
	return ""
}

// GET /events/:eventCodeOrHash/sessions
//
// Live sessions are participation, not browsing: the caller must be
// registered for the event, and blocked consumers are rejected even where
// visibility alone would allow. The deny carries a hasLiveSessions hint so
// the frontend can prompt for registration.
func ListSessions(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal:     ac.Principal,
		Ref:           eventRef(c),
		Operation:     access.OpRead,
		SuppliedHash:  suppliedHash(c),
		Participation: true,
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	eventID := decision.Resource.EventID
	if !ac.Principal.RegisteredFor(eventID) {
		var n int64
		database.DB.Model(&domain.LiveSession{}).
			Where("event_id = ? AND delete_date IS NULL", eventID).
			Count(&n)
		c.JSON(http.StatusUnauthorized, gin.H{
			"hasLiveSessions": n > 0,
			"error":           "You must register for this event to view live sessions.",
		})
		return
	}

	var rows []domain.LiveSession
	err = database.DB.
		Where("event_id = ? AND delete_date IS NULL", eventID).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		httperr.Internal(c)
		return
	}

	out := make([]SessionDTO, 0, len(rows))
	for _, s := range rows {
		out = append(out, SessionDTO{
			ID:          s.ID,
			EventID:     s.EventID,
			Title:       s.Title,
			SessionLink: s.SessionLink,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// POST /events/:eventCodeOrHash/sessions
func CreateSession(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	var input struct {
		Title       string     `json:"title" binding:"required"`
		SessionLink string     `json:"sessionLink"`
		StartTime   *time.Time `json:"startTime"`
		EndTime     *time.Time `json:"endTime"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal:        ac.Principal,
		Ref:              eventRef(c),
		Operation:        access.OpCreate,
		CreatesDimension: entitlement.DimLiveSessions,
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}
	if !ac.Principal.AdminOf(decision.Resource.EventID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	session := domain.LiveSession{
		EventID:     decision.Resource.EventID,
		Title:       input.Title,
		SessionLink: input.SessionLink,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, SessionDTO{
		ID:          session.ID,
		EventID:     session.EventID,
		Title:       session.Title,
		SessionLink: session.SessionLink,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
	})
}
