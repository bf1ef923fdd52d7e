package events

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"symposium-app/database"
	"symposium-app/internal/app/authz"
	"symposium-app/internal/app/http/httperr"
	"symposium-app/internal/app/http/middleware"
	"symposium-app/internal/domain/access"
	"symposium-app/internal/domain/consumers"
	"symposium-app/internal/domain/entitlement"
	domain "symposium-app/internal/domain/events"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func eventRef(c *gin.Context) access.Ref {
	v := c.Param("eventCodeOrHash")
	if len(v) >= 32 {
		return access.Ref{Kind: access.KindEvent, Hash: v}
	}
	return access.Ref{Kind: access.KindEvent, Code: v}
}

// suppliedHash is the capability token the caller presented, either as an
// explicit query param or as the path reference itself.
func suppliedHash(c *gin.Context) string {
	if h := c.Query("hash"); h != "" {
		return h
	}
	if v := c.Param("eventCodeOrHash"); len(v) >= 32 {
		return v
	}
	return ""
}

func newAccessHash() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// GET /events/:eventCodeOrHash
func GetEvent(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal:    ac.Principal,
		Ref:          eventRef(c),
		Operation:    access.OpRead,
		SuppliedHash: suppliedHash(c),
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	ev, err := eventByRef(database.DB, access.Ref{Kind: access.KindEvent, ID: decision.Resource.EventID})
	if err != nil || ev == nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, toEventDTO(ev, decision.Redaction))
}

// POST /events
func CreateEvent(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	var input struct {
		Name            string `json:"eventName" binding:"required"`
		OrganizedBy     string `json:"organizedBy"`
		EventCode       string `json:"eventCode" binding:"required"`
		SubscriptionID  uint   `json:"subscriptionId" binding:"required"`
		PrivacyLevel    string `json:"privacyLevel"`
		EventLaunchDate string `json:"eventLaunchDate" binding:"required"`
		EventEndDate    string `json:"eventEndDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, err := authz.Engine.AuthorizeSubscriptionCreate(
		c.Request.Context(), ac.Principal, input.SubscriptionID, entitlement.DimEvents)
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	start, err1 := parseDate(input.EventLaunchDate)
	end, err2 := parseDate(input.EventEndDate)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid launch/end date"})
		return
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event start date is after event end date"})
		return
	}

	sub, err := authz.Records.ByID(c.Request.Context(), input.SubscriptionID)
	if err != nil || sub == nil {
		httperr.Internal(c)
		return
	}
	if !entitlement.EventEndWithinUptime(start, end, sub.Tier) {
		c.JSON(http.StatusForbidden, gin.H{"error": "The Event end date exceeds the subscription event uptime"})
		return
	}

	taken, err := codeOrNameTaken(database.DB, input.EventCode, input.Name)
	if err != nil {
		httperr.Internal(c)
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event code or event name is not unique"})
		return
	}

	privacy := domain.PrivacyLevel(input.PrivacyLevel)
	if privacy == "" {
		privacy = domain.PrivacyPublic
	}
	hash := newAccessHash()
	ev := domain.Event{
		Name:           input.Name,
		OrganizedBy:    input.OrganizedBy,
		EventCode:      input.EventCode,
		SubscriptionID: input.SubscriptionID,
		PrivacyLevel:   privacy,
		Hash:           &hash,
		StartDate:      &start,
		EndDate:        &end,
	}
	if ac.Consumer != nil && ac.Consumer.InstitutionID != nil {
		ev.InstitutionID = ac.Consumer.InstitutionID
	}
	if err := database.DB.Create(&ev).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create event"})
		return
	}

	// creator becomes the first event admin
	link := consumers.ConsumerEvent{ConsumerID: ac.Principal.ConsumerID, EventID: ev.ID, IsAdmin: true}
	if err := database.DB.Create(&link).Error; err != nil {
		httperr.Internal(c)
		return
	}

	c.JSON(http.StatusCreated, toEventDTO(&ev, access.RedactionPlan{}))
}

// POST /events/:eventCodeOrHash/register
func RegisterForEvent(c *gin.Context) {
	ac := middleware.GetAuthContext(c)

	decision, err := authz.Engine.Authorize(c.Request.Context(), access.Request{
		Principal:    ac.Principal,
		Ref:          eventRef(c),
		Operation:    access.OpCreate,
		SuppliedHash: suppliedHash(c),
	})
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	link := consumers.ConsumerEvent{
		ConsumerID: ac.Principal.ConsumerID,
		EventID:    decision.Resource.EventID,
	}
	err = database.DB.
		Where("consumer_id = ? AND event_id = ?", link.ConsumerID, link.EventID).
		FirstOrCreate(&link).Error
	if err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}

// POST /events/:eventCodeOrHash/blocks
func BlockConsumer(c *gin.Context) {
	var input struct {
		ConsumerID uint `json:"consumerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := eventByRef(database.DB, eventRef(c))
	if err != nil {
		httperr.Internal(c)
		return
	}
	if ev == nil || ev.Deleted() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	block := consumers.BlockedConsumerEvent{ConsumerID: input.ConsumerID, EventID: ev.ID}
	err = database.DB.
		Where("consumer_id = ? AND event_id = ?", block.ConsumerID, block.EventID).
		FirstOrCreate(&block).Error
	if err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "blocked"})
}

// DELETE /events/:eventCodeOrHash/blocks/:consumerId
func UnblockConsumer(c *gin.Context) {
	consumerID, err := strconv.ParseUint(c.Param("consumerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consumer id"})
		return
	}

	ev, err := eventByRef(database.DB, eventRef(c))
	if err != nil {
		httperr.Internal(c)
		return
	}
	if ev == nil || ev.Deleted() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	err = database.DB.
		Where("consumer_id = ? AND event_id = ?", consumerID, ev.ID).
		Delete(&consumers.BlockedConsumerEvent{}).Error
	if err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unblocked"})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
