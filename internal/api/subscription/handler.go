package subscription

import (
	"net/http"
	"strconv"

	"symposium-app/database"
	"symposium-app/internal/app/authz"
	"symposium-app/internal/app/http/httperr"
	"symposium-app/internal/app/http/middleware"
	"symposium-app/internal/domain/entitlement"
	"symposium-app/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
)

func subscriptionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
		return 0, false
	}
	return uint(id), true
}

// holdsAdminSeat reports whether the consumer has a live admin seat on the
// subscription.
func holdsAdminSeat(consumerID, subID uint) (bool, error) {
	var n int64
	err := database.DB.Model(&subscriptions.SubscriptionAdmin{}).
		Where("subscription_id = ? AND consumer_id = ? AND delete_date IS NULL", subID, consumerID).
		Count(&n).Error
	return n > 0, err
}

// GET /subscriptions/:id/quota
func GetQuotaStatus(c *gin.Context) {
	ac := middleware.GetAuthContext(c)
	subID, ok := subscriptionID(c)
	if !ok {
		return
	}

	seat, err := holdsAdminSeat(ac.Principal.ConsumerID, subID)
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !seat {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are unauthorized to access this."})
		return
	}

	sub, err := authz.Records.ByID(c.Request.Context(), subID)
	if err != nil {
		httperr.Internal(c)
		return
	}
	if sub == nil || sub.Deleted() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}
	usage, err := authz.Records.Snapshot(c.Request.Context(), subID)
	if err != nil {
		httperr.Internal(c)
		return
	}

	status := entitlement.Status(sub, usage, authz.Engine.Now())
	c.JSON(http.StatusOK, gin.H{
		"current":   status.Current,
		"remaining": status.Remaining,
		"expired":   status.Expired,
	})
}

// POST /subscriptions/:id/admins
func AddAdmin(c *gin.Context) {
	ac := middleware.GetAuthContext(c)
	subID, ok := subscriptionID(c)
	if !ok {
		return
	}

	var input struct {
		ConsumerID uint `json:"consumerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seat, err := holdsAdminSeat(ac.Principal.ConsumerID, subID)
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !seat {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are unauthorized to access this."})
		return
	}

	decision, err := authz.Engine.AuthorizeSubscriptionCreate(
		c.Request.Context(), ac.Principal, subID, entitlement.DimAdminAccounts)
	if err != nil {
		httperr.Internal(c)
		return
	}
	if !decision.Outcome.Allowed() {
		httperr.Deny(c, decision.Outcome)
		return
	}

	admin := subscriptions.SubscriptionAdmin{SubscriptionID: subID, ConsumerID: input.ConsumerID}
	err = database.DB.
		Where("subscription_id = ? AND consumer_id = ? AND delete_date IS NULL", subID, input.ConsumerID).
		FirstOrCreate(&admin).Error
	if err != nil {
		httperr.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "admin added"})
}
