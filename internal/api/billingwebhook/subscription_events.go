package billingwebhook

import (
	"fmt"
	"strings"
	"time"

	"symposium-app/database"
	"symposium-app/internal/domain/subscriptions"

	"github.com/stripe/stripe-go/v75"
)

func handleSubscriptionUpdated(sub *stripe.Subscription) error {
	if sub.ID == "" {
		return fmt.Errorf("subscription missing id")
	}

	var record subscriptions.Subscription
	if err := database.DB.Where("stripe_subscription_id = ?", sub.ID).First(&record).Error; err != nil {
		// acknowledge to avoid Stripe retries if the subscription is gone
		return nil
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	status := normalizeStatus(string(sub.Status))

	updates := map[string]interface{}{
		"end_date":                   periodEnd,
		"stripe_subscription_status": status,
	}
	return database.DB.Model(&subscriptions.Subscription{}).
		Where("id = ?", record.ID).
		Updates(updates).Error
}

func handleSubscriptionDeleted(sub *stripe.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	var record subscriptions.Subscription
	if err := database.DB.Where("stripe_subscription_id = ?", sub.ID).First(&record).Error; err != nil {
		return nil
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	updates := map[string]interface{}{
		"end_date":                   periodEnd,
		"stripe_subscription_status": normalizeStatus(string(sub.Status)),
	}
	return database.DB.Model(&subscriptions.Subscription{}).
		Where("id = ?", record.ID).
		Updates(updates).Error
}

// normalizeStatus folds Stripe's status vocabulary into the few states the
// platform distinguishes.
func normalizeStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "":
		return "none"
	case "active":
		return "active"
	case "trialing":
		return "trialing"
	case "past_due", "unpaid":
		return "past_due"
	case "canceled", "incomplete_expired":
		return "canceled"
	default:
		return strings.TrimSpace(s)
	}
}
