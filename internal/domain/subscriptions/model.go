package subscriptions

import (
	"time"

	"symposium-app/internal/domain/institutions"
)

// SubscriptionTier is the static limit set a plan grants. Nil limits mean
// unlimited for that dimension.
type SubscriptionTier struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	BillingType string `gorm:"type:varchar(20);not null;default:'recurring'"` // "recurring" | "single"
	PlanType    string
	Description *string

	EventsNumberLimit  *int
	NumAdminAccounts   *int
	PresentationsLimit *int
	LiveSessionsLimit  *int
	EventUptimeInDays  *int

	StripePriceID *string `gorm:"column:stripe_price_id;uniqueIndex:idx_subscription_tiers_stripe_price_id"`

	DeleteDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Subscription struct {
	ID          uint `gorm:"primaryKey"`
	Description *string

	TierID uint `gorm:"not null;index"`
	Tier   *SubscriptionTier

	InstitutionID *uint
	Institution   *institutions.Institution

	StartDate *time.Time
	EndDate   *time.Time

	StripeSubscriptionID     *string `gorm:"column:stripe_subscription_id;uniqueIndex:idx_subscriptions_stripe_subscription_id"`
	StripeSubscriptionStatus *string `gorm:"column:stripe_subscription_status"`

	DeleteDate *time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubscriptionAdmin is an admin seat attributed to a subscription. Live rows
// count against the adminAccounts quota.
type SubscriptionAdmin struct {
	ID             uint `gorm:"primaryKey"`
	SubscriptionID uint `gorm:"not null;index"`
	ConsumerID     uint `gorm:"not null;index"`

	DeleteDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deleted subscriptions are inert: they grant nothing and own nothing.
func (s *Subscription) Deleted() bool { return s.DeleteDate != nil }
