package consumers

import (
	"time"

	"symposium-app/internal/domain/institutions"
)

type Consumer struct {
	ID           uint    `gorm:"primaryKey"`
	FirstName    string  `gorm:"not null"`
	LastName     string  `gorm:"not null"`
	Email        string  `gorm:"not null;uniqueIndex:idx_consumers_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_consumers_google_sub"`
	IsVerified   bool

	InstitutionID *uint
	Institution   *institutions.Institution

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConsumerEvent links a consumer to an event they registered for. IsAdmin
// marks event-admin seats; those rows also count against the subscription's
// adminAccounts quota.
type ConsumerEvent struct {
	ID         uint `gorm:"primaryKey"`
	ConsumerID uint `gorm:"not null;uniqueIndex:idx_consumer_events_pair"`
	EventID    uint `gorm:"not null;uniqueIndex:idx_consumer_events_pair"`
	IsAdmin    bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlockedConsumerEvent existence means the consumer may not participate in
// the event. Rows are created and removed by event admins and never expire.
type BlockedConsumerEvent struct {
	ID         uint `gorm:"primaryKey"`
	ConsumerID uint `gorm:"not null;uniqueIndex:idx_blocked_consumer_events_pair"`
	EventID    uint `gorm:"not null;uniqueIndex:idx_blocked_consumer_events_pair"`

	CreatedAt time.Time
}
