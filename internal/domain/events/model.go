package events

import (
	"time"

	"symposium-app/internal/domain/institutions"
)

// PrivacyLevel governs who may view an event's resources without being
// registered. Exactly one level is active per event.
type PrivacyLevel string

const (
	PrivacyPublic           PrivacyLevel = "public"
	PrivacyPrivate          PrivacyLevel = "private"
	PrivacyInstitutionHash  PrivacyLevel = "institutionHash"
	PrivacyEventHash        PrivacyLevel = "eventHash"
	PrivacyPresentationHash PrivacyLevel = "presentationHash"
)

type Event struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	OrganizedBy string
	EventCode   string `gorm:"type:varchar(45);not null;uniqueIndex:idx_events_event_code"`

	SubscriptionID uint `gorm:"not null;index"`
	InstitutionID  *uint
	Institution    *institutions.Institution

	PrivacyLevel PrivacyLevel `gorm:"type:varchar(32);not null;default:'public'"`

	// Unguessable access token for eventHash/presentationHash levels.
	Hash *string `gorm:"type:varchar(128);uniqueIndex:idx_events_hash"`

	ValidEmails     *string
	AllowAllDomains bool `gorm:"not null;default:true"`
	IsActivated     bool `gorm:"not null;default:false"`

	StartDate *time.Time
	EndDate   *time.Time

	ArchiveDate *time.Time
	DeleteDate  *time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Presentation struct {
	ID      uint `gorm:"primaryKey"`
	EventID uint `gorm:"not null;index"`
	Event   *Event

	Title    string `gorm:"not null"`
	Abstract *string

	PresenterFirstName string
	PresenterLastName  string
	PresenterEmail     *string
	PresenterLevel     *string
	PresenterMajor     *string

	InstitutionID *uint

	// Per-presentation access token, honored under presentationHash level.
	Hash *string `gorm:"type:varchar(128);uniqueIndex:idx_presentations_hash"`

	PosterImgName  *string
	VoiceoverLink  *string
	PresentationNo *int

	DeleteDate *time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LiveSession struct {
	ID      uint `gorm:"primaryKey"`
	EventID uint `gorm:"not null;index"`

	Title       string `gorm:"not null"`
	SessionLink string

	StartTime *time.Time
	EndTime   *time.Time

	DeleteDate *time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID             uint `gorm:"primaryKey"`
	PresentationID uint `gorm:"not null;index"`
	ConsumerID     uint `gorm:"not null;index"`
	ParentID       *uint

	Body *string `gorm:"column:body"`

	// moderation markers
	FlaggerID         *uint
	FlaggedByUserDate *time.Time
	HiddenByAdminDate *time.Time

	DeleteDate *time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Event) Deleted() bool        { return e.DeleteDate != nil }
func (p *Presentation) Deleted() bool { return p.DeleteDate != nil }
func (s *LiveSession) Deleted() bool  { return s.DeleteDate != nil }
func (c *Comment) Deleted() bool      { return c.DeleteDate != nil }
