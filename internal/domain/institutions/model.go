package institutions

import "time"

type Institution struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
	Code string `gorm:"type:varchar(45);not null;uniqueIndex:idx_institutions_code"`

	// Comma-separated email domains allowed to self-register under this
	// institution. Nil means no domain restriction.
	ValidEmails *string

	// Opaque capability token for institutionHash-level events. Holders may
	// view those events without an account.
	Hash *string `gorm:"type:varchar(128);uniqueIndex:idx_institutions_hash"`

	SSOEnabled bool    `gorm:"not null;default:false"`
	SSODomain  *string `gorm:"column:sso_domain"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
