package events

import (
	"time"

	"symposium-app/internal/domain/access"
	domain "symposium-app/internal/domain/events"
)

type EventDTO struct {
	ID           uint                `json:"eventId"`
	Name         string              `json:"name"`
	OrganizedBy  string              `json:"organizedBy"`
	EventCode    string              `json:"eventCode"`
	PrivacyLevel domain.PrivacyLevel `json:"privacyLevel"`
	IsActivated  bool                `json:"isActivated"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// admin-only fields, omitted under redaction
	SubscriptionID *uint      `json:"subscriptionId,omitempty"`
	Hash           *string    `json:"hash,omitempty"`
	CreatedAt      *time.Time `json:"createDate,omitempty"`
	UpdatedAt      *time.Time `json:"lastUpdated,omitempty"`
}

// toEventDTO applies the redaction plan while building the response shape.
func toEventDTO(ev *domain.Event, plan access.RedactionPlan) EventDTO {
	dto := EventDTO{
		ID:           ev.ID,
		Name:         ev.Name,
		OrganizedBy:  ev.OrganizedBy,
		EventCode:    ev.EventCode,
		PrivacyLevel: ev.PrivacyLevel,
		IsActivated:  ev.IsActivated,
		StartDate:    ev.StartDate,
		EndDate:      ev.EndDate,
	}
	if !plan.HideSubscriptionIDs {
		subID := ev.SubscriptionID
		dto.SubscriptionID = &subID
		dto.Hash = ev.Hash
	}
	if !plan.HideInternalTimestamps {
		created := ev.CreatedAt
		updated := ev.UpdatedAt
		dto.CreatedAt = &created
		dto.UpdatedAt = &updated
	}
	return dto
}
