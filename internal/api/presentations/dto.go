package presentations

import (
	"time"

	"symposium-app/internal/domain/access"
	domain "symposium-app/internal/domain/events"
)

type PresentationDTO struct {
	ID      uint   `json:"presentationId"`
	EventID uint   `json:"eventId"`
	Title   string `json:"title"`

	Abstract *string `json:"abstract,omitempty"`

	PresenterFirstName string `json:"presenterFirstName"`
	PresenterLastName  string `json:"presenterLastName"`

	// contact fields, omitted under redaction
	PresenterEmail *string `json:"presenterEmail,omitempty"`
	PresenterLevel *string `json:"presenterLevel,omitempty"`
	PresenterMajor *string `json:"presenterMajor,omitempty"`

	PosterImgName *string `json:"posterImgName,omitempty"`
	VoiceoverLink *string `json:"voiceoverLink,omitempty"`

	Hash      *string    `json:"hash,omitempty"`
	CreatedAt *time.Time `json:"createDate,omitempty"`
	UpdatedAt *time.Time `json:"lastUpdated,omitempty"`
}

func toPresentationDTO(p *domain.Presentation, plan access.RedactionPlan) PresentationDTO {
	dto := PresentationDTO{
		ID:                 p.ID,
		EventID:            p.EventID,
		Title:              p.Title,
		Abstract:           p.Abstract,
		PresenterFirstName: p.PresenterFirstName,
		PresenterLastName:  p.PresenterLastName,
		PosterImgName:      p.PosterImgName,
		VoiceoverLink:      p.VoiceoverLink,
	}
	if !plan.HidePresenterContact {
		dto.PresenterEmail = p.PresenterEmail
		dto.PresenterLevel = p.PresenterLevel
		dto.PresenterMajor = p.PresenterMajor
	}
	if !plan.HideSubscriptionIDs {
		dto.Hash = p.Hash
	}
	if !plan.HideInternalTimestamps {
		created := p.CreatedAt
		updated := p.UpdatedAt
		dto.CreatedAt = &created
		dto.UpdatedAt = &updated
	}
	return dto
}
