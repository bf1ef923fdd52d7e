package access

import (
	"time"

	"symposium-app/internal/domain/events"
)

type Kind string

const (
	KindEvent        Kind = "event"
	KindPresentation Kind = "presentation"
	KindComment      Kind = "comment"
	KindLiveSession  Kind = "liveSession"
)

// Ref identifies a resource by id, code, or access hash. Exactly one of the
// three should be set; the locator tries them in that order.
type Ref struct {
	Kind Kind
	ID   uint
	Code string
	Hash string
}

// Resource is the canonical view of a located record, flattened to the
// fields the policy rules read. The locator fills it from the event row and,
// where relevant, the owning institution.
type Resource struct {
	Kind    Kind
	ID      uint
	EventID uint

	Privacy events.PrivacyLevel

	// Hash is the resource's own access token ("" if none). For events it
	// equals EventHash.
	Hash string
	// EventHash is the owning event's access token.
	EventHash string
	// InstitutionHash is the owning institution's access token. Only
	// consulted under the institutionHash privacy level.
	InstitutionHash string

	EventStartDate *time.Time

	// Deleted marks a soft-deleted record; it reads as not-found.
	Deleted bool
}
