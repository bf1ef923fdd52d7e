package entitlement

// Dimension names one quota axis of a subscription tier.
type Dimension string

const (
	DimEvents        Dimension = "events"
	DimAdminAccounts Dimension = "adminAccounts"
	DimPresentations Dimension = "presentations"
	DimLiveSessions  Dimension = "liveSessions"
)

// Dimensions lists every quota axis in a stable order.
var Dimensions = []Dimension{DimEvents, DimAdminAccounts, DimPresentations, DimLiveSessions}

// UsageSnapshot holds live (non-deleted) counts attributed to a subscription
// at evaluation time. It is derived, never stored.
type UsageSnapshot struct {
	Events        int
	AdminAccounts int
	Presentations int
	LiveSessions  int
}

func (u UsageSnapshot) Count(d Dimension) int {
	switch d {
	case DimEvents:
		return u.Events
	case DimAdminAccounts:
		return u.AdminAccounts
	case DimPresentations:
		return u.Presentations
	case DimLiveSessions:
		return u.LiveSessions
	default:
		return 0
	}
}
