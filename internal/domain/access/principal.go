package access

// Principal is the resolved identity making a request. A nil principal (or
// one with a zero consumer id) is anonymous. Principals are built once per
// request by the auth middleware and never mutated afterwards.
type Principal struct {
	ConsumerID    uint
	Email         string
	InstitutionID uint // 0 = no institution binding

	// EventIDs are the events the consumer is registered for.
	EventIDs map[uint]bool
	// AdminEventIDs are the events the consumer administers.
	AdminEventIDs map[uint]bool
}

func (p *Principal) Anonymous() bool {
	return p == nil || p.ConsumerID == 0
}

func (p *Principal) RegisteredFor(eventID uint) bool {
	if p == nil {
		return false
	}
	return p.EventIDs[eventID] || p.AdminEventIDs[eventID]
}

func (p *Principal) AdminOf(eventID uint) bool {
	if p == nil {
		return false
	}
	return p.AdminEventIDs[eventID]
}
