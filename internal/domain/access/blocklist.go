package access

import "context"

// BlockChecker reads the event block list. Implementations must hit current
// state on every call; the engine never caches block decisions.
type BlockChecker interface {
	IsBlocked(ctx context.Context, consumerID, eventID uint) (bool, error)
}

// blocked wraps the checker with the engine's semantics: unauthenticated
// callers cannot be blocked (they fail identity rules instead), and a zero
// event id never matches. The block list guards participation, not
// visibility: read-only public browsing is not gated by it.
func blocked(ctx context.Context, checker BlockChecker, p *Principal, eventID uint) (bool, error) {
	if p.Anonymous() || eventID == 0 {
		return false, nil
	}
	return checker.IsBlocked(ctx, p.ConsumerID, eventID)
}
