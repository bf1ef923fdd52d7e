package access

// DeletedCommentConsumerID is the sentinel consumer id rendered in place of
// the author on soft-deleted comments.
const DeletedCommentConsumerID uint = 0

// RedactionPlan tells the caller which fields to strip from an allowed
// response. It is a post-Allow transformation, never a separate outcome.
type RedactionPlan struct {
	// Subscription ids and other billing linkage.
	HideSubscriptionIDs bool
	// createDate/lastUpdated style internals.
	HideInternalTimestamps bool
	// Presenter email/level/major; first and last name stay visible.
	HidePresenterContact bool
	// Deleted comment bodies render as "" with the sentinel consumer id.
	MaskDeletedComments bool
}

func (p RedactionPlan) Redacts() bool {
	return p.HideSubscriptionIDs || p.HideInternalTimestamps || p.HidePresenterContact || p.MaskDeletedComments
}

// planFor returns the full plan for non-admins. A hash match is a capability
// token, not an identity: it never upgrades the caller to admin, so hash
// callers get the redacted view too.
func planFor(p *Principal, eventID uint) RedactionPlan {
	if p.AdminOf(eventID) {
		return RedactionPlan{}
	}
	return RedactionPlan{
		HideSubscriptionIDs:    true,
		HideInternalTimestamps: true,
		HidePresenterContact:   true,
		MaskDeletedComments:    true,
	}
}
