package access

import "symposium-app/internal/domain/events"

// visibilityRule is one entry of the ordered rule table. Decide returns the
// outcome and true when the rule is decisive; evaluation stops at the first
// decisive rule.
type visibilityRule struct {
	Name   string
	Decide func(p *Principal, r Resource, suppliedHash string) (Outcome, bool)
}

// VisibilityRules encodes visibility precedence as data so tests can verify
// ordering independent of code structure. Order matters.
var VisibilityRules = []visibilityRule{
	{
		// Soft-deleted resources read as not-found, overriding everything,
		// so their existence never leaks.
		Name: "deleted",
		Decide: func(_ *Principal, r Resource, _ string) (Outcome, bool) {
			if r.Deleted {
				return NotFound("deleted"), true
			}
			return Outcome{}, false
		},
	},
	{
		Name: "public",
		Decide: func(_ *Principal, r Resource, _ string) (Outcome, bool) {
			if r.Privacy == events.PrivacyPublic {
				return Allow("public"), true
			}
			return Outcome{}, false
		},
	},
	{
		// institutionHash compares the supplied hash against the
		// institution's token, never the event's. Supplying the event hash
		// under this level must fall through and deny.
		Name: "institution-hash",
		Decide: func(_ *Principal, r Resource, suppliedHash string) (Outcome, bool) {
			if r.Privacy != events.PrivacyInstitutionHash {
				return Outcome{}, false
			}
			if suppliedHash != "" && r.InstitutionHash != "" && suppliedHash == r.InstitutionHash {
				return Allow("institution-hash"), true
			}
			return Outcome{}, false
		},
	},
	{
		// Capability token: the supplied hash must equal the resource's own
		// token or its event's token. Equality, not prefix.
		Name: "capability-hash",
		Decide: func(_ *Principal, r Resource, suppliedHash string) (Outcome, bool) {
			if r.Privacy == events.PrivacyInstitutionHash || suppliedHash == "" {
				return Outcome{}, false
			}
			if (r.Hash != "" && suppliedHash == r.Hash) || (r.EventHash != "" && suppliedHash == r.EventHash) {
				return Allow("capability-hash"), true
			}
			return Outcome{}, false
		},
	},
	{
		Name: "anonymous",
		Decide: func(p *Principal, _ Resource, _ string) (Outcome, bool) {
			if p.Anonymous() {
				return Unauthorized("anonymous"), true
			}
			return Outcome{}, false
		},
	},
	{
		Name: "registered",
		Decide: func(p *Principal, r Resource, _ string) (Outcome, bool) {
			if p.RegisteredFor(r.EventID) {
				return Allow("registered"), true
			}
			return Outcome{}, false
		},
	},
	{
		Name: "default-deny",
		Decide: func(_ *Principal, _ Resource, _ string) (Outcome, bool) {
			return Unauthorized("default-deny"), true
		},
	},
}

// Evaluate runs the visibility rule table top to bottom and, on Allow,
// attaches the redaction plan for the caller. Pure function of its inputs.
func Evaluate(p *Principal, r Resource, suppliedHash string) (Outcome, RedactionPlan) {
	for _, rule := range VisibilityRules {
		out, decided := rule.Decide(p, r, suppliedHash)
		if !decided {
			continue
		}
		if out.Allowed() {
			return out, planFor(p, r.EventID)
		}
		return out, RedactionPlan{}
	}
	// the table ends in a catch-all; this is unreachable
	return Unauthorized("default-deny"), RedactionPlan{}
}
