package access

import "net/http"

type Verdict string

const (
	VerdictAllow        Verdict = "allow"
	VerdictUnauthorized Verdict = "unauthorized"
	VerdictNotFound     Verdict = "notFound"
	VerdictForbidden    Verdict = "forbidden"
)

// Deny reasons surfaced to callers. Quota reasons are built per dimension
// ("<dimension> quota exceeded").
const (
	ReasonBlocked             = "blocked"
	ReasonSubscriptionExpired = "subscription expired"
	ReasonEventUptimeExpired  = "event uptime expired"
	ReasonNoSubscription      = "event not associated to a subscription"
)

// Outcome is the single all-or-nothing result of an authorization check.
// Rule records which rule decided, for observability.
type Outcome struct {
	Verdict Verdict
	Reason  string
	Rule    string
}

func (o Outcome) Allowed() bool { return o.Verdict == VerdictAllow }

// HTTPStatus maps the verdict to the status a route handler should return.
func (o Outcome) HTTPStatus() int {
	switch o.Verdict {
	case VerdictAllow:
		return http.StatusOK
	case VerdictUnauthorized:
		return http.StatusUnauthorized
	case VerdictNotFound:
		return http.StatusNotFound
	case VerdictForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func Allow(rule string) Outcome {
	return Outcome{Verdict: VerdictAllow, Rule: rule}
}

func Unauthorized(rule string) Outcome {
	return Outcome{Verdict: VerdictUnauthorized, Rule: rule}
}

func NotFound(rule string) Outcome {
	return Outcome{Verdict: VerdictNotFound, Rule: rule}
}

func Forbidden(rule, reason string) Outcome {
	return Outcome{Verdict: VerdictForbidden, Rule: rule, Reason: reason}
}
