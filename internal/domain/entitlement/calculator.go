package entitlement

import (
	"time"

	"symposium-app/internal/domain/subscriptions"
)

// Unlimited is the surfaced "remaining" value for a dimension whose tier
// limit is nil.
const Unlimited = -1

// QuotaStatus is the evaluated entitlement state of one subscription.
type QuotaStatus struct {
	Current UsageSnapshot
	// Remaining per dimension, clamped at zero. Unlimited for nil limits.
	Remaining map[Dimension]int
	Expired   bool
}

// Limit returns the tier's limit for a dimension, nil meaning unlimited.
func Limit(tier *subscriptions.SubscriptionTier, d Dimension) *int {
	if tier == nil {
		return nil
	}
	switch d {
	case DimEvents:
		return tier.EventsNumberLimit
	case DimAdminAccounts:
		return tier.NumAdminAccounts
	case DimPresentations:
		return tier.PresentationsLimit
	case DimLiveSessions:
		return tier.LiveSessionsLimit
	default:
		return nil
	}
}

// LimitExceeded reports whether a creation on dimension d must be denied.
// The comparison is current >= limit: a subscription at its limit cannot
// create, it can only hold what it has. A nil limit never denies.
//
// Callers must pass a usage snapshot read at decision time. Two concurrent
// creations can both pass this check before either commits; callers that
// care should re-validate inside the transaction that performs the insert.
func LimitExceeded(tier *subscriptions.SubscriptionTier, d Dimension, usage UsageSnapshot) bool {
	limit := Limit(tier, d)
	if limit == nil {
		return false
	}
	return usage.Count(d) >= *limit
}

// SubscriptionExpired reports billing expiry. Deleted subscriptions are
// inert, which reads as expired here as well.
func SubscriptionExpired(sub *subscriptions.Subscription, now time.Time) bool {
	if sub == nil || sub.Deleted() {
		return true
	}
	return sub.EndDate != nil && now.After(*sub.EndDate)
}

// MaxEventDate is the last day an event may stay live: its start date plus
// the tier's uptime allowance.
func MaxEventDate(start time.Time, uptimeDays int) time.Time {
	return endOfDay(start).AddDate(0, 0, uptimeDays)
}

// EventUptimeExpired reports per-event uptime expiry. Both sides of the
// comparison are pushed to end-of-day so time-of-day skew cannot produce an
// off-by-one on the boundary day. A nil uptime never expires.
func EventUptimeExpired(eventStart *time.Time, tier *subscriptions.SubscriptionTier, now time.Time) bool {
	if tier == nil || tier.EventUptimeInDays == nil || eventStart == nil {
		return false
	}
	maxDate := MaxEventDate(*eventStart, *tier.EventUptimeInDays)
	return endOfDay(now).After(maxDate)
}

// EventEndWithinUptime reports whether a proposed event end date fits the
// tier's uptime allowance counted from the start date. Used when creating
// events; nil uptime always fits.
func EventEndWithinUptime(start, end time.Time, tier *subscriptions.SubscriptionTier) bool {
	if tier == nil || tier.EventUptimeInDays == nil {
		return true
	}
	return !endOfDay(end).After(MaxEventDate(start, *tier.EventUptimeInDays))
}

// Status computes the full entitlement picture for a subscription from a
// fresh usage snapshot.
func Status(sub *subscriptions.Subscription, usage UsageSnapshot, now time.Time) QuotaStatus {
	remaining := make(map[Dimension]int, len(Dimensions))
	var tier *subscriptions.SubscriptionTier
	if sub != nil {
		tier = sub.Tier
	}
	for _, d := range Dimensions {
		limit := Limit(tier, d)
		if limit == nil {
			remaining[d] = Unlimited
			continue
		}
		left := *limit - usage.Count(d)
		if left < 0 {
			left = 0
		}
		remaining[d] = left
	}
	return QuotaStatus{
		Current:   usage,
		Remaining: remaining,
		Expired:   SubscriptionExpired(sub, now),
	}
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
