package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symposium-app/internal/domain/subscriptions"
)

func intp(v int) *int { return &v }

func timep(t time.Time) *time.Time { return &t }

func TestLimitExceeded(t *testing.T) {
	tier := &subscriptions.SubscriptionTier{
		EventsNumberLimit:  intp(3),
		PresentationsLimit: intp(0),
	}

	// under the limit
	assert.False(t, LimitExceeded(tier, DimEvents, UsageSnapshot{Events: 2}))
	// at the limit: holding is fine, creating is not
	assert.True(t, LimitExceeded(tier, DimEvents, UsageSnapshot{Events: 3}))
	// over the limit (grandfathered rows)
	assert.True(t, LimitExceeded(tier, DimEvents, UsageSnapshot{Events: 5}))
	// zero limit denies the first creation
	assert.True(t, LimitExceeded(tier, DimPresentations, UsageSnapshot{}))
	// nil limit never denies
	assert.False(t, LimitExceeded(tier, DimLiveSessions, UsageSnapshot{LiveSessions: 1000}))
	// nil tier never denies
	assert.False(t, LimitExceeded(nil, DimEvents, UsageSnapshot{Events: 1000}))
}

func TestSubscriptionExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, SubscriptionExpired(nil, now))
	assert.True(t, SubscriptionExpired(&subscriptions.Subscription{DeleteDate: timep(now)}, now))

	// no end date: never expires on billing
	assert.False(t, SubscriptionExpired(&subscriptions.Subscription{}, now))

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	assert.True(t, SubscriptionExpired(&subscriptions.Subscription{EndDate: &past}, now))
	assert.False(t, SubscriptionExpired(&subscriptions.Subscription{EndDate: &future}, now))
	// exactly at the end date is still live
	assert.False(t, SubscriptionExpired(&subscriptions.Subscription{EndDate: &now}, now))
}

func TestEventUptimeExpired(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	tier := &subscriptions.SubscriptionTier{EventUptimeInDays: intp(10)}

	// the last allowed day: any time of day on March 11 is still live
	lastDayMorning := time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC)
	lastDayNight := time.Date(2026, 3, 11, 23, 59, 0, 0, time.UTC)
	assert.False(t, EventUptimeExpired(&start, tier, lastDayMorning))
	assert.False(t, EventUptimeExpired(&start, tier, lastDayNight))

	// the next morning it is expired
	dayAfter := time.Date(2026, 3, 12, 0, 0, 1, 0, time.UTC)
	assert.True(t, EventUptimeExpired(&start, tier, dayAfter))

	// nil uptime, nil start, nil tier: never expires
	assert.False(t, EventUptimeExpired(&start, &subscriptions.SubscriptionTier{}, dayAfter))
	assert.False(t, EventUptimeExpired(nil, tier, dayAfter))
	assert.False(t, EventUptimeExpired(&start, nil, dayAfter))
}

func TestMaxEventDate(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	max := MaxEventDate(start, 10)
	assert.Equal(t, 2026, max.Year())
	assert.Equal(t, time.March, max.Month())
	assert.Equal(t, 11, max.Day())
	assert.Equal(t, 23, max.Hour())
}

func TestEventEndWithinUptime(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tier := &subscriptions.SubscriptionTier{EventUptimeInDays: intp(5)}

	fits := time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)
	tooLate := time.Date(2026, 3, 7, 8, 0, 0, 0, time.UTC)
	assert.True(t, EventEndWithinUptime(start, fits, tier))
	assert.False(t, EventEndWithinUptime(start, tooLate, tier))

	// nil uptime accepts any end date
	assert.True(t, EventEndWithinUptime(start, tooLate, &subscriptions.SubscriptionTier{}))
	assert.True(t, EventEndWithinUptime(start, tooLate, nil))
}

func TestRemainingMonotonic(t *testing.T) {
	sub := &subscriptions.Subscription{
		Tier: &subscriptions.SubscriptionTier{EventsNumberLimit: intp(5)},
	}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	prev := 6
	for current := 0; current <= 8; current++ {
		st := Status(sub, UsageSnapshot{Events: current}, now)
		left := st.Remaining[DimEvents]
		require.GreaterOrEqual(t, left, 0)
		require.LessOrEqual(t, left, prev)
		prev = left
	}
	// exhausted stays exhausted
	assert.Equal(t, 0, prev)
}

func TestStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sub := &subscriptions.Subscription{
		Tier: &subscriptions.SubscriptionTier{
			EventsNumberLimit: intp(3),
			NumAdminAccounts:  intp(2),
		},
	}
	usage := UsageSnapshot{Events: 1, AdminAccounts: 5}

	st := Status(sub, usage, now)
	require.NotNil(t, st.Remaining)

	assert.Equal(t, 2, st.Remaining[DimEvents])
	// over-limit usage clamps at zero, never negative
	assert.Equal(t, 0, st.Remaining[DimAdminAccounts])
	// nil limits surface as unlimited
	assert.Equal(t, Unlimited, st.Remaining[DimPresentations])
	assert.Equal(t, Unlimited, st.Remaining[DimLiveSessions])
	assert.False(t, st.Expired)
	assert.Equal(t, usage, st.Current)

	past := now.Add(-time.Minute)
	sub.EndDate = &past
	assert.True(t, Status(sub, usage, now).Expired)
}
