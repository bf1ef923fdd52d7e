package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symposium-app/internal/domain/entitlement"
	"symposium-app/internal/domain/events"
	"symposium-app/internal/domain/subscriptions"
)

type fakeLocator struct {
	res *Resource
	err error
}

func (f *fakeLocator) Resolve(_ context.Context, _ Ref) (*Resource, error) {
	return f.res, f.err
}

type fakeBlocks struct {
	blocked map[uint]bool // consumerID -> blocked
	err     error
	calls   int
}

func (f *fakeBlocks) IsBlocked(_ context.Context, consumerID, _ uint) (bool, error) {
	f.calls++
	return f.blocked[consumerID], f.err
}

type fakeSubs struct {
	sub *subscriptions.Subscription
	err error
}

func (f *fakeSubs) ForEvent(_ context.Context, _ uint) (*subscriptions.Subscription, error) {
	return f.sub, f.err
}

func (f *fakeSubs) ByID(_ context.Context, _ uint) (*subscriptions.Subscription, error) {
	return f.sub, f.err
}

type fakeUsage struct {
	snap entitlement.UsageSnapshot
	err  error
}

func (f *fakeUsage) Snapshot(_ context.Context, _ uint) (entitlement.UsageSnapshot, error) {
	return f.snap, f.err
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }

func testAuthorizer(loc *fakeLocator, blocks *fakeBlocks, subs *fakeSubs, usage *fakeUsage) *Authorizer {
	a := NewAuthorizer(loc, blocks, subs, usage)
	a.Now = func() time.Time { return testNow }
	return a
}

func liveSubscription(tier *subscriptions.SubscriptionTier) *subscriptions.Subscription {
	end := testNow.Add(30 * 24 * time.Hour)
	return &subscriptions.Subscription{ID: 1, Tier: tier, EndDate: &end}
}

func publicEventResource() *Resource {
	start := testNow.Add(-24 * time.Hour)
	return &Resource{Kind: KindEvent, ID: 1, EventID: 1, Privacy: events.PrivacyPublic, EventStartDate: &start}
}

func TestAuthorizeMissingResource(t *testing.T) {
	a := testAuthorizer(&fakeLocator{}, &fakeBlocks{}, &fakeSubs{}, &fakeUsage{})

	d, err := a.Authorize(context.Background(), Request{Ref: Ref{Kind: KindEvent, ID: 99}, Operation: OpRead})
	require.NoError(t, err)
	assert.Equal(t, VerdictNotFound, d.Outcome.Verdict)
}

func TestAuthorizeResolveFailureFailsClosed(t *testing.T) {
	a := testAuthorizer(&fakeLocator{err: errors.New("connection refused")}, &fakeBlocks{}, &fakeSubs{}, &fakeUsage{})

	d, err := a.Authorize(context.Background(), Request{Ref: Ref{Kind: KindEvent, ID: 1}, Operation: OpRead})
	require.Error(t, err)
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "resolve", evalErr.Stage)
	assert.False(t, d.Outcome.Allowed())
}

func TestAuthorizeBlockListParticipationOnly(t *testing.T) {
	p := registeredPrincipal(1)
	blocks := &fakeBlocks{blocked: map[uint]bool{p.ConsumerID: true}}
	a := testAuthorizer(&fakeLocator{res: publicEventResource()}, blocks, &fakeSubs{}, &fakeUsage{})

	// a plain read is not block-checked at all
	d, err := a.Authorize(context.Background(), Request{Principal: p, Ref: Ref{Kind: KindEvent, ID: 1}, Operation: OpRead})
	require.NoError(t, err)
	assert.True(t, d.Outcome.Allowed())
	assert.Zero(t, blocks.calls)

	// a participation read is
	d, err = a.Authorize(context.Background(), Request{Principal: p, Ref: Ref{Kind: KindEvent, ID: 1}, Operation: OpRead, Participation: true})
	require.NoError(t, err)
	assert.Equal(t, VerdictForbidden, d.Outcome.Verdict)
	assert.Equal(t, ReasonBlocked, d.Outcome.Reason)
}

func TestAuthorizeBlockOverridesVisibilityAllow(t *testing.T) {
	p := registeredPrincipal(1)
	blocks := &fakeBlocks{blocked: map[uint]bool{p.ConsumerID: true}}
	subs := &fakeSubs{sub: liveSubscription(nil)}
	a := testAuthorizer(&fakeLocator{res: publicEventResource()}, blocks, subs, &fakeUsage{})

	d, err := a.Authorize(context.Background(), Request{
		Principal: p, Ref: Ref{Kind: KindEvent, ID: 1},
		Operation: OpCreate, CreatesDimension: entitlement.DimPresentations,
	})
	require.NoError(t, err)
	assert.Equal(t, VerdictForbidden, d.Outcome.Verdict)
	assert.Equal(t, ReasonBlocked, d.Outcome.Reason)
}

func TestAuthorizeAnonymousNeverBlocked(t *testing.T) {
	blocks := &fakeBlocks{err: errors.New("must not be consulted")}
	subs := &fakeSubs{sub: liveSubscription(nil)}
	a := testAuthorizer(&fakeLocator{res: publicEventResource()}, blocks, subs, &fakeUsage{})

	d, err := a.Authorize(context.Background(), Request{Ref: Ref{Kind: KindEvent, ID: 1}, Operation: OpRead, Participation: true})
	require.NoError(t, err)
	assert.True(t, d.Outcome.Allowed())
	assert.Zero(t, blocks.calls)
}

func TestAuthorizeQuotaAtLimit(t *testing.T) {
	tier := &subscriptions.SubscriptionTier{PresentationsLimit: intp(2)}
	subs := &fakeSubs{sub: liveSubscription(tier)}
	usage := &fakeUsage{snap: entitlement.UsageSnapshot{Presentations: 2}}
	a := testAuthorizer(&fakeLocator{res: publicEventResource()}, &fakeBlocks{}, subs, usage)

	d, err := a.Authorize(context.Background(), Request{
		Principal: registeredPrincipal(1), Ref: Ref{Kind: KindEvent, ID: 1},
		Operation: OpCreate, CreatesDimension: entitlement.DimPresentations,
	})
	require.NoError(t, err)
	assert.Equal(t, VerdictForbidden, d.Outcome.Verdict)
	assert.Equal(t, "presentations quota exceeded", d.Outcome.Reason)

	// one slot freed: the same request passes
	usage.snap.Presentations = 1
	d, err = a.Authorize(context.Background(), Request{
		Principal: registeredPrincipal(1), Ref: Ref{Kind: KindEvent, ID: 1},
		Operation: OpCreate, CreatesDimension: entitlement.DimPresentations,
	})
	require.NoError(t, err)
	assert.True(t, d.Outcome.Allowed())
}

func TestAuthorizeBillingExpiredSubscription(t *testing.T) {
	past := testNow.Add(-time.Hour)
	subs := &fakeSubs{sub: &subscriptions.Subscription{ID: 1, EndDate: &past}}
	a := testAuthorizer(&fakeLocator{res: publicEventResource()}, &fakeBlocks{}, subs, &fakeUsage{})

	// reads stay open on an expired subscription
	d, err := a.Authorize(context.Background(), Request{Ref: Ref{Kind: KindEvent, ID: 1}, Operation: OpRead})
	require.NoError(t, err)
	assert.True(t, d.Outcome.Allowed())

	// quota-bound creations are denied
	d, err = a.Authorize(context.Background(), Request{
		Principal: registeredPrincipal(1), Ref: Ref{Kind: KindEvent, ID: 1},
		Operation: OpCreate, CreatesDimension: entitlement.DimPresentations,
	})
	require.NoError(t, err)
	assert.Equal(t, VerdictForbidden, d.Outcome.Verdict)
	assert.Equal(t, ReasonSubscriptionExpired, d.Outcome.Reason)
}

func TestAuthorizeUptimeExpiredEvent(t *testing.T) {
	start := testNow.Add(-20 * 24 * time.Hour)
	res := publicEventResource()
	res.EventStartDate = &start
	tier := &subscriptions.SubscriptionTier{EventUptimeInDays: intp(10)}
	subs := &fakeSubs{sub: liveSubscription(tier)}
	a := testAuthorizer(&fakeLocator{res: res}, &fakeBlocks{}, subs, &fakeUsage{})

	// viewing an uptime-expired event still works
	d, err := a.Authorize(context.Background(), Request{Ref: Ref{Kind: KindEvent, ID: 1}, Operation: OpRead})
	require.NoError(t, err)
	assert.True(t, d.Outcome.Allowed())

	// adding material to it does not
	d, err = a.Authorize(context.Background(), Request{
		Principal: registeredPrincipal(1), Ref: Ref{Kind: KindEvent, ID: 1},
		Operation: OpCreate, CreatesDimension: entitlement.DimPresentations,
	})
	require.NoError(t, err)
	assert.Equal(t, VerdictForbidden, d.Outcome.Verdict)
	assert.Equal(t, ReasonEventUptimeExpired, d.Outcome.Reason)
}

func TestAuthorizeEventWithoutSubscription(t *testing.T) {
	a := testAuthorizer(&fakeLocator{res: publicEventResource()}, &fakeBlocks{}, &fakeSubs{}, &fakeUsage{})

	d, err := a.Authorize(context.Background(), Request{
		Principal: registeredPrincipal(1), Ref: Ref{Kind: KindEvent, ID: 1},
		Operation: OpCreate, CreatesDimension: entitlement.DimPresentations,
	})
	require.NoError(t, err)
	assert.Equal(t, VerdictForbidden, d.Outcome.Verdict)
	assert.Equal(t, ReasonNoSubscription, d.Outcome.Reason)
}

func TestAuthorizeCollaboratorFailuresFailClosed(t *testing.T) {
	p := registeredPrincipal(1)
	req := Request{
		Principal: p, Ref: Ref{Kind: KindEvent, ID: 1},
		Operation: OpCreate, CreatesDimension: entitlement.DimPresentations,
	}

	a := testAuthorizer(&fakeLocator{res: publicEventResource()}, &fakeBlocks{err: errors.New("down")}, &fakeSubs{}, &fakeUsage{})
	_, err := a.Authorize(context.Background(), req)
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "blocklist", evalErr.Stage)

	a = testAuthorizer(&fakeLocator{res: publicEventResource()}, &fakeBlocks{}, &fakeSubs{err: errors.New("down")}, &fakeUsage{})
	_, err = a.Authorize(context.Background(), req)
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "subscription", evalErr.Stage)

	a = testAuthorizer(&fakeLocator{res: publicEventResource()}, &fakeBlocks{}, &fakeSubs{sub: liveSubscription(nil)}, &fakeUsage{err: errors.New("down")})
	_, err = a.Authorize(context.Background(), req)
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "usage", evalErr.Stage)
}

func TestAuthorizeIdempotent(t *testing.T) {
	tier := &subscriptions.SubscriptionTier{PresentationsLimit: intp(5)}
	a := testAuthorizer(
		&fakeLocator{res: publicEventResource()},
		&fakeBlocks{},
		&fakeSubs{sub: liveSubscription(tier)},
		&fakeUsage{snap: entitlement.UsageSnapshot{Presentations: 1}},
	)
	req := Request{
		Principal: registeredPrincipal(1), Ref: Ref{Kind: KindEvent, ID: 1},
		Operation: OpCreate, CreatesDimension: entitlement.DimPresentations,
	}

	first, err := a.Authorize(context.Background(), req)
	require.NoError(t, err)
	second, err := a.Authorize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Redaction, second.Redaction)
}

func TestAuthorizeSubscriptionCreate(t *testing.T) {
	ctx := context.Background()
	tier := &subscriptions.SubscriptionTier{EventsNumberLimit: intp(1)}

	t.Run("anonymous", func(t *testing.T) {
		a := testAuthorizer(&fakeLocator{}, &fakeBlocks{}, &fakeSubs{sub: liveSubscription(tier)}, &fakeUsage{})
		d, err := a.AuthorizeSubscriptionCreate(ctx, nil, 1, entitlement.DimEvents)
		require.NoError(t, err)
		assert.Equal(t, VerdictUnauthorized, d.Outcome.Verdict)
	})

	t.Run("missing subscription", func(t *testing.T) {
		a := testAuthorizer(&fakeLocator{}, &fakeBlocks{}, &fakeSubs{}, &fakeUsage{})
		d, err := a.AuthorizeSubscriptionCreate(ctx, registeredPrincipal(1), 1, entitlement.DimEvents)
		require.NoError(t, err)
		assert.Equal(t, VerdictNotFound, d.Outcome.Verdict)
	})

	t.Run("deleted subscription reads as missing", func(t *testing.T) {
		sub := liveSubscription(tier)
		sub.DeleteDate = &testNow
		a := testAuthorizer(&fakeLocator{}, &fakeBlocks{}, &fakeSubs{sub: sub}, &fakeUsage{})
		d, err := a.AuthorizeSubscriptionCreate(ctx, registeredPrincipal(1), 1, entitlement.DimEvents)
		require.NoError(t, err)
		assert.Equal(t, VerdictNotFound, d.Outcome.Verdict)
	})

	t.Run("quota at limit", func(t *testing.T) {
		a := testAuthorizer(&fakeLocator{}, &fakeBlocks{}, &fakeSubs{sub: liveSubscription(tier)}, &fakeUsage{snap: entitlement.UsageSnapshot{Events: 1}})
		d, err := a.AuthorizeSubscriptionCreate(ctx, registeredPrincipal(1), 1, entitlement.DimEvents)
		require.NoError(t, err)
		assert.Equal(t, VerdictForbidden, d.Outcome.Verdict)
		assert.Equal(t, "events quota exceeded", d.Outcome.Reason)
	})

	t.Run("allowed", func(t *testing.T) {
		a := testAuthorizer(&fakeLocator{}, &fakeBlocks{}, &fakeSubs{sub: liveSubscription(tier)}, &fakeUsage{})
		d, err := a.AuthorizeSubscriptionCreate(ctx, registeredPrincipal(1), 1, entitlement.DimEvents)
		require.NoError(t, err)
		assert.True(t, d.Outcome.Allowed())
	})
}

func TestCheckEventLive(t *testing.T) {
	ctx := context.Background()
	ref := Ref{Kind: KindEvent, ID: 1}

	t.Run("missing or deleted", func(t *testing.T) {
		a := testAuthorizer(&fakeLocator{}, &fakeBlocks{}, &fakeSubs{}, &fakeUsage{})
		d, err := a.CheckEventLive(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, VerdictNotFound, d.Outcome.Verdict)

		res := publicEventResource()
		res.Deleted = true
		a = testAuthorizer(&fakeLocator{res: res}, &fakeBlocks{}, &fakeSubs{}, &fakeUsage{})
		d, err = a.CheckEventLive(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, VerdictNotFound, d.Outcome.Verdict)
	})

	t.Run("no subscription", func(t *testing.T) {
		a := testAuthorizer(&fakeLocator{res: publicEventResource()}, &fakeBlocks{}, &fakeSubs{}, &fakeUsage{})
		d, err := a.CheckEventLive(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, VerdictForbidden, d.Outcome.Verdict)
		assert.Equal(t, ReasonNoSubscription, d.Outcome.Reason)
	})

	t.Run("billing expired", func(t *testing.T) {
		past := testNow.Add(-time.Hour)
		a := testAuthorizer(&fakeLocator{res: publicEventResource()}, &fakeBlocks{}, &fakeSubs{sub: &subscriptions.Subscription{ID: 1, EndDate: &past}}, &fakeUsage{})
		d, err := a.CheckEventLive(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, ReasonSubscriptionExpired, d.Outcome.Reason)
	})

	t.Run("uptime expired", func(t *testing.T) {
		start := testNow.Add(-40 * 24 * time.Hour)
		res := publicEventResource()
		res.EventStartDate = &start
		tier := &subscriptions.SubscriptionTier{EventUptimeInDays: intp(7)}
		a := testAuthorizer(&fakeLocator{res: res}, &fakeBlocks{}, &fakeSubs{sub: liveSubscription(tier)}, &fakeUsage{})
		d, err := a.CheckEventLive(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, ReasonEventUptimeExpired, d.Outcome.Reason)
	})

	t.Run("live", func(t *testing.T) {
		a := testAuthorizer(&fakeLocator{res: publicEventResource()}, &fakeBlocks{}, &fakeSubs{sub: liveSubscription(nil)}, &fakeUsage{})
		d, err := a.CheckEventLive(ctx, ref)
		require.NoError(t, err)
		assert.True(t, d.Outcome.Allowed())
	})
}
