package access

import (
	"context"
	"time"

	"symposium-app/internal/domain/entitlement"
	"symposium-app/internal/domain/subscriptions"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpMutate Operation = "mutate"
	OpDelete Operation = "delete"
)

// Request is one authorization question: may this principal perform this
// operation on this resource.
type Request struct {
	Principal    *Principal
	Ref          Ref
	Operation    Operation
	SuppliedHash string

	// Participation marks reads that imply taking part (joining live
	// sessions, listing registered-only material). Such reads are
	// block-checked like writes.
	Participation bool

	// CreatesDimension is set when the operation creates a quota-bound
	// entity under the resource's subscription.
	CreatesDimension entitlement.Dimension
}

// Locator resolves a resource reference. A nil resource with a nil error
// means not found.
type Locator interface {
	Resolve(ctx context.Context, ref Ref) (*Resource, error)
}

// SubscriptionSource fetches the subscription owning an event, tier
// preloaded. Nil with nil error means the event has no subscription.
type SubscriptionSource interface {
	ForEvent(ctx context.Context, eventID uint) (*subscriptions.Subscription, error)
	ByID(ctx context.Context, subscriptionID uint) (*subscriptions.Subscription, error)
}

// UsageSource reads live usage counts. Called at decision time on every
// quota check; never cached.
type UsageSource interface {
	Snapshot(ctx context.Context, subscriptionID uint) (entitlement.UsageSnapshot, error)
}

// Decision is the composite result handed to route handlers.
type Decision struct {
	Outcome   Outcome
	Redaction RedactionPlan
	Resource  *Resource
}

// Authorizer composes visibility policy, the block list, and entitlements
// into single decisions. It holds no mutable state and is safe for
// concurrent use; every call re-reads collaborator state.
type Authorizer struct {
	Resources     Locator
	Blocks        BlockChecker
	Subscriptions SubscriptionSource
	Usage         UsageSource

	// Now is the evaluation clock; defaults to time.Now.
	Now func() time.Time
}

func NewAuthorizer(resources Locator, blocks BlockChecker, subs SubscriptionSource, usage UsageSource) *Authorizer {
	return &Authorizer{
		Resources:     resources,
		Blocks:        blocks,
		Subscriptions: subs,
		Usage:         usage,
		Now:           time.Now,
	}
}

func (a *Authorizer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Authorize runs the decision pipeline: visibility policy, then block list,
// then entitlements for quota-bound creations, short-circuiting on the
// first deny. Idempotent and side-effect-free; callers may retry it whole.
func (a *Authorizer) Authorize(ctx context.Context, req Request) (Decision, error) {
	res, err := a.Resources.Resolve(ctx, req.Ref)
	if err != nil {
		return Decision{}, evalErr("resolve", err)
	}
	if res == nil {
		return Decision{Outcome: NotFound("missing")}, nil
	}

	out, plan := Evaluate(req.Principal, *res, req.SuppliedHash)
	if !out.Allowed() {
		return Decision{Outcome: out, Resource: res}, nil
	}

	// Block list: participation only. Plain reads keep the policy verdict
	// even for blocked consumers.
	if req.Operation != OpRead || req.Participation {
		isBlocked, err := blocked(ctx, a.Blocks, req.Principal, res.EventID)
		if err != nil {
			return Decision{}, evalErr("blocklist", err)
		}
		if isBlocked {
			return Decision{Outcome: Forbidden("blocked", ReasonBlocked), Resource: res}, nil
		}
	}

	if req.Operation == OpCreate && req.CreatesDimension != "" {
		out, err := a.checkEntitlement(ctx, res, req.CreatesDimension)
		if err != nil {
			return Decision{}, err
		}
		if !out.Allowed() {
			return Decision{Outcome: out, Resource: res}, nil
		}
	}

	return Decision{Outcome: out, Redaction: plan, Resource: res}, nil
}

// AuthorizeSubscriptionCreate guards creating a quota-bound entity directly
// under a subscription (a new event, a new admin seat). There is no
// existing resource to locate, so this entry point skips the visibility
// table and goes straight to entitlements.
func (a *Authorizer) AuthorizeSubscriptionCreate(ctx context.Context, p *Principal, subscriptionID uint, dim entitlement.Dimension) (Decision, error) {
	if p.Anonymous() {
		return Decision{Outcome: Unauthorized("anonymous")}, nil
	}

	sub, err := a.Subscriptions.ByID(ctx, subscriptionID)
	if err != nil {
		return Decision{}, evalErr("subscription", err)
	}
	if sub == nil || sub.Deleted() {
		return Decision{Outcome: NotFound("missing-subscription")}, nil
	}
	if entitlement.SubscriptionExpired(sub, a.now()) {
		return Decision{Outcome: Forbidden("billing-expiry", ReasonSubscriptionExpired)}, nil
	}

	usage, err := a.Usage.Snapshot(ctx, sub.ID)
	if err != nil {
		return Decision{}, evalErr("usage", err)
	}
	if entitlement.LimitExceeded(sub.Tier, dim, usage) {
		return Decision{Outcome: Forbidden("quota", quotaReason(dim))}, nil
	}

	return Decision{Outcome: Allow("entitled")}, nil
}

// CheckEventLive answers whether an event is still being served at all:
// present, not soft-deleted, owned by a live unexpired subscription, and
// within its uptime window. Admin surfaces sit behind this check.
func (a *Authorizer) CheckEventLive(ctx context.Context, ref Ref) (Decision, error) {
	res, err := a.Resources.Resolve(ctx, ref)
	if err != nil {
		return Decision{}, evalErr("resolve", err)
	}
	if res == nil || res.Deleted {
		return Decision{Outcome: NotFound("missing")}, nil
	}

	sub, err := a.Subscriptions.ForEvent(ctx, res.EventID)
	if err != nil {
		return Decision{}, evalErr("subscription", err)
	}
	if sub == nil || sub.Deleted() {
		return Decision{Outcome: Forbidden("no-subscription", ReasonNoSubscription), Resource: res}, nil
	}

	now := a.now()
	if entitlement.SubscriptionExpired(sub, now) {
		return Decision{Outcome: Forbidden("billing-expiry", ReasonSubscriptionExpired), Resource: res}, nil
	}
	if entitlement.EventUptimeExpired(res.EventStartDate, sub.Tier, now) {
		return Decision{Outcome: Forbidden("uptime-expiry", ReasonEventUptimeExpired), Resource: res}, nil
	}

	return Decision{Outcome: Allow("live"), Resource: res}, nil
}

// checkEntitlement runs the quota/expiry pipeline for a creation under an
// existing event: subscription present, not billing-expired, event not
// uptime-expired, dimension under its limit from a fresh count.
//
// The pre-check is advisory under concurrency: two simultaneous creations
// can both pass before either commits. Callers that need the hard
// guarantee must re-validate inside the insert transaction.
func (a *Authorizer) checkEntitlement(ctx context.Context, res *Resource, dim entitlement.Dimension) (Outcome, error) {
	sub, err := a.Subscriptions.ForEvent(ctx, res.EventID)
	if err != nil {
		return Outcome{}, evalErr("subscription", err)
	}
	if sub == nil || sub.Deleted() {
		return Forbidden("no-subscription", ReasonNoSubscription), nil
	}

	now := a.now()
	if entitlement.SubscriptionExpired(sub, now) {
		return Forbidden("billing-expiry", ReasonSubscriptionExpired), nil
	}
	if entitlement.EventUptimeExpired(res.EventStartDate, sub.Tier, now) {
		return Forbidden("uptime-expiry", ReasonEventUptimeExpired), nil
	}

	usage, err := a.Usage.Snapshot(ctx, sub.ID)
	if err != nil {
		return Outcome{}, evalErr("usage", err)
	}
	if entitlement.LimitExceeded(sub.Tier, dim, usage) {
		return Forbidden("quota", quotaReason(dim)), nil
	}

	return Allow("entitled"), nil
}

func quotaReason(dim entitlement.Dimension) string {
	return string(dim) + " quota exceeded"
}
