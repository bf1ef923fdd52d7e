package store

import (
	"context"
	"errors"

	"symposium-app/internal/domain/consumers"
	"symposium-app/internal/domain/entitlement"
	"symposium-app/internal/domain/events"
	"symposium-app/internal/domain/institutions"
	"symposium-app/internal/domain/subscriptions"

	"gorm.io/gorm"
)

// Store implements the engine's collaborator interfaces on gorm. Every
// method performs a fresh read; there is no caching layer.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) IsBlocked(ctx context.Context, consumerID, eventID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&consumers.BlockedConsumerEvent{}).
		Where("consumer_id = ? AND event_id = ?", consumerID, eventID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ByID(ctx context.Context, subscriptionID uint) (*subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	err := s.db.WithContext(ctx).
		Preload("Tier").
		Where("id = ?", subscriptionID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) ForEvent(ctx context.Context, eventID uint) (*subscriptions.Subscription, error) {
	var ev events.Event
	err := s.db.WithContext(ctx).Where("id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.ByID(ctx, ev.SubscriptionID)
}

// Snapshot counts live rows per dimension at call time.
func (s *Store) Snapshot(ctx context.Context, subscriptionID uint) (entitlement.UsageSnapshot, error) {
	db := s.db.WithContext(ctx)
	var snap entitlement.UsageSnapshot
	var n int64

	if err := db.Model(&events.Event{}).
		Where("subscription_id = ? AND delete_date IS NULL", subscriptionID).
		Count(&n).Error; err != nil {
		return snap, err
	}
	snap.Events = int(n)

	if err := db.Model(&subscriptions.SubscriptionAdmin{}).
		Where("subscription_id = ? AND delete_date IS NULL", subscriptionID).
		Count(&n).Error; err != nil {
		return snap, err
	}
	snap.AdminAccounts = int(n)

	if err := db.Model(&events.Presentation{}).
		Joins("JOIN events ON events.id = presentations.event_id").
		Where("events.subscription_id = ? AND events.delete_date IS NULL AND presentations.delete_date IS NULL", subscriptionID).
		Count(&n).Error; err != nil {
		return snap, err
	}
	snap.Presentations = int(n)

	if err := db.Model(&events.LiveSession{}).
		Joins("JOIN events ON events.id = live_sessions.event_id").
		Where("events.subscription_id = ? AND events.delete_date IS NULL AND live_sessions.delete_date IS NULL", subscriptionID).
		Count(&n).Error; err != nil {
		return snap, err
	}
	snap.LiveSessions = int(n)

	return snap, nil
}

// institutionHash returns the owning institution's access token, "" when
// there is none.
func (s *Store) institutionHash(ctx context.Context, institutionID *uint) (string, error) {
	if institutionID == nil {
		return "", nil
	}
	var inst institutions.Institution
	err := s.db.WithContext(ctx).Where("id = ?", *institutionID).First(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if inst.Hash == nil {
		return "", nil
	}
	return *inst.Hash, nil
}
