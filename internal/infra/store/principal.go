package store

import (
	"context"

	"symposium-app/internal/domain/access"
	"symposium-app/internal/domain/consumers"
)

// PrincipalFor builds the request principal for a consumer: identity plus
// the registered and administered event id sets.
func (s *Store) PrincipalFor(ctx context.Context, consumer *consumers.Consumer) (*access.Principal, error) {
	var rows []consumers.ConsumerEvent
	err := s.db.WithContext(ctx).
		Where("consumer_id = ?", consumer.ID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	p := &access.Principal{
		ConsumerID:    consumer.ID,
		Email:         consumer.Email,
		EventIDs:      make(map[uint]bool, len(rows)),
		AdminEventIDs: make(map[uint]bool),
	}
	if consumer.InstitutionID != nil {
		p.InstitutionID = *consumer.InstitutionID
	}
	for _, row := range rows {
		p.EventIDs[row.EventID] = true
		if row.IsAdmin {
			p.AdminEventIDs[row.EventID] = true
		}
	}
	return p, nil
}
