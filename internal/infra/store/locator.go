package store

import (
	"context"
	"errors"
	"fmt"

	"symposium-app/internal/domain/access"
	"symposium-app/internal/domain/events"

	"gorm.io/gorm"
)

// Resolve looks a resource reference up by id, code, or hash and flattens
// it to the canonical view the policy rules read. Soft-deleted rows are
// returned with Deleted set so the engine can answer not-found itself.
func (s *Store) Resolve(ctx context.Context, ref access.Ref) (*access.Resource, error) {
	switch ref.Kind {
	case access.KindEvent:
		ev, err := s.findEvent(ctx, ref)
		if err != nil || ev == nil {
			return nil, err
		}
		return s.eventResource(ctx, access.KindEvent, ev.ID, deref(ev.Hash), ev)

	case access.KindPresentation:
		pres, err := s.findPresentation(ctx, ref)
		if err != nil || pres == nil {
			return nil, err
		}
		return s.childResource(ctx, access.KindPresentation, pres.ID, pres.EventID, deref(pres.Hash), pres.Deleted())

	case access.KindComment:
		var comment events.Comment
		if err := s.firstOrNil(ctx, &comment, "id = ?", ref.ID); err != nil {
			return nil, resolveMiss(err)
		}
		var pres events.Presentation
		if err := s.firstOrNil(ctx, &pres, "id = ?", comment.PresentationID); err != nil {
			return nil, resolveMiss(err)
		}
		return s.childResource(ctx, access.KindComment, comment.ID, pres.EventID, "", comment.Deleted() || pres.Deleted())

	case access.KindLiveSession:
		var session events.LiveSession
		if err := s.firstOrNil(ctx, &session, "id = ?", ref.ID); err != nil {
			return nil, resolveMiss(err)
		}
		return s.childResource(ctx, access.KindLiveSession, session.ID, session.EventID, "", session.Deleted())

	default:
		return nil, fmt.Errorf("unknown resource kind %q", ref.Kind)
	}
}

func (s *Store) findEvent(ctx context.Context, ref access.Ref) (*events.Event, error) {
	var ev events.Event
	var err error
	switch {
	case ref.ID != 0:
		err = s.firstOrNil(ctx, &ev, "id = ?", ref.ID)
	case ref.Code != "":
		err = s.firstOrNil(ctx, &ev, "event_code = ?", ref.Code)
	case ref.Hash != "":
		err = s.firstOrNil(ctx, &ev, "hash = ?", ref.Hash)
	default:
		return nil, errors.New("empty event reference")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

func (s *Store) findPresentation(ctx context.Context, ref access.Ref) (*events.Presentation, error) {
	var pres events.Presentation
	var err error
	switch {
	case ref.ID != 0:
		err = s.firstOrNil(ctx, &pres, "id = ?", ref.ID)
	case ref.Hash != "":
		err = s.firstOrNil(ctx, &pres, "hash = ?", ref.Hash)
	default:
		return nil, errors.New("empty presentation reference")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pres, nil
}

// eventResource builds the flattened view for an event row.
func (s *Store) eventResource(ctx context.Context, kind access.Kind, id uint, ownHash string, ev *events.Event) (*access.Resource, error) {
	instHash := ""
	if ev.PrivacyLevel == events.PrivacyInstitutionHash {
		h, err := s.institutionHash(ctx, ev.InstitutionID)
		if err != nil {
			return nil, err
		}
		instHash = h
	}
	return &access.Resource{
		Kind:            kind,
		ID:              id,
		EventID:         ev.ID,
		Privacy:         ev.PrivacyLevel,
		Hash:            ownHash,
		EventHash:       deref(ev.Hash),
		InstitutionHash: instHash,
		EventStartDate:  ev.StartDate,
		Deleted:         ev.Deleted(),
	}, nil
}

// childResource resolves the parent event and folds the child's deletion
// into the result: a child under a deleted event reads as deleted too.
func (s *Store) childResource(ctx context.Context, kind access.Kind, id, eventID uint, ownHash string, childDeleted bool) (*access.Resource, error) {
	var ev events.Event
	if err := s.firstOrNil(ctx, &ev, "id = ?", eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	res, err := s.eventResource(ctx, kind, id, ownHash, &ev)
	if err != nil {
		return nil, err
	}
	res.Deleted = res.Deleted || childDeleted
	return res, nil
}

func (s *Store) firstOrNil(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return s.db.WithContext(ctx).Where(query, args...).First(dest).Error
}

// resolveMiss folds record-not-found into a nil-resource result upstream.
func resolveMiss(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
