package events

import (
	"errors"

	"symposium-app/internal/domain/access"
	domain "symposium-app/internal/domain/events"

	"gorm.io/gorm"
)

func eventByRef(db *gorm.DB, ref access.Ref) (*domain.Event, error) {
	var ev domain.Event
	q := db
	switch {
	case ref.ID != 0:
		q = q.Where("id = ?", ref.ID)
	case ref.Code != "":
		q = q.Where("event_code = ?", ref.Code)
	case ref.Hash != "":
		q = q.Where("hash = ?", ref.Hash)
	default:
		return nil, errors.New("empty event reference")
	}
	if err := q.First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

// codeOrNameTaken mirrors the create guard: event codes and names must be
// unique platform-wide.
func codeOrNameTaken(db *gorm.DB, code, name string) (bool, error) {
	var n int64
	err := db.Model(&domain.Event{}).
		Where("event_code = ? OR name = ?", code, name).
		Count(&n).Error
	return n > 0, err
}
