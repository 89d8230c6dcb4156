package sqlstore

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/slug"
)

// maxInsertAttempts bounds the retries when a concurrent writer takes a derived slug first.
const maxInsertAttempts = 5

// isDuplicate reports whether err is a unique-constraint violation.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}

// slugTaken reports whether another row of model's table (any id other than selfID) uses candidate.
func slugTaken(ctx context.Context, db *gorm.DB, model interface{}, selfID int64, candidate string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(model).
		Where("slug = ? AND id <> ?", candidate, selfID).
		Count(&n).Error
	return n > 0, err
}

// saveSlugged creates (selfID == 0) or fully updates value, assigning *slugField first.
// An explicit slug must be free; an empty one is derived from source with numeric suffixes.
func saveSlugged(ctx context.Context, db *gorm.DB, model, value interface{}, selfID int64, slugField *string, source, fallback string) error {
	write := func() error {
		tx := db.WithContext(ctx).Omit(clause.Associations)
		if selfID == 0 {
			return tx.Create(value).Error
		}
		return tx.Save(value).Error
	}

	if *slugField != "" {
		taken, err := slugTaken(ctx, db, model, selfID, *slugField)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrDuplicateSlug
		}
		if err := write(); err != nil {
			if isDuplicate(err) {
				return repository.ErrDuplicateSlug
			}
			return err
		}
		return nil
	}

	exists := func(ctx context.Context, candidate string) (bool, error) {
		return slugTaken(ctx, db, model, selfID, candidate)
	}
	var lastErr error
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		candidate, err := slug.Unique(ctx, slug.Make(source), fallback, exists)
		if err != nil {
			return err
		}
		*slugField = candidate
		lastErr = write()
		if lastErr == nil || !isDuplicate(lastErr) {
			return lastErr
		}
	}
	*slugField = ""
	return repository.ErrDuplicateSlug
}
