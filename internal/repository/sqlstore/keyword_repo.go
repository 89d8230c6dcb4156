package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/repository"
)

type sqlKeywordMappingRepository struct {
	db *gorm.DB
}

func NewKeywordMappingRepository(db *gorm.DB) repository.KeywordMappingRepository {
	return &sqlKeywordMappingRepository{db: db}
}

func (r *sqlKeywordMappingRepository) ReplaceForExercise(ctx context.Context, exerciseID int64, mappings []domain.ContentKeywordMapping) error {
	now := time.Now().UTC()
	rows := make([]domain.ContentKeywordMapping, 0, len(mappings))
	for _, m := range mappings {
		if !m.ContentType.Valid() || m.Keyword == "" {
			return repository.ErrValidation
		}
		m.ID = 0
		m.ExerciseID = exerciseID
		m.CreatedAt = now
		rows = append(rows, m)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exercise_id = ?", exerciseID).Delete(&domain.ContentKeywordMapping{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			if isDuplicate(err) {
				return repository.ErrDuplicateKey
			}
			return err
		}
		return nil
	})
}

func (r *sqlKeywordMappingRepository) ListByExercise(ctx context.Context, exerciseID int64) ([]domain.ContentKeywordMapping, error) {
	var out []domain.ContentKeywordMapping
	err := r.db.WithContext(ctx).
		Where("exercise_id = ?", exerciseID).
		Order("relevance_score DESC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
