package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/repository"
)

// sqlBodyPartRepository implements repository.BodyPartRepository on gorm.
type sqlBodyPartRepository struct {
	db *gorm.DB
}

func NewBodyPartRepository(db *gorm.DB) repository.BodyPartRepository {
	return &sqlBodyPartRepository{db: db}
}

func (r *sqlBodyPartRepository) Create(ctx context.Context, bodyPart *domain.BodyPart) error {
	if bodyPart.Name == "" {
		return repository.ErrValidation
	}
	bodyPart.ID = 0
	return saveSlugged(ctx, r.db, &domain.BodyPart{}, bodyPart, 0, &bodyPart.Slug, bodyPart.Name, "body-part")
}

func (r *sqlBodyPartRepository) GetByID(ctx context.Context, id int64) (*domain.BodyPart, error) {
	var bp domain.BodyPart
	if err := r.db.WithContext(ctx).First(&bp, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &bp, nil
}

func (r *sqlBodyPartRepository) GetBySlug(ctx context.Context, slug string) (*domain.BodyPart, error) {
	var bp domain.BodyPart
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&bp).Error; err != nil {
		return nil, notFound(err)
	}
	return &bp, nil
}

func (r *sqlBodyPartRepository) GetByName(ctx context.Context, name string) (*domain.BodyPart, error) {
	var bp domain.BodyPart
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").First(&bp).Error; err != nil {
		return nil, notFound(err)
	}
	return &bp, nil
}

func (r *sqlBodyPartRepository) List(ctx context.Context) ([]domain.BodyPart, error) {
	var out []domain.BodyPart
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqlBodyPartRepository) Update(ctx context.Context, bodyPart *domain.BodyPart) error {
	if bodyPart.ID == 0 || bodyPart.Name == "" {
		return repository.ErrValidation
	}
	existing, err := r.GetByID(ctx, bodyPart.ID)
	if err != nil {
		return err
	}
	bodyPart.CreatedAt = existing.CreatedAt
	return saveSlugged(ctx, r.db, &domain.BodyPart{}, bodyPart, bodyPart.ID, &bodyPart.Slug, bodyPart.Name, "body-part")
}

// Delete removes mappings, then exercises, then the body part in one transaction.
func (r *sqlBodyPartRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exerciseIDs := tx.Model(&domain.Exercise{}).Select("id").Where("body_part_id = ?", id)
		if err := tx.Where("exercise_id IN (?)", exerciseIDs).Delete(&domain.ContentKeywordMapping{}).Error; err != nil {
			return err
		}
		if err := tx.Where("body_part_id = ?", id).Delete(&domain.Exercise{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.BodyPart{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
