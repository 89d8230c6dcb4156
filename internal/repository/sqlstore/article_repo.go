package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/repository"
)

type sqlArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) repository.ArticleRepository {
	return &sqlArticleRepository{db: db}
}

func normalizeArticleLists(a *domain.Article) {
	if a.Images == nil {
		a.Images = domain.StringList{}
	}
	if a.Keywords == nil {
		a.Keywords = domain.StringList{}
	}
}

func (r *sqlArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	if article.Title == "" {
		return repository.ErrValidation
	}
	normalizeArticleLists(article)
	article.ID = 0
	return saveSlugged(ctx, r.db, &domain.Article{}, article, 0, &article.Slug, article.Title, "article")
}

func (r *sqlArticleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	var a domain.Article
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *sqlArticleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var a domain.Article
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *sqlArticleRepository) List(ctx context.Context, offset, limit int) ([]domain.Article, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Article{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Article
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *sqlArticleRepository) Update(ctx context.Context, article *domain.Article) error {
	if article.ID == 0 || article.Title == "" {
		return repository.ErrValidation
	}
	existing, err := r.GetByID(ctx, article.ID)
	if err != nil {
		return err
	}
	article.CreatedAt = existing.CreatedAt
	normalizeArticleLists(article)
	return saveSlugged(ctx, r.db, &domain.Article{}, article, article.ID, &article.Slug, article.Title, "article")
}

func (r *sqlArticleRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Article{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
