package sqlstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/repository"
)

// sqlExerciseRepository implements repository.ExerciseRepository on gorm.
type sqlExerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) repository.ExerciseRepository {
	return &sqlExerciseRepository{db: db}
}

var exerciseOrderColumns = map[string]string{
	"name":       "exercises.name",
	"created_at": "exercises.created_at",
	"updated_at": "exercises.updated_at",
	"id":         "exercises.id",
}

func (r *sqlExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.Name == "" || exercise.BodyPartID == 0 {
		return repository.ErrValidation
	}
	if exercise.GeneratedKeywords == nil {
		exercise.GeneratedKeywords = domain.StringList{}
	}
	exercise.ID = 0
	return saveSlugged(ctx, r.db, &domain.Exercise{}, exercise, 0, &exercise.Slug, exercise.Name, "exercise")
}

func (r *sqlExerciseRepository) GetByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	var ex domain.Exercise
	if err := r.db.WithContext(ctx).Preload("BodyPart").First(&ex, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ex, nil
}

func (r *sqlExerciseRepository) GetBySlugs(ctx context.Context, bodyPartSlug, exerciseSlug string) (*domain.Exercise, error) {
	var ex domain.Exercise
	err := r.db.WithContext(ctx).Preload("BodyPart").
		Joins("JOIN body_parts ON body_parts.id = exercises.body_part_id").
		Where("body_parts.slug = ? AND exercises.slug = ?", bodyPartSlug, exerciseSlug).
		First(&ex).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &ex, nil
}

func (r *sqlExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	var ex domain.Exercise
	if err := r.db.WithContext(ctx).Preload("BodyPart").Where("name = ?", name).Order("id").First(&ex).Error; err != nil {
		return nil, notFound(err)
	}
	return &ex, nil
}

func (r *sqlExerciseRepository) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error) {
	// Count and Find each need a fresh statement.
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Exercise{}).
			Joins("LEFT JOIN body_parts ON body_parts.id = exercises.body_part_id")
		if filter.BodyPartID != 0 {
			q = q.Where("exercises.body_part_id = ?", filter.BodyPartID)
		}
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := containsPattern(strings.ToLower(s))
			q = q.Where(`LOWER(exercises.name) LIKE ? ESCAPE '\' OR LOWER(exercises.description) LIKE ? ESCAPE '\' OR LOWER(body_parts.name) LIKE ? ESCAPE '\'`, like, like, like)
		}
		if filter.MissingDescription {
			q = q.Where("exercises.description IS NULL OR exercises.description = ''")
		}
		if filter.MissingVideo {
			q = q.Where("exercises.youtube_url IS NULL OR exercises.youtube_url = ''")
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := base().Select("exercises.*").Preload("BodyPart").Order(orderClause(filter.Ordering))
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var out []domain.Exercise
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern is a LIKE pattern matching s literally anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// orderClause maps an ordering parameter to SQL; unknown values use body part then name.
func orderClause(ordering string) string {
	if !repository.AllowedOrderings[ordering] {
		return "body_parts.name ASC, exercises.name ASC, exercises.id ASC"
	}
	dir := "ASC"
	if strings.HasPrefix(ordering, "-") {
		dir = "DESC"
		ordering = ordering[1:]
	}
	return exerciseOrderColumns[ordering] + " " + dir + ", exercises.id ASC"
}

func (r *sqlExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == 0 || exercise.Name == "" || exercise.BodyPartID == 0 {
		return repository.ErrValidation
	}
	existing, err := r.GetByID(ctx, exercise.ID)
	if err != nil {
		return err
	}
	exercise.CreatedAt = existing.CreatedAt
	if exercise.GeneratedKeywords == nil {
		exercise.GeneratedKeywords = domain.StringList{}
	}
	return saveSlugged(ctx, r.db, &domain.Exercise{}, exercise, exercise.ID, &exercise.Slug, exercise.Name, "exercise")
}

type statsRow struct {
	BodyPartID   int64  `gorm:"column:body_part_id"`
	BodyPartName string `gorm:"column:body_part_name"`
	BodyPartSlug string `gorm:"column:body_part_slug"`
	Total        int64  `gorm:"column:total"`
	WithVideo    int64  `gorm:"column:with_video"`
	AIGenerated  int64  `gorm:"column:ai_generated"`
}

func (r *sqlExerciseRepository) Stats(ctx context.Context) ([]domain.BodyPartStats, error) {
	var rows []statsRow
	err := r.db.WithContext(ctx).Table("body_parts").
		Select(`body_parts.id AS body_part_id, body_parts.name AS body_part_name, body_parts.slug AS body_part_slug,
			COUNT(exercises.id) AS total,
			COALESCE(SUM(CASE WHEN exercises.youtube_url IS NOT NULL AND exercises.youtube_url <> '' THEN 1 ELSE 0 END), 0) AS with_video,
			COALESCE(SUM(CASE WHEN exercises.ai_generated = ? THEN 1 ELSE 0 END), 0) AS ai_generated`, true).
		Joins("LEFT JOIN exercises ON exercises.body_part_id = body_parts.id").
		Group("body_parts.id, body_parts.name, body_parts.slug").
		Order("body_parts.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.BodyPartStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BodyPartStats{
			BodyPartID:   row.BodyPartID,
			BodyPartName: row.BodyPartName,
			BodyPartSlug: row.BodyPartSlug,
			Total:        row.Total,
			WithVideo:    row.WithVideo,
			AIGenerated:  row.AIGenerated,
		})
	}
	return out, nil
}
