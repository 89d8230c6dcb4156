package repository

import (
	"context"
	"heartwellness/fitness-cms/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrDuplicateSlug = RepositoryError("slug already in use")
	ErrDuplicateKey  = RepositoryError("duplicate key")
	ErrValidation    = RepositoryError("validation failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Ordering values accepted by list operations. A leading "-" sorts descending.
var AllowedOrderings = map[string]bool{
	"name": true, "-name": true,
	"created_at": true, "-created_at": true,
	"updated_at": true, "-updated_at": true,
	"id": true, "-id": true,
}

// ExerciseFilter narrows and pages an exercise listing. Limit <= 0 means no limit.
type ExerciseFilter struct {
	BodyPartID         int64
	Search             string // matched against name, description and body-part name
	MissingDescription bool
	MissingVideo       bool
	Ordering           string
	Offset             int
	Limit              int
}

// BodyPartRepository defines the interface for interacting with body-part data.
type BodyPartRepository interface {
	// Create assigns the ID and, when Slug is empty, a unique slug derived from Name.
	Create(ctx context.Context, bodyPart *domain.BodyPart) error
	GetByID(ctx context.Context, id int64) (*domain.BodyPart, error)
	GetBySlug(ctx context.Context, slug string) (*domain.BodyPart, error)
	GetByName(ctx context.Context, name string) (*domain.BodyPart, error)
	List(ctx context.Context) ([]domain.BodyPart, error)
	Update(ctx context.Context, bodyPart *domain.BodyPart) error
	// Delete removes the body part, its exercises and their keyword mappings.
	Delete(ctx context.Context, id int64) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
// Returned exercises carry their BodyPart.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id int64) (*domain.Exercise, error)
	GetBySlugs(ctx context.Context, bodyPartSlug, exerciseSlug string) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, int64, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Stats(ctx context.Context) ([]domain.BodyPartStats, error)
}

// KeywordMappingRepository defines the interface for exercise keyword mappings.
type KeywordMappingRepository interface {
	// ReplaceForExercise deletes every mapping of the exercise and inserts the given ones.
	ReplaceForExercise(ctx context.Context, exerciseID int64, mappings []domain.ContentKeywordMapping) error
	ListByExercise(ctx context.Context, exerciseID int64) ([]domain.ContentKeywordMapping, error)
}

// ArticleRepository defines the interface for interacting with article data.
// List orders newest first. Limit <= 0 means no limit.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id int64) (*domain.Article, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	List(ctx context.Context, offset, limit int) ([]domain.Article, int64, error)
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines the interface for interacting with admin user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Repositories bundles every store so callers can swap the backend as a unit.
type Repositories struct {
	BodyParts BodyPartRepository
	Exercises ExerciseRepository
	Keywords  KeywordMappingRepository
	Articles  ArticleRepository
	Users     UserRepository

	// RawLists gives maintenance jobs access to the undecoded list columns.
	RawLists RawListRepository
}

// RawList is one stored list blob as written in the database.
type RawList struct {
	Kind  string // "article.keywords", "article.images", "exercise.generated_keywords"
	ID    int64
	Label string
	Raw   string
}

// RawListRepository reads and rewrites serialized list blobs without decoding them.
type RawListRepository interface {
	ListRaw(ctx context.Context) ([]RawList, error)
	ResetRaw(ctx context.Context, item RawList) error
}
