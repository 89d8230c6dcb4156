package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/repository"
)

// --- Error Definitions ---
var (
	ErrBodyPartNotFound = errors.New("body part not found")
	ErrSlugTaken        = errors.New("slug already in use")
)

const (
	DefaultRecommendations = 4
	MaxRecommendations     = 20
)

// BodyPartInput carries the writable body-part fields. An empty Slug is derived from Name.
type BodyPartInput struct {
	Name        string
	Slug        string
	Description string
}

type BodyPartService interface {
	List(ctx context.Context) ([]domain.BodyPart, error)
	GetBySlug(ctx context.Context, slug string) (*domain.BodyPart, error)
	Create(ctx context.Context, in BodyPartInput) (*domain.BodyPart, error)
	Update(ctx context.Context, id int64, in BodyPartInput) (*domain.BodyPart, error)
	// Delete removes the body part together with its exercises and their keyword mappings.
	Delete(ctx context.Context, id int64) error
	// Recommendations returns a random sample of the body part's exercises, skipping excludeID.
	Recommendations(ctx context.Context, slug string, limit int, excludeID int64) ([]domain.Exercise, error)
}

type bodyPartService struct {
	bodyPartRepo repository.BodyPartRepository
	exerciseRepo repository.ExerciseRepository
	shuffle      func(n int, swap func(i, j int))
}

func NewBodyPartService(bodyPartRepo repository.BodyPartRepository, exerciseRepo repository.ExerciseRepository) BodyPartService {
	return &bodyPartService{bodyPartRepo: bodyPartRepo, exerciseRepo: exerciseRepo, shuffle: rand.Shuffle}
}

// NewBodyPartServiceWithShuffle is NewBodyPartService with a custom shuffle, for deterministic samples.
func NewBodyPartServiceWithShuffle(bodyPartRepo repository.BodyPartRepository, exerciseRepo repository.ExerciseRepository, shuffle func(n int, swap func(i, j int))) BodyPartService {
	return &bodyPartService{bodyPartRepo: bodyPartRepo, exerciseRepo: exerciseRepo, shuffle: shuffle}
}

func (s *bodyPartService) List(ctx context.Context) ([]domain.BodyPart, error) {
	return s.bodyPartRepo.List(ctx)
}

func (s *bodyPartService) GetBySlug(ctx context.Context, slug string) (*domain.BodyPart, error) {
	bp, err := s.bodyPartRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyPartNotFound
		}
		return nil, err
	}
	return bp, nil
}

func (s *bodyPartService) Create(ctx context.Context, in BodyPartInput) (*domain.BodyPart, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrValidationFailed
	}
	bp := &domain.BodyPart{Name: strings.TrimSpace(in.Name), Slug: in.Slug, Description: in.Description}
	if err := s.bodyPartRepo.Create(ctx, bp); err != nil {
		return nil, mapWriteError(err)
	}
	return bp, nil
}

func (s *bodyPartService) Update(ctx context.Context, id int64, in BodyPartInput) (*domain.BodyPart, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrValidationFailed
	}
	bp, err := s.bodyPartRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyPartNotFound
		}
		return nil, err
	}
	bp.Name = strings.TrimSpace(in.Name)
	bp.Description = in.Description
	if in.Slug != "" {
		bp.Slug = in.Slug
	}
	if err := s.bodyPartRepo.Update(ctx, bp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyPartNotFound
		}
		return nil, mapWriteError(err)
	}
	return bp, nil
}

func (s *bodyPartService) Delete(ctx context.Context, id int64) error {
	if err := s.bodyPartRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBodyPartNotFound
		}
		return err
	}
	return nil
}

func (s *bodyPartService) Recommendations(ctx context.Context, slug string, limit int, excludeID int64) ([]domain.Exercise, error) {
	bp, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecommendations
	}
	if limit > MaxRecommendations {
		limit = MaxRecommendations
	}

	all, _, err := s.exerciseRepo.List(ctx, repository.ExerciseFilter{BodyPartID: bp.ID, Ordering: "id"})
	if err != nil {
		return nil, err
	}
	pool := make([]domain.Exercise, 0, len(all))
	for _, e := range all {
		if e.ID != excludeID {
			pool = append(pool, e)
		}
	}
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool, nil
}

// mapWriteError turns repository write errors into service errors.
func mapWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateSlug):
		return ErrSlugTaken
	case errors.Is(err, repository.ErrValidation):
		return ErrValidationFailed
	}
	return err
}
