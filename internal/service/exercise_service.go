package service

import (
	"context"
	"errors"
	"strings"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/repository"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("validation failed")
)

// ExerciseInput carries the writable exercise fields.
type ExerciseInput struct {
	Name        string
	Slug        string
	BodyPartID  int64
	Description string
	YouTubeURL  string
	Image       string
	ImageURL    string
	ImageWidth  *int
	ImageHeight *int
}

// ExerciseDetails is an exercise with its keyword mappings.
type ExerciseDetails struct {
	Exercise *domain.Exercise
	Mappings []domain.ContentKeywordMapping
}

// ExerciseStats summarizes the library for the stats endpoint.
type ExerciseStats struct {
	Total        int64                  `json:"total"`
	WithVideo    int64                  `json:"with_video"`
	WithoutVideo int64                  `json:"without_video"`
	AIGenerated  int64                  `json:"ai_generated"`
	Manual       int64                  `json:"manual"`
	ByBodyPart   []domain.BodyPartStats `json:"by_body_part"`
}

type ExerciseService interface {
	List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error)
	ListByBodyPart(ctx context.Context, bodyPartSlug string, offset, limit int) ([]domain.Exercise, int64, error)
	GetBySlugs(ctx context.Context, bodyPartSlug, exerciseSlug string) (*ExerciseDetails, error)
	GetByID(ctx context.Context, id int64) (*ExerciseDetails, error)
	Create(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, id int64, in ExerciseInput) (*domain.Exercise, error)
	Stats(ctx context.Context) (*ExerciseStats, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	bodyPartRepo repository.BodyPartRepository
	keywordRepo  repository.KeywordMappingRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, bodyPartRepo repository.BodyPartRepository, keywordRepo repository.KeywordMappingRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		bodyPartRepo: bodyPartRepo,
		keywordRepo:  keywordRepo,
	}
}

func (s *exerciseService) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error) {
	if filter.Ordering != "" && !repository.AllowedOrderings[filter.Ordering] {
		return nil, 0, ErrValidationFailed
	}
	return s.exerciseRepo.List(ctx, filter)
}

func (s *exerciseService) ListByBodyPart(ctx context.Context, bodyPartSlug string, offset, limit int) ([]domain.Exercise, int64, error) {
	bp, err := s.bodyPartRepo.GetBySlug(ctx, bodyPartSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrBodyPartNotFound
		}
		return nil, 0, err
	}
	return s.exerciseRepo.List(ctx, repository.ExerciseFilter{BodyPartID: bp.ID, Offset: offset, Limit: limit})
}

func (s *exerciseService) GetBySlugs(ctx context.Context, bodyPartSlug, exerciseSlug string) (*ExerciseDetails, error) {
	ex, err := s.exerciseRepo.GetBySlugs(ctx, bodyPartSlug, exerciseSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return s.withMappings(ctx, ex)
}

func (s *exerciseService) GetByID(ctx context.Context, id int64) (*ExerciseDetails, error) {
	ex, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return s.withMappings(ctx, ex)
}

func (s *exerciseService) withMappings(ctx context.Context, ex *domain.Exercise) (*ExerciseDetails, error) {
	mappings, err := s.keywordRepo.ListByExercise(ctx, ex.ID)
	if err != nil {
		return nil, err
	}
	return &ExerciseDetails{Exercise: ex, Mappings: mappings}, nil
}

// Create handles the creation of a new exercise under an existing body part.
func (s *exerciseService) Create(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	if strings.TrimSpace(in.Name) == "" || in.BodyPartID == 0 {
		return nil, ErrValidationFailed
	}
	bp, err := s.bodyPartRepo.GetByID(ctx, in.BodyPartID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyPartNotFound
		}
		return nil, err
	}

	exercise := &domain.Exercise{}
	applyExerciseInput(exercise, in)
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, mapWriteError(err)
	}
	exercise.BodyPart = bp
	return exercise, nil
}

// Update overwrites the writable fields. An empty Slug keeps the current one.
func (s *exerciseService) Update(ctx context.Context, id int64, in ExerciseInput) (*domain.Exercise, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrValidationFailed
	}
	existing, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if in.BodyPartID == 0 {
		in.BodyPartID = existing.BodyPartID
	}
	if in.BodyPartID != existing.BodyPartID {
		bp, err := s.bodyPartRepo.GetByID(ctx, in.BodyPartID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrBodyPartNotFound
			}
			return nil, err
		}
		existing.BodyPart = bp
	}
	if in.Slug == "" {
		in.Slug = existing.Slug
	}
	applyExerciseInput(existing, in)

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, mapWriteError(err)
	}
	return existing, nil
}

func applyExerciseInput(ex *domain.Exercise, in ExerciseInput) {
	ex.Name = strings.TrimSpace(in.Name)
	ex.Slug = in.Slug
	ex.BodyPartID = in.BodyPartID
	ex.Description = in.Description
	ex.YouTubeURL = in.YouTubeURL
	ex.Image = in.Image
	ex.ImageURL = in.ImageURL
	ex.ImageWidth = in.ImageWidth
	ex.ImageHeight = in.ImageHeight
}

func (s *exerciseService) Stats(ctx context.Context) (*ExerciseStats, error) {
	rows, err := s.exerciseRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := &ExerciseStats{ByBodyPart: rows}
	for _, r := range rows {
		out.Total += r.Total
		out.WithVideo += r.WithVideo
		out.AIGenerated += r.AIGenerated
	}
	out.WithoutVideo = out.Total - out.WithVideo
	out.Manual = out.Total - out.AIGenerated
	return out, nil
}
