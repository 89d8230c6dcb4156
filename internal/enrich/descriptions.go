package enrich

import (
	"context"
	"errors"
	"time"

	"heartwellness/fitness-cms/internal/ai"
	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/metrics"
	"heartwellness/fitness-cms/internal/repository"
)

const (
	descriptionMaxTokens   = 2000
	descriptionTemperature = 0.7
	descriptionTopP        = 1.0

	descriptionJob = "descriptions"
)

// DescriptionOptions controls one generate-descriptions run.
type DescriptionOptions struct {
	Force           bool // regenerate every exercise, not only those without a description
	Limit           int
	Delay           time.Duration
	DryRun          bool
	Model           string
	ExtractKeywords bool
}

// DescriptionSummary reports what a run did.
type DescriptionSummary struct {
	Planned  []domain.Exercise // candidates, filled on dry runs
	Success  int
	Skipped  int // completion failed
	Errors   int // completion succeeded but saving failed
	Total    int
	Keywords int
}

// SuccessRate is the share of candidates that got a new description, in percent.
func (s DescriptionSummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Success) / float64(s.Total) * 100
}

// DescriptionGenerator writes AI-generated markdown descriptions onto exercises.
type DescriptionGenerator struct {
	exercises repository.ExerciseRepository
	keywords  repository.KeywordMappingRepository
	completer ai.Completer
	log       *logger.Logger
}

func NewDescriptionGenerator(exercises repository.ExerciseRepository, keywords repository.KeywordMappingRepository, completer ai.Completer, log *logger.Logger) *DescriptionGenerator {
	return &DescriptionGenerator{exercises: exercises, keywords: keywords, completer: completer, log: log.With("job", descriptionJob)}
}

// Run processes candidates sequentially. Per-item failures are counted, never returned; the
// returned error is reserved for listing failures and cancellation.
func (g *DescriptionGenerator) Run(ctx context.Context, opts DescriptionOptions) (DescriptionSummary, error) {
	var summary DescriptionSummary

	candidates, _, err := g.exercises.List(ctx, repository.ExerciseFilter{
		MissingDescription: !opts.Force,
		Ordering:           "id",
		Limit:              opts.Limit,
	})
	if err != nil {
		return summary, err
	}
	summary.Total = len(candidates)

	if opts.DryRun {
		summary.Planned = candidates
		return summary, nil
	}

	g.log.Info("starting description generation", "candidates", len(candidates), "model", opts.Model, "force", opts.Force)

	pace := newPacer(opts.Delay)
	for i := range candidates {
		if err := pace.Wait(ctx); err != nil {
			return summary, err
		}
		ex := candidates[i]
		outcome, kwCount := g.process(ctx, &ex, opts)
		metrics.RecordJobItem(descriptionJob, string(outcome))
		switch outcome {
		case OutcomeSuccess:
			summary.Success++
			summary.Keywords += kwCount
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeError:
			summary.Errors++
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return summary, ctx.Err()
		}
	}

	g.log.Info("description generation finished",
		"success", summary.Success, "skipped", summary.Skipped, "errors", summary.Errors,
		"total", summary.Total, "keywords", summary.Keywords)
	return summary, nil
}

func (g *DescriptionGenerator) process(ctx context.Context, ex *domain.Exercise, opts DescriptionOptions) (Outcome, int) {
	log := g.log.With("exercise_id", ex.ID, "exercise", ex.Name)

	text, err := g.completer.Complete(ctx, ai.Request{
		Model:       opts.Model,
		System:      SystemInstruction,
		Prompt:      DescriptionPrompt(ex.Name),
		MaxTokens:   descriptionMaxTokens,
		Temperature: descriptionTemperature,
		TopP:        descriptionTopP,
	})
	metrics.RecordExternalCall("openai", err)
	if err != nil {
		log.Warn("description generation failed", "error", err)
		return OutcomeSkipped, 0
	}

	ex.Description = NormalizeDescription(text, ex.Name)
	ex.AIGenerated = true
	if err := g.exercises.Update(ctx, ex); err != nil {
		log.Error("failed to save description", "error", err)
		return OutcomeError, 0
	}
	log.Info("description saved", "chars", len(ex.Description))

	if !opts.ExtractKeywords {
		return OutcomeSuccess, 0
	}
	bodyPartName := ""
	if ex.BodyPart != nil {
		bodyPartName = ex.BodyPart.Name
	}
	mappings, keywords := ExtractKeywords(ex.Description, ex.Name, bodyPartName)
	if err := g.keywords.ReplaceForExercise(ctx, ex.ID, mappings); err != nil {
		log.Warn("keyword extraction failed", "error", err)
		return OutcomeSuccess, 0
	}
	ex.GeneratedKeywords = keywords
	if err := g.exercises.Update(ctx, ex); err != nil {
		log.Warn("failed to save generated keywords", "error", err)
		return OutcomeSuccess, 0
	}
	log.Debug("keywords extracted", "count", len(keywords))
	return OutcomeSuccess, len(keywords)
}
