// Package maintenance holds one-off data repair jobs run from the command line.
package maintenance

import (
	"context"
	"fmt"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/repository"
)

// ListRepairSummary reports what RepairLists found.
type ListRepairSummary struct {
	Checked  int
	Repaired []repository.RawList
	Failed   int
}

// RepairLists resets every stored list blob that does not decode to a JSON string array.
// With dryRun set nothing is written.
func RepairLists(ctx context.Context, lists repository.RawListRepository, log *logger.Logger, dryRun bool) (ListRepairSummary, error) {
	var summary ListRepairSummary

	items, err := lists.ListRaw(ctx)
	if err != nil {
		return summary, fmt.Errorf("list raw blobs: %w", err)
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Checked++
		if domain.IsValidStringList(item.Raw) {
			continue
		}

		log.Info("invalid list blob", "kind", item.Kind, "id", item.ID, "label", item.Label, "raw", truncate(item.Raw, 80))
		if dryRun {
			summary.Repaired = append(summary.Repaired, item)
			continue
		}
		if err := lists.ResetRaw(ctx, item); err != nil {
			summary.Failed++
			log.Error("failed to reset list blob", "kind", item.Kind, "id", item.ID, "error", err)
			continue
		}
		summary.Repaired = append(summary.Repaired, item)
	}
	return summary, nil
}

// SlugSummary counts the records that received a slug.
type SlugSummary struct {
	BodyParts int
	Exercises int
	Articles  int
	Failed    int
}

// Total is the number of records updated.
func (s SlugSummary) Total() int { return s.BodyParts + s.Exercises + s.Articles }

// GenerateSlugs assigns a unique slug to every body part, exercise and article stored without one.
// The repositories derive the slug when an update carries an empty one.
func GenerateSlugs(ctx context.Context, repos repository.Repositories, log *logger.Logger, dryRun bool) (SlugSummary, error) {
	var summary SlugSummary

	bodyParts, err := repos.BodyParts.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("list body parts: %w", err)
	}
	for i := range bodyParts {
		bp := &bodyParts[i]
		if bp.Slug != "" {
			continue
		}
		if !dryRun {
			if err := repos.BodyParts.Update(ctx, bp); err != nil {
				summary.Failed++
				log.Error("failed to generate body part slug", "body_part_id", bp.ID, "error", err)
				continue
			}
		}
		summary.BodyParts++
		log.Info("body part slug generated", "body_part_id", bp.ID, "name", bp.Name, "slug", bp.Slug)
	}

	exercises, _, err := repos.Exercises.List(ctx, repository.ExerciseFilter{Ordering: "id"})
	if err != nil {
		return summary, fmt.Errorf("list exercises: %w", err)
	}
	for i := range exercises {
		ex := &exercises[i]
		if ex.Slug != "" {
			continue
		}
		if !dryRun {
			if err := repos.Exercises.Update(ctx, ex); err != nil {
				summary.Failed++
				log.Error("failed to generate exercise slug", "exercise_id", ex.ID, "error", err)
				continue
			}
		}
		summary.Exercises++
		log.Info("exercise slug generated", "exercise_id", ex.ID, "name", ex.Name, "slug", ex.Slug)
	}

	articles, _, err := repos.Articles.List(ctx, 0, 0)
	if err != nil {
		return summary, fmt.Errorf("list articles: %w", err)
	}
	for i := range articles {
		a := &articles[i]
		if a.Slug != "" {
			continue
		}
		if !dryRun {
			if err := repos.Articles.Update(ctx, a); err != nil {
				summary.Failed++
				log.Error("failed to generate article slug", "article_id", a.ID, "error", err)
				continue
			}
		}
		summary.Articles++
		log.Info("article slug generated", "article_id", a.ID, "title", a.Title, "slug", a.Slug)
	}

	return summary, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
