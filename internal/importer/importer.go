// Package importer loads body parts and exercises from seed files.
package importer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/slug"
)

const maxSlugSuffix = 1000

// Record is one exercise to import.
type Record struct {
	Name        string `yaml:"name" json:"name"`
	BodyPart    string `yaml:"body_part" json:"body_part"`
	Description string `yaml:"description" json:"description"`
	YouTubeURL  string `yaml:"youtube_url" json:"youtube_url"`
}

// ReadFile parses path by extension: .yaml, .yml and .json hold a list of records, anything
// else is the "exercise name,body part" line format. Invalid lines are returned as warnings.
func ReadFile(path string) ([]Record, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		var records []Record
		// JSON documents are valid YAML.
		if err := yaml.NewDecoder(f).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("decode %s: %w", path, err)
		}
		var valid []Record
		var warnings []string
		for i, r := range records {
			r.Name, r.BodyPart = strings.TrimSpace(r.Name), strings.TrimSpace(r.BodyPart)
			if r.Name == "" || r.BodyPart == "" {
				warnings = append(warnings, fmt.Sprintf("record %d: name and body_part are required", i+1))
				continue
			}
			valid = append(valid, r)
		}
		return valid, warnings, nil
	default:
		records, warnings := ParseLines(f)
		return records, warnings, nil
	}
}

// ParseLines reads "exercise name,body part" lines. Lines without exactly one comma are skipped.
func ParseLines(r io.Reader) ([]Record, []string) {
	var (
		records  []Record
		warnings []string
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			warnings = append(warnings, "skipping invalid line: "+line)
			continue
		}
		records = append(records, Record{Name: strings.TrimSpace(parts[0]), BodyPart: strings.TrimSpace(parts[1])})
	}
	return records, warnings
}

// CleanName removes parenthesised text (nested too), turns slashes into hyphens and joins the
// remaining words with hyphens. The result is the slug source for imported names.
func CleanName(name string) string {
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), "/", "-")
	return strings.Join(strings.Fields(cleaned), "-")
}

// Summary counts what an import did.
type Summary struct {
	BodyPartsCreated int
	ExercisesCreated int
	Existing         int // exercise name already stored
	Duplicates       int // repeated within the input
	Failed           int
}

// Importer get-or-creates body parts and exercises by name.
type Importer struct {
	bodyParts repository.BodyPartRepository
	exercises repository.ExerciseRepository
	log       *logger.Logger
}

func New(bodyParts repository.BodyPartRepository, exercises repository.ExerciseRepository, log *logger.Logger) *Importer {
	return &Importer{bodyParts: bodyParts, exercises: exercises, log: log.With("job", "import-exercises")}
}

// Import stores records in order. A failing record is logged and counted; the rest continue.
func (im *Importer) Import(ctx context.Context, records []Record) (Summary, error) {
	var summary Summary
	seen := map[string]bool{}
	parts := map[string]*domain.BodyPart{}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if seen[rec.Name] {
			summary.Duplicates++
			continue
		}
		seen[rec.Name] = true

		bp, created, err := im.bodyPart(ctx, parts, rec.BodyPart)
		if err != nil {
			im.log.Error("failed to store body part", "body_part", rec.BodyPart, "error", err)
			summary.Failed++
			continue
		}
		if created {
			summary.BodyPartsCreated++
		}

		if _, err := im.exercises.GetByName(ctx, rec.Name); err == nil {
			summary.Existing++
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			im.log.Error("failed to look up exercise", "exercise", rec.Name, "error", err)
			summary.Failed++
			continue
		}

		ex := &domain.Exercise{
			Name:        rec.Name,
			BodyPartID:  bp.ID,
			Description: rec.Description,
			YouTubeURL:  rec.YouTubeURL,
		}
		err = createWithSlug(ctx, &ex.Slug, CleanName(rec.Name), "exercise", func() error {
			return im.exercises.Create(ctx, ex)
		})
		if err != nil {
			im.log.Error("failed to store exercise", "exercise", rec.Name, "error", err)
			summary.Failed++
			continue
		}
		summary.ExercisesCreated++
		im.log.Info("exercise created", "exercise", ex.Name, "slug", ex.Slug, "body_part", bp.Name)
	}
	return summary, nil
}

func (im *Importer) bodyPart(ctx context.Context, cache map[string]*domain.BodyPart, name string) (*domain.BodyPart, bool, error) {
	if bp, ok := cache[name]; ok {
		return bp, false, nil
	}
	bp, err := im.bodyParts.GetByName(ctx, name)
	if err == nil {
		cache[name] = bp
		return bp, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	bp = &domain.BodyPart{Name: name, Description: name + " exercises"}
	err = createWithSlug(ctx, &bp.Slug, CleanName(name), "body-part", func() error {
		return im.bodyParts.Create(ctx, bp)
	})
	if err != nil {
		return nil, false, err
	}
	cache[name] = bp
	im.log.Info("body part created", "body_part", bp.Name, "slug", bp.Slug)
	return bp, true, nil
}

// createWithSlug sets an explicit slug from source and walks the numeric suffixes until the
// store accepts one.
func createWithSlug(ctx context.Context, slugField *string, source, fallback string, create func() error) error {
	base := slug.Make(source)
	if base == "" {
		base = fallback
	}
	for n := 0; n < maxSlugSuffix; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		*slugField = slug.Suffixed(base, n)
		err := create()
		if !errors.Is(err, repository.ErrDuplicateSlug) {
			return err
		}
	}
	return fmt.Errorf("%w: no free slug for %q", repository.ErrDuplicateSlug, base)
}
