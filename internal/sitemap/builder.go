package sitemap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"heartwellness/fitness-cms/internal/repository"
)

// Builder produces the full sitemap from the database.
type Builder struct {
	baseURL     string
	staticPages []string
	articles    repository.ArticleRepository
	exercises   repository.ExerciseRepository
	now         func() time.Time
}

func NewBuilder(baseURL string, staticPages []string, articles repository.ArticleRepository, exercises repository.ExerciseRepository) *Builder {
	return &Builder{
		baseURL:     strings.TrimRight(baseURL, "/"),
		staticPages: staticPages,
		articles:    articles,
		exercises:   exercises,
		now:         time.Now,
	}
}

// WithClock replaces the clock used when there is no content to date the static pages.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// URL joins a site path onto the base URL.
func (b *Builder) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.baseURL + path
}

// Build lists static pages, then articles (newest first), then exercises.
func (b *Builder) Build(ctx context.Context) (*URLSet, error) {
	articles, _, err := b.articles.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	exercises, _, err := b.exercises.List(ctx, repository.ExerciseFilter{})
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	var newest time.Time
	for _, a := range articles {
		if a.UpdatedAt.After(newest) {
			newest = a.UpdatedAt
		}
	}
	for _, e := range exercises {
		if e.UpdatedAt.After(newest) {
			newest = e.UpdatedAt
		}
	}
	if newest.IsZero() {
		newest = b.now()
	}
	staticMod := FormatLastMod(newest)

	set := &URLSet{XMLNS: Namespace}
	for _, page := range b.staticPages {
		u := URL{Loc: b.URL(page), LastMod: staticMod, ChangeFreq: StaticChangeFreq, Priority: StaticPriority}
		if page == "/" || page == "" {
			u.ChangeFreq, u.Priority = HomeChangeFreq, HomePriority
		}
		set.Add(u)
	}

	segments := ResolveArticleSegments(articles)
	for _, a := range articles {
		set.Add(URL{
			Loc:        b.URL(ArticlePath(segments[a.ID])),
			LastMod:    FormatLastMod(a.UpdatedAt),
			ChangeFreq: ArticleChangeFreq,
			Priority:   ArticlePriority,
		})
	}

	for _, e := range exercises {
		if e.BodyPart == nil || e.Slug == "" {
			continue
		}
		set.Add(URL{
			Loc:        b.URL(ExercisePath(e.BodyPart.Slug, e.Slug)),
			LastMod:    FormatLastMod(e.UpdatedAt),
			ChangeFreq: ExerciseChangeFreq,
			Priority:   ExercisePriority,
		})
	}
	return set, nil
}
