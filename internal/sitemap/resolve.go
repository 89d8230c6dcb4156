package sitemap

import (
	"sort"
	"strconv"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/slug"
)

// ArticlePath is the public path of an article segment.
func ArticlePath(segment string) string {
	return "/articles/" + segment
}

// ExercisePath is the public path of an exercise.
func ExercisePath(bodyPartSlug, exerciseSlug string) string {
	return "/exercises/" + bodyPartSlug + "/" + exerciseSlug
}

// ResolveArticleSegments picks the URL segment of every article: the slugified first keyword,
// else the article slug, else the numeric id. A candidate is passed over when an article with a
// lower id already claimed it, or when it equals another article's slug or id, so every segment
// is unique and still resolves to its own article by id, slug then keyword.
func ResolveArticleSegments(articles []domain.Article) map[int64]string {
	ordered := make([]domain.Article, len(articles))
	copy(ordered, articles)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	owner := make(map[string]int64, len(ordered)*2)
	for _, a := range ordered {
		owner[strconv.FormatInt(a.ID, 10)] = a.ID
		if a.Slug != "" {
			owner[a.Slug] = a.ID
		}
	}

	claimed := make(map[string]bool, len(ordered))
	out := make(map[int64]string, len(ordered))
	for _, a := range ordered {
		id := strconv.FormatInt(a.ID, 10)
		segment := id
		for _, candidate := range []string{slug.Make(a.Keywords.First()), a.Slug} {
			if candidate == "" || claimed[candidate] {
				continue
			}
			if o, ok := owner[candidate]; ok && o != a.ID {
				continue
			}
			segment = candidate
			break
		}
		claimed[segment] = true
		out[a.ID] = segment
	}
	return out
}
