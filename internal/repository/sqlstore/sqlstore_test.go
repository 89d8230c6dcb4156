package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/repository"
)

func setupRepos(t *testing.T) repository.Repositories {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewRepositories(db)
}

func seedBodyPart(t *testing.T, repos repository.Repositories, name string) *domain.BodyPart {
	t.Helper()
	bp := &domain.BodyPart{Name: name}
	require.NoError(t, repos.BodyParts.Create(context.Background(), bp))
	return bp
}

func seedExercise(t *testing.T, repos repository.Repositories, bp *domain.BodyPart, name, video string) *domain.Exercise {
	t.Helper()
	ex := &domain.Exercise{Name: name, BodyPartID: bp.ID, YouTubeURL: video}
	require.NoError(t, repos.Exercises.Create(context.Background(), ex))
	return ex
}

func TestBodyPartSlugDerivation(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	first := seedBodyPart(t, repos, "Upper Arms")
	second := seedBodyPart(t, repos, "Upper Arms")
	third := seedBodyPart(t, repos, "Upper  Arms!")
	nonLatin := seedBodyPart(t, repos, "胸部")

	assert.Equal(t, "upper-arms", first.Slug)
	assert.Equal(t, "upper-arms-1", second.Slug)
	assert.Equal(t, "upper-arms-2", third.Slug)
	assert.Equal(t, "body-part", nonLatin.Slug)
	assert.NotZero(t, first.ID)

	got, err := repos.BodyParts.GetBySlug(ctx, "upper-arms-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestExplicitSlugCollisionIsRejected(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	seedBodyPart(t, repos, "Chest")
	err := repos.BodyParts.Create(ctx, &domain.BodyPart{Name: "Pecs", Slug: "chest"})
	assert.ErrorIs(t, err, repository.ErrDuplicateSlug)
}

func TestUpdateKeepsOwnSlug(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	bp := seedBodyPart(t, repos, "Back")
	bp.Description = "Lats and traps"
	require.NoError(t, repos.BodyParts.Update(ctx, bp))
	assert.Equal(t, "back", bp.Slug)

	got, err := repos.BodyParts.GetByID(ctx, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lats and traps", got.Description)
}

func TestBodyPartDeleteCascades(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	legs := seedBodyPart(t, repos, "Legs")
	chest := seedBodyPart(t, repos, "Chest")
	squat := seedExercise(t, repos, legs, "Squat", "")
	bench := seedExercise(t, repos, chest, "Bench Press", "")
	require.NoError(t, repos.Keywords.ReplaceForExercise(ctx, squat.ID, []domain.ContentKeywordMapping{
		{Keyword: "squat", ContentType: domain.ContentOther, RelevanceScore: 0.8},
	}))
	require.NoError(t, repos.Keywords.ReplaceForExercise(ctx, bench.ID, []domain.ContentKeywordMapping{
		{Keyword: "bench", ContentType: domain.ContentOther, RelevanceScore: 0.8},
	}))

	require.NoError(t, repos.BodyParts.Delete(ctx, legs.ID))

	_, err := repos.Exercises.GetByID(ctx, squat.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	mappings, err := repos.Keywords.ListByExercise(ctx, squat.ID)
	require.NoError(t, err)
	assert.Empty(t, mappings)

	mappings, err = repos.Keywords.ListByExercise(ctx, bench.ID)
	require.NoError(t, err)
	assert.Len(t, mappings, 1)

	assert.ErrorIs(t, repos.BodyParts.Delete(ctx, legs.ID), repository.ErrNotFound)
}

func TestExerciseListFilters(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	legs := seedBodyPart(t, repos, "Legs")
	chest := seedBodyPart(t, repos, "Chest")
	seedExercise(t, repos, legs, "Squat", "https://www.youtube.com/watch?v=abcdefghijk")
	seedExercise(t, repos, legs, "Lunge", "")
	seedExercise(t, repos, chest, "Bench Press", "")

	all, total, err := repos.Exercises.List(ctx, repository.ExerciseFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "Bench Press", all[0].Name)
	require.NotNil(t, all[0].BodyPart)
	assert.Equal(t, "Chest", all[0].BodyPart.Name)

	byPart, total, err := repos.Exercises.List(ctx, repository.ExerciseFilter{BodyPartID: legs.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byPart, 2)

	searched, _, err := repos.Exercises.List(ctx, repository.ExerciseFilter{Search: "LEG"})
	require.NoError(t, err)
	assert.Len(t, searched, 2)

	missing, _, err := repos.Exercises.List(ctx, repository.ExerciseFilter{MissingVideo: true})
	require.NoError(t, err)
	assert.Len(t, missing, 2)

	paged, total, err := repos.Exercises.List(ctx, repository.ExerciseFilter{Ordering: "-name", Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, paged, 1)
	assert.Equal(t, "Lunge", paged[0].Name)
}

func TestExerciseSearchMatchesWildcardsLiterally(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	arms := seedBodyPart(t, repos, "Arms")
	seedExercise(t, repos, arms, "100% Effort Curl", "")
	seedExercise(t, repos, arms, "1000 Reps Curl", "")
	seedExercise(t, repos, arms, "Cable_Fly", "")
	seedExercise(t, repos, arms, "Cable Fly", "")
	seedExercise(t, repos, arms, `Back\Slash Row`, "")

	names := func(search string) []string {
		t.Helper()
		list, _, err := repos.Exercises.List(ctx, repository.ExerciseFilter{Search: search})
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, ex := range list {
			out = append(out, ex.Name)
		}
		return out
	}

	assert.Equal(t, []string{"100% Effort Curl"}, names("100%"))
	assert.Equal(t, []string{"Cable_Fly"}, names("_"))
	assert.Equal(t, []string{"Cable_Fly"}, names("e_f"))
	assert.Equal(t, []string{`Back\Slash Row`}, names(`\`))
	assert.Len(t, names("cable"), 2)

	assert.Equal(t, `%a\%b\_c\\%`, containsPattern(`a%b_c\`))
}

func TestExerciseGetBySlugs(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	legs := seedBodyPart(t, repos, "Legs")
	squat := seedExercise(t, repos, legs, "Front Squat", "")

	got, err := repos.Exercises.GetBySlugs(ctx, "legs", "front-squat")
	require.NoError(t, err)
	assert.Equal(t, squat.ID, got.ID)

	_, err = repos.Exercises.GetBySlugs(ctx, "chest", "front-squat")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExerciseStats(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	legs := seedBodyPart(t, repos, "Legs")
	seedBodyPart(t, repos, "Neck")
	seedExercise(t, repos, legs, "Squat", "https://youtu.be/abcdefghijk")
	lunge := seedExercise(t, repos, legs, "Lunge", "")
	lunge.AIGenerated = true
	lunge.Description = "# Lunge"
	require.NoError(t, repos.Exercises.Update(ctx, lunge))

	stats, err := repos.Exercises.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "Legs", stats[0].BodyPartName)
	assert.EqualValues(t, 2, stats[0].Total)
	assert.EqualValues(t, 1, stats[0].WithVideo)
	assert.EqualValues(t, 1, stats[0].AIGenerated)
	assert.EqualValues(t, 0, stats[1].Total)
}

func TestKeywordReplaceForExercise(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	legs := seedBodyPart(t, repos, "Legs")
	squat := seedExercise(t, repos, legs, "Squat", "")

	require.NoError(t, repos.Keywords.ReplaceForExercise(ctx, squat.ID, []domain.ContentKeywordMapping{
		{Keyword: "old", ContentType: domain.ContentOther, RelevanceScore: 0.8},
	}))
	require.NoError(t, repos.Keywords.ReplaceForExercise(ctx, squat.ID, []domain.ContentKeywordMapping{
		{Keyword: "how to squat", ContentType: domain.ContentTutorial, RelevanceScore: 1},
		{Keyword: "squat", ContentType: domain.ContentOther, RelevanceScore: 0.8},
	}))

	got, err := repos.Keywords.ListByExercise(ctx, squat.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "how to squat", got[0].Keyword)

	err = repos.Keywords.ReplaceForExercise(ctx, squat.ID, []domain.ContentKeywordMapping{{Keyword: "x", ContentType: "bogus"}})
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestArticleListNewestFirstAndRawRepair(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	older := &domain.Article{Title: "My Article", Keywords: domain.StringList{"heart rate"}}
	require.NoError(t, repos.Articles.Create(ctx, older))
	newer := &domain.Article{Title: "My Article"}
	require.NoError(t, repos.Articles.Create(ctx, newer))
	assert.Equal(t, "my-article", older.Slug)
	assert.Equal(t, "my-article-1", newer.Slug)

	list, total, err := repos.Articles.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, domain.StringList{"heart rate"}, list[1].Keywords)

	db, err := OpenMemory()
	require.NoError(t, err)
	raw := NewRawListRepository(db)
	now := time.Now().UTC()
	require.NoError(t, db.Exec(`INSERT INTO articles (title, slug, content, images, keywords, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"Broken", "broken", "", "not json", `["ok"]`, now, now).Error)

	items, err := raw.ListRaw(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	var broken repository.RawList
	for _, it := range items {
		if it.Kind == "article.images" {
			broken = it
		}
	}
	assert.Equal(t, "not json", broken.Raw)
	require.NoError(t, raw.ResetRaw(ctx, broken))

	articles := NewArticleRepository(db)
	a, err := articles.GetBySlug(ctx, "broken")
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{}, a.Images)
	assert.Equal(t, domain.StringList{"ok"}, a.Keywords)
}

func TestUserDuplicateEmail(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Users.Create(ctx, &domain.User{Email: "Admin@Example.com", PasswordHash: "x", Role: domain.RoleAdmin}))
	err := repos.Users.Create(ctx, &domain.User{Email: "admin@example.com", PasswordHash: "y", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	u, err := repos.Users.GetByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}
