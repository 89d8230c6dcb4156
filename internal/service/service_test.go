package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/repository/sqlstore"
	"heartwellness/fitness-cms/internal/sitemap"
)

func newRepos(t *testing.T) repository.Repositories {
	t.Helper()
	db, err := sqlstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlstore.Close(db) })
	return sqlstore.NewRepositories(db)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	auth := NewAuthService(repos.Users, "test-secret", time.Hour)

	user, err := auth.Register(ctx, "Admin", "Admin@Example.com", "s3cret-pass", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	_, err = auth.Register(ctx, "Again", "admin@example.com", "whatever1", domain.RoleEditor)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = auth.Register(ctx, "Bad", "bad@example.com", "whatever1", domain.Role("trainer"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, _, err = auth.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = auth.Login(ctx, "nobody@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	token, logged, err := auth.Login(ctx, "admin@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, logged.Role)

	claims := &JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, strconv.FormatInt(logged.ID, 10), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestRecommendations(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	legs := &domain.BodyPart{Name: "Legs"}
	require.NoError(t, repos.BodyParts.Create(ctx, legs))
	var ids []int64
	for _, name := range []string{"Squat", "Lunge", "Deadlift", "Step Up", "Calf Raise", "Leg Press"} {
		ex := &domain.Exercise{Name: name, BodyPartID: legs.ID}
		require.NoError(t, repos.Exercises.Create(ctx, ex))
		ids = append(ids, ex.ID)
	}

	noShuffle := func(int, func(i, j int)) {}
	svc := NewBodyPartServiceWithShuffle(repos.BodyParts, repos.Exercises, noShuffle)

	got, err := svc.Recommendations(ctx, "legs", 0, ids[0])
	require.NoError(t, err)
	require.Len(t, got, DefaultRecommendations)
	assert.Equal(t, ids[1], got[0].ID)
	for _, e := range got {
		assert.NotEqual(t, ids[0], e.ID)
	}

	got, err = svc.Recommendations(ctx, "legs", 500, 0)
	require.NoError(t, err)
	assert.Len(t, got, 6)

	_, err = svc.Recommendations(ctx, "arms", 4, 0)
	assert.ErrorIs(t, err, ErrBodyPartNotFound)

	// The default shuffle still returns a sample of the right size.
	got, err = NewBodyPartService(repos.BodyParts, repos.Exercises).Recommendations(ctx, "legs", 3, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestBodyPartDeleteCascades(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	bps := NewBodyPartService(repos.BodyParts, repos.Exercises)
	exs := NewExerciseService(repos.Exercises, repos.BodyParts, repos.Keywords)

	bp, err := bps.Create(ctx, BodyPartInput{Name: "Chest"})
	require.NoError(t, err)
	assert.Equal(t, "chest", bp.Slug)
	_, err = bps.Create(ctx, BodyPartInput{Name: "Other", Slug: "chest"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	ex, err := exs.Create(ctx, ExerciseInput{Name: "Bench Press", BodyPartID: bp.ID})
	require.NoError(t, err)
	require.NoError(t, repos.Keywords.ReplaceForExercise(ctx, ex.ID, []domain.ContentKeywordMapping{
		{Keyword: "bench press", ContentType: domain.ContentOther, RelevanceScore: 0.8},
	}))

	require.NoError(t, bps.Delete(ctx, bp.ID))
	_, err = exs.GetByID(ctx, ex.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
	assert.ErrorIs(t, bps.Delete(ctx, bp.ID), ErrBodyPartNotFound)
}

func TestExerciseServiceLookupsAndStats(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	exs := NewExerciseService(repos.Exercises, repos.BodyParts, repos.Keywords)

	legs := &domain.BodyPart{Name: "Legs"}
	arms := &domain.BodyPart{Name: "Arms"}
	require.NoError(t, repos.BodyParts.Create(ctx, legs))
	require.NoError(t, repos.BodyParts.Create(ctx, arms))

	squat, err := exs.Create(ctx, ExerciseInput{Name: "Squat", BodyPartID: legs.ID, YouTubeURL: "https://youtu.be/abcdefghijk"})
	require.NoError(t, err)
	_, err = exs.Create(ctx, ExerciseInput{Name: "Curl", BodyPartID: arms.ID})
	require.NoError(t, err)
	_, err = exs.Create(ctx, ExerciseInput{Name: "Ghost", BodyPartID: 999})
	assert.ErrorIs(t, err, ErrBodyPartNotFound)

	d, err := exs.GetBySlugs(ctx, "legs", "squat")
	require.NoError(t, err)
	assert.Equal(t, squat.ID, d.Exercise.ID)
	assert.Empty(t, d.Mappings)
	_, err = exs.GetBySlugs(ctx, "arms", "squat")
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	_, _, err = exs.ListByBodyPart(ctx, "back", 0, 10)
	assert.ErrorIs(t, err, ErrBodyPartNotFound)
	_, _, err = exs.List(ctx, repository.ExerciseFilter{Ordering: "difficulty"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	updated, err := exs.Update(ctx, squat.ID, ExerciseInput{Name: "Back Squat"})
	require.NoError(t, err)
	assert.Equal(t, "squat", updated.Slug)
	assert.Equal(t, legs.ID, updated.BodyPartID)

	stats, err := exs.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 0, stats.WithVideo)
	assert.EqualValues(t, 2, stats.WithoutVideo)
	assert.EqualValues(t, 2, stats.Manual)
	assert.Len(t, stats.ByBodyPart, 2)
}

type recordingSyncer struct {
	calls int
	err   error
}

func (r *recordingSyncer) Sync(context.Context, bool) (sitemap.Result, error) {
	r.calls++
	return sitemap.Result{}, r.err
}

func TestArticleCreateSyncsSitemapOnly(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	syncer := &recordingSyncer{err: errors.New("disk full")}
	svc := NewArticleService(repos.Articles, syncer, logger.NewNop())

	a, err := svc.Create(ctx, ArticleInput{Title: "Heart Rate Zones", Keywords: []string{"heart rate"}})
	require.NoError(t, err)
	assert.Equal(t, 1, syncer.calls)

	_, err = svc.Update(ctx, a.ID, ArticleInput{Title: "Heart Rate Zones 101", Content: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, 1, syncer.calls)

	_, err = svc.Create(ctx, ArticleInput{Title: " "})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestArticleLookup(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	svc := NewArticleService(repos.Articles, nil, logger.NewNop())

	first, err := svc.Create(ctx, ArticleInput{Title: "Zones", Keywords: []string{"Heart Rate"}})
	require.NoError(t, err)
	second, err := svc.Create(ctx, ArticleInput{Title: "My Article"})
	require.NoError(t, err)

	for lookup, want := range map[string]int64{
		strconv.FormatInt(second.ID, 10): second.ID,
		"my-article":                     second.ID,
		"zones":                          first.ID,
		"heart-rate":                     first.ID,
	} {
		got, err := svc.Lookup(ctx, lookup)
		require.NoError(t, err, lookup)
		assert.Equal(t, want, got.ID, lookup)
	}

	_, err = svc.Lookup(ctx, "missing")
	assert.ErrorIs(t, err, ErrArticleNotFound)
	_, err = svc.Lookup(ctx, "12345")
	assert.ErrorIs(t, err, ErrArticleNotFound)

	urls, err := svc.URLs(ctx)
	require.NoError(t, err)
	paths := map[int64]string{}
	for _, u := range urls {
		paths[u.Article.ID] = u.Path
	}
	assert.Equal(t, map[int64]string{first.ID: "/articles/heart-rate", second.ID: "/articles/my-article"}, paths)
}

type fakeStorage struct{ fail bool }

func (f fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if f.fail {
		return "", errors.New("no credentials")
	}
	return "https://bucket.test/" + key + "?signed", nil
}
func (fakeStorage) PutObject(context.Context, string, string, []byte) error { return nil }
func (fakeStorage) GetObject(context.Context, string) ([]byte, error)       { return nil, nil }
func (fakeStorage) DeleteObject(context.Context, string) error              { return nil }
func (fakeStorage) PublicURL(key string) string                             { return "https://cdn.test/" + key }

func TestUploadService(t *testing.T) {
	ctx := context.Background()

	out, err := NewUploadService(fakeStorage{}).RequestImageUploadURLs(ctx, "exercises", []string{"a.PNG", "b.jpg"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "image/png", out[0].ContentType)
	assert.Regexp(t, `^exercises/[0-9a-f-]{36}\.png$`, out[0].ObjectKey)
	assert.Equal(t, "https://cdn.test/"+out[1].ObjectKey, out[1].PublicURL)

	_, err = NewUploadService(fakeStorage{}).RequestImageUploadURLs(ctx, "exercises", []string{"notes.txt"})
	assert.ErrorIs(t, err, ErrUnsupportedImageType)
	_, err = NewUploadService(fakeStorage{fail: true}).RequestImageUploadURLs(ctx, "", []string{"a.png"})
	assert.ErrorIs(t, err, ErrUploadURLError)
	_, err = NewUploadService(nil).RequestImageUploadURLs(ctx, "", []string{"a.png"})
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
