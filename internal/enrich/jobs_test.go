package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartwellness/fitness-cms/internal/ai"
	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/repository/sqlstore"
	"heartwellness/fitness-cms/internal/video"
)

type fakeCompleter struct {
	mu       sync.Mutex
	prompts  []string
	response func(prompt string) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()
	return f.response(req.Prompt)
}

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	results func(query string) ([]video.Result, error)
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]video.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.results(query)
}

func newRepos(t *testing.T) repository.Repositories {
	t.Helper()
	db, err := sqlstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlstore.Close(db) })
	return sqlstore.NewRepositories(db)
}

// seedExercises creates exercises "Ex 1".."Ex n" under one body part; ids are 1..n.
func seedExercises(t *testing.T, repos repository.Repositories, n int) []*domain.Exercise {
	t.Helper()
	ctx := context.Background()
	bp := &domain.BodyPart{Name: "Legs"}
	require.NoError(t, repos.BodyParts.Create(ctx, bp))
	out := make([]*domain.Exercise, 0, n)
	for i := 1; i <= n; i++ {
		ex := &domain.Exercise{Name: "Ex " + string(rune('0'+i)), BodyPartID: bp.ID}
		require.NoError(t, repos.Exercises.Create(ctx, ex))
		out = append(out, ex)
	}
	return out
}

func TestDescriptionGeneratorCountsOutcomes(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	exercises := seedExercises(t, repos, 3)

	done := exercises[2]
	done.Description = "hand written"
	require.NoError(t, repos.Exercises.Update(ctx, done))

	completer := &fakeCompleter{response: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Ex 2") {
			return "", ai.ErrEmptyCompletion
		}
		return "Intro\n## What is it?\nStuff\n## Common Mistakes\n- Rounding", nil
	}}
	gen := NewDescriptionGenerator(repos.Exercises, repos.Keywords, completer, logger.NewNop())

	summary, err := gen.Run(ctx, DescriptionOptions{ExtractKeywords: true})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Success)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, 8, summary.Keywords)
	assert.InDelta(t, 50.0, summary.SuccessRate(), 0.001)

	got, err := repos.Exercises.GetByID(ctx, exercises[0].ID)
	require.NoError(t, err)
	assert.True(t, got.AIGenerated)
	assert.True(t, strings.HasPrefix(got.Description, "# Ex 1\n\nIntro\n## What is it?"))
	assert.Equal(t, "what is it?", got.GeneratedKeywords.First())

	mappings, err := repos.Keywords.ListByExercise(ctx, exercises[0].ID)
	require.NoError(t, err)
	assert.Len(t, mappings, 8)

	untouched, err := repos.Exercises.GetByID(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, "hand written", untouched.Description)
}

func TestDescriptionGeneratorDryRunAndLimit(t *testing.T) {
	repos := newRepos(t)
	seedExercises(t, repos, 3)
	completer := &fakeCompleter{response: func(string) (string, error) { return "x", nil }}
	gen := NewDescriptionGenerator(repos.Exercises, repos.Keywords, completer, logger.NewNop())

	summary, err := gen.Run(context.Background(), DescriptionOptions{DryRun: true, Limit: 2, Force: true})
	require.NoError(t, err)
	assert.Len(t, summary.Planned, 2)
	assert.Empty(t, completer.prompts)
}

func TestVideoImporterResumesFromProgress(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	exercises := seedExercises(t, repos, 5)

	store := NewMemoryProgressStore()
	p := NewProgress(day1)
	for _, ex := range exercises[:3] {
		p = p.Mark(ex.ID, OutcomeSkipped, day1)
	}
	require.NoError(t, store.Save(ctx, p))

	searcher := &fakeSearcher{results: func(query string) ([]video.Result, error) {
		if strings.HasPrefix(query, "Ex 4") {
			return []video.Result{{VideoID: "abcdefghijk", Title: "Ex 4 Tutorial"}}, nil
		}
		return nil, nil
	}}
	imp := NewVideoImporter(repos.Exercises, searcher, store, logger.NewNop()).WithClock(func() time.Time { return day1 })

	rep, err := imp.Run(ctx, VideoOptions{MaxQuota: 10000, QuotaPerSearch: 100})
	require.NoError(t, err)

	for _, q := range searcher.queries {
		assert.True(t, strings.HasPrefix(q, "Ex 4") || strings.HasPrefix(q, "Ex 5"), q)
	}
	assert.Equal(t, 1, rep.Success)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, 600, rep.QuotaUsed) // one hit for Ex 4, five misses for Ex 5
	assert.Equal(t, 0, rep.Remaining)

	got, err := repos.Exercises.GetByID(ctx, exercises[3].ID)
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=abcdefghijk", got.YouTubeURL)

	saved, err := store.Load(ctx, day1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, saved.ProcessedIDs)
	assert.EqualValues(t, 5, saved.LastProcessed)
}

func TestVideoImporterStopsWhenQuotaRunsOut(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	seedExercises(t, repos, 2)

	store := NewMemoryProgressStore()
	searcher := &fakeSearcher{results: func(string) ([]video.Result, error) { return nil, nil }}
	imp := NewVideoImporter(repos.Exercises, searcher, store, logger.NewNop()).WithClock(func() time.Time { return day1 })

	rep, err := imp.Run(ctx, VideoOptions{MaxQuota: 700, QuotaPerSearch: 100})
	require.NoError(t, err)

	assert.True(t, rep.StoppedForQuota)
	assert.Len(t, searcher.queries, 7)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, 700, rep.QuotaUsed)
	assert.Equal(t, 0, rep.QuotaRemaining)
	assert.Equal(t, 1, rep.Remaining)
	assert.Equal(t, 1, rep.DaysRemaining)

	saved, err := store.Load(ctx, day1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, saved.ProcessedIDs)

	// Same day: nothing left to spend.
	rep, err = imp.Run(ctx, VideoOptions{MaxQuota: 700, QuotaPerSearch: 100})
	require.NoError(t, err)
	assert.True(t, rep.StoppedForQuota)
	assert.Len(t, searcher.queries, 7)

	// Next day the quota resets and exercise 2 is picked up.
	imp.WithClock(func() time.Time { return day1.Add(24 * time.Hour) })
	rep, err = imp.Run(ctx, VideoOptions{MaxQuota: 700, QuotaPerSearch: 100})
	require.NoError(t, err)
	assert.False(t, rep.StoppedForQuota)
	assert.Equal(t, 500, rep.QuotaUsed)
	assert.Equal(t, 0, rep.Remaining)
}

func TestVideoImporterCountsSearchErrors(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	seedExercises(t, repos, 1)

	searcher := &fakeSearcher{results: func(string) ([]video.Result, error) { return nil, errors.New("403 quotaExceeded") }}
	imp := NewVideoImporter(repos.Exercises, searcher, NewMemoryProgressStore(), logger.NewNop()).WithClock(func() time.Time { return day1 })

	rep, err := imp.Run(ctx, VideoOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Errors)
	assert.Equal(t, 500, rep.QuotaUsed)
}

func TestVideoImporterResetAndDryRun(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	exercises := seedExercises(t, repos, 2)

	store := NewMemoryProgressStore()
	require.NoError(t, store.Save(ctx, NewProgress(day1).Mark(exercises[0].ID, OutcomeSkipped, day1)))

	searcher := &fakeSearcher{results: func(string) ([]video.Result, error) { return nil, nil }}
	imp := NewVideoImporter(repos.Exercises, searcher, store, logger.NewNop()).WithClock(func() time.Time { return day1 })

	rep, err := imp.Run(ctx, VideoOptions{DryRun: true})
	require.NoError(t, err)
	require.Len(t, rep.Planned, 1)
	assert.Equal(t, exercises[1].ID, rep.Planned[0].ID)

	rep, err = imp.Run(ctx, VideoOptions{DryRun: true, ResetProgress: true})
	require.NoError(t, err)
	assert.Len(t, rep.Planned, 2)
	assert.Empty(t, searcher.queries)
}
