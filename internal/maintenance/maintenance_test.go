package maintenance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/repository/sqlstore"
)

func openStore(t *testing.T) (*gorm.DB, repository.Repositories) {
	t.Helper()
	db, err := sqlstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlstore.Close(db) })
	return db, sqlstore.NewRepositories(db)
}

func TestRepairListsResetsCorruptBlobs(t *testing.T) {
	db, repos := openStore(t)
	ctx := context.Background()

	bp := &domain.BodyPart{Name: "Legs"}
	require.NoError(t, repos.BodyParts.Create(ctx, bp))
	ex := &domain.Exercise{Name: "Squat", BodyPartID: bp.ID, GeneratedKeywords: domain.StringList{"legs"}}
	require.NoError(t, repos.Exercises.Create(ctx, ex))
	article := &domain.Article{Title: "Heart Rate Zones", Keywords: domain.StringList{"zones"}}
	require.NoError(t, repos.Articles.Create(ctx, article))

	require.NoError(t, db.Table("articles").Where("id = ?", article.ID).UpdateColumn("keywords", "zones, cardio").Error)
	require.NoError(t, db.Table("exercises").Where("id = ?", ex.ID).UpdateColumn("generated_keywords", `{"a":1}`).Error)

	dry, err := RepairLists(ctx, repos.RawLists, logger.NewNop(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, dry.Checked)
	assert.Len(t, dry.Repaired, 2)

	stored, err := repos.RawLists.ListRaw(ctx)
	require.NoError(t, err)
	invalid := 0
	for _, item := range stored {
		if !domain.IsValidStringList(item.Raw) {
			invalid++
		}
	}
	assert.Equal(t, 2, invalid, "dry run must not write")

	summary, err := RepairLists(ctx, repos.RawLists, logger.NewNop(), false)
	require.NoError(t, err)
	require.Len(t, summary.Repaired, 2)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, "article.keywords", summary.Repaired[0].Kind)
	assert.Equal(t, "Heart Rate Zones", summary.Repaired[0].Label)
	assert.Equal(t, "exercise.generated_keywords", summary.Repaired[1].Kind)

	got, err := repos.Articles.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Keywords)

	again, err := RepairLists(ctx, repos.RawLists, logger.NewNop(), false)
	require.NoError(t, err)
	assert.Empty(t, again.Repaired)
}

func TestGenerateSlugsFillsBlankSlugs(t *testing.T) {
	db, repos := openStore(t)
	ctx := context.Background()

	bp := &domain.BodyPart{Name: "Upper Back"}
	require.NoError(t, repos.BodyParts.Create(ctx, bp))
	ex := &domain.Exercise{Name: "Bent-Over Row", BodyPartID: bp.ID}
	require.NoError(t, repos.Exercises.Create(ctx, ex))
	first := &domain.Article{Title: "Heart Rate"}
	require.NoError(t, repos.Articles.Create(ctx, first))
	second := &domain.Article{Title: "Heart Rate"}
	require.NoError(t, repos.Articles.Create(ctx, second))
	require.Equal(t, "heart-rate-1", second.Slug)

	require.NoError(t, db.Table("body_parts").Where("id = ?", bp.ID).UpdateColumn("slug", "").Error)
	require.NoError(t, db.Table("exercises").Where("id = ?", ex.ID).UpdateColumn("slug", "").Error)
	require.NoError(t, db.Table("articles").Where("id = ?", second.ID).UpdateColumn("slug", "").Error)

	dry, err := GenerateSlugs(ctx, repos, logger.NewNop(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, dry.Total())
	unchanged, err := repos.BodyParts.GetByID(ctx, bp.ID)
	require.NoError(t, err)
	assert.Empty(t, unchanged.Slug)

	summary, err := GenerateSlugs(ctx, repos, logger.NewNop(), false)
	require.NoError(t, err)
	assert.Equal(t, SlugSummary{BodyParts: 1, Exercises: 1, Articles: 1}, summary)

	gotBP, err := repos.BodyParts.GetByID(ctx, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, "upper-back", gotBP.Slug)

	gotEx, err := repos.Exercises.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "bent-over-row", gotEx.Slug)

	gotArticle, err := repos.Articles.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "heart-rate-1", gotArticle.Slug)

	again, err := GenerateSlugs(ctx, repos, logger.NewNop(), false)
	require.NoError(t, err)
	assert.Zero(t, again.Total())
}
