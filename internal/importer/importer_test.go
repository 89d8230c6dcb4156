package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/repository/sqlstore"
	"heartwellness/fitness-cms/internal/slug"
)

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Lat-Pulldown---Wide-Grip", CleanName("Lat Pulldown / Wide Grip"))
	assert.Equal(t, "lat-pulldown-wide-grip", slug.Make(CleanName("Lat Pulldown / Wide Grip")))
	assert.Equal(t, "Squat", CleanName("Squat (Barbell (High Bar))"))
	assert.Equal(t, "Push-Up", CleanName("  Push-Up  "))
}

func TestParseLines(t *testing.T) {
	in := "Squat,Legs\n\nbroken line\nBench Press , Chest\na,b,c\n"
	records, warnings := ParseLines(strings.NewReader(in))

	assert.Equal(t, []Record{{Name: "Squat", BodyPart: "Legs"}, {Name: "Bench Press", BodyPart: "Chest"}}, records)
	assert.Len(t, warnings, 2)
}

func TestReadFileYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("- name: Squat\n  body_part: Legs\n  youtube_url: https://youtu.be/abcdefghijk\n- name: ''\n  body_part: Legs\n"), 0o644))
	js := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(js, []byte(`[{"name":"Plank","body_part":"Core","description":"Hold it."}]`), 0o644))

	records, warnings, err := ReadFile(yml)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	require.Len(t, records, 1)
	assert.Equal(t, "https://youtu.be/abcdefghijk", records[0].YouTubeURL)

	records, _, err = ReadFile(js)
	require.NoError(t, err)
	assert.Equal(t, []Record{{Name: "Plank", BodyPart: "Core", Description: "Hold it."}}, records)
}

func TestImportGetOrCreates(t *testing.T) {
	db, err := sqlstore.OpenMemory()
	require.NoError(t, err)
	defer sqlstore.Close(db)
	repos := sqlstore.NewRepositories(db)
	ctx := context.Background()

	// An unrelated exercise already owns the "squat" slug.
	other := &domain.BodyPart{Name: "Other"}
	require.NoError(t, repos.BodyParts.Create(ctx, other))
	require.NoError(t, repos.Exercises.Create(ctx, &domain.Exercise{Name: "Air Squat", Slug: "squat", BodyPartID: other.ID}))

	im := New(repos.BodyParts, repos.Exercises, logger.NewNop())
	summary, err := im.Import(ctx, []Record{
		{Name: "Squat (Barbell)", BodyPart: "Legs"},
		{Name: "Lunge", BodyPart: "Legs"},
		{Name: "Lunge", BodyPart: "Legs"},
		{Name: "Air Squat", BodyPart: "Other"},
	})
	require.NoError(t, err)

	assert.Equal(t, Summary{BodyPartsCreated: 1, ExercisesCreated: 2, Existing: 1, Duplicates: 1}, summary)

	squat, err := repos.Exercises.GetByName(ctx, "Squat (Barbell)")
	require.NoError(t, err)
	assert.Equal(t, "squat-1", squat.Slug)
	assert.Equal(t, "Legs", squat.BodyPart.Name)

	legs, err := repos.BodyParts.GetBySlug(ctx, "legs")
	require.NoError(t, err)
	assert.Equal(t, "Legs exercises", legs.Description)

	_, total, err := repos.Exercises.List(ctx, repository.ExerciseFilter{BodyPartID: legs.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
