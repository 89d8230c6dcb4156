package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Heart Rate":             "heart-rate",
		"  Barbell  Back Squat ": "barbell-back-squat",
		"Push-Up (Wide Grip)":    "push-up-wide-grip",
		"Crème Brûlée":           "creme-brulee",
		"cable_fly":              "cable_fly",
		"--Dumbbell--Row--":      "dumbbell-row",
		"Lat Pulldown / Cable":   "lat-pulldown-cable",
		"深蹲":                     "",
		"":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}

func TestUniqueSuffixesDeterministically(t *testing.T) {
	taken := map[string]bool{"squat": true, "squat-1": true}
	exists := func(_ context.Context, c string) (bool, error) { return taken[c], nil }

	got, err := Unique(context.Background(), "squat", "exercise", exists)
	require.NoError(t, err)
	assert.Equal(t, "squat-2", got)

	got, err = Unique(context.Background(), "lunge", "exercise", exists)
	require.NoError(t, err)
	assert.Equal(t, "lunge", got)
}

func TestUniqueUsesFallbackForEmptyBase(t *testing.T) {
	taken := map[string]bool{"article": true}
	got, err := Unique(context.Background(), "", "article", func(_ context.Context, c string) (bool, error) { return taken[c], nil })
	require.NoError(t, err)
	assert.Equal(t, "article-1", got)
}

func TestUniquePropagatesLookupErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := Unique(context.Background(), "plank", "exercise", func(context.Context, string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestSuffixed(t *testing.T) {
	assert.Equal(t, "plank", Suffixed("plank", 0))
	assert.Equal(t, "plank-3", Suffixed("plank", 3))
}
