package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecodeStringListFallsBackToEmpty(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"a":1}`, `[1,2]`, `null`, `["ok"`} {
		got := DecodeStringList(raw)
		assert.NotNil(t, got, raw)
		assert.Empty(t, got, raw)
	}
	assert.Equal(t, StringList{"Heart Rate", "Cardio"}, DecodeStringList(`["Heart Rate","Cardio"]`))
}

func TestStringListEncodeAndHelpers(t *testing.T) {
	assert.Equal(t, "[]", StringList(nil).Encode())
	assert.Equal(t, `["a","b"]`, StringList{"a", "b"}.Encode())
	assert.Equal(t, "", StringList{}.First())
	assert.Equal(t, "a", StringList{"a", "b"}.First())
	assert.Equal(t, StringList{"a", "b"}, StringList{"a", "b", "c"}.Head(2))
	assert.True(t, IsValidStringList(`["x"]`))
	assert.False(t, IsValidStringList(`{"x":1}`))
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["squat"]`)))
	assert.Equal(t, StringList{"squat"}, l)
	require.NoError(t, l.Scan("garbage"))
	assert.Empty(t, l)
	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)
	assert.Error(t, l.Scan(42))
}

func TestStringListBSONRoundTripAndTolerance(t *testing.T) {
	type doc struct {
		Keywords StringList `bson:"keywords"`
	}
	raw, err := bson.Marshal(doc{Keywords: StringList{"plank", "core"}})
	require.NoError(t, err)

	var stored bson.M
	require.NoError(t, bson.Unmarshal(raw, &stored))
	assert.Equal(t, `["plank","core"]`, stored["keywords"])

	var back doc
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, StringList{"plank", "core"}, back.Keywords)

	legacy, err := bson.Marshal(bson.M{"keywords": bson.A{"a", "b"}})
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(legacy, &back))
	assert.Equal(t, StringList{"a", "b"}, back.Keywords)

	corrupt, err := bson.Marshal(bson.M{"keywords": 12})
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(corrupt, &back))
	assert.Empty(t, back.Keywords)
}

func TestExerciseYouTubeHelpers(t *testing.T) {
	ex := &Exercise{YouTubeURL: "https://youtu.be/dQw4w9WgXcQ"}
	assert.Equal(t, "dQw4w9WgXcQ", ex.YouTubeVideoID())
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", ex.YouTubeEmbedURL())
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", ex.YouTubeThumbnailURL(""))
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", ex.YouTubeThumbnailURL("maxresdefault"))

	ex.YouTubeURL = "https://www.youtube.com/watch?v=abcdefghijk&t=10"
	assert.Equal(t, "abcdefghijk", ex.YouTubeVideoID())

	ex.YouTubeURL = "https://vimeo.com/123"
	assert.Empty(t, ex.YouTubeEmbedURL())
	assert.Empty(t, (&Exercise{}).YouTubeThumbnailURL("default"))

	assert.Equal(t, "https://www.youtube.com/watch?v=abcdefghijk", WatchURL("abcdefghijk"))
}

func TestBodyPartStatsDerivedCounts(t *testing.T) {
	s := BodyPartStats{Total: 10, WithVideo: 4, AIGenerated: 7}
	assert.EqualValues(t, 6, s.WithoutVideo())
	assert.EqualValues(t, 3, s.Manual())
}
