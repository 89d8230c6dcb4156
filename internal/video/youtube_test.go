package video

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartwellness/fitness-cms/internal/config"
)

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    string
		ok      bool
	}{
		{
			name:    "prefers instructional title",
			results: []Result{{"a", "Squat Motivation"}, {"b", "How To Squat Properly"}},
			want:    "b", ok: true,
		},
		{
			name:    "drops music",
			results: []Result{{"a", "Squat Song Remix"}, {"b", "Leg day vlog"}},
			want:    "b", ok: true,
		},
		{
			name:    "falls back to first kept",
			results: []Result{{"a", "Leg day vlog"}, {"b", "Gym session"}},
			want:    "a", ok: true,
		},
		{
			name:    "nothing usable",
			results: []Result{{"a", "Workout Music Playlist"}},
			ok:      false,
		},
		{name: "empty", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectBest(tt.results)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.VideoID)
			}
		})
	}
}

func TestYouTubeSearcherSendsParameters(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/search") {
			http.NotFound(w, r)
			return
		}
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"kind":"youtube#video","videoId":"abcdefghijk"},"snippet":{"title":"Squat Tutorial"}},
			{"id":{"kind":"youtube#channel"},"snippet":{"title":"A channel"}}
		]}`))
	}))
	defer srv.Close()

	s, err := NewYouTubeSearcher(context.Background(), config.YouTubeConfig{
		APIKey: "yt-key", Endpoint: srv.URL, RegionCode: "US", Language: "en", Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "squat tutorial")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Result{VideoID: "abcdefghijk", Title: "Squat Tutorial"}, results[0])

	assert.Equal(t, []string{"squat tutorial"}, query["q"])
	assert.Equal(t, []string{"video"}, query["type"])
	assert.Equal(t, []string{"3"}, query["maxResults"])
	assert.Equal(t, []string{"medium"}, query["videoDuration"])
	assert.Equal(t, []string{"US"}, query["regionCode"])
}

func TestYouTubeSearcherHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	}))
	defer srv.Close()

	s, err := NewYouTubeSearcher(context.Background(), config.YouTubeConfig{APIKey: "k", Endpoint: srv.URL})
	require.NoError(t, err)
	_, err = s.Search(context.Background(), "squat")
	assert.Error(t, err)
}
