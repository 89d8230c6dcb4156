// Package video searches YouTube for exercise tutorial videos.
package video

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"heartwellness/fitness-cms/internal/config"
)

// Result is one video returned by a search.
type Result struct {
	VideoID string
	Title   string
}

// Searcher runs a single video search. Every call costs quota on the provider side.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// YouTubeSearcher calls the YouTube Data API v3 search.list endpoint.
type YouTubeSearcher struct {
	service    *youtube.Service
	regionCode string
	language   string
	maxResults int64
	timeout    time.Duration
}

// NewYouTubeSearcher builds a searcher. cfg.Endpoint overrides the API base URL.
func NewYouTubeSearcher(ctx context.Context, cfg config.YouTubeConfig) (*YouTubeSearcher, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.Endpoint, "/")+"/"))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &YouTubeSearcher{
		service:    svc,
		regionCode: cfg.RegionCode,
		language:   cfg.Language,
		maxResults: 3,
		timeout:    cfg.Timeout,
	}, nil
}

func (s *YouTubeSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	call := s.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(s.maxResults).
		Order("relevance").
		VideoDuration("medium").
		VideoDefinition("any").
		Context(ctx)
	if s.regionCode != "" {
		call = call.RegionCode(s.regionCode)
	}
	if s.language != "" {
		call = call.RelevanceLanguage(s.language)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	out := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		r := Result{VideoID: item.Id.VideoId}
		if item.Snippet != nil {
			r.Title = item.Snippet.Title
		}
		out = append(out, r)
	}
	return out, nil
}

var (
	unwantedTitleTerms  = []string{"music", "song", "remix", "playlist", "compilation"}
	preferredTitleTerms = []string{"tutorial", "exercise", "how to", "workout", "form"}
)

// SelectBest drops music-style results and prefers instructional titles. Without a preferred
// title the first remaining result wins; ok is false if nothing remains.
func SelectBest(results []Result) (best Result, ok bool) {
	var kept []Result
	for _, r := range results {
		title := strings.ToLower(r.Title)
		if containsAny(title, unwantedTitleTerms) {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return Result{}, false
	}
	for _, r := range kept {
		if containsAny(strings.ToLower(r.Title), preferredTitleTerms) {
			return r, true
		}
	}
	return kept[0], true
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
