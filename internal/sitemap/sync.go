package sitemap

import (
	"context"
	"errors"
	"fmt"

	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/metrics"
)

// Result of one synchronization.
type Result struct {
	Written bool
	URLs    int
}

// Synchronizer rebuilds the sitemap and writes it to every target whose copy is out of date.
type Synchronizer struct {
	builder *Builder
	targets []Target
	log     *logger.Logger
}

func NewSynchronizer(builder *Builder, log *logger.Logger, targets ...Target) *Synchronizer {
	return &Synchronizer{builder: builder, targets: targets, log: log.With("component", "sitemap")}
}

// Sync builds a fresh sitemap and writes it to each target whose published URL set differs.
// With rebuild set every target is rewritten.
func (s *Synchronizer) Sync(ctx context.Context, rebuild bool) (Result, error) {
	set, err := s.builder.Build(ctx)
	if err != nil {
		metrics.SitemapWritesTotal.WithLabelValues("failed").Inc()
		return Result{}, err
	}
	data, err := Encode(set)
	if err != nil {
		metrics.SitemapWritesTotal.WithLabelValues("failed").Inc()
		return Result{}, err
	}

	res := Result{URLs: len(set.URLs)}
	var errs []error
	for _, t := range s.targets {
		if !rebuild && s.upToDate(ctx, t, set) {
			continue
		}
		if err := t.Write(ctx, data); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", t.Name(), err))
			continue
		}
		res.Written = true
		s.log.Info("sitemap written", "target", t.Name(), "urls", res.URLs)
	}

	switch {
	case len(errs) > 0:
		metrics.SitemapWritesTotal.WithLabelValues("failed").Inc()
	case res.Written:
		metrics.SitemapWritesTotal.WithLabelValues("written").Inc()
	default:
		metrics.SitemapWritesTotal.WithLabelValues("unchanged").Inc()
	}
	return res, errors.Join(errs...)
}

func (s *Synchronizer) upToDate(ctx context.Context, t Target, fresh *URLSet) bool {
	current, err := t.Read(ctx)
	if err != nil {
		s.log.Warn("could not read published sitemap", "target", t.Name(), "error", err)
		return false
	}
	if current == nil {
		return false
	}
	parsed, err := Decode(current)
	if err != nil {
		s.log.Warn("published sitemap is corrupt, rewriting", "target", t.Name(), "error", err)
		return false
	}
	return SameURLs(parsed, fresh)
}
