package enrich

import (
	"context"
	"time"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/metrics"
	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/video"
)

const videoJob = "youtube"

// VideoOptions controls one import-youtube-videos run.
type VideoOptions struct {
	Force          bool // revisit exercises that already have a link or were processed before
	Limit          int
	Delay          time.Duration // between exercises
	VariantDelay   time.Duration // between query variants of one exercise
	DryRun         bool
	ResetProgress  bool
	MaxQuota       int
	QuotaPerSearch int
}

// VideoReport summarises a run together with the persisted progress.
type VideoReport struct {
	Planned         []domain.Exercise
	Success         int
	Skipped         int
	Errors          int
	StoppedForQuota bool
	Progress        Progress
	QuotaUsed       int
	QuotaRemaining  int
	Remaining       int // exercises still waiting for a link
	DaysRemaining   int // at the current daily quota; -1 when a single search does not fit
}

// VideoImporter finds tutorial links for exercises within a daily search quota.
type VideoImporter struct {
	exercises repository.ExerciseRepository
	searcher  video.Searcher
	store     ProgressStore
	log       *logger.Logger
	now       func() time.Time
}

func NewVideoImporter(exercises repository.ExerciseRepository, searcher video.Searcher, store ProgressStore, log *logger.Logger) *VideoImporter {
	return &VideoImporter{
		exercises: exercises,
		searcher:  searcher,
		store:     store,
		log:       log.With("job", videoJob),
		now:       time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (v *VideoImporter) WithClock(now func() time.Time) *VideoImporter {
	v.now = now
	return v
}

// Status loads the progress record with the daily quota rolled over.
func (v *VideoImporter) Status(ctx context.Context, opts VideoOptions) (VideoReport, error) {
	p, err := v.store.Load(ctx, v.now())
	if err != nil {
		return VideoReport{}, err
	}
	p = p.RollOver(v.now())
	return v.report(ctx, VideoReport{}, p, opts)
}

// Run executes LOAD_PROGRESS, quota rollover and check, then searches each unprocessed candidate.
// Progress is saved after every exercise, so a cancelled run resumes where it stopped.
func (v *VideoImporter) Run(ctx context.Context, opts VideoOptions) (VideoReport, error) {
	opts = withQuotaDefaults(opts)
	var rep VideoReport

	if opts.ResetProgress {
		if err := v.store.Reset(ctx); err != nil {
			return rep, err
		}
		v.log.Info("progress reset")
	}

	p, err := v.store.Load(ctx, v.now())
	if err != nil {
		return rep, err
	}
	p = p.RollOver(v.now())

	candidates, err := v.candidates(ctx, p, opts)
	if err != nil {
		return rep, err
	}
	if opts.DryRun {
		rep.Planned = candidates
		return v.report(ctx, rep, p, opts)
	}

	if p.QuotaUsedToday+opts.QuotaPerSearch > opts.MaxQuota {
		v.log.Warn("daily quota exhausted", "used", p.QuotaUsedToday, "max", opts.MaxQuota)
		rep.StoppedForQuota = true
		return v.report(ctx, rep, p, opts)
	}

	v.log.Info("starting video import", "candidates", len(candidates), "quota_used", p.QuotaUsedToday, "max_quota", opts.MaxQuota)

	pace := newPacer(opts.Delay)
	for i := range candidates {
		if err := pace.Wait(ctx); err != nil {
			return rep, err
		}
		ex := candidates[i]

		var (
			outcome   Outcome
			exhausted bool
		)
		p, outcome, exhausted = v.processExercise(ctx, p, &ex, opts)
		if ctx.Err() != nil {
			// Interrupted mid-exercise: keep the spent quota, leave the exercise unprocessed.
			if err := v.store.Save(context.WithoutCancel(ctx), p); err != nil {
				v.log.Error("failed to save progress", "error", err)
			}
			rep, _ = v.report(context.WithoutCancel(ctx), rep, p, opts)
			return rep, ctx.Err()
		}
		if exhausted {
			// The exercise is retried on the next run.
			rep.StoppedForQuota = true
			if err := v.store.Save(ctx, p); err != nil {
				v.log.Error("failed to save progress", "error", err)
			}
			v.log.Warn("quota exhausted mid-run", "exercise_id", ex.ID, "used", p.QuotaUsedToday)
			break
		}

		p = p.Mark(ex.ID, outcome, v.now())
		metrics.RecordJobItem(videoJob, string(outcome))
		switch outcome {
		case OutcomeSuccess:
			rep.Success++
		case OutcomeSkipped:
			rep.Skipped++
		case OutcomeError:
			rep.Errors++
		}
		if err := v.store.Save(ctx, p); err != nil {
			v.log.Error("failed to save progress", "error", err)
		}
	}

	metrics.YouTubeQuotaUsed.Set(float64(p.QuotaUsedToday))
	return v.report(ctx, rep, p, opts)
}

// processExercise tries every query variant until one yields a usable video. exhausted is true
// when the quota ran out before a result was found.
func (v *VideoImporter) processExercise(ctx context.Context, p Progress, ex *domain.Exercise, opts VideoOptions) (Progress, Outcome, bool) {
	log := v.log.With("exercise_id", ex.ID, "exercise", ex.Name)
	bodyPartName := ""
	if ex.BodyPart != nil {
		bodyPartName = ex.BodyPart.Name
	}

	var searchErr error
	variantPace := newPacer(opts.VariantDelay)
	for _, query := range QueryVariants(ex.Name, bodyPartName) {
		if p.QuotaUsedToday+opts.QuotaPerSearch > opts.MaxQuota {
			return p, "", true
		}
		if err := variantPace.Wait(ctx); err != nil {
			return p, OutcomeError, false
		}

		results, err := v.searcher.Search(ctx, query)
		p = p.SpendQuota(opts.QuotaPerSearch)
		metrics.RecordExternalCall("youtube", err)
		if err != nil {
			log.Warn("video search failed", "query", query, "error", err)
			searchErr = err
			continue
		}

		best, ok := video.SelectBest(results)
		if !ok {
			log.Debug("no usable video", "query", query)
			continue
		}

		ex.YouTubeURL = domain.WatchURL(best.VideoID)
		if err := v.exercises.Update(ctx, ex); err != nil {
			log.Error("failed to save video link", "error", err)
			return p, OutcomeError, false
		}
		log.Info("video link saved", "url", ex.YouTubeURL, "title", best.Title)
		return p, OutcomeSuccess, false
	}

	if searchErr != nil {
		return p, OutcomeError, false
	}
	log.Info("no suitable video found")
	return p, OutcomeSkipped, false
}

// candidates lists exercises without a link (all with Force), skipping processed ids unless forced.
func (v *VideoImporter) candidates(ctx context.Context, p Progress, opts VideoOptions) ([]domain.Exercise, error) {
	all, _, err := v.exercises.List(ctx, repository.ExerciseFilter{MissingVideo: !opts.Force, Ordering: "id"})
	if err != nil {
		return nil, err
	}
	if opts.Force {
		if opts.Limit > 0 && len(all) > opts.Limit {
			all = all[:opts.Limit]
		}
		return all, nil
	}

	done := p.ProcessedSet()
	out := make([]domain.Exercise, 0, len(all))
	for _, ex := range all {
		if done[ex.ID] {
			continue
		}
		out = append(out, ex)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (v *VideoImporter) report(ctx context.Context, rep VideoReport, p Progress, opts VideoOptions) (VideoReport, error) {
	opts = withQuotaDefaults(opts)
	rep.Progress = p
	rep.QuotaUsed = p.QuotaUsedToday
	rep.QuotaRemaining = opts.MaxQuota - p.QuotaUsedToday
	if rep.QuotaRemaining < 0 {
		rep.QuotaRemaining = 0
	}

	missing, _, err := v.exercises.List(ctx, repository.ExerciseFilter{MissingVideo: true})
	if err != nil {
		return rep, err
	}
	done := p.ProcessedSet()
	for _, ex := range missing {
		if !done[ex.ID] {
			rep.Remaining++
		}
	}
	rep.DaysRemaining = DaysRemaining(rep.Remaining, opts.MaxQuota, opts.QuotaPerSearch)
	return rep, nil
}

// DaysRemaining estimates ceil(remaining / floor(maxQuota / cost)), assuming one search per
// exercise. It returns -1 when not even one search fits in a day.
func DaysRemaining(remaining, maxQuota, cost int) int {
	if remaining <= 0 {
		return 0
	}
	if cost <= 0 {
		return 1
	}
	perDay := maxQuota / cost
	if perDay == 0 {
		return -1
	}
	return (remaining + perDay - 1) / perDay
}

func withQuotaDefaults(opts VideoOptions) VideoOptions {
	if opts.MaxQuota <= 0 {
		opts.MaxQuota = 10000
	}
	if opts.QuotaPerSearch <= 0 {
		opts.QuotaPerSearch = 100
	}
	return opts
}
