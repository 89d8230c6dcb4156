package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"heartwellness/fitness-cms/internal/enrich"
	"heartwellness/fitness-cms/internal/video"
)

func newImportVideosCmd(root *rootOptions) *cobra.Command {
	var (
		opts         enrich.VideoOptions
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "import-youtube-videos",
		Short: "Find YouTube tutorial links for exercises within the daily API quota",
		Long: `Search YouTube for a tutorial video for every exercise without one. Progress is kept
between runs, so an interrupted or quota-limited import resumes where it stopped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := root.open(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			yt := a.Config.YouTube
			if opts.MaxQuota <= 0 {
				opts.MaxQuota = yt.MaxDailyQuota
			}
			opts.QuotaPerSearch = yt.QuotaPerSearch
			opts.VariantDelay = yt.VariantDelay

			store, err := a.ProgressStore(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showProgress {
				rep, err := enrich.NewVideoImporter(a.Repos.Exercises, nil, store, a.Log).Status(ctx, opts)
				if err != nil {
					return err
				}
				printProgress(out, rep)
				return nil
			}

			var searcher video.Searcher
			if !opts.DryRun {
				if err := a.Config.RequireYouTube(); err != nil {
					return err
				}
				yts, err := video.NewYouTubeSearcher(ctx, yt)
				if err != nil {
					return err
				}
				searcher = yts
			}

			rep, runErr := enrich.NewVideoImporter(a.Repos.Exercises, searcher, store, a.Log).Run(ctx, opts)
			if opts.DryRun {
				fmt.Fprintf(out, "Dry run: %d exercises would be searched\n", len(rep.Planned))
				for _, ex := range rep.Planned {
					fmt.Fprintf(out, "  [%d] %s\n", ex.ID, ex.Name)
				}
			} else {
				fmt.Fprintf(out, "Found:    %d\n", rep.Success)
				fmt.Fprintf(out, "Skipped:  %d\n", rep.Skipped)
				fmt.Fprintf(out, "Errors:   %d\n", rep.Errors)
				if rep.StoppedForQuota {
					fmt.Fprintln(out, "Stopped: daily quota exhausted")
				}
			}
			printProgress(out, rep)
			return runErr
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Force, "force", false, "search again for exercises that already have a link or were processed")
	f.IntVar(&opts.Limit, "limit", 0, "process at most this many exercises (0 = all)")
	f.Var(newSecondsValue(&opts.Delay, time.Second), "delay", "pause between exercises, in seconds or as a duration (1, 1s, 500ms)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "list the exercises that would be searched")
	f.BoolVar(&opts.ResetProgress, "reset-progress", false, "discard the stored progress before running")
	f.BoolVar(&showProgress, "show-progress", false, "print the stored progress and exit")
	f.IntVar(&opts.MaxQuota, "max-quota", 0, "daily quota units (defaults to youtube.max_daily_quota)")
	return cmd
}

func printProgress(out io.Writer, rep enrich.VideoReport) {
	p := rep.Progress
	fmt.Fprintf(out, "Processed so far:     %d (success %d, skipped %d, errors %d)\n",
		len(p.ProcessedIDs), p.SuccessCount, p.SkippedCount, p.ErrorCount)
	fmt.Fprintf(out, "Quota used today:     %d\n", rep.QuotaUsed)
	fmt.Fprintf(out, "Quota remaining:      %d\n", rep.QuotaRemaining)
	fmt.Fprintf(out, "Exercises remaining:  %d\n", rep.Remaining)
	if rep.DaysRemaining < 0 {
		fmt.Fprintln(out, "Days remaining:       n/a (quota smaller than one search)")
	} else {
		fmt.Fprintf(out, "Days remaining:       %d\n", rep.DaysRemaining)
	}
	if p.LastUpdated != "" {
		fmt.Fprintf(out, "Last updated:         %s\n", p.LastUpdated)
	}
}
