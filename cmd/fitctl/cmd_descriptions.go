package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"heartwellness/fitness-cms/internal/ai"
	"heartwellness/fitness-cms/internal/enrich"
)

func newGenerateDescriptionsCmd(root *rootOptions) *cobra.Command {
	var opts enrich.DescriptionOptions

	cmd := &cobra.Command{
		Use:   "generate-descriptions",
		Short: "Write AI-generated markdown descriptions onto exercises",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			if !opts.DryRun {
				if err := a.Config.RequireOpenAI(); err != nil {
					return err
				}
			}
			if opts.Model == "" {
				opts.Model = a.Config.OpenAI.Model
			}

			gen := enrich.NewDescriptionGenerator(a.Repos.Exercises, a.Repos.Keywords, ai.NewOpenAIClient(a.Config.OpenAI), a.Log)
			summary, runErr := gen.Run(cmd.Context(), opts)

			out := cmd.OutOrStdout()
			if opts.DryRun {
				fmt.Fprintf(out, "Dry run: %d exercises would be processed\n", len(summary.Planned))
				for _, ex := range summary.Planned {
					fmt.Fprintf(out, "  [%d] %s\n", ex.ID, ex.Name)
				}
				return runErr
			}

			fmt.Fprintf(out, "Success:      %d\n", summary.Success)
			fmt.Fprintf(out, "Skipped:      %d\n", summary.Skipped)
			fmt.Fprintf(out, "Errors:       %d\n", summary.Errors)
			fmt.Fprintf(out, "Total:        %d\n", summary.Total)
			if opts.ExtractKeywords {
				fmt.Fprintf(out, "Keywords:     %d\n", summary.Keywords)
			}
			fmt.Fprintf(out, "Success rate: %.1f%%\n", summary.SuccessRate())
			return runErr
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Force, "force", false, "regenerate descriptions for every exercise")
	f.IntVar(&opts.Limit, "limit", 0, "process at most this many exercises (0 = all)")
	f.Var(newSecondsValue(&opts.Delay, 2*time.Second), "delay", "pause between API calls, in seconds or as a duration (2, 2s, 500ms)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "list the exercises that would be processed")
	f.StringVar(&opts.Model, "model", "", "completion model (defaults to openai.model)")
	f.BoolVar(&opts.ExtractKeywords, "extract-keywords", false, "derive keyword mappings from the headings")
	return cmd
}
