package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"heartwellness/fitness-cms/internal/importer"
)

func newImportExercisesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-exercises <file>",
		Short: "Import exercises and body parts from a list file",
		Long: `Import exercises from a file. Plain text files hold one "exercise name,body part"
pair per line; .yaml, .yml and .json files hold a list of records with name, body_part,
description and youtube_url. Body parts and exercises are matched by name, so the import
can be repeated safely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, warnings, err := importer.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range warnings {
				fmt.Fprintln(out, "warning:", w)
			}

			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			summary, err := importer.New(a.Repos.BodyParts, a.Repos.Exercises, a.Log).Import(cmd.Context(), records)
			fmt.Fprintf(out, "Records read:        %d\n", len(records))
			fmt.Fprintf(out, "Body parts created:  %d\n", summary.BodyPartsCreated)
			fmt.Fprintf(out, "Exercises created:   %d\n", summary.ExercisesCreated)
			fmt.Fprintf(out, "Already stored:      %d\n", summary.Existing)
			fmt.Fprintf(out, "Duplicates in file:  %d\n", summary.Duplicates)
			fmt.Fprintf(out, "Failed:              %d\n", summary.Failed)
			return err
		},
	}
}
