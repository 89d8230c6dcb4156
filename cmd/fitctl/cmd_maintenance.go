package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/maintenance"
)

func newRepairListsCmd(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "repair-lists",
		Short: "Reset keyword and image lists that are not valid JSON arrays",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			summary, err := maintenance.RepairLists(cmd.Context(), a.Repos.RawLists, a.Log, dryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, item := range summary.Repaired {
				fmt.Fprintf(out, "  %s #%d %q\n", item.Kind, item.ID, item.Label)
			}
			verb := "Repaired"
			if dryRun {
				verb = "Would repair"
			}
			fmt.Fprintf(out, "%s %d of %d lists (%d failed)\n", verb, len(summary.Repaired), summary.Checked, summary.Failed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report invalid lists without writing")
	return cmd
}

func newGenerateSlugsCmd(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate-slugs",
		Short: "Assign unique slugs to body parts, exercises and articles that have none",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			summary, err := maintenance.GenerateSlugs(cmd.Context(), a.Repos, a.Log, dryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Body parts: %d\n", summary.BodyParts)
			fmt.Fprintf(out, "Exercises:  %d\n", summary.Exercises)
			fmt.Fprintf(out, "Articles:   %d\n", summary.Articles)
			if summary.Failed > 0 {
				return fmt.Errorf("%d slugs could not be generated", summary.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "count records without a slug without writing")
	return cmd
}

func newCreateAdminCmd(root *rootOptions) *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an account for the admin API",
		Long: `Create an account for the admin API. The password is read from --password or, when
the flag is empty, from the FITCTL_ADMIN_PASSWORD environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("FITCTL_ADMIN_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("--email and a password are required")
			}

			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			user, err := a.Services().Auth.Register(cmd.Context(), name, email, password, domain.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (id %d)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "Administrator", "display name")
	f.StringVar(&email, "email", "", "login email")
	f.StringVar(&password, "password", "", "login password")
	f.StringVar(&role, "role", string(domain.RoleAdmin), "admin or editor")
	return cmd
}
