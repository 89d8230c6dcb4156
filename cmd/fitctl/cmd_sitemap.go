package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateSitemapCmd(root *rootOptions) *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "update-sitemap",
		Short: "Rebuild the sitemap and publish it when the URL set changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			res, err := a.Sitemap().Sync(cmd.Context(), rebuild)
			if err != nil {
				return err
			}
			if res.Written {
				fmt.Fprintf(cmd.OutOrStdout(), "Sitemap written: %d URLs\n", res.URLs)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Sitemap up to date: %d URLs\n", res.URLs)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "write the sitemap even if it is up to date")
	return cmd
}
