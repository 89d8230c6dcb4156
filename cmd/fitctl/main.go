// Command fitctl runs the content batch jobs: imports, AI descriptions, video links, sitemap and
// data maintenance.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"heartwellness/fitness-cms/internal/app"
	"heartwellness/fitness-cms/internal/config"
	"heartwellness/fitness-cms/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "fitctl",
		Short:         "Batch jobs for the Heart Wellness content store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config", ".", "directory containing config.yaml")

	root.AddCommand(
		newImportExercisesCmd(opts),
		newGenerateDescriptionsCmd(opts),
		newImportVideosCmd(opts),
		newUpdateSitemapCmd(opts),
		newRepairListsCmd(opts),
		newGenerateSlugsCmd(opts),
		newCreateAdminCmd(opts),
	)
	return root
}

// open loads the configuration and connects the content store. Callers must Close the app.
func (o *rootOptions) open(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return app.New(ctx, cfg, log)
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		a.Log.Error("failed to close backends", "error", err)
	}
	a.Log.Sync()
}
