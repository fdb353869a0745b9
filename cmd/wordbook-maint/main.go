// Command wordbook-maint runs offline maintenance against the wordbook store.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/wordbook/internal/app"
	"github.com/example/wordbook/internal/config"
	"github.com/example/wordbook/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wordbook-maint",
		Short:         "Maintenance tasks for the wordbook database",
		SilenceUsage: true,
	}
	root.AddCommand(newCheckPhoneticCmd(), newImportCmd())
	return root
}

// withApp loads configuration, opens the store and hands the wired services to fn.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, warnings, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()
	for _, w := range warnings {
		log.Warn(w)
	}

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
