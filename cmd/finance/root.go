package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/backend"
	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/log"
	"budget/internal/services"
)

// app carries the state shared by every command once the root has run its
// setup hook.
type app struct {
	envFile string
	plain   bool

	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "finance",
		Short:         "Track spending by product, category and month",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			cmd.SetContext(log.NewContext(cmd.Context(), a.logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Show help when no subcommand is provided
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Optional .env file to load before reading the environment")
	root.PersistentFlags().BoolVar(&a.plain, "plain", false, "Disable report styling")

	root.AddCommand(
		a.initCmd(),
		a.logCmd(),
		a.productCmd(),
		a.totalsCmd(),
		a.monthlyCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) setup() error {
	cli.LoadEnvFile(a.envFile)
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg)
	return nil
}

// withService builds the configured backend, runs fn and releases the backend.
func (a *app) withService(ctx context.Context, fn func(*services.FinanceService) error) (err error) {
	bcfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(a.logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Cleanup(); cerr != nil && err == nil {
			err = fmt.Errorf("close backend: %w", cerr)
		}
	}()
	return fn(res.Service)
}

func (a *app) renderer(cmd *cobra.Command) *cli.Renderer {
	styles := cli.DefaultStyles()
	if a.plain {
		styles = cli.PlainStyles()
	}
	return cli.NewRenderer(cmd.OutOrStdout(), styles)
}
