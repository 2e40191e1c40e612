package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"budget/internal/amqp"
	"budget/internal/backend"
	"budget/internal/cli"
	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"
	"budget/internal/stats"
	"budget/internal/storage"
)

const (
	viewProducts   = "products"
	viewCategories = "categories"
)

func (a *app) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty snapshot in the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return a.withService(ctx, func(svc *services.FinanceService) error {
				f, err := svc.Load(ctx)
				switch {
				case err == nil:
					if !force && (f.Len() > 0 || len(f.Products()) > 0) {
						return errors.New("snapshot already holds data, use --force to reset it")
					}
				case errors.Is(err, fs.ErrNotExist):
				case !force:
					return err
				}
				if err := svc.Save(ctx, core.NewFinance()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Initialized empty snapshot")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing snapshot")
	return cmd
}

func (a *app) logCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <product> <price> <year-month>",
		Short: "Log a purchase",
		Example: `  finance log Bread 2.50 2021-01
  finance log Coffee 1,20 2021-02`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := cli.ParsePrice(args[1])
			if err != nil {
				return err
			}
			ym, err := cli.ParseYearMonth(args[2])
			if err != nil {
				return err
			}
			entry := core.LogEntry{Product: args[0], Price: price, YearMonth: ym}

			ctx := cmd.Context()
			return a.withService(ctx, func(svc *services.FinanceService) error {
				f, err := svc.AddLog(ctx, entry)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s for %s (%d entries)\n",
					entry.Product, cli.FormatAmount(entry.Price), entry.YearMonth, f.Len())
				return nil
			})
		},
	}
}

func (a *app) productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <product> <category>",
		Short: "Register a product or change its category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := core.Product{ID: args[0], Category: args[1]}

			ctx := cmd.Context()
			return a.withService(ctx, func(svc *services.FinanceService) error {
				if _, err := svc.AddProduct(ctx, p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Product %s is now in %s\n", p.ID, p.Category)
				return nil
			})
		},
	}
}

func (a *app) totalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "totals products|categories [name]",
		Short:     "Show spending per product or per category",
		Args:      cobra.MatchAll(cobra.RangeArgs(1, 2), validView),
		ValidArgs: []string{viewProducts, viewCategories},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withService(ctx, func(svc *services.FinanceService) error {
				f, err := svc.Load(ctx)
				if err != nil {
					return err
				}
				s := stats.New(f)
				r := a.renderer(cmd)

				if len(args) == 2 {
					if args[0] == viewProducts {
						r.Single(args[1], s.ProductTotal(args[1]))
					} else {
						r.Single(args[1], s.CategoryTotal(args[1]))
					}
					return nil
				}

				if args[0] == viewProducts {
					r.Totals("Totals by product", s.ProductTotals())
				} else {
					r.Totals("Totals by category", s.CategoryTotals())
				}
				return nil
			})
		},
	}
}

func (a *app) monthlyCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "monthly products|categories",
		Short:     "Show spending per month, grouped by product or category",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), validView),
		ValidArgs: []string{viewProducts, viewCategories},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withService(ctx, func(svc *services.FinanceService) error {
				f, err := svc.Load(ctx)
				if err != nil {
					return err
				}
				s := stats.New(f)
				r := a.renderer(cmd)

				if args[0] == viewProducts {
					r.Monthly("Monthly totals by product", s.ProductTotalsByYearMonth())
				} else {
					r.Monthly("Monthly totals by category", s.CategoryTotalsByYearMonth())
				}
				return nil
			})
		},
	}
}

func validView(_ *cobra.Command, args []string) error {
	if args[0] != viewProducts && args[0] != viewCategories {
		return fmt.Errorf("unknown view %q: want %s or %s", args[0], viewProducts, viewCategories)
	}
	return nil
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <sqlite-path>",
		Short: "Copy the JSON snapshot into a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// The destination is only created once the source loaded.
			f, err := storage.NewJSONRepository(a.cfg.FinanceFilePath).Load(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", log.OpExport, err)
			}

			dst, err := backend.OpenRepository(backend.SQLiteBackend, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", log.OpExport, err)
			}
			defer closeRepository(dst)

			if err := saveSnapshot(ctx, log.OpExport, dst, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries and %d products to %s\n", f.Len(), len(f.Products()), args[0])
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <sqlite-path>",
		Short: "Replace the JSON snapshot with the content of a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			src, err := storage.OpenExistingSQLiteRepository(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", log.OpImport, err)
			}
			defer src.Close()

			f, err := src.Load(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", log.OpImport, err)
			}

			dst := storage.NewJSONRepository(a.cfg.FinanceFilePath)
			if err := saveSnapshot(ctx, log.OpImport, dst, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries and %d products from %s\n", f.Len(), len(f.Products()), args[0])
			return nil
		},
	}
}

func saveSnapshot(ctx context.Context, op string, dst storage.FinanceRepository, f core.Finance) error {
	if err := dst.Save(ctx, f); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.FromContext(ctx).InfoContext(ctx, "Copied snapshot",
		log.NewFields().
			WithOperation(op).
			WithSnapshot(f.Len(), len(f.Products())).
			ToSlice()...)
	return nil
}

func closeRepository(repo storage.FinanceRepository) {
	if c, ok := repo.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print snapshot-saved events from AMQP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is not set")
			}
			client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue, a.cfg.PublishTimeout)
			if err != nil {
				return err
			}
			defer client.Close()

			logger := log.FromContext(cmd.Context()).WithComponent(log.ComponentAMQP)
			ctx, cancel := cli.SignalContext(cmd.Context(), logger)
			defer cancel()

			err = client.ConsumeSnapshotSaved(ctx, func(msg *amqp.SnapshotSavedMessage) error {
				logger.DebugContext(ctx, "Snapshot message received",
					log.NewFields().
						WithOperation(log.OpConsume).
						WithSnapshot(msg.Logs, msg.Products).
						ToSlice()...)
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s: %d entries, %d products\n",
					msg.Timestamp.Format("2006-01-02 15:04:05"), msg.Backend, msg.Location, msg.Logs, msg.Products)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
