package main

import (
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/frontdesk-ai/reception-cli/internal/intake"
)

var (
	batchSheet       string
	batchLimit       int
	batchConcurrency int
	batchDryRun      bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <workbook.xlsx>",
	Short: "Provision agents for every submission in an intake workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		records, err := intake.ReadWorkbook(args[0], intake.WorkbookOptions{SheetName: batchSheet})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			zap.L().Info("no submissions found in workbook")
			return nil
		}
		if batchLimit > 0 && len(records) > batchLimit {
			records = records[:batchLimit]
		}

		zap.L().Info("processing batch",
			zap.Int("submissions", len(records)),
			zap.Int("concurrency", batchConcurrency),
		)

		var succeeded, failed atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)
		for _, rec := range records {
			rec := rec
			g.Go(func() error {
				sub := intake.Resolve(rec, env.Defaults)
				if batchDryRun {
					sub.DryRun = true
				}
				if _, err := provisionOne(gctx, env, sub); err != nil {
					failed.Add(1)
					zap.L().Error("batch provisioning failed",
						zap.String("business", sub.Profile.BusinessName),
						zap.Error(err),
					)
					// Keep going; one bad submission must not sink the batch.
					return nil
				}
				succeeded.Add(1)
				return nil
			})
		}
		_ = g.Wait()

		zap.L().Info("batch complete",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchSheet, "sheet", "", "workbook sheet name (default first sheet)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of submissions to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "max concurrent provisioning runs")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "compose prompts and create agents without purchasing phone numbers")
	rootCmd.AddCommand(batchCmd)
}
