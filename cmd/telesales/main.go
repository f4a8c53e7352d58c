// Command telesales is the one-shot telesales list builder.
//
// Usage:
//
//	telesales run            # Tier A then Non-A
//	telesales run tiera
//	telesales run nona
//	telesales preview --target 120
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Kaosethi/telesalesautomation/internal/apportion"
	"github.com/Kaosethi/telesalesautomation/internal/bootstrap"
	"github.com/Kaosethi/telesalesautomation/internal/config"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/pipeline"
	"github.com/Kaosethi/telesalesautomation/internal/rules"
	"github.com/Kaosethi/telesalesautomation/internal/source"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "telesales",
		Short: "Telesales lead list builder",
	}

	root.AddCommand(runCmd())
	root.AddCommand(previewCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and publish today's lead lists (Tier A + Non-A)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(ctx context.Context, deps *pipeline.Deps) error {
				res, err := deps.RunTierA(ctx)
				if err != nil {
					return err
				}
				logger.Info("Tier A", "summary", res.Summary())

				res, err = deps.RunNonA(ctx)
				if err != nil {
					return err
				}
				logger.Info("Non A", "summary", res.Summary())
				return nil
			})
		},
	}
	cmd.AddCommand(runTierACmd())
	cmd.AddCommand(runNonACmd())
	return cmd
}

func runTierACmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiera",
		Short: "Build and publish the Tier A list only",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(ctx context.Context, deps *pipeline.Deps) error {
				res, err := deps.RunTierA(ctx)
				if err != nil {
					return err
				}
				logger.Info("Tier A", "summary", res.Summary())
				return nil
			})
		},
	}
}

func runNonACmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nona",
		Short: "Build and publish the Non-A list only",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(ctx context.Context, deps *pipeline.Deps) error {
				res, err := deps.RunNonA(ctx)
				if err != nil {
					return err
				}
				logger.Info("Non A", "summary", res.Summary())
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// preview command — selection only, nothing published
// --------------------------------------------------------------------------

func previewCmd() *cobra.Command {
	var target int
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview Non-A pool selection without filtering or publishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			loader := source.NewMock(cfg.MockSeed, cfg.MockRows)
			ranges := window.Defaults()

			pools := rules.WindowPools{}
			for _, w := range lead.WindowPriority {
				for _, src := range []lead.Source{lead.SourcePC, lead.SourceMobile} {
					b, err := loader.Candidates(ctx, src, w, ranges)
					if err != nil {
						return err
					}
					pools[w] = append(pools[w], rules.TagWindow(b, w))
				}
			}

			pool, counts := rules.BuildPoolSourceFirst(pools, apportion.DefaultMix(), target)
			fmt.Printf("pool=%d hot=%d cold=%d hibernated=%d\n",
				len(pool), counts[lead.WindowHot], counts[lead.WindowCold], counts[lead.WindowHibernated])

			bySrc := map[lead.Source]int{}
			for _, r := range pool {
				bySrc[r.Source]++
			}
			for src, n := range bySrc {
				fmt.Printf("  %s: %d\n", src, n)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&target, "target", 120, "Target pool size")
	return cmd
}

// --------------------------------------------------------------------------
// shared wiring
// --------------------------------------------------------------------------

func withDeps(fn func(context.Context, *pipeline.Deps) error) error {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	deps, cleanup, err := bootstrap.BuildDeps(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to wire dependencies", "error", err)
		return err
	}
	defer cleanup()

	start := time.Now()
	if err := fn(ctx, deps); err != nil {
		return err
	}
	logger.Info("Done", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
