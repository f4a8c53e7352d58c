// Package bootstrap wires pipeline dependencies from configuration: real
// databases when configured, dry-run substitutes otherwise. Shared by
// cmd/telesales and cmd/telesalesd.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kaosethi/telesalesautomation/internal/config"
	"github.com/Kaosethi/telesalesautomation/internal/db"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/notify"
	"github.com/Kaosethi/telesalesautomation/internal/pipeline"
	"github.com/Kaosethi/telesalesautomation/internal/source"
	"github.com/Kaosethi/telesalesautomation/internal/store"
)

// BuildDeps assembles the pipeline collaborators. The returned cleanup
// closes every pool that was opened; call it on shutdown.
func BuildDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Deps, func(), error) {
	var pools []*db.Pool
	cleanup := func() {
		for _, p := range pools {
			p.Close()
		}
	}
	opts := db.Options{
		MinConns:    cfg.DBPoolMinConns,
		MaxConns:    cfg.DBPoolMaxConns,
		MaxConnLife: cfg.DBPoolMaxLife,
	}
	open := func(url string) (*db.Pool, error) {
		p, err := db.New(ctx, url, opts)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
		return p, nil
	}

	deps := &pipeline.Deps{
		Config:     cfg,
		NotifyA:    notify.NewDiscord(cfg.WebhookTierA, logger),
		NotifyNonA: notify.NewDiscord(cfg.WebhookNonA, logger),
		Logger:     logger,
	}

	// Candidate source: per-source Postgres pools, shared when the URLs
	// coincide, mock generator in dry-run.
	if cfg.UseRealDB {
		pcURL := cfg.CandidateURL(cfg.WebviewPCURL)
		mobURL := cfg.CandidateURL(cfg.WebviewMobURL)
		if pcURL == "" || mobURL == "" {
			cleanup()
			return nil, nil, fmt.Errorf("USE_REAL_DB=true requires DATABASE_URL_WEBVIEW (or per-source URLs)")
		}

		pcPool, err := open(pcURL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect candidate DB (PC): %w", err)
		}
		mobPool := pcPool
		if mobURL != pcURL {
			if mobPool, err = open(mobURL); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("connect candidate DB (Mobile): %w", err)
			}
		}
		deps.Candidates = source.Router{
			lead.SourcePC:     source.NewPostgres(pcPool),
			lead.SourceMobile: source.NewPostgres(mobPool),
		}

		if cfg.GrafanaURL != "" {
			grafana, err := open(cfg.GrafanaURL)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("connect redemption DB: %w", err)
			}
			deps.Redemption = source.NewPostgresRedemption(grafana)
		}
	} else {
		logger.Info("Using mock candidate data", "seed", cfg.MockSeed, "rows", cfg.MockRows)
		deps.Candidates = source.NewMock(cfg.MockSeed, cfg.MockRows)
	}

	// Store: Postgres when configured, in-memory dry-run otherwise.
	if cfg.StoreURL != "" {
		storePool, err := open(cfg.StoreURL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect store DB: %w", err)
		}
		deps.Store = store.NewPostgres(storePool, cfg.OutputPrefix)
	} else {
		logger.Info("No store configured, running dry (publishes are logged only)")
		deps.Store = store.NewMemory(logger)
	}

	return deps, cleanup, nil
}
