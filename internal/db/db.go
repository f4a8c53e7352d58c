// Package db provides a pgxpool-based connection pool with prepared
// statement registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Options control pool sizing; zero values fall back to pgx defaults.
type Options struct {
	MinConns    int
	MaxConns    int
	MaxConnLife time.Duration
}

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool against url.
func New(ctx context.Context, url string, opts Options) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	if opts.MinConns > 0 {
		poolCfg.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.MaxConnLife > 0 {
		poolCfg.MaxConnLifetime = opts.MaxConnLife
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers every statement the loaders and the
// publishing store use. Prepared statements eliminate parse overhead on the
// per-window candidate queries, which run six times per pipeline.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Candidate loading: inactivity window per source. $1 = source key,
		// $2/$3 = inclusive day bounds relative to now.
		"candidates_in_window": `
			SELECT username, phone, source_key, last_login, last_seen,
			       reward_tier, tier, COALESCE(ark_gem_balance, 0),
			       COALESCE(lt.total_topup, 0)
			FROM webview_users u
			LEFT JOIN user_lifetime_topup lt USING (username)
			WHERE u.source_key = $1
			  AND COALESCE(u.last_login, u.last_seen)
			      BETWEEN NOW() - ($3 || ' days')::interval
			          AND NOW() - ($2 || ' days')::interval`,
		"candidates_in_open_window": `
			SELECT username, phone, source_key, last_login, last_seen,
			       reward_tier, tier, COALESCE(ark_gem_balance, 0),
			       COALESCE(lt.total_topup, 0)
			FROM webview_users u
			LEFT JOIN user_lifetime_topup lt USING (username)
			WHERE u.source_key = $1
			  AND COALESCE(u.last_login, u.last_seen) <= NOW() - ($2 || ' days')::interval`,

		// Redemption: usernames that redeemed today (app timezone boundary
		// handled by the caller passing the day bounds).
		"redeemed_between": `
			SELECT DISTINCT username FROM reward_redemptions
			WHERE created_at >= $1 AND created_at < $2`,

		// Store: month destinations
		"month_destination": `
			SELECT id, title, url FROM telesales_destinations
			WHERE tier = $1 AND month_key = $2`,
		"insert_destination": `
			INSERT INTO telesales_destinations (tier, month_key, title, url)
			VALUES ($1, $2, $3, $4) RETURNING id`,

		// Store: configuration tabs
		"callers":          `SELECT name, available FROM telesales_callers ORDER BY position`,
		"mix_weights":      `SELECT source_key, enabled, mix_weight FROM telesales_mix ORDER BY position`,
		"window_overrides": `SELECT label, day_min, day_max FROM telesales_windows`,
		"holidays":         `SELECT holiday_date FROM telesales_holidays`,
		"blacklist":        `SELECT username, phone, source_key FROM telesales_blacklist`,

		// Store: published rows (compile)
		"compiled_rows": `
			SELECT username, phone, source_key, answer_status, result, assign_date
			FROM telesales_published
			WHERE destination_id = $1`,
		"delete_day_rows": `
			DELETE FROM telesales_published
			WHERE destination_id = $1 AND assign_date = $2`,
		"insert_published": `
			INSERT INTO telesales_published
			(destination_id, tab, row_no, username, phone, source_key,
			 answer_status, result, assign_date, payload)
			VALUES ($1, $2, $3, $4, $5, $6, '', '', $7, $8)`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
