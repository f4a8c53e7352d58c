package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Kaosethi/telesalesautomation/internal/db"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

// Postgres loads candidates from the game webview database. One loader may
// serve both sources from a shared pool, or the pipeline can hold one
// loader per source when PC and Mobile live in separate databases.
type Postgres struct {
	pool *db.Pool
}

// NewPostgres wraps an established pool.
func NewPostgres(pool *db.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Candidates queries users whose inactivity falls inside the window's day
// range. Open-ended windows (Hibernated) use the one-sided statement.
func (p *Postgres) Candidates(ctx context.Context, src lead.Source, w lead.Window, ranges window.Ranges) (lead.Batch, error) {
	rng, ok := ranges[w]
	if !ok {
		return lead.Batch{}, nil
	}

	var (
		rows pgx.Rows
		err  error
	)
	if rng.Open() {
		rows, err = p.pool.Query(ctx, "candidates_in_open_window", string(src), rng.MinDays)
	} else {
		rows, err = p.pool.Query(ctx, "candidates_in_window", string(src), rng.MinDays, rng.MaxDays)
	}
	if err != nil {
		return nil, fmt.Errorf("query candidates %s/%s: %w", src, w, err)
	}
	defer rows.Close()

	var out lead.Batch
	for rows.Next() {
		var (
			r                   lead.Row
			srcKey              string
			lastLogin, lastSeen *time.Time
		)
		if err := rows.Scan(&r.Username, &r.Phone, &srcKey, &lastLogin, &lastSeen,
			&r.RewardTier, &r.Tier, &r.ArkGem, &r.Amount); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		r.Source = lead.Source(srcKey)
		r.LastLogin = lastLogin
		r.LastSeen = lastSeen
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates %s/%s: %w", src, w, err)
	}
	return out, nil
}
