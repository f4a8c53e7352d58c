// Package pipeline orchestrates the daily runs: load candidate windows,
// build the pool, filter, assign (Non-A), publish, notify. Each run is
// synchronous, single-pass, and operates on in-memory batches — failures in
// upstream data simply shrink the pool instead of aborting the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Kaosethi/telesalesautomation/internal/config"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/notify"
	"github.com/Kaosethi/telesalesautomation/internal/rules"
	"github.com/Kaosethi/telesalesautomation/internal/source"
	"github.com/Kaosethi/telesalesautomation/internal/store"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

// Tier labels used for month destinations and notifications.
const (
	TierALabel = "Tier A"
	NonALabel  = "Non A"
)

// Deps carries the external collaborators a run needs. Store and Candidates
// are required; Redemption and the notifiers are optional (nil skips them).
type Deps struct {
	Config     *config.Config
	Store      store.Store
	Candidates source.CandidateSource
	Redemption source.RedemptionSource
	NotifyA    *notify.Discord
	NotifyNonA *notify.Discord
	Logger     *slog.Logger
	Now        func() time.Time // nil = time.Now
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// RunResult summarizes one tier run.
type RunResult struct {
	ID         uuid.UUID
	Tier       string
	FileName   string
	TabName    string
	RowCount   int
	SheetURL   string
	Skipped    bool
	SkipReason string
	PoolCounts map[lead.Window]int
	Duration   time.Duration
	Finished   time.Time
}

// Summary returns a one-line human-readable result.
func (r RunResult) Summary() string {
	if r.Skipped {
		return fmt.Sprintf("tier=%q skipped (%s)", r.Tier, r.SkipReason)
	}
	return fmt.Sprintf("tier=%q file=%q tab=%s rows=%d", r.Tier, r.FileName, r.TabName, r.RowCount)
}

// runTime resolves the effective run timestamp: RUN_DATE (YYYY-MM-DD, app
// timezone, midday) when set, the wall clock otherwise.
func (d *Deps) runTime(loc *time.Location) (time.Time, error) {
	if d.Config.RunDate == "" {
		return d.now().In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", d.Config.RunDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse RUN_DATE %q: %w", d.Config.RunDate, err)
	}
	return t.Add(12 * time.Hour), nil
}

// loadRanges merges operator window overrides over the defaults. A store
// error falls back to defaults — a misconfigured tab must not block the run.
func (d *Deps) loadRanges(ctx context.Context) window.Ranges {
	overrides, err := d.Store.WindowOverrides(ctx)
	if err != nil {
		d.Logger.Warn("Window overrides unavailable, using defaults", "error", err)
		return window.Defaults()
	}
	return window.Merge(window.Defaults(), overrides)
}

// loadWindowPools fetches and tags every (window, source) batch. PC loads
// before Mobile inside each window, which makes PC rows win same-window
// phone ties during dedupe.
func (d *Deps) loadWindowPools(ctx context.Context, windows []lead.Window, ranges window.Ranges) (rules.WindowPools, error) {
	pools := rules.WindowPools{}
	for _, w := range windows {
		for _, src := range []lead.Source{lead.SourcePC, lead.SourceMobile} {
			b, err := d.Candidates.Candidates(ctx, src, w, ranges)
			if err != nil {
				return nil, fmt.Errorf("load %s/%s: %w", src, w, err)
			}
			pools[w] = append(pools[w], rules.TagWindow(b, w))
			d.Logger.Debug("Loaded candidates", "source", src, "window", w, "rows", len(b))
		}
	}
	return pools, nil
}

// redeemedToday queries the redemption DB for the run date's usernames.
// Optional collaborator: nil source or query failure yields an empty set.
func (d *Deps) redeemedToday(ctx context.Context, runAt time.Time, loc *time.Location) map[string]bool {
	if d.Redemption == nil {
		return nil
	}
	y, m, day := runAt.In(loc).Date()
	from := time.Date(y, m, day, 0, 0, 0, 0, loc)
	set, err := d.Redemption.RedeemedBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		d.Logger.Warn("Redemption lookup failed, skipping redeemed-today rule", "error", err)
		return nil
	}
	return set
}
