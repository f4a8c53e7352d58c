package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kaosethi/telesalesautomation/internal/apportion"
	"github.com/Kaosethi/telesalesautomation/internal/assign"
	"github.com/Kaosethi/telesalesautomation/internal/filters"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/output"
	"github.com/Kaosethi/telesalesautomation/internal/rules"
	"github.com/Kaosethi/telesalesautomation/internal/store"
)

// RunNonA runs the Non-A pipeline: source-first pool selection across all
// three windows, eligibility filters, and mix-aware equal-count assignment.
func (d *Deps) RunNonA(ctx context.Context) (RunResult, error) {
	start := d.now()
	loc := lead.AppLocation(d.Config.Timezone)

	runAt, err := d.runTime(loc)
	if err != nil {
		return RunResult{}, err
	}
	if reason, skip := d.gate(ctx, runAt, loc); skip {
		d.Logger.Info("Non-A run skipped", "reason", reason, "date", lead.DayKey(runAt))
		return skippedResult(NonALabel, reason, runAt), nil
	}

	ranges := d.loadRanges(ctx)
	pools, err := d.loadWindowPools(ctx, lead.WindowPriority, ranges)
	if err != nil {
		return RunResult{}, fmt.Errorf("non-A candidates: %w", err)
	}

	mixRows, err := d.Store.MixWeights(ctx)
	if err != nil {
		d.Logger.Warn("Mix weights unavailable, using default split", "error", err)
		mixRows = nil
	}
	mix := apportion.NormalizeMix(mixRows)

	callerRows, err := d.Store.Callers(ctx)
	if err != nil {
		d.Logger.Warn("Caller list unavailable", "error", err)
	}
	callers := store.AvailableNames(callerRows)

	// Selection always runs at the large target: Tier-A exclusion and the
	// eligibility filters eat into the pool after selection, so cutting at
	// callers*PerCallerTarget here would starve assignment whenever the
	// history drops rows. The per-caller cap is applied at assignment time.
	pool, counts := rules.BuildPoolSourceFirst(pools, mix, allSupplyTarget)
	d.Logger.Info("Non-A pool built", "rows", len(pool), "target", allSupplyTarget,
		"hot", counts[lead.WindowHot], "cold", counts[lead.WindowCold],
		"hibernated", counts[lead.WindowHibernated])

	// Tier A users never belong in the Non-A list.
	nonA := pool[:0:0]
	for _, r := range pool {
		if !lead.IsTierA(r.Tier) {
			nonA = append(nonA, r)
		}
	}
	if dropped := len(pool) - len(nonA); dropped > 0 {
		d.Logger.Info("Dropped Tier A users from Non-A pool", "count", dropped)
	}

	dest, err := d.Store.MonthDestination(ctx, NonALabel, runAt)
	if err != nil {
		return RunResult{}, fmt.Errorf("non-A destination: %w", err)
	}
	history, err := d.Store.Compiled(ctx, dest)
	if err != nil {
		return RunResult{}, fmt.Errorf("non-A history: %w", err)
	}
	blacklist, err := d.Store.Blacklist(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("blacklist: %w", err)
	}

	filtered := filters.Apply(nonA, history, blacklist,
		d.redeemedToday(ctx, runAt, loc), lead.DayKey(runAt),
		d.Config.Filters, d.Logger)

	if len(callers) > 0 && len(filtered) > 0 {
		assigned := assign.MixAware(filtered, callers, d.Config.PerCallerTarget, mix, d.Logger)

		// Leftovers stay out of the published list; tomorrow's run will
		// pick those users up again.
		kept := assigned[:0:0]
		for _, r := range assigned {
			if r.Telesale != "" {
				kept = append(kept, r)
			}
		}
		if leftover := len(assigned) - len(kept); leftover > 0 {
			d.Logger.Info("Leftover rows not published", "count", leftover)
		}
		filtered = kept

		for caller, bySrc := range assign.Distribution(filtered) {
			d.Logger.Debug("Caller allocation", "caller", caller, "by_source", bySrc)
		}
	}

	table := output.BuildNonA(filtered, runAt, loc)
	tab := lead.DayKey(runAt)
	if err := d.Store.PublishDay(ctx, dest, tab, table); err != nil {
		return RunResult{}, fmt.Errorf("non-A publish: %w", err)
	}

	res := RunResult{
		ID:         uuid.New(),
		Tier:       NonALabel,
		FileName:   dest.Title,
		TabName:    tab,
		RowCount:   len(table.Rows),
		SheetURL:   dest.URL,
		PoolCounts: counts,
		Duration:   d.now().Sub(start),
		Finished:   d.now(),
	}
	d.Logger.Info("Non-A run complete", "summary", res.Summary(), "duration", res.Duration.Round(time.Millisecond))

	if err := d.NotifyNonA.RunReady(ctx, "Non-A", res.FileName, res.TabName, res.RowCount, res.SheetURL); err != nil {
		d.Logger.Warn("Non-A notification failed", "error", err)
	}
	return res, nil
}

// allSupplyTarget makes selection effectively unbounded: the whole eligible
// supply enters the pool and the per-caller cap is applied at assignment.
// With no callers configured, everything selected is published unassigned.
const allSupplyTarget = 100_000
