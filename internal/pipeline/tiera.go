package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kaosethi/telesalesautomation/internal/filters"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/output"
	"github.com/Kaosethi/telesalesautomation/internal/rules"
)

// RunTierA runs the Tier A pipeline: Hot window only, high-value filter, no
// caller assignment.
func (d *Deps) RunTierA(ctx context.Context) (RunResult, error) {
	start := d.now()
	loc := lead.AppLocation(d.Config.Timezone)

	runAt, err := d.runTime(loc)
	if err != nil {
		return RunResult{}, err
	}
	if reason, skip := d.gate(ctx, runAt, loc); skip {
		d.Logger.Info("Tier A run skipped", "reason", reason, "date", lead.DayKey(runAt))
		return skippedResult(TierALabel, reason, runAt), nil
	}

	ranges := d.loadRanges(ctx)
	pools, err := d.loadWindowPools(ctx, []lead.Window{lead.WindowHot}, ranges)
	if err != nil {
		return RunResult{}, fmt.Errorf("tier A candidates: %w", err)
	}

	pool := rules.BuildTierAPool(pools)
	d.Logger.Info("Tier A pool built", "rows", len(pool))

	dest, err := d.Store.MonthDestination(ctx, TierALabel, runAt)
	if err != nil {
		return RunResult{}, fmt.Errorf("tier A destination: %w", err)
	}
	history, err := d.Store.Compiled(ctx, dest)
	if err != nil {
		return RunResult{}, fmt.Errorf("tier A history: %w", err)
	}
	blacklist, err := d.Store.Blacklist(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("blacklist: %w", err)
	}

	filtered := filters.Apply(pool, history, blacklist,
		d.redeemedToday(ctx, runAt, loc), lead.DayKey(runAt),
		d.Config.Filters, d.Logger)

	table := output.BuildTierA(filtered, runAt, loc)
	tab := lead.DayKey(runAt)
	if err := d.Store.PublishDay(ctx, dest, tab, table); err != nil {
		return RunResult{}, fmt.Errorf("tier A publish: %w", err)
	}

	res := RunResult{
		ID:       uuid.New(),
		Tier:     TierALabel,
		FileName: dest.Title,
		TabName:  tab,
		RowCount: len(table.Rows),
		SheetURL: dest.URL,
		Duration: d.now().Sub(start),
		Finished: d.now(),
	}
	d.Logger.Info("Tier A run complete", "summary", res.Summary(), "duration", res.Duration.Round(time.Millisecond))

	if err := d.NotifyA.RunReady(ctx, TierALabel, res.FileName, res.TabName, res.RowCount, res.SheetURL); err != nil {
		d.Logger.Warn("Tier A notification failed", "error", err)
	}
	return res, nil
}
