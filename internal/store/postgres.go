package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Kaosethi/telesalesautomation/internal/apportion"
	"github.com/Kaosethi/telesalesautomation/internal/db"
	"github.com/Kaosethi/telesalesautomation/internal/filters"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/output"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

// Postgres persists destinations, published rows, and reads the
// operator-maintained configuration tables.
type Postgres struct {
	pool   *db.Pool
	prefix string
}

// NewPostgres wraps an established pool. prefix is the month-file title
// prefix (e.g. "CBTH").
func NewPostgres(pool *db.Pool, prefix string) *Postgres {
	return &Postgres{pool: pool, prefix: prefix}
}

// MonthDestination finds the month row for (tier, month) or creates it.
func (s *Postgres) MonthDestination(ctx context.Context, tier string, month time.Time) (Destination, error) {
	monthKey := lead.MonthKey(month)
	title := fmt.Sprintf("%s-%s - %s", s.prefix, tier, monthKey)

	var d Destination
	err := s.pool.QueryRow(ctx, "month_destination", tier, monthKey).Scan(&d.ID, &d.Title, &d.URL)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Destination{}, fmt.Errorf("lookup destination %s/%s: %w", tier, monthKey, err)
	}

	d = Destination{Title: title}
	if err := s.pool.QueryRow(ctx, "insert_destination", tier, monthKey, title, "").Scan(&d.ID); err != nil {
		return Destination{}, fmt.Errorf("create destination %s/%s: %w", tier, monthKey, err)
	}
	return d, nil
}

// Compiled returns all rows published under a destination this month.
func (s *Postgres) Compiled(ctx context.Context, dest Destination) ([]filters.HistoryRow, error) {
	rows, err := s.pool.Query(ctx, "compiled_rows", dest.ID)
	if err != nil {
		return nil, fmt.Errorf("query compiled rows: %w", err)
	}
	defer rows.Close()

	var out []filters.HistoryRow
	for rows.Next() {
		var (
			h   filters.HistoryRow
			src string
		)
		if err := rows.Scan(&h.Username, &h.Phone, &src, &h.AnswerStatus, &h.Result, &h.AssignDate); err != nil {
			return nil, fmt.Errorf("scan compiled row: %w", err)
		}
		h.Source = lead.Source(src)
		out = append(out, h)
	}
	return out, rows.Err()
}

// Blacklist returns the central blacklist.
func (s *Postgres) Blacklist(ctx context.Context) ([]filters.BlacklistRow, error) {
	rows, err := s.pool.Query(ctx, "blacklist")
	if err != nil {
		return nil, fmt.Errorf("query blacklist: %w", err)
	}
	defer rows.Close()

	var out []filters.BlacklistRow
	for rows.Next() {
		var (
			b   filters.BlacklistRow
			src string
		)
		if err := rows.Scan(&b.Username, &b.Phone, &src); err != nil {
			return nil, fmt.Errorf("scan blacklist row: %w", err)
		}
		b.Source = lead.Source(src)
		out = append(out, b)
	}
	return out, rows.Err()
}

// Callers returns the calling team in tab order.
func (s *Postgres) Callers(ctx context.Context) ([]Caller, error) {
	rows, err := s.pool.Query(ctx, "callers")
	if err != nil {
		return nil, fmt.Errorf("query callers: %w", err)
	}
	defer rows.Close()

	var out []Caller
	for rows.Next() {
		var c Caller
		if err := rows.Scan(&c.Name, &c.Available); err != nil {
			return nil, fmt.Errorf("scan caller: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MixWeights returns enabled, positive mix rows in tab order.
func (s *Postgres) MixWeights(ctx context.Context) (apportion.Mix, error) {
	rows, err := s.pool.Query(ctx, "mix_weights")
	if err != nil {
		return nil, fmt.Errorf("query mix weights: %w", err)
	}
	defer rows.Close()

	var mix apportion.Mix
	for rows.Next() {
		var (
			src     string
			enabled bool
			weight  float64
		)
		if err := rows.Scan(&src, &enabled, &weight); err != nil {
			return nil, fmt.Errorf("scan mix row: %w", err)
		}
		if enabled && weight > 0 {
			mix = append(mix, apportion.Weight{Key: lead.Source(src), Value: weight})
		}
	}
	return mix, rows.Err()
}

// WindowOverrides returns operator day-range overrides. Labels that don't
// match a known window are dropped here so the core never sees them.
func (s *Postgres) WindowOverrides(ctx context.Context) (window.Ranges, error) {
	rows, err := s.pool.Query(ctx, "window_overrides")
	if err != nil {
		return nil, fmt.Errorf("query window overrides: %w", err)
	}
	defer rows.Close()

	out := window.Ranges{}
	for rows.Next() {
		var (
			label  string
			dayMin int
			dayMax *int
		)
		if err := rows.Scan(&label, &dayMin, &dayMax); err != nil {
			return nil, fmt.Errorf("scan window override: %w", err)
		}
		w := lead.Window(label)
		if w.Rank() >= len(lead.WindowPriority) {
			continue
		}
		r := window.Range{MinDays: dayMin}
		if dayMax != nil {
			r.MaxDays = *dayMax
		}
		out[w] = r
	}
	return out, rows.Err()
}

// Holidays returns the configured no-run dates.
func (s *Postgres) Holidays(ctx context.Context) ([]time.Time, error) {
	rows, err := s.pool.Query(ctx, "holidays")
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// PublishDay replaces the destination's rows for the tab and inserts the
// fresh batch, all in one transaction.
func (s *Postgres) PublishDay(ctx context.Context, dest Destination, tab string, table output.Table) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin publish: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "delete_day_rows", dest.ID, tab); err != nil {
		return fmt.Errorf("clear day rows: %w", err)
	}

	for i, row := range table.Rows {
		payload, err := json.Marshal(row.Cells)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i+1, err)
		}
		if _, err := tx.Exec(ctx, "insert_published",
			dest.ID, tab, i+1, row.Username, row.Phone, string(row.Source),
			row.AssignDate, payload); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit publish: %w", err)
	}
	return nil
}
