// Package store is the boundary to external persistence: month-scoped
// publishing destinations, the compile history, and the operator-maintained
// configuration tabs (callers, mix weights, window overrides, holidays,
// blacklist).
//
// Incoming tables are normalized here — column aliases, spreadsheet number
// artifacts, loose booleans — so the core only ever sees canonical types.
package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Kaosethi/telesalesautomation/internal/apportion"
	"github.com/Kaosethi/telesalesautomation/internal/filters"
	"github.com/Kaosethi/telesalesautomation/internal/output"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

// Destination identifies one month file for a tier.
type Destination struct {
	ID    int64
	Title string // e.g. "CBTH-Non A - 08-2026"
	URL   string
}

// Caller is one calling-team member from the config tab.
type Caller struct {
	Name      string
	Available bool
}

// AvailableNames filters to the names marked available, trimmed.
func AvailableNames(callers []Caller) []string {
	out := make([]string, 0, len(callers))
	for _, c := range callers {
		if name := strings.TrimSpace(c.Name); c.Available && name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Store is the persistence collaborator consumed by the pipelines. "No
// data" conditions return empty values, not errors.
type Store interface {
	// MonthDestination finds or creates the month file for a tier label.
	MonthDestination(ctx context.Context, tier string, month time.Time) (Destination, error)

	// Compiled returns this month's already-published rows for a destination.
	Compiled(ctx context.Context, dest Destination) ([]filters.HistoryRow, error)

	// Blacklist returns the central blacklist.
	Blacklist(ctx context.Context) ([]filters.BlacklistRow, error)

	// Callers returns the calling team with availability flags.
	Callers(ctx context.Context) ([]Caller, error)

	// MixWeights returns the configured source mix, enabled rows only, in
	// tab order. Empty means "use the default split".
	MixWeights(ctx context.Context) (apportion.Mix, error)

	// WindowOverrides returns operator overrides for window day-ranges.
	// Empty means "use the defaults".
	WindowOverrides(ctx context.Context) (window.Ranges, error)

	// Holidays returns configured no-run dates.
	Holidays(ctx context.Context) ([]time.Time, error)

	// PublishDay writes a day tab and upserts the compile view: any rows
	// already published under the same tab are replaced.
	PublishDay(ctx context.Context, dest Destination, tab string, table output.Table) error
}

// ParseBool interprets the loose truthy vocabulary operators type into
// config tabs ("1", "1.0", "true", "t", "yes", "y", case-insensitive).
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "1.0", "true", "t", "yes", "y":
		return true
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return f != 0
	}
	return false
}
