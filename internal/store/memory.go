package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Kaosethi/telesalesautomation/internal/apportion"
	"github.com/Kaosethi/telesalesautomation/internal/filters"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/output"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

// Memory is an in-memory Store used for dry runs and tests. Reads serve
// whatever fixture data was set on the struct; publishes are recorded and
// logged but go nowhere.
type Memory struct {
	mu sync.Mutex

	CallerRows    []Caller
	Mix           apportion.Mix
	Overrides     window.Ranges
	HolidayDates  []time.Time
	BlacklistRows []filters.BlacklistRow
	History       map[string][]filters.HistoryRow // by tier label

	Published map[string]map[string]output.Table // destination title -> tab -> table
	nextID    int64
	dests     map[string]Destination
	tierByID  map[int64]string
	logger    *slog.Logger
}

// NewMemory returns an empty dry-run store.
func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		History:   make(map[string][]filters.HistoryRow),
		Published: make(map[string]map[string]output.Table),
		dests:     make(map[string]Destination),
		tierByID:  make(map[int64]string),
		logger:    logger,
	}
}

func (m *Memory) MonthDestination(_ context.Context, tier string, month time.Time) (Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := tier + "|" + lead.MonthKey(month)
	if d, ok := m.dests[key]; ok {
		return d, nil
	}
	m.nextID++
	d := Destination{ID: m.nextID, Title: "DRY-" + tier + " - " + lead.MonthKey(month)}
	m.dests[key] = d
	m.tierByID[d.ID] = tier
	return d, nil
}

func (m *Memory) Compiled(_ context.Context, dest Destination) ([]filters.HistoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.History[m.tierByID[dest.ID]], nil
}

func (m *Memory) Blacklist(context.Context) ([]filters.BlacklistRow, error) {
	return m.BlacklistRows, nil
}

func (m *Memory) Callers(context.Context) ([]Caller, error) {
	return m.CallerRows, nil
}

func (m *Memory) MixWeights(context.Context) (apportion.Mix, error) {
	return m.Mix, nil
}

func (m *Memory) WindowOverrides(context.Context) (window.Ranges, error) {
	return m.Overrides, nil
}

func (m *Memory) Holidays(context.Context) ([]time.Time, error) {
	return m.HolidayDates, nil
}

func (m *Memory) PublishDay(_ context.Context, dest Destination, tab string, table output.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Published[dest.Title] == nil {
		m.Published[dest.Title] = make(map[string]output.Table)
	}
	m.Published[dest.Title][tab] = table
	if m.logger != nil {
		m.logger.Info("Dry-run publish", "destination", dest.Title, "tab", tab, "rows", len(table.Rows))
	}
	return nil
}
