package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kaosethi/telesalesautomation/internal/filters"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/output"
)

func TestParseBool(t *testing.T) {
	truthy := []string{"1", "1.0", "true", "True", "TRUE", "t", "yes", "Y", " y ", "2", "0.5"}
	for _, v := range truthy {
		require.True(t, ParseBool(v), "value %q", v)
	}
	falsy := []string{"", "0", "0.0", "false", "no", "n", "maybe", "-"}
	for _, v := range falsy {
		require.False(t, ParseBool(v), "value %q", v)
	}
}

func TestAvailableNames(t *testing.T) {
	callers := []Caller{
		{Name: "Ann", Available: true},
		{Name: "  Bee ", Available: true},
		{Name: "Cho", Available: false},
		{Name: "   ", Available: true},
		{Name: "", Available: true},
	}
	require.Equal(t, []string{"Ann", "Bee"}, AvailableNames(callers))
	require.Empty(t, AvailableNames(nil))
}

func TestMemoryMonthDestinationFindOrCreate(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()
	month := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	d1, err := m.MonthDestination(ctx, "Non A", month)
	require.NoError(t, err)
	require.Contains(t, d1.Title, "08-2026")

	// Same tier+month returns the same destination.
	d2, err := m.MonthDestination(ctx, "Non A", month)
	require.NoError(t, err)
	require.Equal(t, d1.ID, d2.ID)

	// Different tier gets its own.
	d3, err := m.MonthDestination(ctx, "Tier A", month)
	require.NoError(t, err)
	require.NotEqual(t, d1.ID, d3.ID)
}

func TestMemoryCompiledByTier(t *testing.T) {
	m := NewMemory(nil)
	m.History["Non A"] = []filters.HistoryRow{
		{Username: "u1", Phone: "0811111111", Source: lead.SourcePC, AssignDate: "30-08-2026"},
	}
	ctx := context.Background()
	month := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	nonA, err := m.MonthDestination(ctx, "Non A", month)
	require.NoError(t, err)
	tierA, err := m.MonthDestination(ctx, "Tier A", month)
	require.NoError(t, err)

	rows, err := m.Compiled(ctx, nonA)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = m.Compiled(ctx, tierA)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestMemoryPublishDayReplacesTab(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()
	month := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	dest, err := m.MonthDestination(ctx, "Non A", month)
	require.NoError(t, err)

	first := output.Table{Headers: output.NonAHeaders, Rows: []output.Row{{Username: "u1"}}}
	require.NoError(t, m.PublishDay(ctx, dest, "31-08-2026", first))

	second := output.Table{Headers: output.NonAHeaders, Rows: []output.Row{{Username: "u2"}, {Username: "u3"}}}
	require.NoError(t, m.PublishDay(ctx, dest, "31-08-2026", second))

	got := m.Published[dest.Title]["31-08-2026"]
	require.Len(t, got.Rows, 2)
	require.Equal(t, "u2", got.Rows[0].Username)
}

func TestMemoryEmptyFixtures(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	mix, err := m.MixWeights(ctx)
	require.NoError(t, err)
	require.Empty(t, mix)

	overrides, err := m.WindowOverrides(ctx)
	require.NoError(t, err)
	require.Empty(t, overrides)

	holidays, err := m.Holidays(ctx)
	require.NoError(t, err)
	require.Empty(t, holidays)

	bl, err := m.Blacklist(ctx)
	require.NoError(t, err)
	require.Empty(t, bl)
}
