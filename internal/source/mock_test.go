package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

func fixedMock(seed int64, rows int) *Mock {
	m := NewMock(seed, rows)
	m.Now = func() time.Time {
		return time.Date(2026, time.August, 31, 9, 0, 0, 0, lead.AppLocation(""))
	}
	return m
}

func TestMockDeterministic(t *testing.T) {
	ctx := context.Background()
	ranges := window.Defaults()

	a, err := fixedMock(7, 15).Candidates(ctx, lead.SourcePC, lead.WindowHot, ranges)
	require.NoError(t, err)
	b, err := fixedMock(7, 15).Candidates(ctx, lead.SourcePC, lead.WindowHot, ranges)
	require.NoError(t, err)
	require.Equal(t, a, b)

	// Different seed, different data.
	c, err := fixedMock(8, 15).Candidates(ctx, lead.SourcePC, lead.WindowHot, ranges)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestMockRespectsWindowRanges(t *testing.T) {
	ctx := context.Background()
	ranges := window.Defaults()
	loc := lead.AppLocation("")
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, loc)

	for _, w := range lead.WindowPriority {
		b, err := fixedMock(1, 50).Candidates(ctx, lead.SourceMobile, w, ranges)
		require.NoError(t, err)
		require.Len(t, b, 50)

		for _, r := range b {
			days := r.InactiveDays(now, loc)
			require.True(t, ranges[w].Contains(days),
				"window %s produced %d inactive days", w, days)
		}
	}
}

func TestMockRowShape(t *testing.T) {
	b, err := fixedMock(1, 10).Candidates(context.Background(), lead.SourcePC, lead.WindowHot, window.Defaults())
	require.NoError(t, err)

	for _, r := range b {
		require.Equal(t, lead.SourcePC, r.Source)
		require.NotEmpty(t, r.Username)
		require.Len(t, r.Phone, 10)
		require.NotNil(t, r.LastLogin)
		require.NotNil(t, r.LastSeen)
		require.NotEmpty(t, r.Tier)
		require.NotEmpty(t, r.RewardTier)
		require.Positive(t, r.ArkGem)
	}
}

func TestMockDegenerateRanges(t *testing.T) {
	ctx := context.Background()
	loc := lead.AppLocation("")
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, loc)

	// Open window starting beyond the 40-day clamp.
	b, err := fixedMock(1, 5).Candidates(ctx, lead.SourcePC, lead.WindowHibernated,
		window.Ranges{lead.WindowHibernated: {MinDays: 60}})
	require.NoError(t, err)
	require.Len(t, b, 5)
	for _, r := range b {
		require.Equal(t, 60, r.InactiveDays(now, loc))
	}

	// Max below min collapses to a single day.
	b, err = fixedMock(1, 5).Candidates(ctx, lead.SourcePC, lead.WindowHot,
		window.Ranges{lead.WindowHot: {MinDays: 9, MaxDays: 4}})
	require.NoError(t, err)
	for _, r := range b {
		require.Equal(t, 9, r.InactiveDays(now, loc))
	}
}

func TestMockUnknownWindow(t *testing.T) {
	b, err := fixedMock(1, 10).Candidates(context.Background(), lead.SourcePC, lead.Window("mystery"), window.Defaults())
	require.NoError(t, err)
	require.Empty(t, b)
}
